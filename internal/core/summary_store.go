package core

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Embedded schema files.
const (
	phaseSummarySchemaFile    = "schemas/phase_summary.schema.json"
	workflowSummarySchemaFile = "schemas/workflow_summary.schema.json"
)

// WorkflowSummaryFile is the run-level summary written by a full workflow.
const WorkflowSummaryFile = "workflow_summary.json"

// maxSummaryFileSize bounds summary documents read back from disk (16 MB).
const maxSummaryFileSize = 16 << 20

// PhaseSummaryFileName returns "<phase>_summary.json".
func PhaseSummaryFileName(phase types.Phase) string {
	return string(phase) + "_summary.json"
}

// SummaryStore validates and persists phase and workflow summaries.
type SummaryStore struct {
	phaseSchema    *jsonschema.Schema
	workflowSchema *jsonschema.Schema
	logger         *slog.Logger
}

// NewSummaryStore compiles the embedded summary schemas.
func NewSummaryStore(logger *slog.Logger) (*SummaryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	phaseSchema, err := compileEmbeddedSchema(phaseSummarySchemaFile)
	if err != nil {
		return nil, err
	}
	workflowSchema, err := compileEmbeddedSchema(workflowSummarySchemaFile)
	if err != nil {
		return nil, err
	}
	return &SummaryStore{phaseSchema: phaseSchema, workflowSchema: workflowSchema, logger: logger}, nil
}

func compileEmbeddedSchema(name string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	schema, err := jsonschema.NewCompiler().Compile(data)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// WritePhase validates sum and writes it to dir. It returns the written path
// and the canonical digest of the document.
func (s *SummaryStore) WritePhase(dir string, sum types.PhaseSummary) (string, string, error) {
	return s.write(filepath.Join(dir, PhaseSummaryFileName(sum.Phase)), sum, s.phaseSchema)
}

// WriteWorkflow validates sum and writes workflow_summary.json to dir.
func (s *SummaryStore) WriteWorkflow(dir string, sum types.WorkflowSummary) (string, string, error) {
	return s.write(filepath.Join(dir, WorkflowSummaryFile), sum, s.workflowSchema)
}

// LoadPhase reads a phase summary, validates it and returns its digest.
func (s *SummaryStore) LoadPhase(path string) (types.PhaseSummary, string, error) {
	var sum types.PhaseSummary
	data, err := readBounded(path, maxSummaryFileSize)
	if err != nil {
		return sum, "", err
	}
	if err := validateDocument(s.phaseSchema, filepath.Base(path), data); err != nil {
		return sum, "", err
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return sum, "", fmt.Errorf("decode %s: %w", path, err)
	}
	digest, err := DigestJSON(data)
	if err != nil {
		return sum, "", err
	}
	return sum, digest, nil
}

// LoadWorkflow reads and validates a workflow summary.
func (s *SummaryStore) LoadWorkflow(path string) (types.WorkflowSummary, error) {
	var sum types.WorkflowSummary
	data, err := readBounded(path, maxSummaryFileSize)
	if err != nil {
		return sum, err
	}
	if err := validateDocument(s.workflowSchema, filepath.Base(path), data); err != nil {
		return sum, err
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return sum, fmt.Errorf("decode %s: %w", path, err)
	}
	return sum, nil
}

func (s *SummaryStore) write(path string, doc any, schema *jsonschema.Schema) (string, string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := validateDocument(schema, filepath.Base(path), data); err != nil {
		return "", "", err
	}
	digest, err := DigestJSON(data)
	if err != nil {
		return "", "", err
	}
	if err := writeFileAtomic(path, append(data, '\n'), 0644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("summary written", slog.String("path", path), slog.String("digest", digest))
	return path, digest, nil
}

func validateDocument(schema *jsonschema.Schema, name string, data []byte) error {
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%s: %w: %v", name, ErrSummaryInvalid, result.Errors)
}

// DigestJSON canonicalizes JSON (RFC 8785) and returns its sha256 hex digest.
func DigestJSON(data []byte) (string, error) {
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonicalize json: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func readBounded(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrArtifactNotFound)
		}
		return nil, err
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%s exceeds maximum size (%d bytes > %d byte limit)", path, info.Size(), limit)
	}
	return os.ReadFile(path)
}
