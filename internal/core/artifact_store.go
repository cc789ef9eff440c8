package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// maxArtifactFileSize bounds how much of a CSV artifact Read will load (256 MB).
const maxArtifactFileSize = 256 << 20

// ListSeparator joins multi-valued fields (issues, changes, recommendations) inside one cell.
const ListSeparator = "; "

// Row is one artifact row keyed by column name.
type Row map[string]string

// ArtifactStore is the schema-tolerant tabular storage shared by all phases.
type ArtifactStore interface {
	// Read returns all rows of the artifact at path. A missing file yields an
	// empty slice and a logged warning. Missing cells read as "".
	Read(path string) []Row
	// ReadStrict is Read for callers that rewrite what they read. It returns
	// the same rows, plus a *ValidationError when any row was malformed and
	// had to be salvaged, or the load error when the file is unreadable.
	ReadStrict(path string) ([]Row, error)
	// Header returns the header row of the artifact, or nil if unreadable.
	Header(path string) []string
	// Write replaces the artifact atomically. The header is preferredFields
	// followed by any other keys found in rows, in first-seen order.
	Write(path string, preferredFields []string, rows []Row) bool
	// Append adds rows to the artifact, rewriting it under a unified header
	// when the existing header and the new effective header differ.
	Append(path string, preferredFields []string, rows []Row) bool
}

// Compile-time interface satisfaction check for CSVArtifactStore.
var _ ArtifactStore = (*CSVArtifactStore)(nil)

// CSVArtifactStore implements ArtifactStore over UTF-8, comma-delimited,
// "\n"-terminated CSV files.
type CSVArtifactStore struct {
	logger *slog.Logger
}

// NewArtifactStore creates a CSV artifact store. A nil logger uses slog.Default().
func NewArtifactStore(logger *slog.Logger) *CSVArtifactStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVArtifactStore{logger: logger}
}

// ArtifactFileName returns the canonical artifact filename for a phase output.
func ArtifactFileName(category types.Category, phase types.Phase) string {
	suffix := string(phase)
	if phase == types.PhaseRecommend {
		suffix = "recommendations"
	}
	return fmt.Sprintf("%s_%s.csv", category.Slug(), suffix)
}

// ArtifactPath joins dir with ArtifactFileName.
func ArtifactPath(dir string, category types.Category, phase types.Phase) string {
	return filepath.Join(dir, ArtifactFileName(category, phase))
}

// Read implements ArtifactStore.
func (s *CSVArtifactStore) Read(path string) []Row {
	_, rows, _, err := s.load(path)
	if err != nil {
		if IsNotFound(err) {
			s.logger.Warn("artifact not found", slog.String("path", path))
		} else {
			s.logger.Error("failed to read artifact", slog.String("path", path), slog.String("error", err.Error()))
		}
		return []Row{}
	}
	return rows
}

// ReadStrict implements ArtifactStore.
func (s *CSVArtifactStore) ReadStrict(path string) ([]Row, error) {
	_, rows, malformed, err := s.load(path)
	if err != nil {
		return nil, err
	}
	if malformed > 0 {
		return rows, &ValidationError{
			Artifact: filepath.Base(path),
			Field:    "*",
			Reason:   fmt.Sprintf("%d malformed row(s) salvaged", malformed),
		}
	}
	return rows, nil
}

// Header implements ArtifactStore.
func (s *CSVArtifactStore) Header(path string) []string {
	header, _, _, err := s.load(path)
	if err != nil {
		return nil
	}
	return header
}

// Write implements ArtifactStore.
func (s *CSVArtifactStore) Write(path string, preferredFields []string, rows []Row) bool {
	header := effectiveHeader(preferredFields, rows)
	content, err := encodeCSV(header, rows, true)
	if err != nil {
		s.logger.Error("failed to encode artifact", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	if err := writeFileAtomic(path, content, 0644); err != nil {
		s.logger.Error("failed to write artifact", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	s.logger.Debug("artifact written", slog.String("path", path), slog.Int("rows", len(rows)), slog.Int("columns", len(header)))
	return true
}

// Append implements ArtifactStore.
func (s *CSVArtifactStore) Append(path string, preferredFields []string, rows []Row) bool {
	existingHeader, existingRows, _, err := s.load(path)
	if err != nil {
		if IsNotFound(err) {
			return s.Write(path, preferredFields, rows)
		}
		s.logger.Error("failed to read artifact for append", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}

	newHeader := effectiveHeader(preferredFields, rows)
	if sameFieldSet(existingHeader, newHeader) {
		existing, err := os.ReadFile(path)
		if err != nil {
			s.logger.Error("failed to read artifact for append", slog.String("path", path), slog.String("error", err.Error()))
			return false
		}
		tail, err := encodeCSV(existingHeader, rows, false)
		if err != nil {
			s.logger.Error("failed to encode artifact rows", slog.String("path", path), slog.String("error", err.Error()))
			return false
		}
		if len(existing) > 0 && existing[len(existing)-1] != '\n' {
			existing = append(existing, '\n')
		}
		if err := writeFileAtomic(path, append(existing, tail...), 0644); err != nil {
			s.logger.Error("failed to append artifact", slog.String("path", path), slog.String("error", err.Error()))
			return false
		}
		return true
	}

	unified := mergeFields(existingHeader, newHeader)
	s.logger.Debug("artifact header changed, rewriting",
		slog.String("path", path), slog.Int("old_columns", len(existingHeader)), slog.Int("new_columns", len(unified)))
	all := make([]Row, 0, len(existingRows)+len(rows))
	all = append(all, existingRows...)
	all = append(all, rows...)
	return s.Write(path, unified, all)
}

// load parses the artifact at path into its header and normalized rows.
// Rows are parsed strictly one at a time. A row that fails to parse is
// salvaged from its physical line alone, so an unbalanced quote cannot
// swallow the rows after it. malformed counts the salvaged rows.
func (s *CSVArtifactStore) load(path string) (header []string, rows []Row, malformed int, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, 0, fmt.Errorf("%s: %w", path, ErrArtifactNotFound)
		}
		return nil, nil, 0, err
	}
	if info.Size() > maxArtifactFileSize {
		return nil, nil, 0, fmt.Errorf("%s exceeds maximum size (%d bytes > %d byte limit)", path, info.Size(), maxArtifactFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, 0, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	header, n, err := readRecordAt(data, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, []Row{}, 0, nil
		}
		return nil, nil, 0, fmt.Errorf("read header: %w", err)
	}

	rows = make([]Row, 0)
	line := bytes.Count(data[:n], []byte("\n")) + 1
	for offset := n; offset < len(data); {
		record, n, err := readRecordAt(data, offset)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			end := nextLine(data, offset)
			record = salvageRecord(data[offset:end])
			malformed++
			verr := &ValidationError{Artifact: filepath.Base(path), Row: line, Field: "*", Reason: err.Error()}
			s.logger.Warn("malformed artifact row salvaged", slog.String("error", verr.Error()))
			n = end - offset
		}
		if len(record) > len(header) {
			verr := &ValidationError{Artifact: filepath.Base(path), Row: line, Field: "*", Reason: "more cells than header columns"}
			s.logger.Debug("extra cells ignored", slog.String("error", verr.Error()))
		}
		rows = append(rows, normalizeRow(header, record))
		line += bytes.Count(data[offset:offset+n], []byte("\n"))
		offset += n
	}
	return header, rows, malformed, nil
}

// readRecordAt parses one strict CSV record starting at offset and reports
// how many bytes it consumed.
func readRecordAt(data []byte, offset int) ([]string, int, error) {
	reader := csv.NewReader(bytes.NewReader(data[offset:]))
	reader.FieldsPerRecord = -1
	record, err := reader.Read()
	if err != nil {
		return nil, 0, err
	}
	return record, int(reader.InputOffset()), nil
}

// nextLine returns the offset just past the physical line starting at offset.
func nextLine(data []byte, offset int) int {
	if i := bytes.IndexByte(data[offset:], '\n'); i >= 0 {
		return offset + i + 1
	}
	return len(data)
}

// salvageRecord reads whatever cells a single malformed line still yields.
// Cells it cannot recover are left empty by normalizeRow.
func salvageRecord(line []byte) []string {
	line = bytes.TrimRight(line, "\r\n")
	reader := csv.NewReader(bytes.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	record, err := reader.Read()
	if err != nil {
		return nil
	}
	return record
}

// normalizeRow maps cells onto header names, defaulting missing cells to "".
func normalizeRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, field := range header {
		if i < len(record) {
			row[field] = record[i]
		} else {
			row[field] = ""
		}
	}
	return row
}

// effectiveHeader is preferredFields plus keys seen in rows, in first-seen row
// order. Keys new to a single row are taken in sorted order so output is
// deterministic.
func effectiveHeader(preferredFields []string, rows []Row) []string {
	header := make([]string, 0, len(preferredFields))
	seen := make(map[string]bool, len(preferredFields))
	for _, f := range preferredFields {
		if !seen[f] {
			seen[f] = true
			header = append(header, f)
		}
	}
	for _, row := range rows {
		var extra []string
		for k := range row {
			if !seen[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			seen[k] = true
			header = append(header, k)
		}
	}
	return header
}

// mergeFields keeps base order and appends fields from next not already present.
func mergeFields(base, next []string) []string {
	merged := append([]string{}, base...)
	seen := make(map[string]bool, len(base))
	for _, f := range base {
		seen[f] = true
	}
	for _, f := range next {
		if !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	return merged
}

func sameFieldSet(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, f := range a {
		set[f] = true
	}
	other := make(map[string]bool, len(b))
	for _, f := range b {
		if !set[f] {
			return false
		}
		other[f] = true
	}
	return len(set) == len(other)
}

func encodeCSV(header []string, rows []Row, withHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = false
	if withHeader {
		if err := w.Write(header); err != nil {
			return nil, err
		}
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, field := range header {
			record[i] = row[field]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
