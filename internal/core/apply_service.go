package core

import (
	"context"
	"log/slog"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// Skip reasons written to the apply artifact.
const (
	SkipConservative    = "High risk — conservative mode"
	SkipBackupFailed    = "Failed to create backup"
	SkipBackupsDisabled = "Backup required but backups are disabled"
	SkipNoChanges       = "No changes could be applied"
	SkipMutationFailed  = "Mutation failed"
)

// ApplyOptions is the effective apply policy for one run.
type ApplyOptions struct {
	DryRun           bool
	MaxChanges       int
	ConservativeMode bool
	CreateBackups    bool
}

// ResolveApplyOptions merges run configuration over the preset's safety
// policy. A zero MaxChanges and nil flags defer to the preset.
func ResolveApplyOptions(cfg types.RunConfig, preset types.PresetConfig) ApplyOptions {
	opts := ApplyOptions{
		DryRun:           cfg.DryRun,
		MaxChanges:       preset.Safety.MaxChanges,
		ConservativeMode: preset.Safety.ConservativeMode,
		CreateBackups:    preset.Safety.CreateBackups,
	}
	if cfg.MaxChanges > 0 {
		opts.MaxChanges = cfg.MaxChanges
	}
	if cfg.ConservativeMode != nil {
		opts.ConservativeMode = *cfg.ConservativeMode
	}
	if cfg.CreateBackups != nil {
		opts.CreateBackups = *cfg.CreateBackups
	}
	return opts
}

// ApplyPhaseResult is the in-memory outcome of Apply.
type ApplyPhaseResult struct {
	Records  []types.ApplyRecord
	Outcomes []RecordOutcome
	// TotalChanges counts every change the mutator made: changes_applied_count
	// over successful records plus partial_changes of records that failed
	// part-way. It is what the budget is charged against.
	TotalChanges int
	// BudgetExhausted is set when MaxChanges stopped or truncated processing.
	BudgetExhausted bool
	// Unprocessed counts input records never attempted. They are absent from Records.
	Unprocessed int
}

// Count returns how many outcomes have kind k.
func (r ApplyPhaseResult) Count(k OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// ApplyServiceInterface defines the contract for the apply phase.
type ApplyServiceInterface interface {
	// Apply processes recommendations in order under the change budget.
	Apply(ctx context.Context, records []types.RecommendationRecord, opts ApplyOptions) ApplyPhaseResult

	// Run reads the recommendations artifact, applies it and writes the apply
	// artifact. A missing recommendations artifact yields an empty result.
	Run(ctx context.Context, req PhaseRequest) types.CategoryResult
}

// Compile-time interface satisfaction check for ApplyService.
var _ ApplyServiceInterface = (*ApplyService)(nil)

// ApplyService implements the apply phase. Mutation is delegated to an
// AssetMutator; in dry-run mode the mutator is never called.
type ApplyService struct {
	store   ArtifactStore
	mutator AssetMutator
	metrics *Metrics
	logger  *slog.Logger
}

// NewApplyService creates an ApplyService. metrics may be nil.
func NewApplyService(store ArtifactStore, mutator AssetMutator, metrics *Metrics, logger *slog.Logger) *ApplyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplyService{store: store, mutator: mutator, metrics: metrics, logger: logger}
}

// Apply implements ApplyServiceInterface.
//
// The budget is checked before each record is committed: a record starts only
// while changes remain, and is truncated to the remaining budget. Changes cut
// by truncation are reported as deferred on that record.
func (s *ApplyService) Apply(ctx context.Context, records []types.RecommendationRecord, opts ApplyOptions) ApplyPhaseResult {
	var res ApplyPhaseResult
	for i, rec := range records {
		remaining := opts.MaxChanges - res.TotalChanges
		if remaining <= 0 {
			res.BudgetExhausted = true
			res.Unprocessed = len(records) - i
			s.logger.Info("change budget reached", slog.Int("max_changes", opts.MaxChanges), slog.Int("unprocessed", res.Unprocessed))
			break
		}
		if err := ctx.Err(); err != nil {
			res.Unprocessed = len(records) - i
			s.logger.Warn("apply cancelled", slog.String("error", err.Error()), slog.Int("unprocessed", res.Unprocessed))
			break
		}

		out, outcome := s.applyRecord(ctx, rec, opts, remaining)
		res.Records = append(res.Records, out)
		res.Outcomes = append(res.Outcomes, outcome)
		if outcome.Kind == OutcomeSuccess {
			res.TotalChanges += out.ChangesAppliedCount
		}
		res.TotalChanges += len(out.PartialChanges)
		if len(out.DeferredChanges) > 0 {
			res.BudgetExhausted = true
		}
	}
	return res
}

// applyRecord gates and applies one recommendation. remaining is the
// change budget left for this record.
func (s *ApplyService) applyRecord(ctx context.Context, rec types.RecommendationRecord, opts ApplyOptions, remaining int) (types.ApplyRecord, RecordOutcome) {
	out := types.ApplyRecord{
		AssetPath:        rec.Asset.AssetPath,
		AssetName:        rec.Asset.AssetName,
		Recommendations:  rec.Recommendations,
		ChangesRequested: rec.Changes,
		RiskLevel:        rec.RiskLevel,
		DryRun:           opts.DryRun,
	}
	log := s.logger.With(slog.String("asset", rec.Asset.AssetPath))

	if rec.RiskLevel == types.LevelHigh && opts.ConservativeMode {
		return skipRecord(out, SkipConservative)
	}

	if rec.ApplySafety == types.ApplySafetyWithBackup && !opts.DryRun {
		if !opts.CreateBackups {
			return skipRecord(out, SkipBackupsDisabled)
		}
		ok, err := s.mutator.Backup(ctx, rec.Asset.AssetPath)
		if err != nil {
			log.Warn("backup failed", slog.String("error", (&MutationError{AssetPath: rec.Asset.AssetPath, Op: "backup", Err: err}).Error()))
		}
		if err != nil || !ok {
			return skipRecord(out, SkipBackupFailed)
		}
	}

	attempt := rec.Changes
	if len(attempt) > remaining {
		out.DeferredChanges = append([]string{}, attempt[remaining:]...)
		attempt = attempt[:remaining]
		log.Info("record truncated by change budget", slog.Int("deferred", len(out.DeferredChanges)))
	}

	var applied []string
	for _, change := range attempt {
		if opts.DryRun {
			applied = append(applied, DryRunPrefix+change)
			continue
		}
		if ClassifyChange(change) == ChangeUnknown {
			log.Warn("unknown change type", slog.String("change", change))
			continue
		}
		ok, err := s.mutator.ApplyChange(ctx, rec.Asset.AssetPath, change)
		if err != nil {
			merr := &MutationError{AssetPath: rec.Asset.AssetPath, Op: "apply " + change, Err: err}
			log.Error("mutation failed", slog.String("error", merr.Error()))
			out.SkipReason = SkipMutationFailed
			out.Error = merr.Error()
			out.DeferredChanges = nil
			if len(applied) > 0 {
				out.PartialChanges = applied
				log.Warn("record failed after partial changes", slog.Int("partial", len(applied)))
			}
			return out, failure(SkipMutationFailed, merr)
		}
		if !ok {
			log.Warn("change not applied", slog.String("change", change))
			continue
		}
		applied = append(applied, change)
		if s.metrics != nil {
			s.metrics.ChangeApplied(ClassifyChange(change).Field())
		}
	}

	if len(applied) == 0 {
		out.DeferredChanges = nil
		return skipRecord(out, SkipNoChanges)
	}
	out.ChangesApplied = applied
	out.ChangesAppliedCount = len(applied)
	out.EstimatedSavings = rec.EstimatedSavings
	if len(out.DeferredChanges) > 0 {
		out.EstimatedSavings = rec.EstimatedSavings * types.MemorySavings(len(applied)) / types.MemorySavings(len(rec.Changes))
	}
	out.Success = true
	return out, success()
}

func skipRecord(out types.ApplyRecord, reason string) (types.ApplyRecord, RecordOutcome) {
	out.Success = false
	out.SkipReason = reason
	out.ChangesApplied = nil
	out.ChangesAppliedCount = 0
	return out, skip(reason)
}

// Run implements ApplyServiceInterface.
func (s *ApplyService) Run(ctx context.Context, req PhaseRequest) types.CategoryResult {
	if req.Category != types.CategoryTextures {
		return placeholderResult(types.PhaseApply, req.Category)
	}
	result := types.CategoryResult{Phase: types.PhaseApply, Category: req.Category, Success: true}
	opts := ResolveApplyOptions(req.Config, req.Preset)

	input := s.store.Read(req.artifact(types.PhaseRecommend))
	recs := make([]types.RecommendationRecord, 0, len(input))
	for _, row := range input {
		r := RecommendationRecordFromRow(row)
		if r.Asset.AssetPath == "" {
			s.logger.Warn("recommendation row without asset_path ignored", slog.String("category", string(req.Category)))
			continue
		}
		recs = append(recs, r)
	}
	result.Scanned = len(recs)

	res := s.Apply(ctx, recs, opts)
	result.Changed = res.Count(OutcomeSuccess)
	result.Skipped = res.Count(OutcomeSkip)
	result.Errors = res.Count(OutcomeError)

	rows := make([]Row, 0, len(res.Records))
	for _, r := range res.Records {
		rows = append(rows, ApplyRecordToRow(r))
	}
	path := req.artifact(types.PhaseApply)
	result.Artifact = path
	if !s.store.Write(path, ApplyFields, rows) {
		storageFailure(&result, path)
	}

	var savings types.MemorySavings
	for _, r := range res.Records {
		if r.Success {
			savings += r.EstimatedSavings
		}
	}
	result.Apply = &types.ApplyStats{
		TotalProcessed:      len(res.Records),
		Successful:          result.Changed,
		Skipped:             result.Skipped,
		Errors:              result.Errors,
		TotalChangesApplied: res.TotalChanges,
		RiskCounts:          levelCounts(res.Records, func(r types.ApplyRecord) types.Level { return r.RiskLevel }),
		TotalSavings:        savings.String(),
		DryRun:              opts.DryRun,
		MaxChanges:          opts.MaxChanges,
		BudgetExhausted:     res.BudgetExhausted,
		Unprocessed:         res.Unprocessed,
	}

	s.logger.Info("apply complete",
		slog.String("category", string(req.Category)), slog.Bool("dry_run", opts.DryRun),
		slog.Int("applied", result.Changed), slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.Errors), slog.Int("changes", res.TotalChanges))
	return result
}
