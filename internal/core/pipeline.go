package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// BackupDirName is the directory under the run directory holding asset backups.
const BackupDirName = "backups"

// PipelineOptions carries the collaborators of a Pipeline. History and
// Metrics are optional.
type PipelineOptions struct {
	Config    types.RunConfig
	Presets   PresetResolverInterface
	Audit     AuditServiceInterface
	Recommend RecommendServiceInterface
	Apply     ApplyServiceInterface
	Verify    VerifyServiceInterface
	Summaries *SummaryStore
	History   HistoryStoreInterface
	Metrics   *Metrics
	UI        UICallback
	Logger    *slog.Logger

	// InvocationID defaults to a random UUID.
	InvocationID string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs the audit, recommend, apply and verify phases over the
// configured categories and persists a summary after each phase.
type Pipeline struct {
	cfg          types.RunConfig
	preset       types.PresetConfig
	audit        AuditServiceInterface
	recommend    RecommendServiceInterface
	apply        ApplyServiceInterface
	verify       VerifyServiceInterface
	executor     *ParallelExecutor
	summaries    *SummaryStore
	history      HistoryStoreInterface
	metrics      *Metrics
	ui           UICallback
	logger       *slog.Logger
	invocationID string
	now          func() time.Time
}

// NewPipeline creates a pipeline from explicit collaborators. The target
// profile is resolved here once, so an unknown profile warns once per run.
func NewPipeline(o PipelineOptions) *Pipeline {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.UI == nil {
		o.UI = &SilentUICallback{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.InvocationID == "" {
		o.InvocationID = uuid.NewString()
	}
	return &Pipeline{
		cfg:          o.Config,
		preset:       o.Presets.Resolve(o.Config.TargetProfile),
		audit:        o.Audit,
		recommend:    o.Recommend,
		apply:        o.Apply,
		verify:       o.Verify,
		executor:     NewParallelExecutor(o.Config.Parallel),
		summaries:    o.Summaries,
		history:      o.History,
		metrics:      o.Metrics,
		ui:           o.UI,
		logger:       o.Logger,
		invocationID: o.InvocationID,
		now:          o.Now,
	}
}

// OpenPipeline wires the manifest-backed collaborators, the preset table and
// the history index for cfg. The caller must Close the pipeline.
func OpenPipeline(cfg types.RunConfig, ui UICallback, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	presets, err := LoadPresetResolver(cfg.PresetOverrides, logger)
	if err != nil {
		return nil, err
	}
	summaries, err := NewSummaryStore(logger)
	if err != nil {
		return nil, err
	}

	store := NewArtifactStore(logger)
	inspector := NewManifestInspector(store, cfg.ManifestPath, logger)
	mutator := NewManifestMutator(store, cfg.ManifestPath, filepath.Join(RunDir(cfg), BackupDirName), logger)
	metrics := NewMetrics()

	var history HistoryStoreInterface
	if cfg.HistoryDB != "" {
		h, err := OpenHistoryStore(cfg.HistoryDB)
		if err != nil {
			logger.Warn("run history disabled", slog.String("path", cfg.HistoryDB), slog.String("error", err.Error()))
		} else {
			history = h
		}
	}

	return NewPipeline(PipelineOptions{
		Config:    cfg,
		Presets:   presets,
		Audit:     NewAuditService(store, inspector, logger),
		Recommend: NewRecommendService(store, logger),
		Apply:     NewApplyService(store, mutator, metrics, logger),
		Verify:    NewVerifyService(store, inspector, logger),
		Summaries: summaries,
		History:   history,
		Metrics:   metrics,
		UI:        ui,
		Logger:    logger,
	}), nil
}

// Close releases the history index.
func (p *Pipeline) Close() error {
	if p.history == nil {
		return nil
	}
	return p.history.Close()
}

// Config returns the run configuration.
func (p *Pipeline) Config() types.RunConfig {
	return p.cfg
}

// InvocationID returns the id stamped on every summary of this process.
func (p *Pipeline) InvocationID() string {
	return p.invocationID
}

// RunPhase runs one phase over every configured category. Only setup
// failures (run directory, declined confirmation) return an error; category
// and record failures are reported in the summary.
func (p *Pipeline) RunPhase(ctx context.Context, phase types.Phase) (types.PhaseSummary, error) {
	if phase == types.PhaseApply {
		if err := p.confirmApply(); err != nil {
			return types.PhaseSummary{}, err
		}
	}
	return p.runPhase(ctx, phase)
}

// RunWorkflow runs all four phases in order and writes workflow_summary.json.
// Cancelling ctx stops the workflow at the next phase boundary.
func (p *Pipeline) RunWorkflow(ctx context.Context) (types.WorkflowSummary, error) {
	wf := types.WorkflowSummary{
		SchemaVersion: types.SummarySchemaVersion,
		RunID:         p.cfg.RunID,
		InvocationID:  p.invocationID,
		Profile:       p.profileName(),
		Categories:    p.categories(),
		Phases:        []types.PhaseSummary{},
	}
	if err := p.confirmApply(); err != nil {
		return wf, err
	}

	for _, phase := range types.Phases {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("workflow interrupted", slog.String("run_id", p.cfg.RunID), slog.String("before", string(phase)))
			p.finishWorkflow(&wf)
			return wf, err
		}
		sum, err := p.runPhase(ctx, phase)
		if err != nil {
			p.finishWorkflow(&wf)
			return wf, err
		}
		wf.Phases = append(wf.Phases, sum)
	}
	p.finishWorkflow(&wf)
	return wf, nil
}

func (p *Pipeline) finishWorkflow(wf *types.WorkflowSummary) {
	wf.Timestamp = p.timestamp()
	wf.Summary = types.WorkflowTotals{Success: len(wf.Phases) == len(types.Phases)}
	for _, ps := range wf.Phases {
		wf.Summary.TotalScanned += ps.Scanned
		wf.Summary.TotalChanged += ps.Changed
		wf.Summary.TotalErrors += ps.Errors
		if !ps.Summary.Success {
			wf.Summary.Success = false
		}
	}
	if p.summaries == nil {
		return
	}
	if _, _, err := p.summaries.WriteWorkflow(RunDir(p.cfg), *wf); err != nil {
		p.logger.Error("workflow summary not written", slog.String("run_id", p.cfg.RunID), slog.String("error", err.Error()))
		wf.Summary.Success = false
	}
}

func (p *Pipeline) confirmApply() error {
	if p.cfg.DryRun || p.ui.IsAutoApprove() {
		return nil
	}
	msg := fmt.Sprintf("Apply changes to assets in %s with profile %s?", p.cfg.ManifestPath, p.profileName())
	if !p.ui.AskConfirmation("Apply Changes", msg) {
		return ErrApplyNotConfirmed
	}
	return nil
}

func (p *Pipeline) runPhase(ctx context.Context, phase types.Phase) (types.PhaseSummary, error) {
	dir := RunDir(p.cfg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.PhaseSummary{}, fmt.Errorf("create run directory %s: %w", dir, err)
	}
	preset := p.preset
	categories := p.categories()

	p.logger.Info("phase started",
		slog.String("phase", string(phase)),
		slog.String("run_id", p.cfg.RunID),
		slog.String("profile", preset.Name),
		slog.Int("categories", len(categories)))

	tracker := p.ui.StartProgress(len(categories), p.ui.StyleTitle(string(phase)))
	results := p.executor.Execute(ctx, categories, func(ctx context.Context, c types.Category) types.CategoryResult {
		r := p.runCategory(ctx, phase, c, preset, dir)
		tracker.Increment(string(c))
		return r
	})
	tracker.Complete()

	sum := types.PhaseSummary{
		SchemaVersion:   types.SummarySchemaVersion,
		Timestamp:       p.timestamp(),
		RunID:           p.cfg.RunID,
		InvocationID:    p.invocationID,
		Phase:           phase,
		Profile:         preset.Name,
		Categories:      categories,
		OutputDir:       dir,
		CategoryResults: results,
		Summary:         types.PhaseOutcome{Success: true, TotalCategories: len(results)},
	}
	for _, r := range results {
		if p.metrics != nil {
			p.metrics.ObserveCategory(r)
		}
		sum.Scanned += r.Scanned
		sum.Changed += r.Changed
		sum.Skipped += r.Skipped
		sum.Errors += r.Errors
		if !r.Success {
			sum.Summary.Success = false
			sum.Summary.CategoriesWithErrors++
		}
	}

	p.persist(ctx, &sum)
	p.writeMetrics()

	p.logger.Info("phase complete",
		slog.String("phase", string(phase)),
		slog.String("run_id", p.cfg.RunID),
		slog.Int("scanned", sum.Scanned),
		slog.Int("changed", sum.Changed),
		slog.Int("skipped", sum.Skipped),
		slog.Int("errors", sum.Errors),
		slog.Bool("success", sum.Summary.Success))
	p.ui.ShowPhaseSummary(sum)
	return sum, nil
}

func (p *Pipeline) runCategory(ctx context.Context, phase types.Phase, c types.Category, preset types.PresetConfig, dir string) types.CategoryResult {
	if _, ok := types.ParseCategory(string(c)); !ok {
		p.logger.Warn("unknown category", slog.String("category", string(c)), slog.String("phase", string(phase)))
		return types.CategoryResult{
			Phase:    phase,
			Category: c,
			Errors:   1,
			Message:  fmt.Sprintf("%v: %s", ErrUnknownCategory, c),
		}
	}
	req := PhaseRequest{Category: c, Preset: preset, Config: p.cfg, OutputDir: dir}
	switch phase {
	case types.PhaseAudit:
		return p.audit.Run(ctx, req)
	case types.PhaseRecommend:
		return p.recommend.Run(ctx, req)
	case types.PhaseApply:
		return p.apply.Run(ctx, req)
	case types.PhaseVerify:
		return p.verify.Run(ctx, req)
	}
	return types.CategoryResult{Phase: phase, Category: c, Errors: 1, Message: "unknown phase " + string(phase)}
}

// persist writes the phase summary and indexes it. A failed write marks the
// phase unsuccessful but is not fatal.
func (p *Pipeline) persist(ctx context.Context, sum *types.PhaseSummary) {
	if p.summaries == nil {
		return
	}
	path, digest, err := p.summaries.WritePhase(sum.OutputDir, *sum)
	if err != nil {
		p.logger.Error("phase summary not written",
			slog.String("phase", string(sum.Phase)), slog.String("error", err.Error()))
		sum.Summary.Success = false
		return
	}
	if p.history == nil {
		return
	}
	entry := types.HistoryEntry{
		RunID:        sum.RunID,
		Phase:        sum.Phase,
		InvocationID: sum.InvocationID,
		Profile:      sum.Profile,
		Timestamp:    sum.Timestamp,
		Scanned:      sum.Scanned,
		Changed:      sum.Changed,
		Skipped:      sum.Skipped,
		Errors:       sum.Errors,
		Success:      sum.Summary.Success,
		Digest:       digest,
		SummaryPath:  path,
	}
	if err := p.history.Record(ctx, entry); err != nil {
		p.logger.Warn("run history not updated", slog.String("error", err.Error()))
	}
}

func (p *Pipeline) writeMetrics() {
	if p.metrics == nil || p.cfg.MetricsFile == "" {
		return
	}
	if err := p.metrics.WriteTextfile(p.cfg.MetricsFile); err != nil {
		p.logger.Warn("metrics not written", slog.String("error", err.Error()))
	}
}

func (p *Pipeline) categories() []types.Category {
	if len(p.cfg.Categories) == 0 {
		return []types.Category{types.CategoryTextures}
	}
	return p.cfg.Categories
}

func (p *Pipeline) profileName() string {
	return p.preset.Name
}

func (p *Pipeline) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}
