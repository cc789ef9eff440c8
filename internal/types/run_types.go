package types

// RunConfig is the resolved configuration for one invocation. It is built
// once at startup and passed by value to every phase.
type RunConfig struct {
	TargetProfile string
	Categories    []Category
	DryRun        bool
	// MaxChanges of zero means "use the preset's safety budget".
	MaxChanges int
	// ConservativeMode and CreateBackups are nil when the preset decides.
	ConservativeMode *bool
	CreateBackups    *bool
	IncludePaths     []string
	ExcludePaths     []string
	UseSelection     bool

	RunID           string
	OutputRoot      string
	ManifestPath    string
	PresetOverrides string
	HistoryDB       string
	MetricsFile     string
	Parallel        int
}

// SummarySchemaVersion tags every persisted summary document.
const SummarySchemaVersion = "1.0"

// AuditStats is the audit-specific part of a category result.
type AuditStats struct {
	AssetsWithIssues int            `json:"assets_with_issues"`
	PriorityCounts   map[string]int `json:"priority_breakdown"`
	IssueCounts      map[string]int `json:"issue_types"`
	TotalSavings     string         `json:"total_estimated_savings"`
}

// RecommendStats is the recommend-specific part of a category result.
type RecommendStats struct {
	TotalRecommendations int            `json:"total_recommendations"`
	RiskCounts           map[string]int `json:"risk_breakdown"`
	PriorityCounts       map[string]int `json:"priority_breakdown"`
	TotalSavings         string         `json:"total_estimated_savings"`
}

// ApplyStats is the apply-specific part of a category result.
type ApplyStats struct {
	TotalProcessed      int            `json:"total_processed"`
	Successful          int            `json:"successful"`
	Skipped             int            `json:"skipped"`
	Errors              int            `json:"errors"`
	TotalChangesApplied int            `json:"total_changes_applied"`
	RiskCounts          map[string]int `json:"risk_breakdown"`
	TotalSavings        string         `json:"total_estimated_savings"`
	DryRun              bool           `json:"dry_run"`
	MaxChanges          int            `json:"max_changes"`
	BudgetExhausted     bool           `json:"budget_exhausted"`
	Unprocessed         int            `json:"unprocessed"`
}

// VerifyStats is the verify-specific part of a category result.
type VerifyStats struct {
	Verified            int `json:"verified"`
	Passed              int `json:"passed"`
	Failed              int `json:"failed"`
	Unverified          int `json:"unverified"`
	ConsistencyWarnings int `json:"consistency_warnings"`
}

// CategoryResult is the outcome of one phase for one category.
type CategoryResult struct {
	Phase        Phase    `json:"phase"`
	Category     Category `json:"category"`
	Scanned      int      `json:"scanned"`
	Changed      int      `json:"changed"`
	Skipped      int      `json:"skipped"`
	Errors       int      `json:"errors"`
	Success      bool     `json:"success"`
	Artifact     string   `json:"artifact,omitempty"`
	Message      string   `json:"message,omitempty"`
	StorageError string   `json:"storage_error,omitempty"`

	Audit     *AuditStats     `json:"audit,omitempty"`
	Recommend *RecommendStats `json:"recommend,omitempty"`
	Apply     *ApplyStats     `json:"apply,omitempty"`
	Verify    *VerifyStats    `json:"verify,omitempty"`
}

// PhaseOutcome is the roll-up block of a PhaseSummary.
type PhaseOutcome struct {
	Success              bool `json:"success"`
	TotalCategories      int  `json:"total_categories"`
	CategoriesWithErrors int  `json:"categories_with_errors"`
}

// PhaseSummary is persisted as <phase>_summary.json after every phase.
type PhaseSummary struct {
	SchemaVersion   string           `json:"schema_version"`
	Timestamp       string           `json:"timestamp"`
	RunID           string           `json:"run_id"`
	InvocationID    string           `json:"invocation_id"`
	Phase           Phase            `json:"phase"`
	Profile         string           `json:"profile"`
	Categories      []Category       `json:"categories"`
	Scanned         int              `json:"scanned"`
	Changed         int              `json:"changed"`
	Skipped         int              `json:"skipped"`
	Errors          int              `json:"errors"`
	OutputDir       string           `json:"output_dir"`
	CategoryResults []CategoryResult `json:"category_results"`
	Summary         PhaseOutcome     `json:"summary"`
}

// WorkflowTotals is the roll-up block of a WorkflowSummary.
type WorkflowTotals struct {
	TotalScanned int  `json:"total_scanned"`
	TotalChanged int  `json:"total_changed"`
	TotalErrors  int  `json:"total_errors"`
	Success      bool `json:"success"`
}

// WorkflowSummary is persisted as workflow_summary.json after a full run.
type WorkflowSummary struct {
	SchemaVersion string         `json:"schema_version"`
	Timestamp     string         `json:"timestamp"`
	RunID         string         `json:"run_id"`
	InvocationID  string         `json:"invocation_id"`
	Profile       string         `json:"profile"`
	Categories    []Category     `json:"categories"`
	Phases        []PhaseSummary `json:"phases"`
	Summary       WorkflowTotals `json:"summary"`
}

// HistoryEntry is one row of the run-history index.
type HistoryEntry struct {
	RunID        string `json:"run_id"`
	Phase        Phase  `json:"phase"`
	InvocationID string `json:"invocation_id"`
	Profile      string `json:"profile"`
	Timestamp    string `json:"timestamp"`
	Scanned      int    `json:"scanned"`
	Changed      int    `json:"changed"`
	Skipped      int    `json:"skipped"`
	Errors       int    `json:"errors"`
	Success      bool   `json:"success"`
	Digest       string `json:"digest"`
	SummaryPath  string `json:"summary_path"`
}
