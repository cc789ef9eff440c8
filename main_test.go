package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EmundoT/asset-optimizer/internal/core"
	"github.com/EmundoT/asset-optimizer/internal/types"
)

func TestParseCommonFlags(t *testing.T) {
	opts, positional, err := parseCommonFlags([]string{
		"apply", "--profile", "Mobile_Low", "--no-dry-run", "--max-changes", "50",
		"--category", "Textures", "--category", "Meshes", "--exclude", "/Game/Legacy",
		"--run-id", "latest", "--yes", "--json", "--no-conservative", "extra",
	})
	if err != nil {
		t.Fatalf("parseCommonFlags() error = %v", err)
	}

	if len(positional) != 2 || positional[0] != "apply" || positional[1] != "extra" {
		t.Errorf("positional = %v", positional)
	}
	o := opts.overrides
	if o.Profile == nil || *o.Profile != "Mobile_Low" {
		t.Errorf("profile = %v", o.Profile)
	}
	if o.DryRun == nil || *o.DryRun {
		t.Error("--no-dry-run not applied")
	}
	if o.Conservative == nil || *o.Conservative {
		t.Error("--no-conservative not applied")
	}
	if o.MaxChanges == nil || *o.MaxChanges != 50 {
		t.Errorf("max changes = %v", o.MaxChanges)
	}
	if strings.Join(o.Categories, ",") != "Textures,Meshes" {
		t.Errorf("categories = %v", o.Categories)
	}
	if len(o.ExcludePaths) != 1 || o.IncludePaths != nil {
		t.Errorf("include %v exclude %v", o.IncludePaths, o.ExcludePaths)
	}
	if o.RunID == nil || *o.RunID != core.LatestRunID {
		t.Errorf("run id = %v", o.RunID)
	}
	if !opts.flags.Yes || opts.flags.Mode != core.OutputJSON {
		t.Errorf("flags = %+v", opts.flags)
	}
	if opts.configPath != core.DefaultConfigFile || opts.limit != 20 {
		t.Errorf("defaults changed: config %q limit %d", opts.configPath, opts.limit)
	}
}

func TestParseCommonFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing value", []string{"audit", "--profile"}, "--profile requires a value"},
		{"not a number", []string{"history", "--limit", "ten"}, `--limit: "ten" is not a number`},
		{"unknown flag", []string{"run", "--turbo"}, "unknown flag --turbo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseCommonFlags(tt.args)
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseCommonFlags_OutputModes(t *testing.T) {
	opts, _, err := parseCommonFlags([]string{"-q", "-v", "--limit", "5", "--config", "ci.yml", "--force", "--selection", "--parallel", "3"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.flags.Mode != core.OutputQuiet || !opts.flags.Verbose {
		t.Errorf("flags = %+v", opts.flags)
	}
	if opts.limit != 5 || opts.configPath != "ci.yml" || !opts.force {
		t.Errorf("opts = %+v", opts)
	}
	if opts.overrides.UseSelection == nil || !*opts.overrides.UseSelection {
		t.Error("--selection not applied")
	}
	if opts.overrides.Parallel == nil || *opts.overrides.Parallel != 3 {
		t.Errorf("parallel = %v", opts.overrides.Parallel)
	}
}

type recordingUI struct {
	core.SilentUICallback
	phases []types.Phase
	errors []string
}

func (u *recordingUI) ShowPhaseSummary(s types.PhaseSummary) { u.phases = append(u.phases, s.Phase) }
func (u *recordingUI) ShowError(title, msg string)           { u.errors = append(u.errors, title+": "+msg) }

func TestRunSummaryCommand_Workflow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := core.NewSummaryStore(logger)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	phase := func(p types.Phase) types.PhaseSummary {
		return types.PhaseSummary{
			SchemaVersion: types.SummarySchemaVersion,
			Timestamp:     "2026-03-01T09:30:15Z",
			RunID:         "run_20260301_093015",
			InvocationID:  "3f1c0d62-1111-4c3a-9a1e-000000000000",
			Phase:         p,
			Profile:       core.DefaultPresetName,
			Categories:    []types.Category{types.CategoryTextures},
			OutputDir:     dir,
			Summary:       types.PhaseOutcome{Success: true, TotalCategories: 1},
		}
	}
	wf := types.WorkflowSummary{
		SchemaVersion: types.SummarySchemaVersion,
		Timestamp:     "2026-03-01T09:30:20Z",
		RunID:         "run_20260301_093015",
		Profile:       core.DefaultPresetName,
		Phases:        []types.PhaseSummary{phase(types.PhaseAudit), phase(types.PhaseVerify)},
		Summary:       types.WorkflowTotals{Success: true},
	}
	if _, _, err := store.WriteWorkflow(dir, wf); err != nil {
		t.Fatalf("WriteWorkflow() error = %v", err)
	}

	ui := &recordingUI{}
	if code := runSummaryCommand([]string{dir, "workflow"}, cliOptions{}, ui, logger); code != core.ExitSuccess {
		t.Fatalf("exit code = %d, errors %v", code, ui.errors)
	}
	if len(ui.phases) != 2 || ui.phases[0] != types.PhaseAudit || ui.phases[1] != types.PhaseVerify {
		t.Errorf("phases shown = %v", ui.phases)
	}

	missing := &recordingUI{}
	if code := runSummaryCommand([]string{filepath.Join(dir, "nope"), "workflow"}, cliOptions{}, missing, logger); code == core.ExitSuccess {
		t.Error("missing workflow summary should fail")
	}
	if len(missing.errors) != 1 {
		t.Errorf("errors = %v", missing.errors)
	}
}
