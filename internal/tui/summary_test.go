package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

func TestFormatSavings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0MB", "0 B"},
		{"", "0 B"},
		{"garbage", "0 B"},
		{"3MB", "3.0 MiB"},
		{"192MB", "192 MiB"},
		{"2048MB", "2.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatSavings(tt.in); got != tt.want {
				t.Errorf("FormatSavings(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func sampleApplySummary(success bool) types.PhaseSummary {
	sum := types.PhaseSummary{
		RunID:   "run_20260301_093015",
		Phase:   types.PhaseApply,
		Profile: "PC_Balanced",
		Scanned: 1200, Changed: 3, Skipped: 1,
		CategoryResults: []types.CategoryResult{{
			Phase: types.PhaseApply, Category: types.CategoryTextures,
			Scanned: 1200, Changed: 3, Skipped: 1, Success: true,
			Apply: &types.ApplyStats{TotalChangesApplied: 5, MaxChanges: 5, DryRun: true, TotalSavings: "195MB", BudgetExhausted: true, Unprocessed: 2},
		}},
		Summary: types.PhaseOutcome{Success: true, TotalCategories: 1},
	}
	if !success {
		sum.CategoryResults = append(sum.CategoryResults, types.CategoryResult{
			Phase: types.PhaseApply, Category: "Sounds", Errors: 1, Message: "unknown category: Sounds",
		})
		sum.Errors = 1
		sum.Summary = types.PhaseOutcome{Success: false, TotalCategories: 2, CategoriesWithErrors: 1}
	}
	return sum
}

func TestRenderPhaseSummary(t *testing.T) {
	tests := []struct {
		name    string
		sum     types.PhaseSummary
		want    []string
		notWant []string
	}{
		{
			name: "dry run apply",
			sum:  sampleApplySummary(true),
			want: []string{
				"APPLY · run_20260301_093015 · PC_Balanced",
				"scanned 1,200  changed 3  skipped 1  errors 0  (ok)",
				"5 simulated (budget 5), est. savings 195 MiB",
				"change budget exhausted, 2 records not processed",
			},
		},
		{
			name: "failed category",
			sum:  sampleApplySummary(false),
			want: []string{"(1 of 2 categories failed)", "unknown category: Sounds"},
		},
		{
			name: "verify",
			sum: types.PhaseSummary{
				Phase: types.PhaseVerify,
				CategoryResults: []types.CategoryResult{{
					Category: types.CategoryTextures,
					Verify:   &types.VerifyStats{Passed: 2, Failed: 1, Unverified: 3, ConsistencyWarnings: 1},
				}},
				Summary: types.PhaseOutcome{Success: true, TotalCategories: 1},
			},
			want:    []string{"2 passed, 1 failed, 3 unverified, 1 consistency warnings"},
			notWant: []string{"storage:"},
		},
		{
			name: "audit with storage error",
			sum: types.PhaseSummary{
				Phase: types.PhaseAudit,
				CategoryResults: []types.CategoryResult{{
					Category:     types.CategoryTextures,
					Audit:        &types.AuditStats{AssetsWithIssues: 2, PriorityCounts: map[string]int{"Low": 1, "High": 1}, TotalSavings: "4MB"},
					StorageError: "write textures_audit.csv failed",
				}},
			},
			want: []string{"2 with issues (High 1, Low 1), est. savings 4.0 MiB", "storage: write textures_audit.csv failed"},
		},
		{
			name: "recommend without counts",
			sum: types.PhaseSummary{
				Phase:           types.PhaseRecommend,
				CategoryResults: []types.CategoryResult{{Category: types.CategoryTextures, Recommend: &types.RecommendStats{}}},
			},
			want: []string{"0 recommendations (risk none), est. savings 0 B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderPhaseSummary(tt.sum, false)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderPhaseSummary_Styled(t *testing.T) {
	out := RenderPhaseSummary(sampleApplySummary(true), true)
	if !strings.Contains(out, "PC_Balanced") || !strings.Contains(out, "budget 5") {
		t.Errorf("styled output lost content:\n%s", out)
	}
}

func TestRenderPresetList(t *testing.T) {
	presets := []types.PresetConfig{
		{Name: "PC_Ultra", Description: "High-end PC"},
		{Name: "PC_Balanced", Description: "Balanced PC"},
	}
	out := RenderPresetList(presets, "PC_Balanced")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  PC_Ultra") || !strings.HasPrefix(lines[1], "* PC_Balanced") {
		t.Errorf("default marker misplaced:\n%s", out)
	}
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := RenderHistory(nil, now); got != "No runs recorded.\n" {
		t.Errorf("empty history = %q", got)
	}

	out := RenderHistory([]types.HistoryEntry{
		{RunID: "run_2", Phase: types.PhaseVerify, Profile: "Mobile_Low", Timestamp: "2026-03-01T09:00:00Z", Scanned: 4, Success: true},
		{RunID: "run_1", Phase: types.PhaseAudit, Profile: "PC_Balanced", Timestamp: "not-a-time", Errors: 2},
	}, now)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "ok") || !strings.HasSuffix(lines[0], "3 hours ago") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "FAILED") || !strings.HasSuffix(lines[1], "not-a-time") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
