package core

import (
	"context"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// CandidateFilter narrows the assets an inspector lists.
// Include and exclude entries are path prefixes or globs; an excluded path is
// never listed even when it also matches an include entry.
type CandidateFilter struct {
	Category      types.Category
	IncludePaths  []string
	ExcludePaths  []string
	SelectionOnly bool
}

// Matches reports whether assetPath passes the include/exclude patterns
// (prefixes or globs, see MatchesAssetPattern). Exclusion wins, and an empty
// include list admits every path.
func (f CandidateFilter) Matches(assetPath string) bool {
	if MatchesAnyAssetPattern(assetPath, f.ExcludePaths) {
		return false
	}
	return len(f.IncludePaths) == 0 || MatchesAnyAssetPattern(assetPath, f.IncludePaths)
}

// AssetInspector reads asset properties from the authoring host.
//
//go:generate mockgen -source=collaborators.go -destination=mock_collaborators_test.go -package=core
type AssetInspector interface {
	// ListCandidates returns asset paths in the filter's category.
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]string, error)

	// Snapshot returns the current properties of one asset. Properties the
	// host cannot read are left at their zero value.
	Snapshot(ctx context.Context, assetPath string) (types.AssetRecord, error)
}

// AssetMutator changes asset properties on the authoring host.
type AssetMutator interface {
	// Backup preserves the asset before mutation. false means no backup exists.
	Backup(ctx context.Context, assetPath string) (bool, error)

	// ApplyChange applies one "Field: old -> new" descriptor. An unknown field
	// returns false with a nil error.
	ApplyChange(ctx context.Context, assetPath, change string) (bool, error)
}
