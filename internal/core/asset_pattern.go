package core

import (
	"path"
	"strings"
)

// MatchesAssetPattern reports whether assetPath is selected by pattern.
// Patterns without glob metacharacters are plain path prefixes
// ("/Game/Legacy"). Glob patterns follow gitignore rules:
//   - "*" matches any run of characters except "/"
//   - "?" matches one character except "/"
//   - "**" matches any number of path segments
//
// Examples:
//   - "/Game/Env/T_*_N" matches "/Game/Env/T_Wall_N" but not "/Game/Env/Rock/T_Rock_N"
//   - "/Game/**/T_*_N" matches both
//   - "/Game/UI/**" matches everything under /Game/UI
func MatchesAssetPattern(assetPath, pattern string) bool {
	if pattern == "" {
		return false
	}
	if !isGlob(pattern) {
		return strings.HasPrefix(assetPath, pattern)
	}
	return matchGlob(assetPath, pattern)
}

// MatchesAnyAssetPattern reports whether any pattern selects assetPath.
func MatchesAnyAssetPattern(assetPath string, patterns []string) bool {
	for _, p := range patterns {
		if MatchesAssetPattern(assetPath, p) {
			return true
		}
	}
	return false
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

func matchGlob(p, pattern string) bool {
	first := strings.Index(pattern, "**")
	if first < 0 {
		return matchSegment(p, pattern)
	}

	head := strings.TrimSuffix(pattern[:first], "/")
	rest := strings.TrimPrefix(pattern[first+2:], "/")

	remaining := p
	if head != "" {
		switch {
		case p == head:
			remaining = ""
		case strings.HasPrefix(p, head+"/"):
			remaining = p[len(head)+1:]
		default:
			// The head may itself contain single-segment globs.
			return matchGlobHead(p, head, rest)
		}
	}
	return matchTail(remaining, rest)
}

// matchGlobHead handles "**" patterns whose fixed part has wildcards by
// trying every segment boundary as the end of the head.
func matchGlobHead(p, head, rest string) bool {
	for i := 0; i < len(p); i++ {
		if p[i] != '/' {
			continue
		}
		if matchSegment(p[:i], head) {
			return matchTail(p[i+1:], rest)
		}
	}
	return false
}

// matchTail matches rest against remaining or any of its "/"-separated tails.
// An empty rest matches everything.
func matchTail(remaining, rest string) bool {
	if rest == "" {
		return true
	}
	if matchGlob(remaining, rest) {
		return true
	}
	for i := 0; i < len(remaining); i++ {
		if remaining[i] == '/' && matchGlob(remaining[i+1:], rest) {
			return true
		}
	}
	return false
}

// matchSegment is a single-level glob. Asset paths always use "/", so
// path.Match is used rather than the OS-specific filepath.Match.
func matchSegment(p, pattern string) bool {
	ok, _ := path.Match(pattern, p)
	return ok
}
