// Package quiz implements the quiz session state machine: answer
// normalization and matching, answering-mode resolution, the per-question
// submission lifecycle, navigation gating, and final scoring.
package quiz

import "strings"

// Match reports whether a submitted answer matches the reference answer.
//
// An empty submission never matches, even against an empty reference.
// Exact equality matches. Otherwise both sides are compared after trimming
// outer whitespace and stripping at most one trailing "." or ",". The
// comparison is case-sensitive and nothing else is normalized; grading
// results must stay stable across releases, so do not widen this.
func Match(submitted, reference string) bool {
	if submitted == "" {
		return false
	}
	if submitted == reference {
		return true
	}
	return scrub(submitted) == scrub(reference)
}

// scrub trims outer whitespace, then strips one trailing period or comma.
// The two steps run in that order and exactly once each.
func scrub(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") {
		s = s[:len(s)-1]
	}
	return s
}
