package domain

import (
	"regexp"
	"strconv"
	"time"
)

// followUpPattern matches a follow-up marker followed by an MM/DD fragment,
// with or without parentheses: "(AFU) 12/15", "ZFU 1/2", "(efu)3/04".
var followUpPattern = regexp.MustCompile(`(?i)\(?(AFU|ZFU|EFU)\)?\s*(\d{1,2})/(\d{1,2})`)

// Year-resolution tuning. Hold notes almost always reference a recent past
// contact, so past candidates get a head start over symmetric future ones.
const (
	followUpPastBiasDays  = 30
	followUpMaxFutureDays = 180
	followUpMaxPastDays   = 365
)

// ExtractFollowUpDate scans hold-reason text for marker-tagged MM/DD
// fragments and resolves the most plausible full date for each. When several
// fragments resolve, the latest resolved date wins. The second return value
// is false when no fragment yields a usable date.
//
// Year assignment is a best-effort heuristic, not a guarantee: it prefers
// the candidate year closest to the reference date with a bias toward the
// recent past, and drops candidates outside a one-year-back/six-months-ahead
// horizon.
func ExtractFollowUpDate(text string, reference time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	reference = DateOnly(reference)

	var best time.Time
	found := false
	for _, match := range followUpPattern.FindAllStringSubmatch(text, -1) {
		month, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		day, err := strconv.Atoi(match[3])
		if err != nil {
			continue
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}

		resolved, ok := resolveFollowUpYear(month, day, reference)
		if !ok {
			continue
		}
		if !found || resolved.After(best) {
			best = resolved
			found = true
		}
	}
	return best, found
}

// resolveFollowUpYear picks a year for a bare month/day by scoring candidate
// dates in the previous, current and next year. Lower scores win; ties keep
// the earliest-evaluated candidate (previous year first).
func resolveFollowUpYear(month, day int, reference time.Time) (time.Time, bool) {
	var best time.Time
	bestScore := 0
	found := false

	for offset := -1; offset <= 1; offset++ {
		candidate := Date(reference.Year()+offset, time.Month(month), day)
		if candidate.Day() != day || candidate.Month() != time.Month(month) {
			// time.Date normalized an impossible date such as Feb 30.
			continue
		}

		daysDiff := int(candidate.Sub(reference).Hours() / 24)
		if daysDiff > followUpMaxFutureDays || daysDiff < -followUpMaxPastDays {
			continue
		}

		var score int
		if daysDiff <= 0 {
			score = -daysDiff - followUpPastBiasDays
		} else {
			score = daysDiff
		}

		if !found || score < bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}
	return best, found
}
