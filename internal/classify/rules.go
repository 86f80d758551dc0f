package classify

import (
	"time"

	"auto_sort_vimeo/internal/domain"
)

// TitleMode selects how a rule derives the canonical title suffix.
type TitleMode int

const (
	// TitleFromWindow takes the suffix from the matched window (or the
	// rule's Suffix for rules without windows).
	TitleFromWindow TitleMode = iota

	// TitleFromOriginal keeps the stripped original title as the suffix.
	TitleFromOriginal
)

// Rule is one ordered classification rule: a keyword predicate over the
// lowercased title, optional per-weekday time windows, and the
// resulting category and title. Rules are evaluated in slice order and
// the first rule whose keywords match owns the decision.
type Rule struct {
	Name     string
	Category domain.Category

	// Keywords match if any appears in the lowercased, prefix-stripped
	// title. Exclude vetoes a match even when a keyword hits.
	Keywords []string
	Exclude  []string

	// Windows constrains the rule per weekday. Windows are checked in
	// declared order and the first containing window wins. A rule with
	// no windows applies at any time.
	Windows map[time.Weekday][]Window

	// Suffix is the title suffix for windowless rules.
	Suffix string

	TitleMode TitleMode

	// FallbackOnMiss routes keyword-positive, window-negative hits to
	// the configured fallback category instead of leaving them
	// unclassified.
	FallbackOnMiss bool
}

// FallbackPolicy is applied when a rule's keyword is detected but no
// time window matches for the computed day. The assumption is that such
// hits are exceptional bookings (weddings, memorials) rather than
// noise; whether that holds is domain-specific, so the policy stays
// configurable.
type FallbackPolicy struct {
	Enabled  bool
	Category domain.Category
	Suffix   string
}

// RolloverPolicy reinterprets early-morning timestamps as the previous
// day's event, for services that legitimately finish archive
// processing after local midnight.
type RolloverPolicy struct {
	Enabled bool

	// Day is the observed weekday (the day after the late-running one).
	Day time.Weekday

	// CutoffMinutes is the early-morning boundary; timestamps at or
	// after it are left alone.
	CutoffMinutes int

	// Keywords gate the correction to titles of known late-running
	// categories.
	Keywords []string
}

// Config is the immutable rule set a Classifier is constructed with.
// Multiple configs can run side by side (e.g. test vs. production
// nomenclature) without shared state.
type Config struct {
	Location *time.Location
	Rules    []Rule
	Rollover RolloverPolicy
	Fallback FallbackPolicy
}

// DefaultConfig returns the production rule set. Order matters: the
// Root Class shares its Sunday window with the 9:30 worship service, so
// its more specific keywords are checked first.
func DefaultConfig(loc *time.Location) Config {
	return Config{
		Location: loc,
		Rules: []Rule{
			{
				Name:     "root-class",
				Category: domain.CategoryRootClass,
				Keywords: []string{"capture - piro hall", "the root class", "root"},
				Windows: map[time.Weekday][]Window{
					time.Monday: {
						NewWindow(19, 0, 21, 0, "The Root Class"),
					},
					time.Sunday: {
						NewWindow(10, 15, 11, 0, "0930 - The Root Class"),
					},
				},
			},
			{
				Name:     "worship",
				Category: domain.CategoryWorshipServices,
				Keywords: []string{"worship", "contemporary", "traditional"},
				Windows: map[time.Weekday][]Window{
					time.Saturday: {
						NewWindow(18, 15, 21, 0, "Worship Service - Traditional 5:30 PM").WithSpill(6, 0),
					},
					time.Sunday: {
						NewWindow(10, 15, 11, 0, "Worship Service - 9:30 AM"),
						NewWindow(11, 45, 13, 30, "Worship Service - 11:00 AM"),
					},
				},
				FallbackOnMiss: true,
			},
			{
				Name:     "memorial-wedding",
				Category: domain.CategoryWeddingsMemorials,
				Keywords: []string{"memorial", "wedding"},
				Suffix:   "Memorial or Wedding Service",
			},
			{
				Name:      "scotts-classes",
				Category:  domain.CategoryScottsClasses,
				Keywords:  []string{"scott", "class"},
				Exclude:   []string{"root"},
				TitleMode: TitleFromOriginal,
			},
		},
		Rollover: RolloverPolicy{
			Enabled:       true,
			Day:           time.Sunday,
			CutoffMinutes: 6 * 60,
			Keywords:      []string{"worship", "traditional"},
		},
		Fallback: FallbackPolicy{
			Enabled:  true,
			Category: domain.CategoryWeddingsMemorials,
			Suffix:   "Memorial or Wedding Service",
		},
	}
}
