package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"auto_sort_vimeo/internal/domain"
)

// Reason records why a classification decision came out the way it did.
type Reason string

const (
	ReasonWindowMatch       Reason = "window_match"
	ReasonKeywordMatch      Reason = "keyword_match"
	ReasonFallbackOffWindow Reason = "fallback_off_window"
	ReasonFallbackOffDay    Reason = "fallback_off_day"
	ReasonOffWindow         Reason = "off_window"
	ReasonNoRuleMatched     Reason = "no_rule_matched"
)

// Input is everything the classifier looks at. ResolvedAt must already
// be the timestamp picked by ResolveTimestamp.
type Input struct {
	Title           string
	ResolvedAt      time.Time
	DurationSeconds int
}

// Output is the classification decision. When Classified is false the
// category and title are empty; there is no partial result.
type Output struct {
	Classified  bool
	Category    domain.Category
	Title       string
	ServiceDate string
	Rule        string
	Reason      Reason
	RolledOver  bool
}

// Result converts a classified output to the shared result contract.
func (o Output) Result() domain.ClassificationResult {
	return domain.ClassificationResult{
		Category:       o.Category,
		CanonicalTitle: o.Title,
		ServiceDate:    o.ServiceDate,
	}
}

// datePrefix matches the prefix this system itself writes, so
// re-classifying an already-renamed video is not confused by its own
// prior output.
var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} - `)

// StripDatePrefix removes a leading "YYYY-MM-DD - " from a title.
func StripDatePrefix(title string) string {
	return datePrefix.ReplaceAllString(title, "")
}

// Classifier maps (title, timestamp) to a category and canonical title
// through an ordered rule set. It holds no mutable state.
type Classifier struct {
	cfg Config
}

// New builds a Classifier around an immutable config.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify runs the rule set against one video. First matching rule
// wins; within a rule the first containing window wins.
func (c *Classifier) Classify(in Input) Output {
	stripped := StripDatePrefix(in.Title)
	lower := strings.ToLower(stripped)

	ref := in.ResolvedAt.In(c.cfg.Location)

	out := Output{}
	if c.rolloverApplies(ref, lower) {
		ref = ref.AddDate(0, 0, -1)
		out.RolledOver = true
	}

	day := ref.Weekday()
	minutes := ref.Hour()*60 + ref.Minute()
	serviceDate := ref.Format("2006-01-02")
	out.ServiceDate = serviceDate

	for _, rule := range c.cfg.Rules {
		if !keywordsMatch(lower, rule.Keywords, rule.Exclude) {
			continue
		}
		out.Rule = rule.Name

		// Windowless rules classify at any time.
		if len(rule.Windows) == 0 {
			suffix := rule.Suffix
			if rule.TitleMode == TitleFromOriginal {
				suffix = stripped
			}
			out.Classified = true
			out.Category = rule.Category
			out.Title = canonicalTitle(serviceDate, suffix)
			out.Reason = ReasonKeywordMatch
			return out
		}

		windows, dayApplies := rule.Windows[day]
		for _, w := range windows {
			contained := w.Contains(minutes)
			if out.RolledOver {
				contained = w.ContainsSpill(minutes)
			}
			if contained {
				out.Classified = true
				out.Category = rule.Category
				out.Title = canonicalTitle(serviceDate, w.Suffix)
				out.Reason = ReasonWindowMatch
				return out
			}
		}

		// Keyword hit without a containing window: exceptional
		// bookings route to the fallback category when the rule and
		// policy allow it.
		if rule.FallbackOnMiss && c.cfg.Fallback.Enabled {
			out.Classified = true
			out.Category = c.cfg.Fallback.Category
			out.Title = canonicalTitle(serviceDate, c.cfg.Fallback.Suffix)
			if dayApplies {
				out.Reason = ReasonFallbackOffWindow
			} else {
				out.Reason = ReasonFallbackOffDay
			}
			return out
		}

		out.Reason = ReasonOffWindow
		return out
	}

	out.Reason = ReasonNoRuleMatched
	return out
}

func (c *Classifier) rolloverApplies(ref time.Time, lowerTitle string) bool {
	r := c.cfg.Rollover
	if !r.Enabled || ref.Weekday() != r.Day {
		return false
	}
	if ref.Hour()*60+ref.Minute() >= r.CutoffMinutes {
		return false
	}
	return containsAny(lowerTitle, r.Keywords)
}

func keywordsMatch(lowerTitle string, keywords, exclude []string) bool {
	if !containsAny(lowerTitle, keywords) {
		return false
	}
	return !containsAny(lowerTitle, exclude)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func canonicalTitle(serviceDate, suffix string) string {
	return fmt.Sprintf("%s - %s", serviceDate, suffix)
}
