package analytics

import "strings"

// CategoryRule maps a request path to a category when any of its keywords
// occurs in the lower-cased path.
type CategoryRule struct {
	Category string
	Keywords []string
}

// Matches reports whether path contains one of the rule's keywords,
// ignoring case.
func (r CategoryRule) Matches(path string) bool {
	p := strings.ToLower(path)
	for _, kw := range r.Keywords {
		if strings.Contains(p, kw) {
			return true
		}
	}
	return false
}

// CategoryRules is evaluated top to bottom; the first matching rule wins.
// A path such as "/job/event/1" is therefore a Job Request.
var CategoryRules = []CategoryRule{
	{Category: CategoryJob, Keywords: []string{"/job"}},
	{Category: CategoryDemo, Keywords: []string{"/demo"}},
	{Category: CategoryEvent, Keywords: []string{"/event"}},
	{Category: CategoryAI, Keywords: []string{"/ai", "/virtualassistant"}},
	{Category: CategoryPrototype, Keywords: []string{"/prototype"}},
}

// Categories lists every category in rule priority order, Other last.
var Categories = []string{
	CategoryJob,
	CategoryDemo,
	CategoryEvent,
	CategoryAI,
	CategoryPrototype,
	CategoryOther,
}

// Classify returns the request category for path.
func Classify(path string) string {
	for _, rule := range CategoryRules {
		if rule.Matches(path) {
			return rule.Category
		}
	}
	return CategoryOther
}

// IsCategory reports whether s is one of the known categories.
func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// canonicalCategory maps s to a known category, ignoring case and
// surrounding space.
func canonicalCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}
