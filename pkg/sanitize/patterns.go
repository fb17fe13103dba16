package sanitize

import "regexp"

// Pattern is a named suspicious-text rule.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// InjectionPatterns is the fixed, ordered rule set of the injection detector.
// Keywords are matched as whole words, so "Oregon" or "Selection" pass while
// any text containing "select" as a word does not.
var InjectionPatterns = []Pattern{
	{Name: "keyword", Re: regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|create|alter|truncate|exec|execute|union|declare|grant|revoke|merge)\b`)},
	{Name: "statement_syntax", Re: regexp.MustCompile(`(--|;|/\*|\*/|@@|\bxp_\w+)`)},
	{Name: "tautology", Re: regexp.MustCompile(`(?i)\b(or|and)\b\s+['"]?\w+['"]?\s*(=|<>|!=|like)\s*['"]?\w+`)},
	{Name: "quote_escape", Re: regexp.MustCompile(`(?i)(\\'|\\"|%27|%22|%23|\\x27|\\x22|'\s*(or|and|#)|"\s*(or|and|#))`)},
}

// MarkupPatterns flag script idioms that survive tag stripping.
var MarkupPatterns = []Pattern{
	{Name: "script_tag", Re: regexp.MustCompile(`(?i)<\s*/?\s*script`)},
	{Name: "javascript_uri", Re: regexp.MustCompile(`(?i)(java|vb)script\s*:`)},
	{Name: "event_handler", Re: regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)},
	{Name: "embed_tag", Re: regexp.MustCompile(`(?i)<\s*(iframe|object|embed|svg|img|link|meta)\b`)},
	{Name: "code_eval", Re: regexp.MustCompile(`(?i)\b(eval|expression)\s*\(`)},
	{Name: "data_uri", Re: regexp.MustCompile(`(?i)data\s*:\s*text/html`)},
}

// Match returns the name of the first pattern matching s.
func Match(patterns []Pattern, s string) (string, bool) {
	for _, p := range patterns {
		if p.Re.MatchString(s) {
			return p.Name, true
		}
	}
	return "", false
}

// Violation identifies the first leaf that matched a pattern.
type Violation struct {
	Path    string
	Pattern string
}

// FindInjection returns the first leaf of v matching any injection pattern.
func FindInjection(v any) (Violation, bool) {
	var hit string
	path, ok := FindString(v, func(s string) bool {
		name, matched := Match(InjectionPatterns, s)
		hit = name
		return matched
	})
	if !ok {
		return Violation{}, false
	}
	return Violation{Path: path, Pattern: hit}, true
}
