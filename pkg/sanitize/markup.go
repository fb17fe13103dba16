package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag and attribute. Contents of script/style elements are dropped,
// everything else keeps its text.
var strict = bluemonday.StrictPolicy()

const maxMarkupPasses = 4

// StripMarkup returns s with all markup removed and entities decoded.
// Encoded markup such as "&lt;b&gt;" is decoded and stripped too.
func StripMarkup(s string) string {
	out := s
	for i := 0; i < maxMarkupPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(out))
		if next == out {
			return next
		}
		out = next
	}
	// did not settle, keep the escaped form so no tag can survive
	return strict.Sanitize(out)
}

// StripMarkupTree applies StripMarkup to every string leaf of v.
func StripMarkupTree(v any) any {
	return MapStrings(v, func(_ string, s string) string { return StripMarkup(s) })
}
