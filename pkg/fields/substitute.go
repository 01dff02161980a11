package fields

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-nestedform/pkg/contract"
)

// Substitute replaces every "[<sentinel>]" token in content with "[<id>]".
// Text after a token is kept verbatim, whether it runs to the next whitespace
// character, to another token or to the end of content. The boolean reports
// whether anything was replaced.
func Substitute(content, sentinel, id string) (string, bool) {
	if sentinel == "" {
		return content, false
	}
	pattern := regexp.MustCompile(`\[` + regexp.QuoteMeta(sentinel) + `\]`)
	if !pattern.MatchString(content) {
		return content, false
	}
	replacement := "[" + strings.ReplaceAll(id, "$", "$$") + "]"
	return pattern.ReplaceAllString(content, replacement), true
}

// Instantiate substitutes the singular sentinel of assoc and, only when that
// pass replaced nothing, the plural one. Singular wins when both are present.
// Content without either sentinel is returned unchanged.
func Instantiate(content string, assoc Association, id string) (string, bool) {
	if out, ok := Substitute(content, contract.Sentinel(assoc.Singular), id); ok {
		return out, true
	}
	return Substitute(content, contract.Sentinel(assoc.Plural), id)
}
