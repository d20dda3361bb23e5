// Package remedy plans the source edits that move a hardcoded literal into
// an environment variable.
package remedy

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/jenian/envsensei/internal/detect"
	"github.com/jenian/envsensei/internal/syntax"
)

// Edit replaces the bytes in Span with Text
type Edit struct {
	Span syntax.Span
	Text string
}

// Replacement is the expression a detected literal is replaced with
func Replacement(name string, insertFallback bool) string {
	if insertFallback {
		return fmt.Sprintf(`process.env.%s ?? ""`, name)
	}
	return "process.env." + name
}

// Extraction returns the edit replacing d's literal with a process.env read.
// A JSX attribute value needs an expression container, so it is braced.
func Extraction(d detect.Detection, insertFallback bool) Edit {
	text := Replacement(d.ProposedEnvVarName, insertFallback)
	if d.JSXAttribute {
		text = "{" + text + "}"
	}
	return Edit{Span: d.Span, Text: text}
}

// Apply returns src with every edit applied. Edits are applied from the end
// of the file so earlier spans stay valid; overlapping edits are rejected.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Span.Start < sorted[j].Span.Start })

	for i, e := range sorted {
		if e.Span.Start > e.Span.End || e.Span.End > uint(len(src)) {
			return nil, fmt.Errorf("edit %d-%d is outside the source (%d bytes)", e.Span.Start, e.Span.End, len(src))
		}
		if i > 0 && e.Span.Start < sorted[i-1].Span.End {
			return nil, fmt.Errorf("edits %d-%d and %d-%d overlap",
				sorted[i-1].Span.Start, sorted[i-1].Span.End, e.Span.Start, e.Span.End)
		}
	}

	out := append([]byte(nil), src...)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		tail := append([]byte(e.Text), out[e.Span.End:]...)
		out = append(out[:e.Span.Start], tail...)
	}
	return out, nil
}

var tokenSplit = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SuggestIgnoreWord picks a word that, added to the ignore list, would
// silence d. Config values are public enough to mine for a URL host or a
// token; secret values are never used.
func SuggestIgnoreWord(d detect.Detection) (string, bool) {
	if d.Category == detect.CategoryConfig {
		if host, ok := hostOf(d.RawValue()); ok {
			return host, true
		}
	}
	if word, ok := firstToken(d.IdentifierHint); ok {
		return word, true
	}
	if d.Category == detect.CategoryConfig {
		return firstToken(d.RawValue())
	}
	return "", false
}

func hostOf(value string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(strings.TrimSpace(u.Hostname()))
	return host, host != ""
}

func firstToken(s string) (string, bool) {
	for _, part := range tokenSplit.Split(s, -1) {
		if len(part) >= 3 {
			return strings.ToLower(part), true
		}
	}
	return "", false
}
