package detect

import (
	"fmt"

	"github.com/jenian/envsensei/internal/redact"
	"github.com/jenian/envsensei/internal/syntax"
)

// Category is the risk class of a detection
type Category string

const (
	CategorySecret Category = "secret"
	CategoryConfig Category = "config"
)

// Source names the heuristic that produced a detection
type Source string

const (
	SourceKeyBased     Source = "key-based"
	SourceHeaderBased  Source = "header-based"
	SourcePatternBased Source = "pattern-based"
	SourceConfigBased  Source = "config-based"
)

// Detection is one hardcoded literal flagged in a document. It keeps
// positions and names only, never the syntax node, so it outlives the parse.
//
// The literal's value is held for the extraction edit and is reachable only
// through RawValue. JSON encoding, String and GoString all omit it.
type Detection struct {
	Range              syntax.Range `json:"range"`
	Span               syntax.Span  `json:"span"`
	Message            string       `json:"message"`
	Category           Category     `json:"category"`
	Source             Source       `json:"source"`
	ProposedEnvVarName string       `json:"proposedEnvVarName"`
	IdentifierHint     string       `json:"identifierHint,omitempty"`
	ValueLength        int          `json:"valueLength"`
	JSXAttribute       bool         `json:"jsxAttribute,omitempty"`

	rawValue string
}

// RawValue returns the literal's decoded value. Callers must not display,
// log or persist it.
func (d Detection) RawValue() string {
	return d.rawValue
}

// RedactedValue is the display form of the value
func (d Detection) RedactedValue() string {
	return redact.Redact(d.rawValue)
}

func (d Detection) String() string {
	return fmt.Sprintf("%s %s %s %s %s", d.Range, d.Category, d.Source, d.ProposedEnvVarName, d.RedactedValue())
}

// GoString keeps %#v from printing the unexported value field
func (d Detection) GoString() string {
	return fmt.Sprintf("detect.Detection{Range:%q, Category:%q, Source:%q, ProposedEnvVarName:%q, Value:%q}",
		d.Range.Key(), d.Category, d.Source, d.ProposedEnvVarName, d.RedactedValue())
}
