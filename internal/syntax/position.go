package syntax

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Position is a zero-based line and a column in UTF-16 code units
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open source interval [Start, End)
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Key identifies the range exactly; two ranges are equal iff their keys are.
func (r Range) Key() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// String renders the start position one-based, the way compilers print it
func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start.Line+1, r.Start.Column+1)
}

// Span is a byte interval [Start, End) into the document source
type Span struct {
	Start uint `json:"start"`
	End   uint `json:"end"`
}

// SpanOf returns the byte span of n
func SpanOf(n *sitter.Node) Span {
	return Span{Start: n.StartByte(), End: n.EndByte()}
}

// RangeOf maps the node's tree-sitter points (byte columns) to editor positions.
func (d *Document) RangeOf(n *sitter.Node) Range {
	return Range{
		Start: d.position(n.StartByte(), n.StartPosition()),
		End:   d.position(n.EndByte(), n.EndPosition()),
	}
}

func (d *Document) position(offset uint, p sitter.Point) Position {
	if p.Column > offset || offset > uint(len(d.Source)) {
		return Position{Line: int(p.Row), Column: int(p.Column)}
	}
	lineStart := offset - p.Column
	return Position{Line: int(p.Row), Column: UTF16Len(string(d.Source[lineStart:offset]))}
}

// UTF16Len counts s in UTF-16 code units, the unit editors use for columns
// and string lengths.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
