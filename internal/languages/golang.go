package languages

import (
	"github.com/jenian/envsensei/internal/syntax"
)

// goQuery finds os.Getenv("KEY") and os.LookupEnv("KEY")
const goQuery = `
[
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list . (interpreted_string_literal) @key)
  ) @expr
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list . (raw_string_literal) @key)
  ) @expr
]
`

var goReads = readQuery{
	query: goQuery,
	accept: func(doc *syntax.Document, m syntax.Match) bool {
		if m.Text(doc, "obj") != "os" {
			return false
		}
		switch m.Text(doc, "fn") {
		case "Getenv", "LookupEnv":
			return true
		}
		return false
	},
	name: func(doc *syntax.Document, m syntax.Match) string {
		return unquote(m.Text(doc, "key"))
	},
}
