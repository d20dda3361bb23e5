package languages

import (
	"github.com/jenian/envsensei/internal/syntax"
)

// javaQuery finds System.getenv("KEY") and System.getenv().get("KEY")
const javaQuery = `
[
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list . (string_literal) @key)
  ) @expr
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @inner
    )
    name: (identifier) @method
    arguments: (argument_list . (string_literal) @key)
  ) @expr
]
`

var javaReads = readQuery{
	query: javaQuery,
	accept: func(doc *syntax.Document, m syntax.Match) bool {
		if m.Text(doc, "obj") != "System" {
			return false
		}
		inner, method := m.Text(doc, "inner"), m.Text(doc, "method")
		if inner == "" {
			return method == "getenv"
		}
		return inner == "getenv" && method == "get"
	},
	name: func(doc *syntax.Document, m syntax.Match) string {
		return unquote(m.Text(doc, "key"))
	},
}
