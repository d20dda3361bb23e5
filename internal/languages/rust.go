package languages

import (
	"github.com/jenian/envsensei/internal/syntax"
)

// rustQuery finds env::var("KEY"), env::var_os("KEY") and their std:: forms
const rustQuery = `
[
  (call_expression
    function: (scoped_identifier
      path: (identifier) @path
      name: (identifier) @fn
    )
    arguments: (arguments . (string_literal) @key)
  ) @expr
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier
        path: (identifier) @root
        name: (identifier) @path
      )
      name: (identifier) @fn
    )
    arguments: (arguments . (string_literal) @key)
  ) @expr
]
`

var rustReads = readQuery{
	query: rustQuery,
	accept: func(doc *syntax.Document, m syntax.Match) bool {
		if root := m.Text(doc, "root"); root != "" && root != "std" {
			return false
		}
		if m.Text(doc, "path") != "env" {
			return false
		}
		switch m.Text(doc, "fn") {
		case "var", "var_os":
			return true
		}
		return false
	},
	name: func(doc *syntax.Document, m syntax.Match) string {
		return unquote(m.Text(doc, "key"))
	},
}
