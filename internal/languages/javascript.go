package languages

import (
	"github.com/jenian/envsensei/internal/syntax"
)

// jsQuery finds process.env.KEY and process.env["KEY"]. The same grammar
// node names cover javascript, typescript and tsx.
const jsQuery = `
[
  (member_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    property: (property_identifier) @key
  ) @expr
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    index: (string) @key
  ) @expr
]
`

var jsReads = readQuery{
	query: jsQuery,
	accept: func(doc *syntax.Document, m syntax.Match) bool {
		return m.Text(doc, "obj") == "process" && m.Text(doc, "prop") == "env"
	},
	name: func(doc *syntax.Document, m syntax.Match) string {
		key := m["key"]
		if key.Kind() == syntax.KindString {
			return syntax.StringValue(doc.Source, key)
		}
		return doc.Text(key)
	},
}
