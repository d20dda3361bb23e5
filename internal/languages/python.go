package languages

import (
	"github.com/jenian/envsensei/internal/syntax"
)

// pythonQuery finds os.environ["KEY"], os.getenv("KEY") and os.environ.get("KEY")
const pythonQuery = `
[
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (string) @key
  ) @expr
  (call
    function: (attribute
      object: (identifier) @obj
      attribute: (identifier) @fn
    )
    arguments: (argument_list . (string) @key)
  ) @expr
  (call
    function: (attribute
      object: (attribute
        object: (identifier) @obj
        attribute: (identifier) @attr
      )
      attribute: (identifier) @fn
    )
    arguments: (argument_list . (string) @key)
  ) @expr
]
`

var pythonReads = readQuery{
	query: pythonQuery,
	accept: func(doc *syntax.Document, m syntax.Match) bool {
		if m.Text(doc, "obj") != "os" {
			return false
		}
		attr, fn := m.Text(doc, "attr"), m.Text(doc, "fn")
		switch {
		case attr == "environ" && fn == "":
			return true
		case attr == "" && fn == "getenv":
			return true
		case attr == "environ" && fn == "get":
			return true
		}
		return false
	},
	name: func(doc *syntax.Document, m syntax.Match) string {
		return pythonString(doc, m)
	},
}

// pythonString returns the content of a plain python string. Strings with
// interpolations have no static name.
func pythonString(doc *syntax.Document, m syntax.Match) string {
	key := m["key"]
	content := ""
	for i := uint(0); i < key.NamedChildCount(); i++ {
		c := key.NamedChild(i)
		switch c.Kind() {
		case "interpolation":
			return ""
		case "string_content":
			content += doc.Text(c)
		}
	}
	if content != "" {
		return content
	}
	return trimQuotes(doc.Text(key))
}
