// markdown.go - String.to_html()/markdown_html(), grounded on
// builtin_markdown.go. Wires the teacher's goldmark dependency, which
// in the teacher's own tree is the only one of its four declared
// dependencies actually imported anywhere.
package stdlib

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vela-lang/vela/pkg/value"
)

// RegisterMarkdown attaches markdown_html() as a global and
// String.to_html() as an InstanceNative method on StringPrototype.
func RegisterMarkdown(env Globals) error {
	env.Define("markdown_html", value.NewNativeFunction(markdownHTML))

	return value.InstallOnPrototype(value.StringPrototype(), value.String("to_html"),
		value.NewInstanceNativeFunction(func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			return markdownHTML(state, append([]value.Value{receiver}, args...))
		}))
}

func markdownHTML(state value.Dispatcher, args []value.Value) (value.Value, error) {
	if len(args) == 0 || !args[0].IsString() {
		return value.Undefined(), fmt.Errorf("to_html()/markdown_html() requires a string")
	}

	opts := map[string]bool{"tables": true, "strikethrough": true, "footnotes": false, "tasklists": false}
	if len(args) > 1 && args[1].IsObject() {
		for _, key := range args[1].Obj.OwnKeys() {
			if !key.IsString() {
				continue
			}
			if _, ok := opts[key.Str]; !ok {
				continue
			}
			if field, found := args[1].Obj.OwnGet(key); found {
				opts[key.Str] = field.Truthy()
			}
		}
	}

	var extensions []goldmark.Extender
	if opts["tables"] {
		extensions = append(extensions, extension.Table)
	}
	if opts["strikethrough"] {
		extensions = append(extensions, extension.Strikethrough)
	}
	if opts["footnotes"] {
		extensions = append(extensions, extension.Footnote)
	}
	if opts["tasklists"] {
		extensions = append(extensions, extension.TaskList)
	}

	md := goldmark.New(goldmark.WithExtensions(extensions...))
	var buf bytes.Buffer
	if err := md.Convert([]byte(args[0].Str), &buf); err != nil {
		return value.Undefined(), fmt.Errorf("to_html()/markdown_html(): %w", err)
	}
	return value.String(buf.String()), nil
}
