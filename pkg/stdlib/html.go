// html.go - String.strip_tags(), new (the teacher declares
// golang.org/x/net but never imports it). Pairs with markdown.go's
// to_html(): markdown -> HTML -> plain text, all through Value/Object
// plumbing, per SPEC_FULL §4B.
package stdlib

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/vela-lang/vela/pkg/value"
)

// RegisterHTML attaches String.strip_tags() on StringPrototype.
func RegisterHTML() error {
	return value.InstallOnPrototype(value.StringPrototype(), value.String("strip_tags"),
		value.NewInstanceNativeFunction(func(state value.Dispatcher, receiver value.Value, args []value.Value) (value.Value, error) {
			if !receiver.IsString() {
				return value.Undefined(), fmt.Errorf("strip_tags() called on a non-string receiver")
			}
			text, err := stripTags(receiver.Str)
			if err != nil {
				return value.Undefined(), fmt.Errorf("strip_tags(): %w", err)
			}
			return value.String(text), nil
		}))
}

func stripTags(source string) (string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(source))
	var sb strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && err.Error() != "EOF" {
				return "", err
			}
			return strings.Join(strings.Fields(sb.String()), " "), nil
		case html.TextToken:
			sb.Write(tokenizer.Text())
			sb.WriteByte(' ')
		}
	}
}
