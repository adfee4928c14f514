// console.go - print/input, grounded on builtin_console.go. No ambient
// logger is introduced (SPEC_FULL §4A); output goes straight to an
// injected io.Writer via fmt, matching the teacher's plain fmt.Println.
package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vela-lang/vela/pkg/value"
)

// RegisterConsole attaches print/input as globals in env.
func RegisterConsole(env Globals, out io.Writer, in io.Reader) {
	reader := bufio.NewReader(in)

	env.Define("print", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			s, err := a.Stringify()
			if err != nil {
				return value.Undefined(), err
			}
			parts[i] = s
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return value.Undefined(), nil
	}))

	env.Define("input", value.NewNativeFunction(func(state value.Dispatcher, args []value.Value) (value.Value, error) {
		if len(args) > 0 {
			prompt, err := args[0].Stringify()
			if err != nil {
				return value.Undefined(), err
			}
			fmt.Fprint(out, prompt)
		}
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return value.Undefined(), fmt.Errorf("input(): %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		return value.String(line), nil
	}))
}
