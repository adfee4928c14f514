package lang

import (
	"testing"

	"github.com/vela-lang/vela/pkg/value"
)

func runScript(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	lexer := NewLexer(src)
	parser := NewParser(lexer.Tokenize())
	program, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	interp := New()
	return interp.Run(program)
}

func TestArithmeticAndPrecedence(t *testing.T) {
	t.Parallel()
	v, err := runScript(t, "1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 7 {
		t.Errorf("got %v, want 7", v.Num)
	}
}

func TestStringConcatenationCoercesNumbers(t *testing.T) {
	t.Parallel()
	v, err := runScript(t, `"count: " + 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Str != "count: 3" {
		t.Errorf("got %q, want %q", v.Str, "count: 3")
	}
}

func TestIfElseifElse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
	}{
		{"var n = 1", "one"},
		{"var n = 2", "two"},
		{"var n = 3", "other"},
	}
	for _, tt := range tests {
		src := tt.src + `
			if n == 1 then
				result = "one"
			elseif n == 2 then
				result = "two"
			else
				result = "other"
			end
			result
		`
		v, err := runScript(t, src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.src, err)
		}
		if v.Str != tt.want {
			t.Errorf("%s: got %q, want %q", tt.src, v.Str, tt.want)
		}
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	t.Parallel()
	src := `
		var i = 0
		var total = 0
		while i < 5 do
			total = total + i
			i = i + 1
		end
		total
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 10 {
		t.Errorf("got %v, want 10", v.Num)
	}
}

func TestNumericForLoop(t *testing.T) {
	t.Parallel()
	src := `
		var total = 0
		for i = 1, 4 do
			total = total + i
		end
		total
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 10 {
		t.Errorf("got %v, want 10", v.Num)
	}
}

func TestForInOverArray(t *testing.T) {
	t.Parallel()
	src := `
		var items = [10, 20, 30]
		var total = 0
		for item in items do
			total = total + item
		end
		total
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 60 {
		t.Errorf("got %v, want 60", v.Num)
	}
}

func TestObjectLiteralAndPropertyAccess(t *testing.T) {
	t.Parallel()
	src := `
		var point = {x: 3, y: 4}
		point.x + point.y
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 7 {
		t.Errorf("got %v, want 7", v.Num)
	}
}

func TestScriptMethodSugarBindsSelf(t *testing.T) {
	t.Parallel()
	src := `
		var counter = {
			n: 10,
			double: function()
				return self.n * 2
			end
		}
		counter.double()
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 20 {
		t.Errorf("got %v, want 20", v.Num)
	}
}

func TestPrototypeInheritanceViaProtoLiteral(t *testing.T) {
	t.Parallel()
	src := `
		var base = {greeting: "hi"}
		var child = {__proto__: base, name: "world"}
		child.greeting
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Str != "hi" {
		t.Errorf("got %q, want %q", v.Str, "hi")
	}
}

func TestLockedObjectRejectsNewFieldWrite(t *testing.T) {
	t.Parallel()
	src := `
		var obj = {a: 1}
		lock obj
		obj.b = 2
	`
	_, err := runScript(t, src)
	if err == nil {
		t.Fatal("expected an error writing a new field to a locked object")
	}
	if !value.IsCode(err, value.CodeObjectIsLocked) {
		t.Errorf("got %v, want CodeObjectIsLocked", err)
	}
}

func TestTryCatchRecoversRuntimeError(t *testing.T) {
	t.Parallel()
	src := `
		var result = "unset"
		try
			var arr = [1, 2]
			arr[10]
		catch (e)
			result = e.code
		end
		result
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Str != "IndexOutOfBounds" {
		t.Errorf("got %q, want %q", v.Str, "IndexOutOfBounds")
	}
}

func TestSliceExpression(t *testing.T) {
	t.Parallel()
	src := `
		var arr = [1, 2, 3, 4, 5]
		arr[1:3]
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsArray() || v.Arr.Len() != 3 || v.Arr.Elements[0].Num != 2 || v.Arr.Elements[1].Num != 3 || v.Arr.Elements[2].Num != 4 {
		t.Errorf("got %+v, want [2, 3, 4]", v)
	}
}

func TestInOperatorOnArrayAndObject(t *testing.T) {
	t.Parallel()
	src := `
		var arr = [1, 2, 3]
		var obj = {a: 1}
		var found = (2 in arr) and ("a" in obj)
		found
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsTrue() {
		t.Errorf("got %v, want true", v)
	}
}

func TestFunctionReturnAndRecursion(t *testing.T) {
	t.Parallel()
	src := `
		function fact(n)
			if n <= 1 then
				return 1
			end
			return n * fact(n - 1)
		end
		fact(5)
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 120 {
		t.Errorf("got %v, want 120", v.Num)
	}
}

func TestBreakAndContinueInLoop(t *testing.T) {
	t.Parallel()
	src := `
		var total = 0
		for i = 1, 10 do
			if i == 5 then
				break
			end
			if i % 2 == 0 then
				continue
			end
			total = total + i
		end
		total
	`
	v, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 4 {
		t.Errorf("got %v, want 4 (1 + 3)", v.Num)
	}
}
