// interp.go - the tree-walking executor. It implements value.Dispatcher,
// so every metamethod call, __number/__string coercion and Call()
// invocation bottoms out here.
package lang

import (
	"fmt"
	"strings"

	"github.com/vela-lang/vela/pkg/value"
)

// scriptFunction is the opaque payload a value.NewScriptClosure carries;
// pkg/value never looks inside it.
type scriptFunction struct {
	Name   string
	Params []*Parameter
	Body   []Node
}

// control-flow signals. They satisfy error so they can be threaded
// through the same return path as real failures, and are unwrapped by
// the loop/function boundary that understands them.
type returnSignal struct{ Value value.Value }
type breakSignal struct{}
type continueSignal struct{}

func (r *returnSignal) Error() string  { return "return outside of a function" }
func (breakSignal) Error() string      { return "break outside of a loop" }
func (continueSignal) Error() string   { return "continue outside of a loop" }

// Interpreter walks the AST produced by Parser and is the concrete
// value.Dispatcher every Object in the tree is given via SetState.
type Interpreter struct {
	Global *Environment
}

func New() *Interpreter {
	return &Interpreter{Global: NewEnvironment()}
}

// Run executes a program's top-level statements in the global scope.
func (i *Interpreter) Run(prog *Program) (value.Value, error) {
	result := value.Undefined()
	for _, stmt := range prog.Statements {
		v, err := i.execStatement(stmt, i.Global)
		if err != nil {
			switch err.(type) {
			case *returnSignal:
				return v, nil
			default:
				return value.Undefined(), err
			}
		}
		result = v
	}
	return result, nil
}

// Call implements value.Dispatcher: invoke fn with no implicit self.
// This is the path every metamethod dispatch and __number/__string
// coercion in pkg/value goes through.
func (i *Interpreter) Call(fn value.Value, args []value.Value) (value.Value, error) {
	return i.callValue(fn, value.Undefined(), args)
}

func (i *Interpreter) callValue(fn, self value.Value, args []value.Value) (value.Value, error) {
	if !fn.IsFunction() {
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "value is not callable")
	}
	switch fn.Fn.Kind {
	case value.ClosureNative:
		return fn.Fn.Native(i, args)
	case value.ClosureInstanceNative:
		return fn.Fn.InstanceNative(i, self, args)
	case value.ClosureScript:
		return i.callScript(fn, self, args)
	default:
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "unknown closure kind")
	}
}

func (i *Interpreter) callScript(fn, self value.Value, args []value.Value) (value.Value, error) {
	sf, ok := fn.Fn.ScriptBody.(*scriptFunction)
	if !ok {
		return value.Undefined(), fmt.Errorf("malformed script closure")
	}
	defEnv, ok := fn.Fn.ScriptEnv.(*Environment)
	if !ok {
		return value.Undefined(), fmt.Errorf("malformed script closure environment")
	}

	callEnv := NewFunctionEnvironment(defEnv, self)
	callEnv.Define("self", self)
	for idx, param := range sf.Params {
		if idx < len(args) {
			callEnv.Define(param.Name, args[idx])
			continue
		}
		if param.Default != nil {
			v, err := i.evalExpr(param.Default, callEnv)
			if err != nil {
				return value.Undefined(), err
			}
			callEnv.Define(param.Name, v)
			continue
		}
		callEnv.Define(param.Name, value.Undefined())
	}

	result := value.Undefined()
	for _, stmt := range sf.Body {
		v, err := i.execStatement(stmt, callEnv)
		if err != nil {
			if rs, ok := err.(*returnSignal); ok {
				return rs.Value, nil
			}
			return value.Undefined(), err
		}
		result = v
	}
	_ = result
	return value.Undefined(), nil
}

func (i *Interpreter) execBlock(stmts []Node, env *Environment) (value.Value, error) {
	result := value.Undefined()
	for _, stmt := range stmts {
		v, err := i.execStatement(stmt, env)
		if err != nil {
			return value.Undefined(), err
		}
		result = v
	}
	return result, nil
}

func (i *Interpreter) execStatement(node Node, env *Environment) (value.Value, error) {
	switch n := node.(type) {
	case *ExprStatement:
		return i.evalExpr(n.Expr, env)

	case *IfStatement:
		return i.execIf(n, env)

	case *WhileStatement:
		return i.execWhile(n, env)

	case *ForStatement:
		return i.execFor(n, env)

	case *FunctionDef:
		fn := i.makeClosure(n.Name, n.Parameters, n.Body, env)
		env.Define(n.Name, fn)
		return fn, nil

	case *TryStatement:
		return i.execTry(n, env)

	case *ReturnStatement:
		v := value.Undefined()
		if n.Value != nil {
			var err error
			v, err = i.evalExpr(n.Value, env)
			if err != nil {
				return value.Undefined(), err
			}
		}
		return value.Undefined(), &returnSignal{Value: v}

	case *BreakStatement:
		return value.Undefined(), breakSignal{}

	case *ContinueStatement:
		return value.Undefined(), continueSignal{}

	case *LockStatement:
		v, err := i.evalExpr(n.Target, env)
		if err != nil {
			return value.Undefined(), err
		}
		if err := value.Lock(v); err != nil {
			return value.Undefined(), err
		}
		return v, nil

	case *AssignStatement:
		return i.execAssign(n, env)

	case *CompoundAssignStatement:
		return i.execCompoundAssign(n, env)

	case *PostIncrementStatement:
		return i.execPostIncrement(n, env)

	default:
		return i.evalExpr(node, env)
	}
}

func (i *Interpreter) execIf(n *IfStatement, env *Environment) (value.Value, error) {
	cond, err := i.evalExpr(n.Condition, env)
	if err != nil {
		return value.Undefined(), err
	}
	if cond.Truthy() {
		return i.execBlock(n.Then, NewChildEnvironment(env))
	}
	for _, clause := range n.Elseifs {
		cv, err := i.evalExpr(clause.Condition, env)
		if err != nil {
			return value.Undefined(), err
		}
		if cv.Truthy() {
			return i.execBlock(clause.Then, NewChildEnvironment(env))
		}
	}
	if n.Else != nil {
		return i.execBlock(n.Else, NewChildEnvironment(env))
	}
	return value.Undefined(), nil
}

func (i *Interpreter) execWhile(n *WhileStatement, env *Environment) (value.Value, error) {
	for {
		cond, err := i.evalExpr(n.Condition, env)
		if err != nil {
			return value.Undefined(), err
		}
		if !cond.Truthy() {
			break
		}
		_, err = i.execBlock(n.Body, NewChildEnvironment(env))
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return value.Undefined(), err
		}
	}
	return value.Undefined(), nil
}

func (i *Interpreter) execFor(n *ForStatement, env *Environment) (value.Value, error) {
	if n.IsNumeric {
		return i.execNumericFor(n, env)
	}
	return i.execIteratorFor(n, env)
}

func (i *Interpreter) execNumericFor(n *ForStatement, env *Environment) (value.Value, error) {
	startV, err := i.evalExpr(n.Start, env)
	if err != nil {
		return value.Undefined(), err
	}
	endV, err := i.evalExpr(n.End, env)
	if err != nil {
		return value.Undefined(), err
	}
	step := 1.0
	if n.Step != nil {
		stepV, err := i.evalExpr(n.Step, env)
		if err != nil {
			return value.Undefined(), err
		}
		if !stepV.IsNumber() {
			return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "for-loop step must be a number")
		}
		step = stepV.Num
	}
	if !startV.IsNumber() || !endV.IsNumber() {
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "for-loop bounds must be numbers")
	}
	if step == 0 {
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "for-loop step cannot be 0")
	}

	for cur := startV.Num; (step > 0 && cur <= endV.Num) || (step < 0 && cur >= endV.Num); cur += step {
		loopEnv := NewChildEnvironment(env)
		loopEnv.Define(n.Var, value.Number(cur))
		_, err := i.execBlock(n.Body, loopEnv)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return value.Undefined(), err
		}
	}
	return value.Undefined(), nil
}

func (i *Interpreter) execIteratorFor(n *ForStatement, env *Environment) (value.Value, error) {
	iterV, err := i.evalExpr(n.Iterator, env)
	if err != nil {
		return value.Undefined(), err
	}

	var items []value.Value
	switch {
	case iterV.IsArray():
		items = iterV.Arr.Elements
	case iterV.IsObject():
		for _, k := range iterV.Obj.OwnKeys() {
			items = append(items, k)
		}
	case iterV.IsString():
		for _, r := range iterV.Str {
			items = append(items, value.String(string(r)))
		}
	default:
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "cannot iterate a %s", iterV.Kind)
	}

	for _, item := range items {
		loopEnv := NewChildEnvironment(env)
		loopEnv.Define(n.Var, item)
		_, err := i.execBlock(n.Body, loopEnv)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return value.Undefined(), err
		}
	}
	return value.Undefined(), nil
}

func (i *Interpreter) execTry(n *TryStatement, env *Environment) (value.Value, error) {
	v, err := i.execBlock(n.Block, NewChildEnvironment(env))
	if err == nil {
		return v, nil
	}
	switch err.(type) {
	case *returnSignal, breakSignal, continueSignal:
		return value.Undefined(), err
	}

	catchEnv := NewChildEnvironment(env)
	catchEnv.Define(n.CatchVar, errorValue(err))
	return i.execBlock(n.CatchBlock, catchEnv)
}

// errorValue turns a Go error raised during execution into a script
// Value, so catch blocks can inspect it. RuntimeErrors surface their
// Code as a string field; anything else surfaces only a message.
func errorValue(err error) value.Value {
	obj := value.NewObject()
	if re, ok := err.(*value.RuntimeError); ok {
		value.Set(obj, value.String("code"), value.String(re.Code.String()))
	}
	value.Set(obj, value.String("message"), value.String(err.Error()))
	return obj
}

func (i *Interpreter) makeClosure(name string, params []*Parameter, body []Node, env *Environment) value.Value {
	return value.NewScriptClosure(&scriptFunction{Name: name, Params: params, Body: body}, env)
}

func (i *Interpreter) execAssign(n *AssignStatement, env *Environment) (value.Value, error) {
	v, err := i.evalExpr(n.Value, env)
	if err != nil {
		return value.Undefined(), err
	}
	if err := i.assignTo(n.Target, v, env, n.IsVarDeclaration); err != nil {
		return value.Undefined(), err
	}
	return v, nil
}

func (i *Interpreter) assignTo(target Node, v value.Value, env *Environment, declare bool) error {
	switch t := target.(type) {
	case *Identifier:
		if declare {
			env.Define(t.Name, v)
			return nil
		}
		return env.Set(t.Name, v)

	case *IndexExpr:
		obj, err := i.evalExpr(t.Object, env)
		if err != nil {
			return err
		}
		idx, err := i.evalExpr(t.Index, env)
		if err != nil {
			return err
		}
		return value.Set(obj, idx, v)

	case *PropertyAccess:
		obj, err := i.evalExpr(t.Object, env)
		if err != nil {
			return err
		}
		return value.Set(obj, value.String(t.Property), v)

	default:
		return fmt.Errorf("invalid assignment target")
	}
}

func (i *Interpreter) execCompoundAssign(n *CompoundAssignStatement, env *Environment) (value.Value, error) {
	cur, err := i.evalExpr(n.Target, env)
	if err != nil {
		return value.Undefined(), err
	}
	rhs, err := i.evalExpr(n.Value, env)
	if err != nil {
		return value.Undefined(), err
	}
	var op TokenType
	switch n.Operator {
	case TOK_PLUSASSIGN:
		op = TOK_PLUS
	case TOK_MINUSASSIGN:
		op = TOK_MINUS
	case TOK_STARASSIGN:
		op = TOK_STAR
	case TOK_SLASHASSIGN:
		op = TOK_SLASH
	case TOK_MODASSIGN:
		op = TOK_PERCENT
	}
	result, err := i.applyBinaryOp(op, cur, rhs)
	if err != nil {
		return value.Undefined(), err
	}
	if err := i.assignTo(n.Target, result, env, false); err != nil {
		return value.Undefined(), err
	}
	return result, nil
}

func (i *Interpreter) execPostIncrement(n *PostIncrementStatement, env *Environment) (value.Value, error) {
	cur, err := i.evalExpr(n.Target, env)
	if err != nil {
		return value.Undefined(), err
	}
	if !cur.IsNumber() {
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "++/-- requires a number")
	}
	delta := 1.0
	if n.Operator == TOK_DECREMENT {
		delta = -1.0
	}
	next := value.Number(cur.Num + delta)
	if err := i.assignTo(n.Target, next, env, false); err != nil {
		return value.Undefined(), err
	}
	return cur, nil
}

func (i *Interpreter) evalExpr(node Node, env *Environment) (value.Value, error) {
	switch n := node.(type) {
	case *NumberLiteral:
		return value.Number(n.Value), nil
	case *StringLiteral:
		return value.String(n.Value), nil
	case *BoolLiteral:
		return value.Bool(n.Value), nil
	case *NullLiteral:
		return value.Null(), nil
	case *UndefinedLiteral:
		return value.Undefined(), nil
	case *Identifier:
		return env.Get(n.Name)
	case *ArrayLiteral:
		return i.evalArrayLiteral(n, env)
	case *ObjectLiteral:
		return i.evalObjectLiteral(n, env)
	case *TemplateLiteral:
		return i.evalTemplateLiteral(n, env)
	case *FunctionExpr:
		return i.makeClosure("", n.Parameters, n.Body, env), nil
	case *BinaryExpr:
		return i.evalBinary(n, env)
	case *UnaryExpr:
		return i.evalUnary(n, env)
	case *TernaryExpr:
		cond, err := i.evalExpr(n.Condition, env)
		if err != nil {
			return value.Undefined(), err
		}
		if cond.Truthy() {
			return i.evalExpr(n.TrueExpr, env)
		}
		return i.evalExpr(n.FalseExpr, env)
	case *IndexExpr:
		obj, err := i.evalExpr(n.Object, env)
		if err != nil {
			return value.Undefined(), err
		}
		idx, err := i.evalExpr(n.Index, env)
		if err != nil {
			return value.Undefined(), err
		}
		return value.Get(obj, idx)
	case *SliceExpr:
		return i.evalSlice(n, env)
	case *PropertyAccess:
		obj, err := i.evalExpr(n.Object, env)
		if err != nil {
			return value.Undefined(), err
		}
		return value.Get(obj, value.String(n.Property))
	case *CallExpr:
		return i.evalCall(n, env)
	default:
		return value.Undefined(), fmt.Errorf("lang: cannot evaluate node %T", node)
	}
}

func (i *Interpreter) evalArrayLiteral(n *ArrayLiteral, env *Environment) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for idx, el := range n.Elements {
		v, err := i.evalExpr(el, env)
		if err != nil {
			return value.Undefined(), err
		}
		elems[idx] = v
	}
	return value.NewArray(elems), nil
}

func (i *Interpreter) evalObjectLiteral(n *ObjectLiteral, env *Environment) (value.Value, error) {
	obj := value.NewObject()
	obj.Obj.SetState(i)
	for _, pair := range n.Pairs {
		key := pair.Name
		if pair.Computed != nil {
			kv, err := i.evalExpr(pair.Computed, env)
			if err != nil {
				return value.Undefined(), err
			}
			s, err := kv.Stringify()
			if err != nil {
				return value.Undefined(), err
			}
			key = s
		}
		val, err := i.evalExpr(pair.Value, env)
		if err != nil {
			return value.Undefined(), err
		}
		if key == "__proto__" {
			if err := value.SetPrototype(obj, val); err != nil {
				return value.Undefined(), err
			}
			continue
		}
		obj.Obj.OwnSet(value.String(key), val)
	}
	return obj, nil
}

func (i *Interpreter) evalTemplateLiteral(n *TemplateLiteral, env *Environment) (value.Value, error) {
	var sb strings.Builder
	for _, part := range n.Parts {
		if tp, ok := part.(*TextPart); ok {
			sb.WriteString(tp.Value)
			continue
		}
		v, err := i.evalExpr(part, env)
		if err != nil {
			return value.Undefined(), err
		}
		s, err := v.Stringify()
		if err != nil {
			return value.Undefined(), err
		}
		sb.WriteString(s)
	}
	return value.String(sb.String()), nil
}

func (i *Interpreter) evalSlice(n *SliceExpr, env *Environment) (value.Value, error) {
	obj, err := i.evalExpr(n.Object, env)
	if err != nil {
		return value.Undefined(), err
	}
	start, err := i.evalOptional(n.Start, env)
	if err != nil {
		return value.Undefined(), err
	}
	end, err := i.evalOptional(n.End, env)
	if err != nil {
		return value.Undefined(), err
	}
	step, err := i.evalOptional(n.Step, env)
	if err != nil {
		return value.Undefined(), err
	}
	return value.Slice(obj, start, end, step)
}

func (i *Interpreter) evalOptional(n Node, env *Environment) (value.Value, error) {
	if n == nil {
		return value.Undefined(), nil
	}
	return i.evalExpr(n, env)
}

func (i *Interpreter) evalCall(n *CallExpr, env *Environment) (value.Value, error) {
	args := make([]value.Value, len(n.Arguments))
	for idx, a := range n.Arguments {
		v, err := i.evalExpr(a, env)
		if err != nil {
			return value.Undefined(), err
		}
		args[idx] = v
	}

	// Method-call sugar: recv.method(args). The receiver is threaded as
	// `self` for Script closures; Native/InstanceNative closures ignore
	// it since CheckWrapFunction already captured the receiver at the
	// point value.Get resolved the method (§4.5).
	if pa, ok := n.Func.(*PropertyAccess); ok {
		recv, err := i.evalExpr(pa.Object, env)
		if err != nil {
			return value.Undefined(), err
		}
		fn, err := value.Get(recv, value.String(pa.Property))
		if err != nil {
			return value.Undefined(), err
		}
		return i.callValue(fn, recv, args)
	}

	fn, err := i.evalExpr(n.Func, env)
	if err != nil {
		return value.Undefined(), err
	}
	return i.callValue(fn, value.Undefined(), args)
}

func (i *Interpreter) evalUnary(n *UnaryExpr, env *Environment) (value.Value, error) {
	v, err := i.evalExpr(n.Operand, env)
	if err != nil {
		return value.Undefined(), err
	}
	switch n.Op {
	case TOK_NOT:
		return value.Bool(!v.Truthy()), nil
	case TOK_MINUS:
		if !v.IsNumber() {
			return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "unary '-' requires a number, got %s", v.Kind)
		}
		return value.Number(-v.Num), nil
	default:
		return value.Undefined(), fmt.Errorf("lang: unsupported unary operator %v", n.Op)
	}
}

func (i *Interpreter) evalBinary(n *BinaryExpr, env *Environment) (value.Value, error) {
	// and/or short-circuit before evaluating the right operand.
	if n.Op == TOK_AND {
		left, err := i.evalExpr(n.Left, env)
		if err != nil {
			return value.Undefined(), err
		}
		if !left.Truthy() {
			return left, nil
		}
		return i.evalExpr(n.Right, env)
	}
	if n.Op == TOK_OR {
		left, err := i.evalExpr(n.Left, env)
		if err != nil {
			return value.Undefined(), err
		}
		if left.Truthy() {
			return left, nil
		}
		return i.evalExpr(n.Right, env)
	}

	left, err := i.evalExpr(n.Left, env)
	if err != nil {
		return value.Undefined(), err
	}
	right, err := i.evalExpr(n.Right, env)
	if err != nil {
		return value.Undefined(), err
	}
	return i.applyBinaryOp(n.Op, left, right)
}

func (i *Interpreter) applyBinaryOp(op TokenType, left, right value.Value) (value.Value, error) {
	switch op {
	case TOK_EQUAL:
		eq, err := value.Equals(left, right)
		return value.Bool(eq), err
	case TOK_NOTEQUAL:
		eq, err := value.Equals(left, right)
		return value.Bool(!eq), err
	case TOK_IN:
		ok, err := value.Contains(right, left)
		return value.Bool(ok), err
	case TOK_LT, TOK_GT, TOK_LTE, TOK_GTE:
		c, err := value.Compare(left, right)
		if err != nil {
			return value.Undefined(), err
		}
		switch op {
		case TOK_LT:
			return value.Bool(c < 0), nil
		case TOK_GT:
			return value.Bool(c > 0), nil
		case TOK_LTE:
			return value.Bool(c <= 0), nil
		default:
			return value.Bool(c >= 0), nil
		}
	case TOK_PLUS:
		if left.IsString() || right.IsString() {
			ls, err := left.Stringify()
			if err != nil {
				return value.Undefined(), err
			}
			rs, err := right.Stringify()
			if err != nil {
				return value.Undefined(), err
			}
			return value.String(ls + rs), nil
		}
		return i.numericOp(op, left, right)
	case TOK_MINUS, TOK_STAR, TOK_SLASH, TOK_PERCENT:
		return i.numericOp(op, left, right)
	default:
		return value.Undefined(), fmt.Errorf("lang: unsupported binary operator %v", op)
	}
}

func (i *Interpreter) numericOp(op TokenType, left, right value.Value) (value.Value, error) {
	if !left.IsNumber() || !right.IsNumber() {
		return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "operator %v requires numbers, got %s and %s", op, left.Kind, right.Kind)
	}
	switch op {
	case TOK_PLUS:
		return value.Number(left.Num + right.Num), nil
	case TOK_MINUS:
		return value.Number(left.Num - right.Num), nil
	case TOK_STAR:
		return value.Number(left.Num * right.Num), nil
	case TOK_SLASH:
		if right.Num == 0 {
			return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "division by zero")
		}
		return value.Number(left.Num / right.Num), nil
	case TOK_PERCENT:
		if right.Num == 0 {
			return value.Undefined(), value.NewRuntimeError(value.CodeCantUseOperatorOnTypes, "modulo by zero")
		}
		return value.Number(float64(int64(left.Num) % int64(right.Num))), nil
	default:
		return value.Undefined(), fmt.Errorf("lang: unsupported numeric operator %v", op)
	}
}
