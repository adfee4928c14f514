// ast.go - abstract syntax tree node definitions for the scripting
// language the interpreter in interp.go walks.
package lang

// Node is implemented by every AST node.
type Node interface {
	node()
}

type Program struct {
	Statements []Node
}

func (p *Program) node() {}

type IfStatement struct {
	Condition Node
	Then      []Node
	Elseifs   []*ElseifClause
	Else      []Node
}

type ElseifClause struct {
	Condition Node
	Then      []Node
}

func (s *IfStatement) node()  {}
func (s *ElseifClause) node() {}

type WhileStatement struct {
	Condition Node
	Body      []Node
}

func (s *WhileStatement) node() {}

// ForStatement covers both "for i = start, end, step do" numeric loops
// and "for item in iterable do" iterator loops, distinguished by
// IsNumeric.
type ForStatement struct {
	Var       string
	Start     Node
	End       Node
	Step      Node
	Iterator  Node
	Body      []Node
	IsNumeric bool
}

func (s *ForStatement) node() {}

type Parameter struct {
	Name    string
	Default Node
}

type FunctionDef struct {
	Name       string
	Parameters []*Parameter
	Body       []Node
}

func (s *FunctionDef) node() {}

type TryStatement struct {
	Block      []Node
	CatchVar   string
	CatchBlock []Node
}

func (s *TryStatement) node() {}

type ReturnStatement struct {
	Value Node
}

func (s *ReturnStatement) node() {}

type BreakStatement struct{}

func (s *BreakStatement) node() {}

type ContinueStatement struct{}

func (s *ContinueStatement) node() {}

type ExprStatement struct {
	Expr Node
}

func (s *ExprStatement) node() {}

// AssignStatement's Target is an Identifier, IndexExpr or
// PropertyAccess; the interpreter rejects any other target, including
// SliceExpr.
type AssignStatement struct {
	Target           Node
	Value            Node
	IsVarDeclaration bool
}

func (s *AssignStatement) node() {}

type CompoundAssignStatement struct {
	Target   Node
	Operator TokenType
	Value    Node
}

func (s *CompoundAssignStatement) node() {}

type PostIncrementStatement struct {
	Target   Node
	Operator TokenType
}

func (s *PostIncrementStatement) node() {}

// LockStatement calls value.Lock on the evaluated expression. `lock` is
// a statement keyword, not a global function; `lock(obj)` parses as the
// statement applied to a parenthesized expression.
type LockStatement struct {
	Target Node
}

func (s *LockStatement) node() {}

// Expressions

type BinaryExpr struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (e *BinaryExpr) node() {}

type TernaryExpr struct {
	Condition Node
	TrueExpr  Node
	FalseExpr Node
}

func (e *TernaryExpr) node() {}

type UnaryExpr struct {
	Op      TokenType
	Operand Node
}

func (e *UnaryExpr) node() {}

type CallExpr struct {
	Func      Node
	Arguments []Node
}

func (e *CallExpr) node() {}

type IndexExpr struct {
	Object Node
	Index  Node
}

func (e *IndexExpr) node() {}

// SliceExpr implements the `a[start:end:step]` operator (§4.7); a nil
// field means that component was omitted.
type SliceExpr struct {
	Object Node
	Start  Node
	End    Node
	Step   Node
}

func (e *SliceExpr) node() {}

// PropertyAccess is `object.name`; when it appears as a CallExpr.Func
// the interpreter treats it as method-call sugar, binding Object as the
// receiver passed through the Indexer before calling.
type PropertyAccess struct {
	Object   Node
	Property string
}

func (e *PropertyAccess) node() {}

type Identifier struct {
	Name string
}

func (e *Identifier) node() {}

type NumberLiteral struct {
	Value float64
}

func (l *NumberLiteral) node() {}

type StringLiteral struct {
	Value string
}

func (l *StringLiteral) node() {}

type BoolLiteral struct {
	Value bool
}

func (l *BoolLiteral) node() {}

type NullLiteral struct{}

func (l *NullLiteral) node() {}

type UndefinedLiteral struct{}

func (l *UndefinedLiteral) node() {}

type ArrayLiteral struct {
	Elements []Node
}

func (l *ArrayLiteral) node() {}

// ObjectPair is one `key: value` entry of an object literal. Computed is
// true for `[expr]: value` keys; otherwise Name holds the literal key
// (including the special "__proto__" key, handled by the interpreter as
// a SetPrototype call rather than a field write).
type ObjectPair struct {
	Name     string
	Computed Node
	Value    Node
}

type ObjectLiteral struct {
	Pairs []*ObjectPair
}

func (l *ObjectLiteral) node() {}

type TemplateLiteral struct {
	Parts []Node // alternating TextPart and expression nodes
}

func (l *TemplateLiteral) node() {}

type TextPart struct {
	Value string
}

func (t *TextPart) node() {}

type FunctionExpr struct {
	Parameters []*Parameter
	Body       []Node
}

func (e *FunctionExpr) node() {}
