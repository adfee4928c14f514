// parser.go - recursive-descent parser turning a Lexer's token stream
// into the AST defined in ast.go.
package lang

import (
	"fmt"
	"strconv"
	"strings"
)

type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) pos_() Position {
	return Position{Line: p.current().Line, Column: p.current().Column}
}

func (p *Parser) parseError(msg string) error {
	return &ParseError{Message: msg, Pos: p.pos_()}
}

func (p *Parser) expect(typ TokenType) error {
	if p.current().Type != typ {
		return p.parseError(fmt.Sprintf("expected %v, got %v", typ, p.current().Type))
	}
	p.advance()
	return nil
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.current().Type == typ {
			return true
		}
	}
	return false
}

func (p *Parser) isCompoundAssign(typ TokenType) bool {
	switch typ {
	case TOK_PLUSASSIGN, TOK_MINUSASSIGN, TOK_STARASSIGN, TOK_SLASHASSIGN, TOK_MODASSIGN:
		return true
	default:
		return false
	}
}

func (p *Parser) Parse() (*Program, error) {
	stmts, err := p.parseBlock(nil)
	if err != nil {
		return nil, err
	}
	return &Program{Statements: stmts}, nil
}

func (p *Parser) parseBlock(terminators []TokenType) ([]Node, error) {
	var statements []Node
	for {
		if p.current().Type == TOK_EOF || p.match(terminators...) {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

func (p *Parser) parseStatement() (Node, error) {
	switch p.current().Type {
	case TOK_IF:
		return p.parseIfStatement()
	case TOK_WHILE:
		return p.parseWhileStatement()
	case TOK_FOR:
		return p.parseForStatement()
	case TOK_FUNCTION:
		return p.parseFunctionDef()
	case TOK_TRY:
		return p.parseTryStatement()
	case TOK_RETURN:
		return p.parseReturnStatement()
	case TOK_BREAK:
		p.advance()
		return &BreakStatement{}, nil
	case TOK_CONTINUE:
		p.advance()
		return &ContinueStatement{}, nil
	case TOK_VAR:
		return p.parseVarDeclaration()
	case TOK_LOCK:
		p.advance()
		target, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &LockStatement{Target: target}, nil
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.current().Type == TOK_ASSIGN {
			p.advance()
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &AssignStatement{Target: expr, Value: val}, nil
		}

		if p.isCompoundAssign(p.current().Type) {
			op := p.current().Type
			p.advance()
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &CompoundAssignStatement{Target: expr, Operator: op, Value: val}, nil
		}

		if p.current().Type == TOK_INCREMENT || p.current().Type == TOK_DECREMENT {
			op := p.current().Type
			p.advance()
			return &PostIncrementStatement{Target: expr, Operator: op}, nil
		}

		return &ExprStatement{Expr: expr}, nil
	}
}

func (p *Parser) parseIfStatement() (*IfStatement, error) {
	p.advance() // "if"
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_THEN); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock([]TokenType{TOK_ELSEIF, TOK_ELSE, TOK_END})
	if err != nil {
		return nil, err
	}
	stmt := &IfStatement{Condition: cond, Then: thenBlock}

	for p.current().Type == TOK_ELSEIF {
		p.advance()
		elifCond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOK_THEN); err != nil {
			return nil, err
		}
		elifBlock, err := p.parseBlock([]TokenType{TOK_ELSEIF, TOK_ELSE, TOK_END})
		if err != nil {
			return nil, err
		}
		stmt.Elseifs = append(stmt.Elseifs, &ElseifClause{Condition: elifCond, Then: elifBlock})
	}

	if p.current().Type == TOK_ELSE {
		p.advance()
		elseBlock, err := p.parseBlock([]TokenType{TOK_END})
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}

	if err := p.expect(TOK_END); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (*WhileStatement, error) {
	p.advance() // "while"
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_DO); err != nil {
		return nil, err
	}
	body, err := p.parseBlock([]TokenType{TOK_END})
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_END); err != nil {
		return nil, err
	}
	return &WhileStatement{Condition: cond, Body: body}, nil
}

func (p *Parser) parseForStatement() (*ForStatement, error) {
	p.advance() // "for"
	if p.current().Type == TOK_VAR {
		p.advance()
	}
	varName := p.current().Value
	if err := p.expect(TOK_IDENT); err != nil {
		return nil, err
	}
	stmt := &ForStatement{Var: varName}

	switch p.current().Type {
	case TOK_ASSIGN:
		p.advance()
		start, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOK_COMMA); err != nil {
			return nil, err
		}
		end, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Start, stmt.End, stmt.IsNumeric = start, end, true
		if p.current().Type == TOK_COMMA {
			p.advance()
			step, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Step = step
		}
	case TOK_IN:
		p.advance()
		iter, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Iterator = iter
	default:
		return nil, p.parseError("expected '=' or 'in' in for loop")
	}

	if err := p.expect(TOK_DO); err != nil {
		return nil, err
	}
	body, err := p.parseBlock([]TokenType{TOK_END})
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_END); err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseParams() ([]*Parameter, error) {
	if err := p.expect(TOK_LPAREN); err != nil {
		return nil, err
	}
	var params []*Parameter
	for p.current().Type == TOK_IDENT {
		name := p.current().Value
		p.advance()
		var def Node
		if p.current().Type == TOK_ASSIGN {
			p.advance()
			d, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			def = d
		}
		params = append(params, &Parameter{Name: name, Default: def})
		if p.current().Type == TOK_COMMA {
			p.advance()
		}
	}
	if err := p.expect(TOK_RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFunctionDef() (*FunctionDef, error) {
	p.advance() // "function"
	name := p.current().Value
	if err := p.expect(TOK_IDENT); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock([]TokenType{TOK_END})
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_END); err != nil {
		return nil, err
	}
	return &FunctionDef{Name: name, Parameters: params, Body: body}, nil
}

func (p *Parser) parseFunctionExpr() (*FunctionExpr, error) {
	p.advance() // "function"
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock([]TokenType{TOK_END})
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_END); err != nil {
		return nil, err
	}
	return &FunctionExpr{Parameters: params, Body: body}, nil
}

func (p *Parser) parseTryStatement() (*TryStatement, error) {
	p.advance() // "try"
	block, err := p.parseBlock([]TokenType{TOK_CATCH})
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_CATCH); err != nil {
		return nil, err
	}
	if err := p.expect(TOK_LPAREN); err != nil {
		return nil, err
	}
	catchVar := p.current().Value
	if err := p.expect(TOK_IDENT); err != nil {
		return nil, err
	}
	if err := p.expect(TOK_RPAREN); err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlock([]TokenType{TOK_END})
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_END); err != nil {
		return nil, err
	}
	return &TryStatement{Block: block, CatchVar: catchVar, CatchBlock: catchBlock}, nil
}

func (p *Parser) parseReturnStatement() (*ReturnStatement, error) {
	p.advance() // "return"
	var val Node
	if !p.match(TOK_END, TOK_EOF, TOK_ELSE, TOK_ELSEIF, TOK_CATCH) {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		val = v
	}
	return &ReturnStatement{Value: val}, nil
}

func (p *Parser) parseVarDeclaration() (*AssignStatement, error) {
	p.advance() // "var"
	if p.current().Type != TOK_IDENT {
		return nil, p.parseError("expected identifier after 'var'")
	}
	name := p.current().Value
	p.advance()
	if err := p.expect(TOK_ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &AssignStatement{Target: &Identifier{Name: name}, Value: val, IsVarDeclaration: true}, nil
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (Node, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type == TOK_QUESTION {
		p.advance()
		trueExpr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOK_COLON); err != nil {
			return nil, err
		}
		falseExpr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Condition: expr, TrueExpr: trueExpr, FalseExpr: falseExpr}, nil
	}
	return expr, nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TOK_OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TOK_OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TOK_AND {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TOK_AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Node, error) {
	left, err := p.parseIn()
	if err != nil {
		return nil, err
	}
	for p.match(TOK_EQUAL, TOK_NOTEQUAL) {
		op := p.current().Type
		p.advance()
		right, err := p.parseIn()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseIn handles the `needle in haystack` membership operator, one
// level tighter than equality, so `x == y in z` parses as
// `x == (y in z)`.
func (p *Parser) parseIn() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TOK_IN {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TOK_IN, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	for p.match(TOK_LT, TOK_GT, TOK_LTE, TOK_GTE) {
		op := p.current().Type
		p.advance()
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAddition() (Node, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for p.match(TOK_PLUS, TOK_MINUS) {
		op := p.current().Type
		p.advance()
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplication() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(TOK_STAR, TOK_SLASH, TOK_PERCENT) {
		op := p.current().Type
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.current().Type == TOK_NOT {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: TOK_NOT, Operand: operand}, nil
	}
	if p.current().Type == TOK_MINUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: TOK_MINUS, Operand: operand}, nil
	}
	if p.current().Type == TOK_INCREMENT || p.current().Type == TOK_DECREMENT {
		op := p.current().Type
		p.advance()
		operand, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Type {
		case TOK_LPAREN:
			expr, err = p.parseCall(expr)
		case TOK_LBRACKET:
			expr, err = p.parseIndexOrSlice(expr)
		case TOK_DOT:
			p.advance()
			name := p.current().Value
			if e := p.expect(TOK_IDENT); e != nil {
				return nil, e
			}
			expr = &PropertyAccess{Object: expr, Property: name}
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseCall(fn Node) (Node, error) {
	p.advance() // "("
	var args []Node
	for p.current().Type != TOK_RPAREN && p.current().Type != TOK_EOF {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current().Type == TOK_COMMA {
			p.advance()
		} else if p.current().Type != TOK_RPAREN {
			return nil, p.parseError("expected ',' or ')' in call arguments")
		}
	}
	if err := p.expect(TOK_RPAREN); err != nil {
		return nil, err
	}
	return &CallExpr{Func: fn, Arguments: args}, nil
}

// parseIndexOrSlice parses `obj[expr]` as IndexExpr, or
// `obj[start:end:step]` (any component optional) as SliceExpr.
func (p *Parser) parseIndexOrSlice(obj Node) (Node, error) {
	p.advance() // "["

	var start, end, step Node
	var err error
	sawColon := false

	if p.current().Type != TOK_COLON && p.current().Type != TOK_RBRACKET {
		start, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if p.current().Type == TOK_COLON {
		sawColon = true
		p.advance()
		if p.current().Type != TOK_COLON && p.current().Type != TOK_RBRACKET {
			end, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if p.current().Type == TOK_COLON {
			p.advance()
			if p.current().Type != TOK_RBRACKET {
				step, err = p.parseExpression()
				if err != nil {
					return nil, err
				}
			}
		}
	}

	if err := p.expect(TOK_RBRACKET); err != nil {
		return nil, err
	}

	if !sawColon {
		return &IndexExpr{Object: obj, Index: start}, nil
	}
	return &SliceExpr{Object: obj, Start: start, End: end, Step: step}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	switch p.current().Type {
	case TOK_FUNCTION:
		return p.parseFunctionExpr()

	case TOK_NUMBER:
		n, _ := strconv.ParseFloat(p.current().Value, 64)
		p.advance()
		return &NumberLiteral{Value: n}, nil

	case TOK_STRING:
		raw := p.current().Value
		p.advance()
		if strings.Contains(raw, "{{") {
			return p.parseTemplateString(raw)
		}
		return &StringLiteral{Value: UnescapeString(raw)}, nil

	case TOK_TRUE:
		p.advance()
		return &BoolLiteral{Value: true}, nil

	case TOK_FALSE:
		p.advance()
		return &BoolLiteral{Value: false}, nil

	case TOK_NULL:
		p.advance()
		return &NullLiteral{}, nil

	case TOK_UNDEFINED:
		p.advance()
		return &UndefinedLiteral{}, nil

	case TOK_IDENT:
		name := p.current().Value
		p.advance()
		return &Identifier{Name: name}, nil

	case TOK_LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOK_RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case TOK_LBRACKET:
		p.advance()
		var elems []Node
		for p.current().Type != TOK_RBRACKET && p.current().Type != TOK_EOF {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.current().Type == TOK_COMMA {
				p.advance()
			} else if p.current().Type != TOK_RBRACKET {
				return nil, p.parseError("expected ',' or ']' in array literal")
			}
		}
		if err := p.expect(TOK_RBRACKET); err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elements: elems}, nil

	case TOK_LBRACE:
		return p.parseObjectLiteral()

	default:
		return nil, p.parseError(fmt.Sprintf("unexpected token %s", p.current().String()))
	}
}

// parseObjectLiteral supports plain `name: expr`, string-keyed
// `"name": expr`, and computed `[expr]: expr` keys; a literal
// "__proto__" key is ordinary syntax, interpreted specially by the
// interpreter's object-literal evaluation.
func (p *Parser) parseObjectLiteral() (*ObjectLiteral, error) {
	p.advance() // "{"
	var pairs []*ObjectPair
	for p.current().Type != TOK_RBRACE && p.current().Type != TOK_EOF {
		var pair ObjectPair
		switch p.current().Type {
		case TOK_LBRACKET:
			p.advance()
			keyExpr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TOK_RBRACKET); err != nil {
				return nil, err
			}
			pair.Computed = keyExpr
		case TOK_IDENT:
			pair.Name = p.current().Value
			p.advance()
		case TOK_STRING:
			pair.Name = UnescapeString(p.current().Value)
			p.advance()
		default:
			return nil, p.parseError("expected identifier, string or '[' as object key")
		}

		if err := p.expect(TOK_COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		pair.Value = val
		pairs = append(pairs, &pair)

		if p.current().Type == TOK_COMMA {
			p.advance()
		} else if p.current().Type != TOK_RBRACE {
			return nil, p.parseError("expected ',' or '}' in object literal")
		}
	}
	if err := p.expect(TOK_RBRACE); err != nil {
		return nil, err
	}
	return &ObjectLiteral{Pairs: pairs}, nil
}

// parseTemplateString splits a `{{ expr }}`-bearing string literal into
// alternating text/expression parts.
func (p *Parser) parseTemplateString(template string) (Node, error) {
	var parts []Node
	i := 0
	for i < len(template) {
		start := strings.Index(template[i:], "{{")
		if start == -1 {
			if i < len(template) {
				parts = append(parts, &TextPart{Value: UnescapeString(template[i:])})
			}
			break
		}
		if start > 0 {
			parts = append(parts, &TextPart{Value: UnescapeString(template[i : i+start])})
		}
		exprStart := i + start + 2
		end := strings.Index(template[exprStart:], "}}")
		if end == -1 {
			return nil, p.parseError("unclosed {{ in template string")
		}
		exprStr := template[exprStart : exprStart+end]
		exprLexer := NewLexer(exprStr)
		exprParser := NewParser(exprLexer.Tokenize())
		expr, err := exprParser.parseExpression()
		if err != nil {
			return nil, fmt.Errorf("error in template expression: %w", err)
		}
		parts = append(parts, expr)
		i = exprStart + end + 2
	}
	if len(parts) == 0 {
		return &StringLiteral{Value: ""}, nil
	}
	if len(parts) == 1 {
		if tp, ok := parts[0].(*TextPart); ok {
			return &StringLiteral{Value: tp.Value}, nil
		}
	}
	return &TemplateLiteral{Parts: parts}, nil
}
