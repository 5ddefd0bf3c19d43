// Package parser implements a hand-written, tokenless-in-spirit
// recursive-descent parser with PEMDAS precedence climbing, the shape
// spec.md §9 calls for explicitly ("tokenless recursive-descent with
// PEMDAS precedence"). It is grounded in the teacher's internal/parser — a
// buffered-lookahead cursor over a lexer, structured errors with position
// info, and accumulate-don't-abort error reporting — adapted from
// DWScript's Pascal-shaped grammar to Lomda's expression grammar.
package parser

import (
	"fmt"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/lexer"
	"github.com/lomda-lang/lomda/internal/token"
)

// Parser turns a token stream into an ast.Node. It buffers tokens for
// unbounded lookahead the same way the teacher's TokenCursor does, but
// keeps a single mutable index rather than returning new cursor values,
// since Lomda's grammar needs far less backtracking than DWScript's.
type Parser struct {
	l      *lexer.Lexer
	tokens []token.Token
	pos    int

	errors      []*SyntaxError
	ambiguities []*Ambiguity
	werror      bool
}

// New creates a Parser over source. werror, when true, causes ambiguity
// warnings to be recorded as errors instead (spec.md §6 --werror).
func New(source string, werror bool) *Parser {
	p := &Parser{l: lexer.New(source), werror: werror}
	p.tokens = append(p.tokens, p.l.Next())
	return p
}

// Errors returns accumulated syntax errors, in encounter order.
func (p *Parser) Errors() []*SyntaxError { return p.errors }

// Ambiguities returns accumulated ambiguity warnings.
func (p *Parser) Ambiguities() []*Ambiguity { return p.ambiguities }

func (p *Parser) cur() token.Token { return p.tokens[p.pos] }

func (p *Parser) fill(n int) {
	for p.pos+n >= len(p.tokens) {
		last := p.tokens[len(p.tokens)-1]
		if last.Kind == token.EOF {
			return
		}
		p.tokens = append(p.tokens, p.l.Next())
	}
}

func (p *Parser) peek(n int) token.Token {
	p.fill(n)
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.fill(1)
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf("expected %s, got %s %q", k, p.cur().Kind, p.cur().Literal)
	return p.cur(), false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &SyntaxError{Message: fmt.Sprintf(format, args...), Pos: p.cur().Pos})
}

func (p *Parser) warnAmbiguous(msg string, pos token.Position) {
	p.ambiguities = append(p.ambiguities, &Ambiguity{Message: msg, Pos: pos})
	if p.werror {
		p.errors = append(p.errors, &SyntaxError{Message: "ambiguous parse treated as error: " + msg, Pos: pos})
	}
}

// ParseProgram parses the whole input as a single top-level statement
// (statements are separated by ';', per §6).
func ParseProgram(source string, werror bool) (ast.Node, *Parser) {
	p := New(source, werror)
	if p.at(token.EOF) {
		return ast.NewVoidLit(p.cur().Pos), p
	}
	pos := p.cur().Pos
	stmts := []ast.Node{p.parseStatement()}
	for p.at(token.SEMI) {
		p.advance()
		if p.at(token.EOF) {
			break
		}
		stmts = append(stmts, p.parseStatement())
	}
	if !p.at(token.EOF) {
		p.errorf("unexpected trailing token %s %q", p.cur().Kind, p.cur().Literal)
	}
	if len(stmts) == 1 {
		return stmts[0], p
	}
	return ast.NewSeq(pos, stmts), p
}

// parseBlock parses either "{ stmt (';' stmt)* }" or a single statement,
// mirroring the original grammar's <codeblk> production.
func (p *Parser) parseBlock() ast.Node {
	if !p.at(token.LBRACE) {
		return p.parseStatement()
	}
	pos := p.cur().Pos
	p.advance()
	var stmts []ast.Node
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		if p.at(token.SEMI) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return ast.NewSeq(pos, stmts)
}

func (p *Parser) parseStatement() ast.Node {
	switch p.cur().Kind {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseForIn()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseFromImport()
	case token.TYPE:
		return p.parseADTDecl()
	case token.SWITCH:
		return p.parseSwitch()
	case token.PRINT:
		return p.parsePrint()
	case token.INSERT:
		return p.parseInsert()
	case token.REMOVE:
		return p.parseRemove()
	default:
		return p.parseExpr()
	}
}

// parseInsert parses "insert <val> into <list> at <idx>" (original grammar
// <insert-exp>), Lomda's surface syntax for the List-add operation in
// spec.md §4.1.
func (p *Parser) parseInsert() ast.Node {
	pos := p.cur().Pos
	p.advance() // insert
	val := p.parseAdd()
	p.expect(token.INTO)
	list := p.parseAdd()
	p.expect(token.AT)
	idx := p.parseAdd()
	return ast.NewListAdd(pos, list, idx, val)
}

// parseRemove parses "remove <idx> from <list>" (original grammar
// <remove-exp>).
func (p *Parser) parseRemove() ast.Node {
	pos := p.cur().Pos
	p.advance() // remove
	idx := p.parseAdd()
	p.expect(token.FROM)
	list := p.parseAdd()
	return ast.NewListRemove(pos, list, idx)
}

func (p *Parser) parseLet() ast.Node {
	pos := p.cur().Pos
	p.advance() // let
	var binders []ast.Binder
	for {
		nameTok, _ := p.expect(token.IDENT)
		p.expect(token.EQUALS)
		val := p.parseAssign()
		binders = append(binders, ast.Binder{Name: nameTok.Literal, Value: val})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.SEMI)
	body := p.parseStatement()
	return ast.NewLet(pos, binders, body)
}

func (p *Parser) parseIf() ast.Node {
	pos := p.cur().Pos
	p.advance() // if
	cond := p.parseExpr()
	p.expect(token.THEN)
	then := p.parseBlock()
	p.expect(token.ELSE)
	els := p.parseBlock()
	return ast.NewIf(pos, cond, then, els)
}

func (p *Parser) parseWhile() ast.Node {
	pos := p.cur().Pos
	p.advance() // while
	cond := p.parseExpr()
	p.expect(token.DO)
	body := p.parseBlock()
	return ast.NewWhile(pos, cond, body)
}

func (p *Parser) parseDoWhile() ast.Node {
	pos := p.cur().Pos
	p.advance() // do
	body := p.parseBlock()
	p.expect(token.WHILE)
	cond := p.parseExpr()
	return ast.NewDoWhile(pos, body, cond)
}

func (p *Parser) parseForIn() ast.Node {
	pos := p.cur().Pos
	p.advance() // for
	nameTok, _ := p.expect(token.IDENT)
	p.expect(token.IN)
	src := p.parseExpr()
	p.expect(token.DO)
	body := p.parseBlock()
	return ast.NewForIn(pos, nameTok.Literal, src, body)
}

func (p *Parser) parseImport() ast.Node {
	pos := p.cur().Pos
	p.advance() // import
	nameTok, _ := p.expect(token.IDENT)
	return ast.NewImport(pos, nameTok.Literal)
}

func (p *Parser) parseFromImport() ast.Node {
	pos := p.cur().Pos
	p.advance() // from
	modTok, _ := p.expect(token.IDENT)
	p.expect(token.IMPORT)
	var names []string
	for {
		nameTok, _ := p.expect(token.IDENT)
		names = append(names, nameTok.Literal)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return ast.NewFromImport(pos, modTok.Literal, names)
}

func (p *Parser) parseIdentList() []string {
	var names []string
	if p.at(token.RPAREN) {
		return names
	}
	for {
		f, _ := p.expect(token.IDENT)
		names = append(names, f.Literal)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return names
}

func (p *Parser) parseADTDecl() ast.Node {
	pos := p.cur().Pos
	p.advance() // type
	nameTok, _ := p.expect(token.IDENT)
	p.expect(token.EQUALS)
	var ctors []ast.Constructor
	for {
		ctorTok, _ := p.expect(token.IDENT)
		var fields []string
		if p.at(token.LPAREN) {
			p.advance()
			fields = p.parseIdentList()
			p.expect(token.RPAREN)
		}
		ctors = append(ctors, ast.Constructor{Name: ctorTok.Literal, Fields: fields})
		if p.cur().Kind == token.PIPE {
			p.advance()
			continue
		}
		break
	}
	return ast.NewADTDecl(pos, nameTok.Literal, ctors)
}

func (p *Parser) parseSwitch() ast.Node {
	pos := p.cur().Pos
	p.advance() // switch
	scrutinee := p.parseExpr()
	p.expect(token.LBRACE)
	var arms []ast.SwitchArm
	for p.at(token.CASE) {
		p.advance()
		ctorTok, _ := p.expect(token.IDENT)
		var fields []string
		if p.at(token.LPAREN) {
			p.advance()
			fields = p.parseIdentList()
			p.expect(token.RPAREN)
		}
		p.expect(token.ARROW)
		body := p.parseBlock()
		arms = append(arms, ast.SwitchArm{Constructor: ctorTok.Literal, Fields: fields, Body: body})
		if p.at(token.SEMI) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.NewSwitch(pos, scrutinee, arms)
}

func (p *Parser) parsePrint() ast.Node {
	pos := p.cur().Pos
	p.advance() // print
	var args []ast.Node
	args = append(args, p.parseAssign())
	for p.at(token.COMMA) {
		p.advance()
		args = append(args, p.parseAssign())
	}
	return ast.NewPrint(pos, args)
}

// ---- Expression precedence ladder (glossary PEMDAS order, loosest first:
// tuple, assignment, boolean, comparison, add/sub, mul/div/mod, unary,
// exponent, parentheses/primary) ----

func (p *Parser) parseExpr() ast.Node { return p.parseTuple() }

func (p *Parser) parseTuple() ast.Node {
	left := p.parseAssign()
	if p.at(token.COMMA) {
		pos := p.cur().Pos
		p.advance()
		right := p.parseTuple()
		return ast.NewTupleLit(pos, left, right)
	}
	return left
}

func (p *Parser) parseAssign() ast.Node {
	left := p.parseBoolOr()
	if p.at(token.ASSIGN) {
		pos := p.cur().Pos
		p.advance()
		value := p.parseAssign()
		if !isLValue(left) {
			p.errorf("left-hand side of ':=' is not assignable")
		}
		return ast.NewSet(pos, left, value)
	}
	return left
}

func isLValue(n ast.Node) bool {
	switch n.Kind() {
	case ast.Variable, ast.ListAccess, ast.DictAccess:
		return true
	default:
		return false
	}
}

func (p *Parser) parseBoolOr() ast.Node {
	left := p.parseBoolAnd()
	for p.at(token.OR) {
		pos := p.cur().Pos
		p.advance()
		right := p.parseBoolAnd()
		left = ast.NewBoolOp(pos, "or", left, right)
	}
	return left
}

func (p *Parser) parseBoolAnd() ast.Node {
	left := p.parseNot()
	for p.at(token.AND) {
		pos := p.cur().Pos
		p.advance()
		right := p.parseNot()
		left = ast.NewBoolOp(pos, "and", left, right)
	}
	return left
}

func (p *Parser) parseNot() ast.Node {
	if p.at(token.NOT) {
		pos := p.cur().Pos
		p.advance()
		return ast.NewNot(pos, p.parseNot())
	}
	return p.parseComparison()
}

var compareOps = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=",
	token.LT: "<", token.GT: ">",
	token.LE: "<=", token.GE: ">=",
}

func (p *Parser) parseComparison() ast.Node {
	left := p.parseAdd()
	if op, ok := compareOps[p.cur().Kind]; ok {
		pos := p.cur().Pos
		p.advance()
		right := p.parseAdd()
		left = ast.NewCompare(pos, op, left, right)
		if next, ok := compareOps[p.cur().Kind]; ok {
			_ = next
			p.warnAmbiguous("chained comparison is not associative; parenthesize to disambiguate", p.cur().Pos)
		}
	}
	return left
}

func (p *Parser) parseAdd() ast.Node {
	left := p.parseMul()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.cur().Literal
		pos := p.cur().Pos
		p.advance()
		right := p.parseMul()
		left = ast.NewBinaryOp(pos, op, left, right)
	}
	return left
}

func (p *Parser) parseMul() ast.Node {
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := p.cur().Literal
		pos := p.cur().Pos
		p.advance()
		right := p.parseUnary()
		left = ast.NewBinaryOp(pos, op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Node {
	if p.at(token.MINUS) {
		pos := p.cur().Pos
		p.advance()
		return ast.NewUnaryNeg(pos, p.parseUnary())
	}
	return p.parseExponent()
}

func (p *Parser) parseExponent() ast.Node {
	left := p.parsePostfix()
	if p.at(token.CARET) {
		pos := p.cur().Pos
		p.advance()
		right := p.parseUnary() // right-associative
		return ast.NewBinaryOp(pos, "^", left, right)
	}
	return left
}

func (p *Parser) parsePostfix() ast.Node {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LPAREN:
			pos := p.cur().Pos
			p.advance()
			var args []ast.Node
			if !p.at(token.RPAREN) {
				args = append(args, p.parseAssign())
				for p.at(token.COMMA) {
					p.advance()
					args = append(args, p.parseAssign())
				}
			}
			p.expect(token.RPAREN)
			expr = ast.NewApply(pos, expr, args)
		case token.LBRACKET:
			pos := p.cur().Pos
			p.advance()
			expr = p.parseListIndexOrSlice(pos, expr)
		case token.DOT:
			pos := p.cur().Pos
			p.advance()
			switch p.cur().Kind {
			case token.IDENT:
				switch p.cur().Literal {
				case "left":
					p.advance()
					expr = ast.NewTupleLeft(pos, expr)
				case "right":
					p.advance()
					expr = ast.NewTupleRight(pos, expr)
				default:
					name := p.cur().Literal
					p.advance()
					expr = ast.NewDictAccess(pos, expr, name)
				}
			default:
				p.errorf("expected field name after '.'")
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parseListIndexOrSlice(pos token.Position, list ast.Node) ast.Node {
	var low, high ast.Node
	if !p.at(token.COLON) {
		low = p.parseAssign()
	}
	if p.at(token.COLON) {
		p.advance()
		if !p.at(token.RBRACKET) {
			high = p.parseAssign()
		}
		p.expect(token.RBRACKET)
		return ast.NewListSlice(pos, list, low, high)
	}
	p.expect(token.RBRACKET)
	return ast.NewListAccess(pos, list, low)
}

func (p *Parser) parsePrimary() ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.INT:
		p.advance()
		return ast.NewIntLit(tok.Pos, parseIntLiteral(tok.Literal))
	case token.REAL:
		p.advance()
		return ast.NewRealLit(tok.Pos, parseRealLiteral(tok.Literal))
	case token.TRUE:
		p.advance()
		return ast.NewBoolLit(tok.Pos, true)
	case token.FALSE:
		p.advance()
		return ast.NewBoolLit(tok.Pos, false)
	case token.STRING:
		p.advance()
		return ast.NewStringLit(tok.Pos, tok.Literal)
	case token.VOID:
		p.advance()
		return ast.NewVoidLit(tok.Pos)
	case token.IDENT:
		p.advance()
		return ast.NewVariable(tok.Pos, tok.Literal)
	case token.LAMBDA:
		return p.parseLambda()
	case token.THUNK:
		p.advance()
		return ast.NewThunkLit(tok.Pos, p.parseAssign())
	case token.DERIV:
		p.advance()
		varTok, _ := p.expect(token.IDENT)
		body := p.parseStatement()
		return ast.NewDerivative(tok.Pos, varTok.Literal, body)
	case token.INPUT:
		p.advance()
		return ast.NewInput(tok.Pos)
	case token.CAST:
		p.advance()
		target, _ := p.expect(token.IDENT)
		p.expect(token.LPAREN)
		operand := p.parseAssign()
		p.expect(token.RPAREN)
		return ast.NewCast(tok.Pos, target.Literal, operand)
	case token.ISA:
		p.advance()
		operand := p.parsePostfix()
		target, _ := p.expect(token.IDENT)
		return ast.NewIsa(tok.Pos, target.Literal, operand)
	case token.FOLD:
		p.advance()
		p.expect(token.LPAREN)
		list := p.parseAssign()
		p.expect(token.COMMA)
		init := p.parseAssign()
		p.expect(token.COMMA)
		fn := p.parseAssign()
		p.expect(token.RPAREN)
		return ast.NewFold(tok.Pos, list, init, fn)
	case token.MAP:
		p.advance()
		p.expect(token.LPAREN)
		list := p.parseAssign()
		p.expect(token.COMMA)
		fn := p.parseAssign()
		p.expect(token.RPAREN)
		return ast.NewMap(tok.Pos, list, fn)
	case token.PIPE:
		p.advance()
		operand := p.parseAssign()
		p.expect(token.PIPE)
		return ast.NewMagnitude(tok.Pos, operand)
	case token.DPIPE:
		p.advance()
		operand := p.parseAssign()
		p.expect(token.DPIPE)
		return ast.NewNorm(tok.Pos, operand)
	case token.LPAREN:
		return p.parseParenOrLambdaArrow()
	case token.LBRACKET:
		return p.parseListLit()
	case token.LBRACE:
		return p.parseDictLit()
	case token.PRINT:
		return p.parsePrint()
	default:
		p.errorf("unexpected token %s %q", tok.Kind, tok.Literal)
		p.advance()
		return ast.NewVoidLit(tok.Pos)
	}
}

func (p *Parser) parseLambda() ast.Node {
	pos := p.cur().Pos
	p.advance() // lambda
	p.expect(token.LPAREN)
	params := p.parseIdentList()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return ast.NewLambdaLit(pos, params, body)
}

// parseParenOrLambdaArrow disambiguates "(" grouping/tuple from the
// "(params) => body" lambda alternative, mirroring the original grammar's
// two lambda productions (parseLambdaExp1/2): try the arrow form; if it
// doesn't pan out, fall back to a parenthesized expression.
func (p *Parser) parseParenOrLambdaArrow() ast.Node {
	start := p.pos
	pos := p.cur().Pos
	if params, ok := p.tryParseArrowParams(); ok {
		body := p.parseBlock()
		return ast.NewLambdaLit(pos, params, body)
	}
	p.pos = start

	p.advance() // (
	expr := p.parseExpr()
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) tryParseArrowParams() ([]string, bool) {
	if !p.at(token.LPAREN) {
		return nil, false
	}
	save := p.pos
	p.advance() // (
	var params []string
	if !p.at(token.RPAREN) {
		for {
			if !p.at(token.IDENT) {
				p.pos = save
				return nil, false
			}
			params = append(params, p.cur().Literal)
			p.advance()
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.at(token.RPAREN) {
		p.pos = save
		return nil, false
	}
	p.advance() // )
	if !p.at(token.ARROW) {
		p.pos = save
		return nil, false
	}
	p.advance() // =>
	return params, true
}

func (p *Parser) parseListLit() ast.Node {
	pos := p.cur().Pos
	p.advance() // [
	var elems []ast.Node
	if !p.at(token.RBRACKET) {
		elems = append(elems, p.parseAssign())
		for p.at(token.COMMA) {
			p.advance()
			elems = append(elems, p.parseAssign())
		}
	}
	p.expect(token.RBRACKET)
	return ast.NewListLit(pos, elems)
}

func (p *Parser) parseDictLit() ast.Node {
	pos := p.cur().Pos
	p.advance() // {
	var entries []ast.DictEntry
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		keyTok, _ := p.expect(token.IDENT)
		p.expect(token.COLON)
		val := p.parseAssign()
		entries = append(entries, ast.DictEntry{Key: keyTok.Literal, Value: val})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return ast.NewDictLit(pos, entries)
}

func parseIntLiteral(lit string) int64 {
	var n int64
	for _, r := range lit {
		n = n*10 + int64(r-'0')
	}
	return n
}

func parseRealLiteral(lit string) float64 {
	var n float64
	fmt.Sscanf(lit, "%g", &n)
	return n
}
