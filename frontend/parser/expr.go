package parser

import (
	"github.com/cottand/matchck/frontend/ast"
)

func (p *parser) parseBlock() *ast.BlockExpr {
	start := p.cur().Start
	p.expect(TokenLBrace)
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	block := &ast.BlockExpr{}
	for !p.at(TokenRBrace) {
		if p.accept(TokenSemicolon) {
			continue
		}
		stmt, tail := p.parseStmt()
		if tail != nil {
			block.Tail = tail
			break
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.expect(TokenRBrace)
	block.Range = p.rangeFrom(start)
	return block
}

func isBlockLike(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BlockExpr, *ast.LoopExpr, *ast.WhileExpr, *ast.IfExpr, *ast.MatchExpr:
		return true
	default:
		return false
	}
}

// parseStmt returns either a statement, or the trailing expression of the block
func (p *parser) parseStmt() (ast.Stmt, ast.Expr) {
	start := p.cur().Start
	switch {
	case startsItem(p.cur().Type):
		item := p.parseItem()
		return &ast.ItemStmt{Range: p.rangeFrom(start), Item: item}, nil
	case p.at(TokenLet):
		p.next()
		let := &ast.LetStmt{Pat: p.parsePattern()}
		if p.accept(TokenColon) {
			let.Type = p.parseType()
		}
		if p.accept(TokenAssign) {
			let.Init = p.parseExpr()
		}
		p.expect(TokenSemicolon)
		let.Range = p.rangeFrom(start)
		return let, nil
	}

	e := p.parseStmtExpr()
	switch {
	case p.accept(TokenSemicolon):
	case p.at(TokenRBrace):
		return nil, e
	case !isBlockLike(e):
		p.failf("expected ';' or '}', found %v", p.cur())
	}
	return &ast.ExprStmt{Range: p.rangeFrom(start), Expr: e}, nil
}

// parseStmtExpr parses an expression in statement position. A block-like expression
// ends there, unless a method call or `?` follows it.
func (p *parser) parseStmtExpr() ast.Expr {
	if !p.startsBlockLike() {
		return p.parseExpr()
	}
	e := p.parseBlockLike()
	if p.at(TokenDot) || p.at(TokenQuestion) {
		e = p.parseBinaryFrom(p.parsePostfix(e), 0)
	}
	return e
}

func (p *parser) startsBlockLike() bool {
	switch p.cur().Type {
	case TokenLBrace, TokenLoop, TokenWhile, TokenIf, TokenMatch:
		return true
	default:
		return false
	}
}

func (p *parser) parseBlockLike() ast.Expr {
	start := p.cur().Start
	switch p.cur().Type {
	case TokenLBrace:
		return p.parseBlock()
	case TokenLoop:
		p.next()
		body := p.parseBlock()
		return &ast.LoopExpr{Range: p.rangeFrom(start), Body: body}
	case TokenWhile:
		p.next()
		cond := p.parseNoStructExpr()
		body := p.parseBlock()
		return &ast.WhileExpr{Range: p.rangeFrom(start), Cond: cond, Body: body}
	case TokenIf:
		return p.parseIf()
	case TokenMatch:
		return p.parseMatch()
	default:
		p.failf("expected block, found %v", p.cur())
		return nil
	}
}

func (p *parser) parseNoStructExpr() ast.Expr {
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()
	return p.parseExpr()
}

func (p *parser) parseIf() ast.Expr {
	start := p.cur().Start
	p.expect(TokenIf)
	if p.at(TokenLet) {
		p.unsupported("if let")
	}
	ifExpr := &ast.IfExpr{Cond: p.parseNoStructExpr(), Then: p.parseBlock()}
	if p.accept(TokenElse) {
		if p.at(TokenIf) {
			ifExpr.Else = p.parseIf()
		} else {
			ifExpr.Else = p.parseBlock()
		}
	}
	ifExpr.Range = p.rangeFrom(start)
	return ifExpr
}

func (p *parser) parseMatch() ast.Expr {
	start := p.cur().Start
	p.expect(TokenMatch)
	m := &ast.MatchExpr{Scrutinee: p.parseNoStructExpr()}

	armsStart := p.cur().Start
	p.expect(TokenLBrace)
	saved := p.noStruct
	p.noStruct = false
	for !p.at(TokenRBrace) {
		armStart := p.cur().Start
		arm := ast.MatchArm{Pat: p.parsePattern()}
		if p.accept(TokenIf) {
			arm.Guard = p.parseExpr()
		}
		p.expect(TokenFatArrow)
		arm.Body = p.parseStmtExpr()
		arm.Range = p.rangeFrom(armStart)
		m.Arms = append(m.Arms, arm)
		if !p.accept(TokenComma) && !isBlockLike(arm.Body) && !p.at(TokenRBrace) {
			p.failf("expected ',' after match arm, found %v", p.cur())
		}
	}
	p.noStruct = saved
	p.expect(TokenRBrace)
	m.ArmList = p.rangeFrom(armsStart)
	m.Range = p.rangeFrom(start)
	return m
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseBinaryFrom(p.parseUnary(), 0)
}

var binaryPrecedence = map[TokenType]int{
	TokenAssign:  1,
	TokenOrOr:    2,
	TokenAndAnd:  3,
	TokenEq:      4,
	TokenNe:      4,
	TokenLt:      4,
	TokenLe:      4,
	TokenGt:      4,
	TokenGe:      4,
	TokenPlus:    5,
	TokenMinus:   5,
	TokenStar:    6,
	TokenSlash:   6,
	TokenPercent: 6,
}

// parseBinaryFrom continues a binary expression whose left operand is parsed,
// using precedence climbing
func (p *parser) parseBinaryFrom(left ast.Expr, minPrec int) ast.Expr {
	for {
		op := p.cur()
		prec, ok := binaryPrecedence[op.Type]
		if !ok || prec <= minPrec {
			return left
		}
		p.next()
		right := p.parseUnary()
		for {
			nextPrec, ok := binaryPrecedence[p.cur().Type]
			if !ok || nextPrec <= prec {
				break
			}
			right = p.parseBinaryFrom(right, prec)
		}
		left = &ast.BinaryExpr{
			Range: ast.RangeBetween(left, right),
			Op:    op.Text,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.cur().Start
	p.splitAmpAmp()
	switch p.cur().Type {
	case TokenAmp:
		p.next()
		mut := p.accept(TokenMut)
		inner := p.parseUnary()
		return &ast.RefExpr{Range: p.rangeFrom(start), Mut: mut, Inner: inner}
	case TokenMinus, TokenBang, TokenStar:
		op := p.next()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Range: p.rangeFrom(start), Op: op.Text, Operand: operand}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.cur().Type {
		case TokenLParen:
			args := p.parseArgs(TokenLParen, TokenRParen)
			e = &ast.CallExpr{Range: p.rangeFrom(p.offsetOf(e)), Callee: e, Args: args}
		case TokenDot:
			p.next()
			var name string
			if p.at(TokenInt) {
				name = p.next().Text
			} else {
				name = p.expectIdent().Text
			}
			if p.at(TokenLParen) {
				args := p.parseArgs(TokenLParen, TokenRParen)
				e = &ast.MethodCallExpr{Range: p.rangeFrom(p.offsetOf(e)), Receiver: e, Method: name, Args: args}
				continue
			}
			e = &ast.FieldAccessExpr{Range: p.rangeFrom(p.offsetOf(e)), Receiver: e, Name: name}
		case TokenQuestion:
			p.unsupported("the ? operator")
		default:
			return e
		}
	}
}

// parseArgs reads a delimited, comma separated list of expressions
func (p *parser) parseArgs(open, close TokenType) []ast.Expr {
	p.expect(open)
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()
	var args []ast.Expr
	for !p.at(close) {
		args = append(args, p.parseExpr())
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(close)
	return args
}

func (p *parser) parseLiteral() ast.Literal {
	t := p.next()
	lit := ast.Literal{Range: p.rangeOf(t.Start, t.End), Value: t.Text}
	switch t.Type {
	case TokenTrue, TokenFalse:
		lit.Kind = ast.LitBool
	case TokenInt:
		lit.Kind = ast.LitInt
	case TokenFloat:
		lit.Kind = ast.LitFloat
	case TokenChar:
		lit.Kind = ast.LitChar
		lit.Value = t.Text[1 : len(t.Text)-1]
	case TokenString:
		lit.Kind = ast.LitStr
		lit.Value = t.Text[1 : len(t.Text)-1]
	default:
		p.failf("expected literal, found %v", t)
	}
	return lit
}

func isLiteral(tt TokenType) bool {
	switch tt {
	case TokenTrue, TokenFalse, TokenInt, TokenFloat, TokenChar, TokenString:
		return true
	default:
		return false
	}
}

// parsePath reads `a::b::<T>::C`. Generic arguments of any segment are collected in Args.
func (p *parser) parsePath() ast.Path {
	start := p.cur().Start
	path := ast.Path{}
	p.accept(TokenDoubleColon)
	for {
		path.Segments = append(path.Segments, p.expectIdent().Text)
		if !p.at(TokenDoubleColon) {
			break
		}
		p.next()
		if p.at(TokenLt) {
			path.Args = append(path.Args, p.parseTypeArgs()...)
			if !p.accept(TokenDoubleColon) {
				break
			}
		}
	}
	path.Range = p.rangeFrom(start)
	return path
}

// canStartExpr reports whether a break or return is followed by a value
func (p *parser) canStartExpr() bool {
	switch p.cur().Type {
	case TokenSemicolon, TokenRBrace, TokenRParen, TokenRBracket, TokenComma, TokenFatArrow, TokenEOF:
		return false
	default:
		return true
	}
}

func (p *parser) parsePrimary() ast.Expr {
	start := p.cur().Start
	switch tt := p.cur().Type; {
	case isLiteral(tt):
		return &ast.LitExpr{Literal: p.parseLiteral()}
	case tt == TokenIdent || tt == TokenDoubleColon:
		path := p.parsePath()
		if p.at(TokenBang) && path.IsSingle() {
			return p.parseMacro(start, path.Segments[0])
		}
		if p.at(TokenLBrace) && !p.noStruct {
			return p.parseRecordExpr(start, path)
		}
		return &ast.PathExpr{Path: path}
	case tt == TokenLParen:
		p.next()
		saved := p.noStruct
		p.noStruct = false
		var elems []ast.Expr
		trailingComma := false
		for !p.at(TokenRParen) {
			elems = append(elems, p.parseExpr())
			trailingComma = p.accept(TokenComma)
			if !trailingComma {
				break
			}
		}
		p.noStruct = saved
		p.expect(TokenRParen)
		if len(elems) == 1 && !trailingComma {
			return &ast.ParenExpr{Range: p.rangeFrom(start), Inner: elems[0]}
		}
		return &ast.TupleExpr{Range: p.rangeFrom(start), Elems: elems}
	case tt == TokenLBracket:
		elems := p.parseArgs(TokenLBracket, TokenRBracket)
		return &ast.ArrayExpr{Range: p.rangeFrom(start), Elems: elems}
	case p.startsBlockLike():
		return p.parseBlockLike()
	case tt == TokenBreak:
		p.next()
		b := &ast.BreakExpr{}
		if p.canStartExpr() {
			b.Value = p.parseExpr()
		}
		b.Range = p.rangeFrom(start)
		return b
	case tt == TokenReturn:
		p.next()
		r := &ast.ReturnExpr{}
		if p.canStartExpr() {
			r.Value = p.parseExpr()
		}
		r.Range = p.rangeFrom(start)
		return r
	case tt == TokenContinue:
		p.next()
		return &ast.ContinueExpr{Range: p.rangeFrom(start)}
	case tt == TokenPipe || tt == TokenOrOr:
		p.unsupported("closures")
		return nil
	default:
		p.failf("expected expression, found %v", p.cur())
		return nil
	}
}

// parseMacro skips the arguments of `name!(...)`
func (p *parser) parseMacro(start int, name string) ast.Expr {
	p.expect(TokenBang)
	switch p.cur().Type {
	case TokenLParen:
		p.next()
		p.skipBalanced(TokenLParen, TokenRParen)
	case TokenLBracket:
		p.next()
		p.skipBalanced(TokenLBracket, TokenRBracket)
	case TokenLBrace:
		p.next()
		p.skipBalanced(TokenLBrace, TokenRBrace)
	default:
		p.failf("expected macro arguments, found %v", p.cur())
	}
	return &ast.MacroExpr{Range: p.rangeFrom(start), Name: name}
}

func (p *parser) parseRecordExpr(start int, path ast.Path) ast.Expr {
	p.expect(TokenLBrace)
	rec := &ast.RecordExpr{Path: path}
	for !p.at(TokenRBrace) {
		if p.accept(TokenDotDot) {
			// functional update: the base provides the remaining fields
			p.parseExpr()
			break
		}
		fieldStart := p.cur().Start
		nameTok := p.cur()
		if nameTok.Type != TokenIdent && nameTok.Type != TokenInt {
			p.failf("expected field name, found %v", nameTok)
		}
		p.next()
		field := ast.FieldExpr{Name: nameTok.Text}
		if p.accept(TokenColon) {
			field.Value = p.parseExpr()
		} else {
			field.Value = &ast.PathExpr{Path: ast.Path{Range: p.rangeOf(nameTok.Start, nameTok.End), Segments: []string{nameTok.Text}}}
		}
		field.Range = p.rangeFrom(fieldStart)
		rec.Fields = append(rec.Fields, field)
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenRBrace)
	rec.Range = p.rangeFrom(start)
	return rec
}
