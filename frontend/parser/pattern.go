package parser

import (
	"github.com/cottand/matchck/frontend/ast"
)

// parsePattern reads a top-level pattern, which may be an or-pattern with a leading `|`
func (p *parser) parsePattern() ast.Pattern {
	start := p.cur().Start
	p.accept(TokenPipe)
	first := p.parsePatternNoTop()
	if !p.at(TokenPipe) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.accept(TokenPipe) {
		alts = append(alts, p.parsePatternNoTop())
	}
	return &ast.OrPat{Range: p.rangeFrom(start), Alts: alts}
}

func (p *parser) parsePatternNoTop() ast.Pattern {
	start := p.cur().Start
	p.splitAmpAmp()
	switch tt := p.cur().Type; {
	case tt == TokenUnderscore:
		p.next()
		return &ast.WildPat{Range: p.rangeFrom(start)}
	case tt == TokenDotDot:
		p.next()
		return &ast.RestPat{Range: p.rangeFrom(start)}
	case tt == TokenAmp:
		p.next()
		mut := p.accept(TokenMut)
		inner := p.parsePatternNoTop()
		return &ast.RefPat{Range: p.rangeFrom(start), Mut: mut, Inner: inner}
	case tt == TokenLParen:
		elems, trailingComma := p.parsePatternList(TokenLParen, TokenRParen)
		if len(elems) == 1 && !trailingComma {
			if _, isRest := elems[0].(*ast.RestPat); !isRest {
				return &ast.ParenPat{Range: p.rangeFrom(start), Inner: elems[0]}
			}
		}
		return &ast.TuplePat{Range: p.rangeFrom(start), Elems: elems}
	case tt == TokenLBracket:
		elems, _ := p.parsePatternList(TokenLBracket, TokenRBracket)
		return &ast.SlicePat{Range: p.rangeFrom(start), Elems: elems}
	case tt == TokenMinus || isLiteral(tt):
		return p.parseLiteralPattern(start)
	case tt == TokenRef || tt == TokenMut:
		return p.parseIdentPattern(start)
	case tt == TokenIdent || tt == TokenDoubleColon:
		if tt == TokenIdent && p.peek(1).Type != TokenDoubleColon && p.peek(1).Type != TokenLParen && p.peek(1).Type != TokenLBrace {
			return p.parseIdentPattern(start)
		}
		path := p.parsePath()
		switch p.cur().Type {
		case TokenLParen:
			elems, _ := p.parsePatternList(TokenLParen, TokenRParen)
			return &ast.TupleStructPat{Range: p.rangeFrom(start), Path: path, Elems: elems}
		case TokenLBrace:
			return p.parseRecordPattern(start, path)
		default:
			return &ast.PathPat{Path: path}
		}
	default:
		p.failf("expected pattern, found %v", p.cur())
		return nil
	}
}

// parsePatternList reads delimited, comma separated patterns
func (p *parser) parsePatternList(open, close TokenType) (elems []ast.Pattern, trailingComma bool) {
	p.expect(open)
	for !p.at(close) {
		elems = append(elems, p.parsePattern())
		trailingComma = p.accept(TokenComma)
		if !trailingComma {
			break
		}
	}
	p.expect(close)
	return elems, trailingComma
}

func (p *parser) parseLitPat() *ast.LitPat {
	start := p.cur().Start
	negative := p.accept(TokenMinus)
	lit := p.parseLiteral()
	if negative && lit.Kind != ast.LitInt && lit.Kind != ast.LitFloat {
		p.failf("only numeric literals can be negated")
	}
	lit.Range = p.rangeFrom(start)
	return &ast.LitPat{Literal: lit, Negative: negative}
}

// parseLiteralPattern reads `lit`, `-lit`, and ranges `lo..hi`, `lo..=hi`, `lo..`
func (p *parser) parseLiteralPattern(start int) ast.Pattern {
	lo := p.parseLitPat()
	if !p.at(TokenDotDot) && !p.at(TokenDotDotEq) {
		return lo
	}
	inclusive := p.next().Type == TokenDotDotEq
	r := &ast.RangePat{Lo: lo, Inclusive: inclusive}
	if p.at(TokenMinus) || isLiteral(p.cur().Type) {
		r.Hi = p.parseLitPat()
	}
	r.Range = p.rangeFrom(start)
	return r
}

// parseIdentPattern reads `ref mut name @ sub`
func (p *parser) parseIdentPattern(start int) ast.Pattern {
	id := &ast.IdentPat{}
	id.ByRef = p.accept(TokenRef)
	id.Mut = p.accept(TokenMut)
	id.Name = p.expectIdent().Text
	if p.accept(TokenAt) {
		id.Sub = p.parsePatternNoTop()
	}
	id.Range = p.rangeFrom(start)
	return id
}

func (p *parser) parseRecordPattern(start int, path ast.Path) ast.Pattern {
	p.expect(TokenLBrace)
	rec := &ast.RecordPat{Path: path}
	for !p.at(TokenRBrace) {
		if p.accept(TokenDotDot) {
			rec.Rest = true
			break
		}
		fieldStart := p.cur().Start
		field := ast.FieldPat{}
		field.ByRef = p.accept(TokenRef)
		p.accept(TokenMut)
		nameTok := p.cur()
		if nameTok.Type != TokenIdent && nameTok.Type != TokenInt {
			p.failf("expected field name, found %v", nameTok)
		}
		p.next()
		field.Name = nameTok.Text
		if p.accept(TokenColon) {
			if field.ByRef {
				p.failf("unexpected ':' after ref binding")
			}
			field.Pat = p.parsePattern()
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
