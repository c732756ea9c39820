package parser

import (
	"github.com/cottand/matchck/frontend/ast"
)

type attrs struct {
	nonExhaustive bool
}

// parseAttrs reads `#[...]` attributes. Only #[non_exhaustive] has a meaning, others are skipped.
func (p *parser) parseAttrs() attrs {
	var ret attrs
	for p.at(TokenHash) {
		p.next()
		p.accept(TokenBang)
		p.expect(TokenLBracket)
		if p.at(TokenIdent) && p.cur().Text == "non_exhaustive" {
			ret.nonExhaustive = true
		}
		p.skipBalanced(TokenLBracket, TokenRBracket)
	}
	return ret
}

// skipBalanced consumes tokens up to and including the close that matches an
// already consumed open
func (p *parser) skipBalanced(open, close TokenType) {
	depth := 1
	for depth > 0 {
		switch p.cur().Type {
		case TokenEOF:
			p.failf("expected '%v', found %v", close, p.cur())
		case open:
			depth++
		case close:
			depth--
		}
		p.next()
	}
}

func (p *parser) parseVisibility() {
	if p.accept(TokenPub) && p.at(TokenLParen) {
		p.next()
		p.skipBalanced(TokenLParen, TokenRParen)
	}
}

func (p *parser) parseItem() ast.Item {
	start := p.cur().Start
	attrs := p.parseAttrs()
	p.parseVisibility()
	switch p.cur().Type {
	case TokenFn:
		return p.parseFn(start)
	case TokenEnum:
		return p.parseEnum(start, attrs)
	case TokenStruct:
		return p.parseStruct(start, attrs)
	case TokenUse:
		return p.parseUse(start)
	default:
		p.failf("expected item, found %v", p.cur())
		return nil
	}
}

func (p *parser) parseGenerics() []string {
	if !p.accept(TokenLt) {
		return nil
	}
	var names []string
	for !p.at(TokenGt) {
		names = append(names, p.expectIdent().Text)
		if p.accept(TokenColon) {
			// bounds are irrelevant to exhaustiveness
			for !p.at(TokenComma) && !p.at(TokenGt) && !p.at(TokenEOF) {
				p.next()
			}
		}
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenGt)
	return names
}

func (p *parser) parseFn(start int) *ast.FnDecl {
	p.expect(TokenFn)
	fn := &ast.FnDecl{Name: p.expectIdent().Text}
	p.parseGenerics()
	p.expect(TokenLParen)
	for !p.at(TokenRParen) {
		paramStart := p.cur().Start
		p.accept(TokenMut)
		var name string
		if p.accept(TokenUnderscore) {
			name = "_"
		} else {
			name = p.expectIdent().Text
		}
		p.expect(TokenColon)
		ty := p.parseType()
		fn.Params = append(fn.Params, ast.Param{Range: p.rangeFrom(paramStart), Name: name, Type: ty})
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenRParen)
	if p.accept(TokenArrow) {
		fn.Ret = p.parseType()
	}
	if p.accept(TokenSemicolon) {
		fn.Range = p.rangeFrom(start)
		return fn
	}
	fn.Body = p.parseBlock()
	fn.Range = p.rangeFrom(start)
	return fn
}

// parseFields reads the fields of a tuple `(A, B)` or record `{ a: A }` declaration.
// The opening delimiter has been consumed.
func (p *parser) parseFields(kind ast.FieldsKind) []ast.FieldDecl {
	closing := TokenRParen
	if kind == ast.RecordFields {
		closing = TokenRBrace
	}
	var fields []ast.FieldDecl
	for !p.at(closing) {
		start := p.cur().Start
		p.parseAttrs()
		p.parseVisibility()
		field := ast.FieldDecl{}
		if kind == ast.RecordFields {
			field.Name = p.expectIdent().Text
			p.expect(TokenColon)
		}
		field.Type = p.parseType()
		field.Range = p.rangeFrom(start)
		fields = append(fields, field)
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(closing)
	return fields
}

func (p *parser) parseEnum(start int, attrs attrs) *ast.EnumDecl {
	p.expect(TokenEnum)
	enum := &ast.EnumDecl{
		Name:          p.expectIdent().Text,
		Generics:      p.parseGenerics(),
		NonExhaustive: attrs.nonExhaustive,
	}
	p.expect(TokenLBrace)
	for !p.at(TokenRBrace) {
		variantStart := p.cur().Start
		p.parseAttrs()
		v := ast.VariantDecl{Name: p.expectIdent().Text}
		switch {
		case p.accept(TokenLParen):
			v.Kind = ast.TupleFields
			v.Fields = p.parseFields(ast.TupleFields)
		case p.accept(TokenLBrace):
			v.Kind = ast.RecordFields
			v.Fields = p.parseFields(ast.RecordFields)
		}
		if p.accept(TokenAssign) {
			// explicit discriminant
			p.parseExpr()
		}
		v.Range = p.rangeFrom(variantStart)
		enum.Variants = append(enum.Variants, v)
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenRBrace)
	enum.Range = p.rangeFrom(start)
	return enum
}

func (p *parser) parseStruct(start int, attrs attrs) *ast.StructDecl {
	p.expect(TokenStruct)
	s := &ast.StructDecl{
		Name:          p.expectIdent().Text,
		Generics:      p.parseGenerics(),
		NonExhaustive: attrs.nonExhaustive,
	}
	switch {
	case p.accept(TokenSemicolon):
		s.Kind = ast.UnitFields
	case p.accept(TokenLParen):
		s.Kind = ast.TupleFields
		s.Fields = p.parseFields(ast.TupleFields)
		p.expect(TokenSemicolon)
	case p.accept(TokenLBrace):
		s.Kind = ast.RecordFields
		s.Fields = p.parseFields(ast.RecordFields)
	default:
		p.failf("expected struct body, found %v", p.cur())
	}
	s.Range = p.rangeFrom(start)
	return s
}

// parseUse reads `use a::b::C;` and `use a::b::*;`. Glob imports end with a "*" segment.
func (p *parser) parseUse(start int) *ast.UseDecl {
	p.expect(TokenUse)
	use := &ast.UseDecl{}
	p.accept(TokenDoubleColon)
	for {
		if p.accept(TokenStar) {
			use.Path = append(use.Path, "*")
			break
		}
		use.Path = append(use.Path, p.expectIdent().Text)
		if !p.accept(TokenDoubleColon) {
			break
		}
	}
	if p.at(TokenLBrace) {
		p.unsupported("use groups")
	}
	p.expect(TokenSemicolon)
	use.Range = p.rangeFrom(start)
	return use
}

func (p *parser) parseType() ast.Type {
	start := p.cur().Start
	p.splitAmpAmp()
	switch p.cur().Type {
	case TokenBang:
		p.next()
		return &ast.NeverType{Range: p.rangeFrom(start)}
	case TokenAmp:
		p.next()
		mut := p.accept(TokenMut)
		inner := p.parseType()
		return &ast.RefType{Range: p.rangeFrom(start), Mut: mut, Inner: inner}
	case TokenLParen:
		p.next()
		var elems []ast.Type
		trailingComma := false
		for !p.at(TokenRParen) {
			elems = append(elems, p.parseType())
			trailingComma = p.accept(TokenComma)
			if !trailingComma {
				break
			}
		}
		p.expect(TokenRParen)
		if len(elems) == 1 && !trailingComma {
			return elems[0]
		}
		return &ast.TupleType{Range: p.rangeFrom(start), Elems: elems}
	case TokenLBracket:
		p.next()
		elem := p.parseType()
		if p.accept(TokenSemicolon) {
			lenTok := p.expect(TokenInt)
			n, err := parseIntText(lenTok.Text)
			if err != nil {
				p.failf("invalid array length %s", lenTok.Text)
			}
			p.expect(TokenRBracket)
			return &ast.ArrayType{Range: p.rangeFrom(start), Elem: elem, Len: n}
		}
		p.expect(TokenRBracket)
		return &ast.SliceType{Range: p.rangeFrom(start), Elem: elem}
	case TokenUnderscore:
		p.next()
		return &ast.PathType{Range: p.rangeFrom(start), Segments: []string{"_"}}
	case TokenIdent:
		t := &ast.PathType{}
		for {
			t.Segments = append(t.Segments, p.expectIdent().Text)
			if p.at(TokenLt) {
				t.Args = p.parseTypeArgs()
			}
			if !p.at(TokenDoubleColon) {
				break
			}
			p.next()
		}
		t.Range = p.rangeFrom(start)
		return t
	default:
		p.failf("expected type, found %v", p.cur())
		return nil
	}
}

// parseTypeArgs reads `<A, B>`
func (p *parser) parseTypeArgs() []ast.Type {
	p.expect(TokenLt)
	var args []ast.Type
	for !p.at(TokenGt) {
		args = append(args, p.parseType())
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenGt)
	return args
}
