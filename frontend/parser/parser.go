// Package parser reads the Rust-like fixture language into package ast.
//
// It is a hand-written recursive descent parser. A syntax error abandons the item
// being parsed, which is reported as an ilerr.NewParse, and parsing resumes at the
// next item.
package parser

import (
	"fmt"
	"go/token"
	"strconv"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/ilerr"
	"github.com/cottand/matchck/internal/log"
)

var logger = log.DefaultLogger.With("section", "parser")

// bailout unwinds the parser to the enclosing item after an error was recorded
type bailout struct{}

type parser struct {
	file   *token.File
	tokens []Token
	idx    int
	// prevEnd is the end offset of the last consumed token
	prevEnd int
	errs    *ilerr.Errors
	// noStruct forbids `Path { .. }` record expressions, as in match scrutinees
	noStruct bool
}

// ParseFile parses src as a single file of the given crate, registering it in fset under name
func ParseFile(fset *token.FileSet, name string, src []byte) (*ast.File, *ilerr.Errors) {
	// the extra byte gives the end of a file ending in a newline a line of its own
	tf := fset.AddFile(name, -1, len(src)+1)
	tf.SetLines(lineOffsets(src))
	tokens, lexErrs := lex(string(src))
	p := &parser{file: tf, tokens: tokens}
	for _, e := range lexErrs {
		p.errs = p.errs.With(ilerr.New(ilerr.NewParse{
			Positioner:    p.rangeOf(e.start, e.end),
			ParserMessage: e.msg,
		}))
	}
	f := &ast.File{Name: name}
	for !p.at(TokenEOF) {
		if item := p.parseItemRecovering(); item != nil {
			f.Items = append(f.Items, item)
		}
	}
	f.Range = p.rangeOf(0, len(src))
	logger.Debug("parsed file", "name", name, "items", len(f.Items), "errors", p.errs)
	return f, p.errs
}

// lineOffsets returns the offset of the first byte of each line of src
func lineOffsets(src []byte) []int {
	lines := []int{0}
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func (p *parser) pos(offset int) token.Pos {
	return p.file.Pos(offset)
}

func (p *parser) rangeOf(start, end int) ast.Range {
	return ast.Range{PosStart: p.pos(start), PosEnd: p.pos(end)}
}

// rangeFrom covers start up to the end of the last consumed token
func (p *parser) rangeFrom(start int) ast.Range {
	return p.rangeOf(start, max(start, p.prevEnd))
}

func (p *parser) cur() Token {
	return p.tokens[p.idx]
}

func (p *parser) peek(ahead int) Token {
	if p.idx+ahead >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.idx+ahead]
}

func (p *parser) at(tt TokenType) bool {
	return p.cur().Type == tt
}

func (p *parser) next() Token {
	t := p.cur()
	if t.Type != TokenEOF {
		p.idx++
		p.prevEnd = t.End
	}
	return t
}

func (p *parser) accept(tt TokenType) bool {
	if p.at(tt) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType) Token {
	if !p.at(tt) {
		p.failf("expected '%v', found %v", tt, p.cur())
	}
	return p.next()
}

func (p *parser) expectIdent() Token {
	if !p.at(TokenIdent) {
		p.failf("expected identifier, found %v", p.cur())
	}
	return p.next()
}

// splitAmpAmp turns a `&&` token into two `&` tokens, for `&&x` patterns and types
func (p *parser) splitAmpAmp() {
	t := p.cur()
	if t.Type != TokenAndAnd {
		return
	}
	first := Token{Type: TokenAmp, Text: "&", Start: t.Start, End: t.Start + 1}
	second := Token{Type: TokenAmp, Text: "&", Start: t.Start + 1, End: t.End}
	p.tokens = append(p.tokens[:p.idx], append([]Token{first, second}, p.tokens[p.idx+1:]...)...)
}

func (p *parser) failf(format string, args ...any) {
	t := p.cur()
	p.errs = p.errs.With(ilerr.New(ilerr.NewParse{
		Positioner:    p.rangeOf(t.Start, t.End),
		ParserMessage: fmt.Sprintf(format, args...),
	}))
	panic(bailout{})
}

func (p *parser) unsupported(what string) {
	t := p.cur()
	p.errs = p.errs.With(ilerr.New(ilerr.NewUnsupportedSyntax{
		Positioner: p.rangeOf(t.Start, t.End),
		What:       what,
	}))
	panic(bailout{})
}

func (p *parser) parseItemRecovering() (item ast.Item) {
	start := p.idx
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			item = nil
			p.syncItem(start)
		}
	}()
	return p.parseItem()
}

func startsItem(tt TokenType) bool {
	switch tt {
	case TokenFn, TokenEnum, TokenStruct, TokenUse, TokenPub, TokenHash:
		return true
	default:
		return false
	}
}

// syncItem skips to the next token that can start a top-level item
func (p *parser) syncItem(startIdx int) {
	if p.idx == startIdx {
		p.next()
	}
	depth := 0
	for !p.at(TokenEOF) {
		switch p.cur().Type {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth = max(0, depth-1)
		default:
			if depth == 0 && startsItem(p.cur().Type) {
				return
			}
		}
		p.next()
	}
}

// parseIntText parses an integer literal, ignoring underscores and a type suffix
func parseIntText(text string) (int, error) {
	digits := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '_' {
			continue
		}
		if !isDigit(c) {
			break
		}
		digits = append(digits, c)
	}
	return strconv.Atoi(string(digits))
}

func (p *parser) offsetOf(n ast.Positioner) int {
	return p.file.Offset(n.Pos())
}
