package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type lexError struct {
	start, end int
	msg        string
}

// lexer turns a source file into tokens. Whitespace and comments are dropped.
type lexer struct {
	src    string
	offset int
	tokens []Token
	errs   []lexError
}

func lex(src string) ([]Token, []lexError) {
	l := &lexer{src: src}
	l.run()
	return l.tokens, l.errs
}

func (l *lexer) peekByte(ahead int) byte {
	if l.offset+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.offset+ahead]
}

func (l *lexer) emit(tt TokenType, start int) {
	l.tokens = append(l.tokens, Token{Type: tt, Text: l.src[start:l.offset], Start: start, End: l.offset})
}

func (l *lexer) errorf(start int, format string, args ...any) {
	l.errs = append(l.errs, lexError{start: start, end: l.offset, msg: fmt.Sprintf(format, args...)})
}

func (l *lexer) run() {
	for {
		l.skipTrivia()
		if l.offset >= len(l.src) {
			l.tokens = append(l.tokens, Token{Type: TokenEOF, Start: len(l.src), End: len(l.src)})
			return
		}
		start := l.offset
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		switch {
		case r == '_' || unicode.IsLetter(r):
			l.lexIdent(start)
		case '0' <= r && r <= '9':
			l.lexNumber(start)
		case r == '\'':
			l.lexChar(start)
		case r == '"':
			l.lexString(start)
		default:
			if tt, n := l.punct(); n > 0 {
				l.offset += n
				l.emit(tt, start)
				continue
			}
			l.offset += size
			l.errorf(start, "unexpected character %q", r)
		}
	}
}

func (l *lexer) skipTrivia() {
	for l.offset < len(l.src) {
		c := l.src[l.offset]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.offset++
		case c == '/' && l.peekByte(1) == '/':
			for l.offset < len(l.src) && l.src[l.offset] != '\n' {
				l.offset++
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.offset
			depth := 0
			for l.offset < len(l.src) {
				if l.src[l.offset] == '/' && l.peekByte(1) == '*' {
					depth++
					l.offset += 2
					continue
				}
				if l.src[l.offset] == '*' && l.peekByte(1) == '/' {
					depth--
					l.offset += 2
					if depth == 0 {
						break
					}
					continue
				}
				l.offset++
			}
			if depth != 0 {
				l.errorf(start, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) lexIdent(start int) {
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if !isIdentRune(r) {
			break
		}
		l.offset += size
	}
	text := l.src[start:l.offset]
	if text == "_" {
		l.emit(TokenUnderscore, start)
		return
	}
	if kw, ok := keywords[text]; ok {
		l.emit(kw, start)
		return
	}
	l.emit(TokenIdent, start)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// lexNumber reads integer and float literals, including type suffixes such as 10u8.
// `1..2` is an integer followed by `..`.
func (l *lexer) lexNumber(start int) {
	tt := TokenInt
	for l.offset < len(l.src) && (isDigit(l.src[l.offset]) || l.src[l.offset] == '_') {
		l.offset++
	}
	if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
		tt = TokenFloat
		l.offset++
		for l.offset < len(l.src) && (isDigit(l.src[l.offset]) || l.src[l.offset] == '_') {
			l.offset++
		}
	}
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if !isIdentRune(r) {
			break
		}
		l.offset += size
	}
	l.emit(tt, start)
}

func (l *lexer) lexChar(start int) {
	l.offset++
	if l.peekByte(0) == '\\' {
		l.offset += 2
		for l.offset < len(l.src) && l.src[l.offset] != '\'' && l.src[l.offset] != '\n' {
			l.offset++
		}
	} else if l.offset < len(l.src) {
		_, size := utf8.DecodeRuneInString(l.src[l.offset:])
		l.offset += size
	}
	if l.peekByte(0) != '\'' {
		l.errorf(start, "unterminated char literal")
		return
	}
	l.offset++
	l.emit(TokenChar, start)
}

func (l *lexer) lexString(start int) {
	l.offset++
	for l.offset < len(l.src) {
		switch l.src[l.offset] {
		case '\\':
			l.offset += 2
			continue
		case '"':
			l.offset++
			l.emit(TokenString, start)
			return
		}
		l.offset++
	}
	l.offset = min(l.offset, len(l.src))
	l.errorf(start, "unterminated string literal")
}

var puncts = []struct {
	text string
	tt   TokenType
}{
	{"..=", TokenDotDotEq},
	{"::", TokenDoubleColon},
	{"->", TokenArrow},
	{"=>", TokenFatArrow},
	{"..", TokenDotDot},
	{"||", TokenOrOr},
	{"&&", TokenAndAnd},
	{"==", TokenEq},
	{"!=", TokenNe},
	{"<=", TokenLe},
	{">=", TokenGe},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{",", TokenComma},
	{";", TokenSemicolon},
	{":", TokenColon},
	{".", TokenDot},
	{"|", TokenPipe},
	{"&", TokenAmp},
	{"@", TokenAt},
	{"#", TokenHash},
	{"!", TokenBang},
	{"=", TokenAssign},
	{"<", TokenLt},
	{">", TokenGt},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
	{"?", TokenQuestion},
}

// punct matches the longest punctuation at the current offset
func (l *lexer) punct() (TokenType, int) {
	rest := l.src[l.offset:]
	for _, p := range puncts {
		if len(rest) >= len(p.text) && rest[:len(p.text)] == p.text {
			return p.tt, len(p.text)
		}
	}
	return TokenEOF, 0
}
