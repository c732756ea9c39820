package parser

import "fmt"

// TokenType is the kind of a lexed token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenChar
	TokenString

	// keywords
	TokenFn
	TokenEnum
	TokenStruct
	TokenUse
	TokenPub
	TokenLet
	TokenMatch
	TokenIf
	TokenElse
	TokenLoop
	TokenWhile
	TokenBreak
	TokenContinue
	TokenReturn
	TokenRef
	TokenMut
	TokenTrue
	TokenFalse

	// punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenColon
	TokenDoubleColon
	TokenArrow
	TokenFatArrow
	TokenDot
	TokenDotDot
	TokenDotDotEq
	TokenPipe
	TokenOrOr
	TokenAmp
	TokenAndAnd
	TokenAt
	TokenHash
	TokenBang
	TokenAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenQuestion
	TokenUnderscore
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "end of file",
	TokenIdent:       "identifier",
	TokenInt:         "integer literal",
	TokenFloat:       "float literal",
	TokenChar:        "char literal",
	TokenString:      "string literal",
	TokenFn:          "fn",
	TokenEnum:        "enum",
	TokenStruct:      "struct",
	TokenUse:         "use",
	TokenPub:         "pub",
	TokenLet:         "let",
	TokenMatch:       "match",
	TokenIf:          "if",
	TokenElse:        "else",
	TokenLoop:        "loop",
	TokenWhile:       "while",
	TokenBreak:       "break",
	TokenContinue:    "continue",
	TokenReturn:      "return",
	TokenRef:         "ref",
	TokenMut:         "mut",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenComma:       ",",
	TokenSemicolon:   ";",
	TokenColon:       ":",
	TokenDoubleColon: "::",
	TokenArrow:       "->",
	TokenFatArrow:    "=>",
	TokenDot:         ".",
	TokenDotDot:      "..",
	TokenDotDotEq:    "..=",
	TokenPipe:        "|",
	TokenOrOr:        "||",
	TokenAmp:         "&",
	TokenAndAnd:      "&&",
	TokenAt:          "@",
	TokenHash:        "#",
	TokenBang:        "!",
	TokenAssign:      "=",
	TokenEq:          "==",
	TokenNe:          "!=",
	TokenLt:          "<",
	TokenLe:          "<=",
	TokenGt:          ">",
	TokenGe:          ">=",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenPercent:     "%",
	TokenQuestion:    "?",
	TokenUnderscore:  "_",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"fn":       TokenFn,
	"enum":     TokenEnum,
	"struct":   TokenStruct,
	"use":      TokenUse,
	"pub":      TokenPub,
	"let":      TokenLet,
	"match":    TokenMatch,
	"if":       TokenIf,
	"else":     TokenElse,
	"loop":     TokenLoop,
	"while":    TokenWhile,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"return":   TokenReturn,
	"ref":      TokenRef,
	"mut":      TokenMut,
	"true":     TokenTrue,
	"false":    TokenFalse,
}

// Token is a lexeme with its byte offsets in the file
type Token struct {
	Type  TokenType
	Text  string
	Start int
	End   int
}

func (t Token) String() string {
	switch t.Type {
	case TokenIdent, TokenInt, TokenFloat, TokenChar, TokenString:
		return fmt.Sprintf("%v '%s'", t.Type, t.Text)
	default:
		return fmt.Sprintf("'%v'", t.Type)
	}
}
