// Package ilerr holds the errors reported while loading fixtures: syntax errors and
// items that cannot be resolved. They are not match-check diagnostics, which live in
// package diagnostics.
package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/matchck/frontend/ast"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

type ErrCode int

const (
	None ErrCode = iota
	Parse
	UnresolvedImport
	DuplicateItem
	UnsupportedSyntax
	UnknownCrate
)

type IleError interface {
	Error() string
	Code() ErrCode
	ast.Positioner

	withStack([]byte) IleError
	getStack() []byte
}

func FormatWithCode(e IleError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		lines := strings.Split(string(e.getStack()), "\n")
		if len(lines) > 6 {
			return fmt.Sprintf("%s:(E%03d) %s", strings.TrimSpace(lines[6]), e.Code(), e.Error())
		}
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// FormatWithCodeAndSource formats e with the line of source it points at, and a caret
// under the offending range when it is on a single line.
// offset returns the byte offset of a position in source.
func FormatWithCodeAndSource(e IleError, source []byte, offset func(ast.Positioner) (start, end int)) string {
	msg := FormatWithCode(e)
	if source == nil || e.Pos() == 0 {
		return msg
	}
	start, end := offset(e)
	snippet := SourceSnippet(source, start, end)
	if snippet == "" {
		return msg
	}
	return msg + "\n" + snippet
}

// SourceSnippet renders the line of source containing start, indented, with carets
// under [start, end) up to the end of that line
func SourceSnippet(source []byte, start, end int) string {
	if start < 0 || start > len(source) {
		return ""
	}
	lineStart := strings.LastIndexByte(string(source[:start]), '\n') + 1
	lineEnd := strings.IndexByte(string(source[start:]), '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += start
	}
	width := max(1, min(end, lineEnd)-start)
	caret := strings.Repeat(" ", start-lineStart) + strings.Repeat("^", width)
	return fmt.Sprintf("\t%s\n\t%s", source[lineStart:lineEnd], caret)
}

func New[E IleError](err E) IleError {
	return err.withStack(debug.Stack())
}

type NewParse struct {
	ast.Positioner
	ParserMessage string
	Hint          string
	stack         []byte
}

func (e NewParse) Error() string {
	if e.Hint != "" {
		return e.ParserMessage + " (" + e.Hint + ")"
	}
	return e.ParserMessage
}
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnresolvedImport struct {
	ast.Positioner
	Path  string
	stack []byte
}

func (e NewUnresolvedImport) Error() string {
	return fmt.Sprintf("unresolved import '%s'", e.Path)
}
func (e NewUnresolvedImport) Code() ErrCode    { return UnresolvedImport }
func (e NewUnresolvedImport) getStack() []byte { return e.stack }
func (e NewUnresolvedImport) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewDuplicateItem struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewDuplicateItem) Error() string {
	return fmt.Sprintf("the name '%s' is defined multiple times", e.Name)
}
func (e NewDuplicateItem) Code() ErrCode    { return DuplicateItem }
func (e NewDuplicateItem) getStack() []byte { return e.stack }
func (e NewDuplicateItem) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnsupportedSyntax struct {
	ast.Positioner
	What  string
	stack []byte
}

func (e NewUnsupportedSyntax) Error() string {
	return fmt.Sprintf("%s is not supported", e.What)
}
func (e NewUnsupportedSyntax) Code() ErrCode    { return UnsupportedSyntax }
func (e NewUnsupportedSyntax) getStack() []byte { return e.stack }
func (e NewUnsupportedSyntax) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnknownCrate struct {
	ast.Positioner
	Crate string
	stack []byte
}

func (e NewUnknownCrate) Error() string {
	return fmt.Sprintf("crate '%s' is not declared in this fixture", e.Crate)
}
func (e NewUnknownCrate) Code() ErrCode    { return UnknownCrate }
func (e NewUnknownCrate) getStack() []byte { return e.stack }
func (e NewUnknownCrate) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}
