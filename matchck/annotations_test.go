package matchck

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/cottand/matchck/frontend/parser"
	"github.com/cottand/matchck/matchcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// annotation is an expected diagnostic, written in a fixture as a comment under the
// line it points at:
//
//	match (false, true) {}
//	    //^^^^^^^^^^^^^ missing match arm
//
// Lines starting with `|` under the last caret continue the message of the line above.
type annotation struct {
	file       string
	start, end int
	message    string
}

func extractAnnotations(file, text string) []annotation {
	type placed struct {
		end, idx int
	}
	var res []annotation
	var prevLineAnnotations []placed
	prevLineStart, lineStart := -1, 0
	for _, line := range strings.SplitAfter(text, "\n") {
		var thisLine []placed
		if idx := strings.Index(line, "//"); idx >= 0 && prevLineStart >= 0 {
			rest := line[idx+len("//"):]
			trimmed := strings.TrimLeft(rest, " ")
			col := idx + len("//") + len(rest) - len(trimmed)
			switch {
			case strings.HasPrefix(trimmed, "^"):
				width := len(trimmed) - len(strings.TrimLeft(trimmed, "^"))
				thisLine = append(thisLine, placed{end: col + width, idx: len(res)})
				res = append(res, annotation{
					file:    file,
					start:   prevLineStart + col,
					end:     prevLineStart + col + width,
					message: strings.TrimSpace(trimmed[width:]),
				})
			case strings.HasPrefix(trimmed, "|") && len(prevLineAnnotations) > 0:
				target := prevLineAnnotations[len(prevLineAnnotations)-1].idx
				for _, p := range prevLineAnnotations {
					if p.end == col+1 {
						target = p.idx
					}
				}
				res[target].message += "\n" + strings.TrimSpace(trimmed[1:])
				thisLine = prevLineAnnotations
			}
		}
		prevLineStart = lineStart
		lineStart += len(line)
		prevLineAnnotations = thisLine
	}
	return res
}

func compareAnnotations(a, b annotation) int {
	return cmp.Or(cmp.Compare(a.file, b.file), cmp.Compare(a.start, b.start), cmp.Compare(a.end, b.end), strings.Compare(a.message, b.message))
}

// checkDiagnostics asserts the diagnostics of fixture are exactly its annotations
func checkDiagnostics(t *testing.T, fixture string) {
	t.Helper()
	var expected []annotation
	for _, ff := range parser.SplitFixture(fixture) {
		expected = append(expected, extractAnnotations(ff.Path, ff.Text)...)
	}

	pkg, err := NewPackageFromFixture(context.Background(), fixture, PkgLoadSettings{Config: matchcheck.DefaultConfig()})
	require.NoError(t, err)
	for _, e := range pkg.Errors().Errors() {
		t.Errorf("unexpected error: %s", pkg.FormatError(e))
	}

	var actual []annotation
	for _, d := range pkg.Diagnostics() {
		start, end := pkg.Offsets(d)
		actual = append(actual, annotation{file: d.File(), start: start, end: end, message: d.Message()})
	}
	slices.SortFunc(expected, compareAnnotations)
	slices.SortFunc(actual, compareAnnotations)
	if !assert.Equal(t, expected, actual) {
		for _, d := range pkg.Diagnostics() {
			t.Log(pkg.FormatDiagnostic(d, FormatOptions{ShowWitnesses: true, ShowSource: true}))
		}
	}
}

func TestExtractAnnotations(t *testing.T) {
	text := `fn main() {
    match a {
        Either::A { } => (),
    } //^^^^^^^^^ Missing structure fields:
      //        | - foo
    match (()) { }
        //^^^^ missing match arm
}
`
	got := extractAnnotations("/main.rs", text)
	require.Len(t, got, 2)

	assert.Equal(t, "Missing structure fields:\n- foo", got[0].message)
	assert.Equal(t, "Either::A", text[got[0].start:got[0].end])
	assert.Equal(t, "missing match arm", got[1].message)
	assert.Equal(t, "(())", text[got[1].start:got[1].end])
}
