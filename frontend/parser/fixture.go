package parser

import (
	"go/token"
	"strings"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/ilerr"
)

const (
	fixtureHeaderPrefix = "//-"
	// DefaultCrate is the crate of files that do not declare one
	DefaultCrate = "main"
	defaultPath  = "/main.rs"
)

// FixtureFile is one file of a fixture, as delimited by a `//- /path crate:name deps:a,b` header
type FixtureFile struct {
	Path  string
	Crate string
	Deps  []string
	Text  string
}

// SplitFixture cuts a fixture into its files. Text before the first header, or the
// whole text when there is no header, is a single /main.rs file of crate main.
func SplitFixture(text string) []FixtureFile {
	var files []FixtureFile
	current := FixtureFile{Path: defaultPath, Crate: DefaultCrate}
	sb := &strings.Builder{}
	seenHeader := false

	flush := func() {
		current.Text = sb.String()
		if seenHeader || strings.TrimSpace(current.Text) != "" {
			files = append(files, current)
		}
		sb.Reset()
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, fixtureHeaderPrefix) {
			sb.WriteString(line)
			continue
		}
		if seenHeader || strings.TrimSpace(sb.String()) != "" {
			flush()
		} else {
			sb.Reset()
		}
		seenHeader = true
		current = parseFixtureHeader(strings.TrimSpace(strings.TrimPrefix(trimmed, fixtureHeaderPrefix)))
	}
	flush()
	return files
}

func parseFixtureHeader(header string) FixtureFile {
	f := FixtureFile{Path: defaultPath, Crate: DefaultCrate}
	for i, field := range strings.Fields(header) {
		key, value, isKV := strings.Cut(field, ":")
		switch {
		case i == 0 && !isKV:
			f.Path = field
		case key == "crate":
			f.Crate = value
		case key == "deps":
			for _, dep := range strings.Split(value, ",") {
				if dep != "" {
					f.Deps = append(f.Deps, dep)
				}
			}
		}
	}
	return f
}

// ParseFixture splits text into files and parses each of them
func ParseFixture(fset *token.FileSet, text string) ([]*ast.File, *ilerr.Errors) {
	var errs *ilerr.Errors
	var files []*ast.File
	for _, ff := range SplitFixture(text) {
		f, fileErrs := ParseFile(fset, ff.Path, []byte(ff.Text))
		f.Crate = ff.Crate
		f.Deps = ff.Deps
		files = append(files, f)
		errs = errs.Merge(fileErrs)
	}
	return files, errs
}
