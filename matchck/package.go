// Package matchck loads fixtures, checks every match expression they contain, and
// formats what it finds.
package matchck

import (
	"context"
	"fmt"
	"go/token"
	"io/fs"
	"path"
	"slices"
	"strings"
	"testing/fstest"

	"github.com/cottand/matchck/diagnostics"
	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/ilerr"
	"github.com/cottand/matchck/frontend/lower"
	"github.com/cottand/matchck/frontend/parser"
	"github.com/cottand/matchck/internal/log"
	"github.com/cottand/matchck/matchcheck"
	"github.com/pkg/errors"
)

var packageLogger = log.DefaultLogger.With("section", "package")

// SourceExt is the extension of the files LoadPackage reads
const SourceExt = ".rs"

// Package is a checked set of source files, possibly spanning several crates
type Package struct {
	name string
	// sources are the contents of each file, by file name
	sources map[string][]byte
	syntax  []*ast.File
	fSet    *token.FileSet
	program *lower.Program
	errors  *ilerr.Errors

	diagnostics []diagnostics.AnyDiagnostic
	reports     []MatchReport
}

// MatchReport is the outcome of checking one match
type MatchReport struct {
	Match *hir.Match
	matchcheck.Report
}

type PkgLoadSettings struct {
	// Dir is the path of the folder in the filesystem where the package is located
	// the default is `.`
	Dir    string
	Config matchcheck.Config
	// Parallelism bounds the number of matches checked at once. Zero means unbounded.
	Parallelism int
}

// SourceFS is a file system LoadPackage can list and read, such as the one os.DirFS returns
type SourceFS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

// LoadPackage checks every SourceExt file of config.Dir. A file may hold several
// files of a fixture, delimited by `//- /path crate:name deps:a,b` headers.
// Files without a header belong to crate main.
func LoadPackage(ctx context.Context, dir SourceFS, config PkgLoadSettings) (*Package, error) {
	dirPath := config.Dir
	if dirPath == "" {
		dirPath = "."
	}
	entries, err := dir.ReadDir(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dirPath)
	}
	var files []parser.FixtureFile
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != SourceExt {
			continue
		}
		data, err := dir.ReadFile(path.Join(dirPath, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", entry.Name())
		}
		files = append(files, splitSource(entry.Name(), string(data))...)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no %s files found in %s", SourceExt, dirPath)
	}
	return check(ctx, path.Base(dirPath), files, config)
}

func splitSource(name, text string) []parser.FixtureFile {
	files := parser.SplitFixture(text)
	if len(files) == 1 && !strings.Contains(text, "//-") {
		files[0].Path = "/" + name
		files[0].Text = text
	}
	return files
}

// NewPackageFromBytes does all passes end-to-end for a single file, meant for testing
func NewPackageFromBytes(data []byte, name string) (*Package, *ilerr.Errors, error) {
	filesystem := fstest.MapFS{
		name: &fstest.MapFile{
			Data: data,
		},
	}
	pkg, err := LoadPackage(context.Background(), filesystem, PkgLoadSettings{Config: matchcheck.DefaultConfig()})
	if err != nil {
		return nil, nil, err
	}
	return pkg, pkg.errors, nil
}

// NewPackageFromFixture checks a fixture held in memory
func NewPackageFromFixture(ctx context.Context, fixture string, config PkgLoadSettings) (*Package, error) {
	return check(ctx, "fixture", parser.SplitFixture(fixture), config)
}

func check(ctx context.Context, name string, files []parser.FixtureFile, config PkgLoadSettings) (*Package, error) {
	pkg := &Package{
		name:    name,
		sources: make(map[string][]byte, len(files)),
		fSet:    token.NewFileSet(),
	}

	// parse phase
	for _, ff := range files {
		if _, dup := pkg.sources[ff.Path]; dup {
			return nil, errors.Errorf("file %s is declared twice", ff.Path)
		}
		pkg.sources[ff.Path] = []byte(ff.Text)
		astFile, errs := parser.ParseFile(pkg.fSet, ff.Path, []byte(ff.Text))
		astFile.Crate = ff.Crate
		astFile.Deps = ff.Deps
		pkg.syntax = append(pkg.syntax, astFile)
		pkg.errors = pkg.errors.Merge(errs)
	}

	// lowering phase
	program, errs := lower.Lower(pkg.syntax)
	pkg.program = program
	pkg.errors = pkg.errors.Merge(errs)

	// checking phase
	sink := &diagnostics.Collection{}
	validator := diagnostics.NewValidator(sink, config.Config)
	reports, err := validator.ValidateAll(ctx, program.Matches, config.Parallelism)
	if err != nil {
		return nil, errors.Wrap(err, "check matches")
	}
	for i, m := range program.Matches {
		pkg.reports = append(pkg.reports, MatchReport{Match: m, Report: reports[i]})
	}
	pkg.diagnostics = sink.Diagnostics()
	packageLogger.Debug("checked package", "name", name, "files", len(files), "matches", len(program.Matches), "diagnostics", len(pkg.diagnostics))
	return pkg, nil
}

func (p *Package) Name() string {
	return p.name
}

func (p *Package) Syntax() []*ast.File {
	return p.syntax
}

func (p *Package) Program() *lower.Program {
	return p.program
}

// Errors are the problems found while parsing and resolving names
func (p *Package) Errors() *ilerr.Errors {
	return p.errors
}

// Diagnostics are ordered by file, then position
func (p *Package) Diagnostics() []diagnostics.AnyDiagnostic {
	return p.diagnostics
}

// Reports are in the order the matches appear in, outer matches first
func (p *Package) Reports() []MatchReport {
	return p.reports
}

// Source returns the contents of the file called name
func (p *Package) Source(name string) []byte {
	return p.sources[name]
}

// Files are the names of the files of the package, in load order
func (p *Package) Files() []string {
	names := make([]string, len(p.syntax))
	for i, f := range p.syntax {
		names[i] = f.Name
	}
	return names
}

// Offsets returns the byte offsets of n within its file
func (p *Package) Offsets(n ast.Positioner) (start, end int) {
	return p.fSet.Position(n.Pos()).Offset, p.fSet.Position(n.End()).Offset
}

// Text returns the source text n spans
func (p *Package) Text(n ast.Positioner) string {
	source := p.sources[p.fSet.Position(n.Pos()).Filename]
	start, end := p.Offsets(n)
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// Position renders the position of n as file:line:column
func (p *Package) Position(n ast.Positioner) string {
	return p.fSet.Position(n.Pos()).String()
}

// FormatError renders e as `file:line:col: (E00N) message` followed by the source line
func (p *Package) FormatError(e ilerr.IleError) string {
	source := p.sources[p.fSet.Position(e.Pos()).Filename]
	return p.Position(e) + ": " + ilerr.FormatWithCodeAndSource(e, source, p.Offsets)
}

type FormatOptions struct {
	ShowWitnesses bool
	ShowSource    bool
}

// FormatDiagnostic renders d as `file:line:col: error[code]: message`
func (p *Package) FormatDiagnostic(d diagnostics.AnyDiagnostic, opts FormatOptions) string {
	sb := strings.Builder{}
	_, _ = fmt.Fprintf(&sb, "%s: error[%s]: %s", p.Position(d), d.Kind().Code(), d.Message())
	if missing, ok := d.(*diagnostics.MissingMatchArms); ok && opts.ShowWitnesses && len(missing.Witnesses) > 0 {
		sb.WriteString(": ")
		sb.WriteString(missing.WitnessSummary())
	}
	if opts.ShowSource {
		start, end := p.Offsets(d)
		if snippet := ilerr.SourceSnippet(p.sources[d.File()], start, end); snippet != "" {
			sb.WriteString("\n")
			sb.WriteString(snippet)
		}
	}
	return sb.String()
}

// UnreachableArms returns the arms that match no value left over by the unguarded arms above them
func (p *Package) UnreachableArms() []hir.Arm {
	var arms []hir.Arm
	for _, r := range p.reports {
		for i, arm := range r.Arms {
			if !arm.Reachable {
				arms = append(arms, r.Match.Arms[i])
			}
		}
	}
	return arms
}

// FormatUnreachable renders arm as a note
func (p *Package) FormatUnreachable(arm hir.Arm) string {
	return fmt.Sprintf("%s: note: unreachable pattern", p.Position(arm))
}

// HasMissingArms reports whether some match does not cover its scrutinee
func (p *Package) HasMissingArms() bool {
	return slices.ContainsFunc(p.diagnostics, func(d diagnostics.AnyDiagnostic) bool {
		return d.Kind() == diagnostics.KindMissingMatchArms
	})
}
