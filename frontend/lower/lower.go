// Package lower resolves the names and infers the types needed to check the matches
// of a parsed fixture, and produces one hir.Match per match expression.
//
// Inference is deliberately local: it knows the types of literals, locals, parameters,
// constructors and function calls. Anything else is Unknown, and matches on Unknown
// scrutinees are not checked.
package lower

import (
	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/ilerr"
	"github.com/cottand/matchck/frontend/types"
	"github.com/cottand/matchck/internal/log"
)

var logger = log.DefaultLogger.With("section", "lower")

type crate struct {
	name  string
	deps  []*crate
	files []*ast.File
	// root holds the items and imports of the crate root
	root names
}

// Program is a lowered fixture
type Program struct {
	// Matches are in source order, outer matches before the matches nested in their arms
	Matches []*hir.Match
	// Adts are every struct and enum declared, nested ones included
	Adts []*types.AdtDef
	// Crates are the crate names in declaration order
	Crates []string
}

type lowerer struct {
	crates  map[string]*crate
	order   []*crate
	errs    *ilerr.Errors
	nextID  int
	program *Program
	// pending are the declarations whose field types still need resolving
	pending []pendingAdt
}

type pendingAdt struct {
	def  *types.AdtDef
	decl ast.Item
	env  env
}

// Lower lowers files, which may belong to several crates
func Lower(files []*ast.File) (*Program, *ilerr.Errors) {
	l := &lowerer{crates: make(map[string]*crate), program: &Program{}}
	for _, f := range files {
		c, ok := l.crates[f.Crate]
		if !ok {
			c = &crate{name: f.Crate, root: emptyNames()}
			l.crates[f.Crate] = c
			l.order = append(l.order, c)
			l.program.Crates = append(l.program.Crates, c.name)
		}
		c.files = append(c.files, f)
	}
	for _, c := range l.order {
		l.linkDeps(c)
	}

	// items are visible across the whole crate, so they are declared before anything is resolved
	for _, c := range l.order {
		for _, f := range c.files {
			c.root = l.declareItems(c.root, c, f.Items)
		}
	}
	for _, c := range l.order {
		for _, f := range c.files {
			l.resolveUses(c, f.Items)
		}
	}
	l.resolvePending()
	for _, c := range l.order {
		rootEnv := env{crate: c, items: c.root, locals: emptyNames()}
		for _, f := range c.files {
			l.resolveFnSigs(rootEnv, f.Items)
		}
	}
	for _, c := range l.order {
		rootEnv := env{crate: c, items: c.root, locals: emptyNames()}
		for _, f := range c.files {
			for _, item := range f.Items {
				if fn, ok := item.(*ast.FnDecl); ok {
					l.lowerFn(rootEnv, f, fn)
				}
			}
		}
	}
	logger.Debug("lowered program", "crates", len(l.order), "matches", len(l.program.Matches), "errors", l.errs)
	return l.program, l.errs
}

func (l *lowerer) linkDeps(c *crate) {
	seen := make(map[string]bool)
	for _, f := range c.files {
		for _, dep := range f.Deps {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			depCrate, ok := l.crates[dep]
			if !ok {
				l.errs = l.errs.With(ilerr.New(ilerr.NewUnknownCrate{Positioner: f.Range, Crate: dep}))
				continue
			}
			c.deps = append(c.deps, depCrate)
		}
	}
}

func (l *lowerer) newAdt(c *crate, name string, kind types.AdtKind, generics []string, nonExhaustive bool, from ast.Positioner) *types.AdtDef {
	l.nextID++
	def := &types.AdtDef{
		ID:            l.nextID,
		Name:          name,
		Crate:         c.name,
		Kind:          kind,
		Generics:      generics,
		NonExhaustive: nonExhaustive,
		From:          from,
	}
	l.program.Adts = append(l.program.Adts, def)
	return def
}

// declareItems adds the structs, enums and functions of items to scope.
// Field types are resolved later, once every item of the scope is known.
func (l *lowerer) declareItems(scope names, c *crate, items []ast.Item) names {
	declare := func(name string, at ast.Positioner, s symbol) {
		if _, exists := scope.Get(name); exists {
			l.errs = l.errs.With(ilerr.New(ilerr.NewDuplicateItem{Positioner: at, Name: name}))
			return
		}
		scope = scope.Set(name, s)
	}
	for _, item := range items {
		switch item := item.(type) {
		case *ast.EnumDecl:
			def := l.newAdt(c, item.Name, types.KindEnum, item.Generics, item.NonExhaustive, item)
			for _, v := range item.Variants {
				def.Variants = append(def.Variants, types.VariantDef{Name: v.Name, Shape: v.Kind})
			}
			declare(item.Name, item, symbol{kind: symAdt, adt: def})
			l.pending = append(l.pending, pendingAdt{def: def, decl: item})
		case *ast.StructDecl:
			def := l.newAdt(c, item.Name, types.KindStruct, item.Generics, item.NonExhaustive, item)
			def.Variants = []types.VariantDef{{Name: item.Name, Shape: item.Kind}}
			declare(item.Name, item, symbol{kind: symAdt, adt: def})
			l.pending = append(l.pending, pendingAdt{def: def, decl: item})
		case *ast.FnDecl:
			declare(item.Name, item, symbol{kind: symFn, fn: &fnSig{decl: item}})
		}
	}
	return scope
}

// resolveUses imports the targets of the use declarations of a crate root
func (l *lowerer) resolveUses(c *crate, items []ast.Item) {
	rootEnv := env{crate: c, items: c.root, locals: emptyNames()}
	for _, item := range items {
		use, ok := item.(*ast.UseDecl)
		if !ok {
			continue
		}
		c.root = l.importUse(rootEnv, c.root, use)
		rootEnv.items = c.root
	}
}

// importUse adds the target of use to scope. `use E::*` imports every variant of E.
func (l *lowerer) importUse(e env, scope names, use *ast.UseDecl) names {
	path := use.Path
	glob := len(path) > 0 && path[len(path)-1] == "*"
	if glob {
		path = path[:len(path)-1]
	}
	target, ok := e.resolveSegments(path)
	if !ok {
		l.errs = l.errs.With(ilerr.New(ilerr.NewUnresolvedImport{Positioner: use, Path: ast.Path{Segments: use.Path}.String()}))
		return scope
	}
	if !glob {
		return scope.Set(path[len(path)-1], target)
	}
	switch target.kind {
	case symAdt:
		if target.adt.IsEnum() {
			for i, v := range target.adt.Variants {
				scope = scope.Set(v.Name, symbol{kind: symVariant, adt: target.adt, variant: i})
			}
			return scope
		}
	case symCrate:
		itr := target.crate.root.Iterator()
		for !itr.Done() {
			name, s, _ := itr.Next()
			scope = scope.Set(name, s)
		}
		return scope
	}
	l.errs = l.errs.With(ilerr.New(ilerr.NewUnresolvedImport{Positioner: use, Path: ast.Path{Segments: use.Path}.String()}))
	return scope
}

// resolvePending resolves the field types of the declared ADTs
func (l *lowerer) resolvePending() {
	pending := l.pending
	l.pending = nil
	for _, p := range pending {
		e := p.env
		if e.crate == nil {
			c := l.crates[p.def.Crate]
			e = env{crate: c, items: c.root, locals: emptyNames()}
		}
		e.generics = p.def.Generics
		switch decl := p.decl.(type) {
		case *ast.EnumDecl:
			for i, v := range decl.Variants {
				p.def.Variants[i].Fields = l.resolveFields(e, v.Fields)
			}
		case *ast.StructDecl:
			p.def.Variants[0].Fields = l.resolveFields(e, decl.Fields)
		}
	}
}

func (l *lowerer) resolveFields(e env, decls []ast.FieldDecl) []types.FieldDef {
	fields := make([]types.FieldDef, len(decls))
	for i, f := range decls {
		name := f.Name
		if name == "" {
			name = types.PositionalName(i)
		}
		fields[i] = types.FieldDef{Name: name, Type: l.resolveType(e, f.Type)}
	}
	return fields
}

func (l *lowerer) resolveFnSigs(e env, items []ast.Item) {
	for _, item := range items {
		fn, ok := item.(*ast.FnDecl)
		if !ok {
			continue
		}
		s, ok := e.items.Get(fn.Name)
		if !ok || s.kind != symFn || s.fn.decl != fn {
			continue
		}
		fnEnv := e
		fnEnv.generics = nil
		s.fn.params = make([]types.Type, len(fn.Params))
		for i, param := range fn.Params {
			s.fn.params[i] = l.resolveType(fnEnv, param.Type)
		}
		s.fn.ret = types.UnitType
		if fn.Ret != nil {
			s.fn.ret = l.resolveType(fnEnv, fn.Ret)
		}
	}
}
