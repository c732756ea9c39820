package lower

import (
	"strconv"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/types"
	"github.com/cottand/matchck/util"
)

// loopFrame tracks the value a `loop` evaluates to
type loopFrame struct {
	broke     bool
	breakType types.Type
}

// bodyLowerer walks the body of one function
type bodyLowerer struct {
	*lowerer
	file  *ast.File
	owner string
	loops util.Stack[*loopFrame]
}

func (l *lowerer) lowerFn(e env, f *ast.File, fn *ast.FnDecl) {
	b := &bodyLowerer{lowerer: l, file: f, owner: fn.Name}
	e = e.itemsOnly()
	for _, param := range fn.Params {
		e = e.withLocal(param.Name, l.resolveType(e, param.Type))
	}
	if fn.Body != nil {
		b.inferBlock(e, fn.Body)
	}
}

// enterItems brings the items declared in a block into scope.
// They may shadow outer items, so they are declared in a scope of their own first.
func (b *bodyLowerer) enterItems(e env, items []ast.Item) env {
	start := len(b.pending)
	declared := b.declareItems(emptyNames(), e.crate, items)
	itr := declared.Iterator()
	for !itr.Done() {
		name, s, _ := itr.Next()
		e = e.withItem(name, s)
	}
	for _, item := range items {
		if use, ok := item.(*ast.UseDecl); ok {
			e.items = b.importUse(e.itemsOnly(), e.items, use)
		}
	}
	for i := start; i < len(b.pending); i++ {
		b.pending[i].env = e.itemsOnly()
	}
	b.resolvePending()
	b.resolveFnSigs(e.itemsOnly(), items)
	return e
}

func (b *bodyLowerer) inferBlock(e env, block *ast.BlockExpr) types.Type {
	var items []ast.Item
	for _, stmt := range block.Stmts {
		if item, ok := stmt.(*ast.ItemStmt); ok {
			items = append(items, item.Item)
		}
	}
	if len(items) > 0 {
		e = b.enterItems(e, items)
	}

	diverges := false
	for _, stmt := range block.Stmts {
		switch stmt := stmt.(type) {
		case *ast.LetStmt:
			t := types.Type(types.UnknownType)
			if stmt.Init != nil {
				t = b.inferExpr(e, stmt.Init)
			}
			if stmt.Type != nil {
				t = b.resolveType(e, stmt.Type)
			}
			e = b.bindPat(e, b.lowerPat(e, stmt.Pat), t)
		case *ast.ExprStmt:
			if isNever(b.inferExpr(e, stmt.Expr)) {
				diverges = true
			}
		case *ast.ItemStmt:
			if fn, ok := stmt.Item.(*ast.FnDecl); ok {
				b.lowerFn(e, b.file, fn)
			}
		}
	}
	ret := types.UnitType
	if block.Tail != nil {
		ret = b.inferExpr(e, block.Tail)
	}
	if diverges {
		return types.NeverType
	}
	return ret
}

func (b *bodyLowerer) inferExpr(e env, x ast.Expr) types.Type {
	switch x := x.(type) {
	case nil:
		return types.UnitType
	case *ast.LitExpr:
		return literalType(x.Literal)
	case *ast.PathExpr:
		return b.inferPath(e, x.Path)
	case *ast.CallExpr:
		return b.inferCall(e, x)
	case *ast.RecordExpr:
		return b.inferRecord(e, x)
	case *ast.TupleExpr:
		if len(x.Elems) == 0 {
			return types.UnitType
		}
		return &types.Tuple{Elems: b.inferAll(e, x.Elems)}
	case *ast.ParenExpr:
		return b.inferExpr(e, x.Inner)
	case *ast.RefExpr:
		return &types.Ref{Mut: x.Mut, Inner: b.inferExpr(e, x.Inner)}
	case *ast.BinaryExpr:
		left := b.inferExpr(e, x.Left)
		b.inferExpr(e, x.Right)
		switch x.Op {
		case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
			return types.BoolType
		case "=", "+=", "-=", "*=", "/=", "%=":
			return types.UnitType
		default:
			return left
		}
	case *ast.UnaryExpr:
		operand := b.inferExpr(e, x.Operand)
		if x.Op != "*" {
			return operand
		}
		if ref, ok := operand.(*types.Ref); ok {
			return ref.Inner
		}
		return types.UnknownType
	case *ast.FieldAccessExpr:
		return fieldType(b.inferExpr(e, x.Receiver), x.Name)
	case *ast.MethodCallExpr:
		b.inferExpr(e, x.Receiver)
		b.inferAll(e, x.Args)
		return types.UnknownType
	case *ast.MacroExpr:
		switch x.Name {
		case "panic", "todo", "unimplemented", "unreachable":
			return types.NeverType
		default:
			return types.UnknownType
		}
	case *ast.ArrayExpr:
		elem := types.Type(types.UnknownType)
		for _, t := range b.inferAll(e, x.Elems) {
			if types.IsUnknown(elem) && !isNever(t) {
				elem = t
			}
		}
		return &types.Array{Elem: elem, Len: len(x.Elems)}
	case *ast.BlockExpr:
		return b.inferBlock(e, x)
	case *ast.LoopExpr:
		frame := &loopFrame{breakType: types.UnknownType}
		b.loops.Push(frame)
		b.inferBlock(e, x.Body)
		b.loops.Pop()
		if !frame.broke {
			return types.NeverType
		}
		return frame.breakType
	case *ast.WhileExpr:
		b.inferExpr(e, x.Cond)
		b.loops.Push(&loopFrame{breakType: types.UnitType})
		b.inferBlock(e, x.Body)
		b.loops.Pop()
		return types.UnitType
	case *ast.BreakExpr:
		t := b.inferExpr(e, x.Value)
		if frame, ok := b.loops.Peek(); ok {
			frame.broke = true
			if types.IsUnknown(frame.breakType) && !isNever(t) {
				frame.breakType = t
			}
		}
		return types.NeverType
	case *ast.ContinueExpr:
		return types.NeverType
	case *ast.ReturnExpr:
		b.inferExpr(e, x.Value)
		return types.NeverType
	case *ast.IfExpr:
		b.inferExpr(e, x.Cond)
		then := b.inferBlock(e, x.Then)
		otherwise := types.UnitType
		if x.Else != nil {
			otherwise = b.inferExpr(e, x.Else)
		}
		return join(then, otherwise)
	case *ast.MatchExpr:
		return b.inferMatch(e, x)
	default:
		return types.UnknownType
	}
}

func (b *bodyLowerer) inferAll(e env, xs []ast.Expr) []types.Type {
	ret := make([]types.Type, len(xs))
	for i, x := range xs {
		ret[i] = b.inferExpr(e, x)
	}
	return ret
}

func (b *bodyLowerer) typeArgs(e env, args []ast.Type) []types.Type {
	ret := make([]types.Type, len(args))
	for i, arg := range args {
		ret[i] = b.resolveType(e, arg)
	}
	return ret
}

// inferPath is the type of a local, a unit struct or a unit variant
func (b *bodyLowerer) inferPath(e env, path ast.Path) types.Type {
	s, ok := e.resolveSegments(path.Segments)
	if !ok {
		logger.Debug("unresolved expression path", "path", path.String(), "owner", b.owner)
		return types.UnknownType
	}
	switch s.kind {
	case symLocal:
		return s.local
	case symAdt, symVariant:
		if !s.isCtor() || s.adt.Variants[s.variant].Shape != ast.UnitFields {
			return types.UnknownType
		}
		return instantiate(s.adt, b.typeArgs(e, path.Args), nil, nil)
	default:
		return types.UnknownType
	}
}

func (b *bodyLowerer) inferCall(e env, x *ast.CallExpr) types.Type {
	args := b.inferAll(e, x.Args)
	callee, ok := x.Callee.(*ast.PathExpr)
	if !ok {
		b.inferExpr(e, x.Callee)
		return types.UnknownType
	}
	s, ok := e.resolveSegments(callee.Segments)
	if !ok {
		logger.Debug("unresolved callee", "path", callee.String(), "owner", b.owner)
		return types.UnknownType
	}
	switch {
	case s.kind == symFn:
		if s.fn.ret == nil {
			return types.UnknownType
		}
		return s.fn.ret
	case s.isCtor() && s.adt.Variants[s.variant].Shape == ast.TupleFields:
		return instantiate(s.adt, b.typeArgs(e, callee.Args), declaredTypes(s.adt, s.variant), args)
	default:
		return types.UnknownType
	}
}

func (b *bodyLowerer) inferRecord(e env, x *ast.RecordExpr) types.Type {
	values := make([]types.Type, len(x.Fields))
	for i, f := range x.Fields {
		values[i] = b.inferExpr(e, f.Value)
	}
	s, ok := e.resolveSegments(x.Path.Segments)
	if !ok || !s.isCtor() {
		logger.Debug("unresolved record path", "path", x.Path.String(), "owner", b.owner)
		return types.UnknownType
	}
	all := declaredTypes(s.adt, s.variant)
	var declared, actual []types.Type
	for i, f := range x.Fields {
		if idx := s.adt.FieldIndex(s.variant, f.Name); idx >= 0 {
			declared = append(declared, all[idx])
			actual = append(actual, values[i])
		}
	}
	return instantiate(s.adt, b.typeArgs(e, x.Path.Args), declared, actual)
}

// inferMatch records x for checking, then lowers its arms with their bindings in scope
func (b *bodyLowerer) inferMatch(e env, x *ast.MatchExpr) types.Type {
	m := &hir.Match{
		MatchExpr: x.Range,
		Scrutinee: ast.RangeOf(x.Scrutinee),
		ArmList:   x.ArmList,
		File:      b.file.Name,
		Crate:     b.file.Crate,
		Owner:     b.owner,
	}
	b.program.Matches = append(b.program.Matches, m)

	scrutinee := b.inferExpr(e, x.Scrutinee)
	pats := make([]hir.Pat, len(x.Arms))
	for i, arm := range x.Arms {
		pats[i] = b.lowerPat(e, arm.Pat)
		m.Arms = append(m.Arms, hir.Arm{Range: ast.RangeOf(arm.Pat), Pat: pats[i], HasGuard: arm.Guard != nil})
	}
	if types.IsUnknown(scrutinee) {
		// the arms are the only hint left of what is being matched
		for _, pat := range pats {
			if def := adtOf(pat); def != nil {
				scrutinee = instantiate(def, nil, nil, nil)
				logger.Debug("scrutinee type taken from arm", "adt", def.Name, "owner", b.owner)
				break
			}
		}
	}
	m.ScrutineeType = scrutinee

	ret := types.Type(types.NeverType)
	for i, arm := range x.Arms {
		armEnv := b.bindPat(e, pats[i], scrutinee)
		if arm.Guard != nil {
			b.inferExpr(armEnv, arm.Guard)
		}
		ret = join(ret, b.inferExpr(armEnv, arm.Body))
	}
	return ret
}

func declaredTypes(def *types.AdtDef, variant int) []types.Type {
	fields := def.Variants[variant].Fields
	ret := make([]types.Type, len(fields))
	for i, f := range fields {
		ret[i] = f.Type
	}
	return ret
}

// fieldType is the type of `recv.name`, looking through references
func fieldType(recv types.Type, name string) types.Type {
	switch t := deref(recv).(type) {
	case *types.Tuple:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= len(t.Elems) {
			return types.UnknownType
		}
		return t.Elems[i]
	case *types.Adt:
		if t.Def.IsEnum() {
			return types.UnknownType
		}
		i := t.Def.FieldIndex(0, name)
		if i < 0 {
			return types.UnknownType
		}
		return t.Def.FieldTypes(0, t.Args)[i]
	default:
		return types.UnknownType
	}
}

func isNever(t types.Type) bool {
	_, ok := t.(*types.Never)
	return ok
}

// join is the type of an expression that evaluates to either a or b
func join(a, b types.Type) types.Type {
	switch {
	case isNever(a):
		return b
	case isNever(b):
		return a
	case types.IsUnknown(a):
		return b
	default:
		return a
	}
}
