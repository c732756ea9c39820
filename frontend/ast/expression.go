package ast

// Expr is the interface for all expression nodes in the AST.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is the interface for all statement nodes in the AST.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
}

type LitKind uint8

const (
	LitBool LitKind = iota
	LitInt
	LitFloat
	LitChar
	LitStr
)

func (k LitKind) String() string {
	switch k {
	case LitBool:
		return "bool"
	case LitInt:
		return "integer"
	case LitFloat:
		return "float"
	case LitChar:
		return "char"
	case LitStr:
		return "string"
	default:
		return "invalid"
	}
}

// Literal is shared by literal expressions and literal patterns.
type Literal struct {
	Range
	Kind  LitKind
	Value string
}

// Path is `a::b::C` with optional turbofish arguments, as in `Option::<T>::None`.
type Path struct {
	Range
	Segments []string
	Args     []Type
}

// IsSingle reports whether the path is a plain identifier.
func (p Path) IsSingle() bool {
	return len(p.Segments) == 1 && len(p.Args) == 0
}

func (p Path) String() string {
	s := ""
	for i, segment := range p.Segments {
		if i > 0 {
			s += "::"
		}
		s += segment
	}
	return s
}

type LitExpr struct {
	Literal
}

type PathExpr struct {
	Path
}

// CallExpr is a function call or a tuple struct / variant constructor call.
type CallExpr struct {
	Range
	Callee Expr
	Args   []Expr
}

type FieldExpr struct {
	Range
	Name  string
	Value Expr
}

// RecordExpr is `Path { a: x, b }`
type RecordExpr struct {
	Range
	Path   Path
	Fields []FieldExpr
}

// TupleExpr is `(a, b)`. The unit value is a TupleExpr without elements.
type TupleExpr struct {
	Range
	Elems []Expr
}

type ParenExpr struct {
	Range
	Inner Expr
}

type RefExpr struct {
	Range
	Mut   bool
	Inner Expr
}

type BinaryExpr struct {
	Range
	Op    string
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Range
	Op      string
	Operand Expr
}

// FieldAccessExpr is `recv.name` or `recv.0`
type FieldAccessExpr struct {
	Range
	Receiver Expr
	Name     string
}

type MethodCallExpr struct {
	Range
	Receiver Expr
	Method   string
	Args     []Expr
}

// MacroExpr is a macro invocation such as `todo!()`. Its arguments are not parsed.
type MacroExpr struct {
	Range
	Name string
}

// ArrayExpr is `[a, b, c]`
type ArrayExpr struct {
	Range
	Elems []Expr
}

type BlockExpr struct {
	Range
	Stmts []Stmt
	Tail  Expr
}

type LoopExpr struct {
	Range
	Body *BlockExpr
}

type WhileExpr struct {
	Range
	Cond Expr
	Body *BlockExpr
}

type ContinueExpr struct {
	Range
}

type BreakExpr struct {
	Range
	Value Expr
}

type ReturnExpr struct {
	Range
	Value Expr
}

type IfExpr struct {
	Range
	Cond Expr
	Then *BlockExpr
	Else Expr
}

// MatchArm is `Pat if Guard => Body`. Guard is nil when the arm is unguarded.
type MatchArm struct {
	Range
	Pat   Pattern
	Guard Expr
	Body  Expr
}

// MatchExpr covers the `match` keyword through the closing brace of the arm list.
type MatchExpr struct {
	Range
	Scrutinee Expr
	ArmList   Range
	Arms      []MatchArm
}

type LetStmt struct {
	Range
	Pat  Pattern
	Type Type
	Init Expr
}

type ExprStmt struct {
	Range
	Expr Expr
}

type ItemStmt struct {
	Range
	Item Item
}

func (*LitExpr) exprNode()         {}
func (*PathExpr) exprNode()        {}
func (*CallExpr) exprNode()        {}
func (*RecordExpr) exprNode()      {}
func (*TupleExpr) exprNode()       {}
func (*ParenExpr) exprNode()       {}
func (*RefExpr) exprNode()         {}
func (*BinaryExpr) exprNode()      {}
func (*UnaryExpr) exprNode()       {}
func (*FieldAccessExpr) exprNode() {}
func (*MethodCallExpr) exprNode()  {}
func (*MacroExpr) exprNode()       {}
func (*ArrayExpr) exprNode()       {}
func (*BlockExpr) exprNode()       {}
func (*WhileExpr) exprNode()       {}
func (*ContinueExpr) exprNode()    {}
func (*LoopExpr) exprNode()        {}
func (*BreakExpr) exprNode()       {}
func (*ReturnExpr) exprNode()      {}
func (*IfExpr) exprNode()          {}
func (*MatchExpr) exprNode()       {}

func (*LetStmt) stmtNode()  {}
func (*ExprStmt) stmtNode() {}
func (*ItemStmt) stmtNode() {}
