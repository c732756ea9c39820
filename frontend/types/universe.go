package types

var scalarNames = []string{
	"i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize",
	"f32", "f64",
	"char", "str",
}

var universe = func() map[string]Type {
	u := make(map[string]Type, len(scalarNames)+1)
	for _, name := range scalarNames {
		u[name] = &Scalar{Name: name}
	}
	u["bool"] = BoolType
	return u
}()

// Builtin returns the primitive type called name, if any
func Builtin(name string) (Type, bool) {
	t, ok := universe[name]
	return t, ok
}

// IntType is the type given to integer literals without a suffix
var IntType = universe["i32"]

var FloatType = universe["f64"]

var CharType = universe["char"]

// StrType is `&str`, the type of string literals
var StrType Type = &Ref{Inner: universe["str"]}
