package builtins

// BuiltinType represents the built-in types of the Python language
type BuiltinType string

const (
	// Numbers
	Int     BuiltinType = "int"
	Float   BuiltinType = "float"
	Complex BuiltinType = "complex"
	Bool    BuiltinType = "bool"

	// Text and bytes
	Str       BuiltinType = "str"
	Bytes     BuiltinType = "bytes"
	Bytearray BuiltinType = "bytearray"

	// Containers
	List      BuiltinType = "list"
	Tuple     BuiltinType = "tuple"
	Dict      BuiltinType = "dict"
	Set       BuiltinType = "set"
	Frozenset BuiltinType = "frozenset"
	Range     BuiltinType = "range"

	// Other primitives
	Object BuiltinType = "object"
	Type   BuiltinType = "type"
)

// BuiltinTypes contains all valid built-in types
var BuiltinTypes = map[string]bool{
	string(Int):       true,
	string(Float):     true,
	string(Complex):   true,
	string(Bool):      true,
	string(Str):       true,
	string(Bytes):     true,
	string(Bytearray): true,
	string(List):      true,
	string(Tuple):     true,
	string(Dict):      true,
	string(Set):       true,
	string(Frozenset): true,
	string(Range):     true,
	string(Object):    true,
	string(Type):      true,
}

// BuiltinFunctions are the callables of the builtins module that are not
// types.
var BuiltinFunctions = map[string]bool{
	"abs": true, "all": true, "any": true, "ascii": true, "bin": true,
	"callable": true, "chr": true, "divmod": true, "enumerate": true,
	"eval": true, "exec": true, "filter": true, "format": true,
	"getattr": true, "globals": true, "hasattr": true, "hash": true,
	"hex": true, "id": true, "input": true, "isinstance": true,
	"issubclass": true, "iter": true, "len": true, "locals": true,
	"map": true, "max": true, "min": true, "next": true, "oct": true,
	"open": true, "ord": true, "pow": true, "print": true, "repr": true,
	"reversed": true, "round": true, "setattr": true, "sorted": true,
	"sum": true, "super": true, "vars": true, "zip": true,
}

// IsBuiltinType checks if a type name is a built-in type
func IsBuiltinType(name string) bool {
	return BuiltinTypes[name]
}

// IsBuiltinFunction checks if name is a built-in function
func IsBuiltinFunction(name string) bool {
	return BuiltinFunctions[name]
}
