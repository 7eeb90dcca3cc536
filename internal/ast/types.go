package ast

type Kind int

const (
	// Special / error
	ILLEGAL Kind = iota

	// High-level constructs
	MODULE

	// Statements
	FUNCTION_DEF
	CLASS_DEF
	RETURN
	DELETE
	ASSIGN
	AUG_ASSIGN
	ANN_ASSIGN
	FOR
	WHILE
	IF
	WITH
	RAISE
	TRY
	ASSERT
	IMPORT
	IMPORT_FROM
	GLOBAL
	NONLOCAL
	EXPR_STMT
	PASS
	BREAK
	CONTINUE

	// Expressions
	BOOL_OP
	NAMED_EXPR
	BIN_OP
	UNARY_OP
	LAMBDA
	IF_EXP
	DICT
	SET
	LIST_COMP
	SET_COMP
	DICT_COMP
	GENERATOR_EXP
	AWAIT
	YIELD
	YIELD_FROM
	COMPARE
	CALL
	FORMATTED_VALUE
	JOINED_STR
	CONSTANT
	ATTRIBUTE
	SUBSCRIPT
	STARRED
	NAME
	LIST
	TUPLE
	SLICE

	// Helper nodes
	ARGUMENTS
	ARG
	KEYWORD
	ALIAS
	WITH_ITEM
	EXCEPT_HANDLER
	COMPREHENSION
)

var kindNames = [...]string{
	ILLEGAL:         "Illegal",
	MODULE:          "Module",
	FUNCTION_DEF:    "FunctionDef",
	CLASS_DEF:       "ClassDef",
	RETURN:          "Return",
	DELETE:          "Delete",
	ASSIGN:          "Assign",
	AUG_ASSIGN:      "AugAssign",
	ANN_ASSIGN:      "AnnAssign",
	FOR:             "For",
	WHILE:           "While",
	IF:              "If",
	WITH:            "With",
	RAISE:           "Raise",
	TRY:             "Try",
	ASSERT:          "Assert",
	IMPORT:          "Import",
	IMPORT_FROM:     "ImportFrom",
	GLOBAL:          "Global",
	NONLOCAL:        "Nonlocal",
	EXPR_STMT:       "Expr",
	PASS:            "Pass",
	BREAK:           "Break",
	CONTINUE:        "Continue",
	BOOL_OP:         "BoolOp",
	NAMED_EXPR:      "NamedExpr",
	BIN_OP:          "BinOp",
	UNARY_OP:        "UnaryOp",
	LAMBDA:          "Lambda",
	IF_EXP:          "IfExp",
	DICT:            "Dict",
	SET:             "Set",
	LIST_COMP:       "ListComp",
	SET_COMP:        "SetComp",
	DICT_COMP:       "DictComp",
	GENERATOR_EXP:   "GeneratorExp",
	AWAIT:           "Await",
	YIELD:           "Yield",
	YIELD_FROM:      "YieldFrom",
	COMPARE:         "Compare",
	CALL:            "Call",
	FORMATTED_VALUE: "FormattedValue",
	JOINED_STR:      "JoinedStr",
	CONSTANT:        "Constant",
	ATTRIBUTE:       "Attribute",
	SUBSCRIPT:       "Subscript",
	STARRED:         "Starred",
	NAME:            "Name",
	LIST:            "List",
	TUPLE:           "Tuple",
	SLICE:           "Slice",
	ARGUMENTS:       "arguments",
	ARG:             "arg",
	KEYWORD:         "keyword",
	ALIAS:           "alias",
	WITH_ITEM:       "withitem",
	EXCEPT_HANDLER:  "ExceptHandler",
	COMPREHENSION:   "comprehension",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return "Kind(?)"
	}
	return kindNames[k]
}

type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute index in input
}
