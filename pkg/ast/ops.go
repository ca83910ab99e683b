package ast

// UnaryOp is a prefix operator.
type UnaryOp int

// Unary operators.
const (
	Neg    UnaryOp = iota // -x
	Plus                  // +x
	BitNot                // ~x
	Not                   // NOT x
)

var unaryNames = [...]string{
	Neg:    "-",
	Plus:   "+",
	BitNot: "~",
	Not:    "NOT ",
}

// String returns the operator as it is written before its operand.
func (op UnaryOp) String() string {
	if int(op) < len(unaryNames) {
		return unaryNames[op]
	}
	return "?"
}

// BinaryOp is an infix operator.
type BinaryOp int

// Binary operators, grouped by precedence from tightest to loosest.
const (
	Mul BinaryOp = iota
	Div
	Mod
	Add
	Sub
	Concat // ||
	BitAnd
	BitOr
	BitXor
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	And
	Or
)

var binaryNames = [...]string{
	Mul:    "*",
	Div:    "/",
	Mod:    "%",
	Add:    "+",
	Sub:    "-",
	Concat: "||",
	BitAnd: "&",
	BitOr:  "|",
	BitXor: "^",
	Eq:     "=",
	Ne:     "<>",
	Lt:     "<",
	Gt:     ">",
	Le:     "<=",
	Ge:     ">=",
	And:    "AND",
	Or:     "OR",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "?"
}

// Precedence returns the binding strength of the operator; higher binds tighter.
func (op BinaryOp) Precedence() int {
	switch op {
	case Mul, Div, Mod:
		return 7
	case Add, Sub, Concat:
		return 6
	case BitAnd, BitOr, BitXor:
		return 5
	case Eq, Ne, Lt, Gt, Le, Ge:
		return 4
	case And:
		return 2
	case Or:
		return 1
	}
	return 0
}

// BetweenPrecedence is the binding strength of BETWEEN, which sits with the
// comparison operators.
const BetweenPrecedence = 4

// TernaryOp is a three-operand operator.
type TernaryOp int

// Ternary operators.
const (
	Between TernaryOp = iota
	NotBetween
)

func (op TernaryOp) String() string {
	switch op {
	case Between:
		return "BETWEEN"
	case NotBetween:
		return "NOT BETWEEN"
	}
	return "?"
}
