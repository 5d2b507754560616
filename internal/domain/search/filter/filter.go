package filter

import (
	"github.com/kailas-cloud/simplerag/internal/domain/locale"
)

// Op is the node kind of an Expression.
type Op int

// Node kinds. The zero Op marks the empty expression.
const (
	OpNone Op = iota
	OpEq
	OpAnd
	OpOr
	OpNot
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	default:
		return "none"
	}
}

// Expression is a boolean predicate over document metadata.
// The zero Expression is empty and matches every document.
type Expression struct {
	op       Op
	key      string
	value    string
	children []Expression
}

// Eq matches documents whose metadata[key] equals value exactly.
func Eq(key, value string) Expression {
	return Expression{op: OpEq, key: key, value: value}
}

// And matches when every non-empty operand matches.
func And(exprs ...Expression) Expression {
	return group(OpAnd, exprs)
}

// Or matches when at least one non-empty operand matches.
func Or(exprs ...Expression) Expression {
	return group(OpOr, exprs)
}

// Not negates e. Negating the empty expression yields the empty expression.
func Not(e Expression) Expression {
	if e.IsEmpty() {
		return Expression{}
	}
	return Expression{op: OpNot, children: []Expression{e}}
}

func group(op Op, exprs []Expression) Expression {
	children := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		if !e.IsEmpty() {
			children = append(children, e)
		}
	}
	switch len(children) {
	case 0:
		return Expression{}
	case 1:
		return children[0]
	}
	return Expression{op: op, children: children}
}

// ForLocale restricts results to documents tagged with l.
// The zero Locale yields the empty expression.
func ForLocale(l locale.Locale) Expression {
	if l.IsZero() {
		return Expression{}
	}
	return Eq(locale.Key, l.String())
}

// IsEmpty reports whether the expression imposes no constraint.
func (e Expression) IsEmpty() bool { return e.op == OpNone }

// Op returns the node kind.
func (e Expression) Op() Op { return e.op }

// Key returns the metadata key of an Eq node.
func (e Expression) Key() string { return e.key }

// Value returns the compared value of an Eq node.
func (e Expression) Value() string { return e.value }

// Children returns the operands of And, Or and Not nodes.
func (e Expression) Children() []Expression { return e.children }

// Matches evaluates the expression against a metadata map.
func (e Expression) Matches(metadata map[string]string) bool {
	switch e.op {
	case OpNone:
		return true
	case OpEq:
		v, ok := metadata[e.key]
		return ok && v == e.value
	case OpAnd:
		for _, c := range e.children {
			if !c.Matches(metadata) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range e.children {
			if c.Matches(metadata) {
				return true
			}
		}
		return false
	case OpNot:
		return !e.children[0].Matches(metadata)
	}
	return false
}
