package entity

import (
	"fmt"

	"github.com/gokanplan/gokanplan/pkg/intern"
)

// Term is the sum type `{ParameterIndex, Object}`: either a reference to
// the Index-th parameter of the enclosing rule/action/axiom, or a bound
// constant Object. Term is a plain value embedded inside Atom and
// FunctionTerm; it is not separately interned.
type Term struct {
	IsParameter bool
	ParamIndex  int
	Object      intern.Index[Object]
}

// ParamTerm builds a Term referencing parameter index i.
func ParamTerm(i int) Term { return Term{IsParameter: true, ParamIndex: i} }

// ObjectTerm builds a Term bound to a constant object.
func ObjectTerm(obj intern.Index[Object]) Term { return Term{Object: obj} }

// Key returns a canonical fragment identifying this term, used by Atom
// and FunctionTerm when building their own Key().
func (t Term) Key() string {
	if t.IsParameter {
		return fmt.Sprintf("p%d", t.ParamIndex)
	}
	return fmt.Sprintf("o%d", uint32(t.Object))
}

// Binding is an ordered list of objects that grounds the parameters of a
// rule, action, or axiom: Binding[i] is the object bound to parameter i.
type Binding []intern.Index[Object]

func (b Binding) key() string {
	s := ""
	for i, o := range b {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", uint32(o))
	}
	return s
}
