package entity

import "fmt"

// Object is a named domain constant, e.g. "ball1" or "roomA".
type Object struct {
	Name string
}

// Key returns Object's identifying-members string: its name.
func (o Object) Key() string { return "o:" + o.Name }

func (o Object) String() string { return o.Name }

// Variable is a named placeholder used inside a rule, axiom, or action
// parameter list and body.
type Variable struct {
	Name string
}

// Key returns Variable's identifying-members string: its name.
func (v Variable) Key() string { return "v:" + v.Name }

func (v Variable) String() string { return fmt.Sprintf("?%s", v.Name) }
