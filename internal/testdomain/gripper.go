// Package testdomain builds the Gripper domain and problem fixtures used
// by the tests of internal/planner, internal/ingest and pkg/grounder and
// by cmd/gokanplan: a robot with two grippers shuttling balls between two
// rooms.
package testdomain

import (
	"github.com/gokanplan/gokanplan/pkg/entity"

	"github.com/gokanplan/gokanplan/internal/ast"
)

// Gripper returns the domain AST: rooms and balls are untyped objects
// distinguished by unary static predicates (room/1, ball/1, gripper/1),
// the convention this ingestor uses to express typed parameters;
// at-robby/1, free/1, at/2, and carry/2 are the fluents.
func Gripper() *ast.Domain {
	return &ast.Domain{
		Name: "gripper",
		Predicates: []ast.PredicateDecl{
			{Name: "room", Arity: 1, Kind: entity.Static},
			{Name: "ball", Arity: 1, Kind: entity.Static},
			{Name: "gripper", Arity: 1, Kind: entity.Static},
			{Name: "at-robby", Arity: 1, Kind: entity.Fluent},
			{Name: "free", Arity: 1, Kind: entity.Fluent},
			{Name: "at", Arity: 2, Kind: entity.Fluent},
			{Name: "carry", Arity: 2, Kind: entity.Fluent},
		},
		Functions: []ast.FunctionDecl{
			{Name: "total-cost", Arity: 0, Kind: entity.Fluent},
		},
		Actions: []ast.ActionDecl{moveAction(), pickAction(), dropAction()},
	}
}

func moveAction() ast.ActionDecl {
	from, to := ast.Param("from"), ast.Param("to")
	return ast.ActionDecl{
		Name:       "move",
		Parameters: []string{"from", "to"},
		Precondition: ast.Condition{
			Literals: []ast.Literal{
				{Positive: true, Predicate: "room", Args: []ast.Term{from}},
				{Positive: true, Predicate: "room", Args: []ast.Term{to}},
				{Positive: true, Predicate: "at-robby", Args: []ast.Term{from}},
			},
		},
		Effects: []ast.ConditionalEffect{
			{
				Add:    []ast.Literal{{Positive: true, Predicate: "at-robby", Args: []ast.Term{to}}},
				Delete: []ast.Literal{{Positive: true, Predicate: "at-robby", Args: []ast.Term{from}}},
				NumericEffects: []ast.NumericEffectDecl{
					{Function: "total-cost", Value: incByOne()},
				},
			},
		},
	}
}

func pickAction() ast.ActionDecl {
	ball, room, gripper := ast.Param("ball"), ast.Param("room"), ast.Param("gripper")
	return ast.ActionDecl{
		Name:       "pick",
		Parameters: []string{"ball", "room", "gripper"},
		Precondition: ast.Condition{
			Literals: []ast.Literal{
				{Positive: true, Predicate: "ball", Args: []ast.Term{ball}},
				{Positive: true, Predicate: "room", Args: []ast.Term{room}},
				{Positive: true, Predicate: "gripper", Args: []ast.Term{gripper}},
				{Positive: true, Predicate: "at", Args: []ast.Term{ball, room}},
				{Positive: true, Predicate: "at-robby", Args: []ast.Term{room}},
				{Positive: true, Predicate: "free", Args: []ast.Term{gripper}},
			},
		},
		Effects: []ast.ConditionalEffect{
			{
				Add: []ast.Literal{
					{Positive: true, Predicate: "carry", Args: []ast.Term{ball, gripper}},
				},
				Delete: []ast.Literal{
					{Positive: true, Predicate: "at", Args: []ast.Term{ball, room}},
					{Positive: true, Predicate: "free", Args: []ast.Term{gripper}},
				},
				NumericEffects: []ast.NumericEffectDecl{
					{Function: "total-cost", Value: incByOne()},
				},
			},
		},
	}
}

func dropAction() ast.ActionDecl {
	ball, room, gripper := ast.Param("ball"), ast.Param("room"), ast.Param("gripper")
	return ast.ActionDecl{
		Name:       "drop",
		Parameters: []string{"ball", "room", "gripper"},
		Precondition: ast.Condition{
			Literals: []ast.Literal{
				{Positive: true, Predicate: "ball", Args: []ast.Term{ball}},
				{Positive: true, Predicate: "room", Args: []ast.Term{room}},
				{Positive: true, Predicate: "gripper", Args: []ast.Term{gripper}},
				{Positive: true, Predicate: "carry", Args: []ast.Term{ball, gripper}},
				{Positive: true, Predicate: "at-robby", Args: []ast.Term{room}},
			},
		},
		Effects: []ast.ConditionalEffect{
			{
				Add: []ast.Literal{
					{Positive: true, Predicate: "at", Args: []ast.Term{ball, room}},
					{Positive: true, Predicate: "free", Args: []ast.Term{gripper}},
				},
				Delete: []ast.Literal{
					{Positive: true, Predicate: "carry", Args: []ast.Term{ball, gripper}},
				},
				NumericEffects: []ast.NumericEffectDecl{
					{Function: "total-cost", Value: incByOne()},
				},
			},
		},
	}
}

func incByOne() ast.Expr {
	return ast.Expr{
		Kind: entity.ExprArith,
		Op:   entity.OpAdd,
		Operands: []ast.Expr{
			{Kind: entity.ExprFunctionTerm, Function: "total-cost"},
			{Kind: entity.ExprConst, Const: 1},
		},
	}
}

// TwoRoomsTwoBalls returns a problem with the robot in room A, two balls
// in room A, two grippers, goal both balls in room B.
func TwoRoomsTwoBalls(domain *ast.Domain) *ast.Problem {
	return &ast.Problem{
		Domain:  domain,
		Objects: []string{"roomA", "roomB", "ball1", "ball2", "left", "right"},
		InitialLiterals: []ast.Literal{
			{Positive: true, Predicate: "room", Args: []ast.Term{ast.Const("roomA")}},
			{Positive: true, Predicate: "room", Args: []ast.Term{ast.Const("roomB")}},
			{Positive: true, Predicate: "ball", Args: []ast.Term{ast.Const("ball1")}},
			{Positive: true, Predicate: "ball", Args: []ast.Term{ast.Const("ball2")}},
			{Positive: true, Predicate: "gripper", Args: []ast.Term{ast.Const("left")}},
			{Positive: true, Predicate: "gripper", Args: []ast.Term{ast.Const("right")}},
			{Positive: true, Predicate: "at-robby", Args: []ast.Term{ast.Const("roomA")}},
			{Positive: true, Predicate: "free", Args: []ast.Term{ast.Const("left")}},
			{Positive: true, Predicate: "free", Args: []ast.Term{ast.Const("right")}},
			{Positive: true, Predicate: "at", Args: []ast.Term{ast.Const("ball1"), ast.Const("roomA")}},
			{Positive: true, Predicate: "at", Args: []ast.Term{ast.Const("ball2"), ast.Const("roomA")}},
		},
		InitialValues: []ast.FunctionValue{
			{Function: "total-cost", Value: 0},
		},
		Goal: ast.Condition{
			Literals: []ast.Literal{
				{Positive: true, Predicate: "at", Args: []ast.Term{ast.Const("ball1"), ast.Const("roomB")}},
				{Positive: true, Predicate: "at", Args: []ast.Term{ast.Const("ball2"), ast.Const("roomB")}},
			},
		},
		Metric: &ast.Metric{Expression: ast.Expr{Kind: entity.ExprFunctionTerm, Function: "total-cost"}},
	}
}

// AlreadyAtGoal returns a problem whose goal is at-robby(roomA), with the
// robot already starting there, so the initial state is already a goal
// state.
func AlreadyAtGoal(domain *ast.Domain) *ast.Problem {
	return &ast.Problem{
		Domain:  domain,
		Objects: []string{"roomA", "roomB", "left", "right"},
		InitialLiterals: []ast.Literal{
			{Positive: true, Predicate: "room", Args: []ast.Term{ast.Const("roomA")}},
			{Positive: true, Predicate: "room", Args: []ast.Term{ast.Const("roomB")}},
			{Positive: true, Predicate: "gripper", Args: []ast.Term{ast.Const("left")}},
			{Positive: true, Predicate: "gripper", Args: []ast.Term{ast.Const("right")}},
			{Positive: true, Predicate: "at-robby", Args: []ast.Term{ast.Const("roomA")}},
			{Positive: true, Predicate: "free", Args: []ast.Term{ast.Const("left")}},
			{Positive: true, Predicate: "free", Args: []ast.Term{ast.Const("right")}},
		},
		InitialValues: []ast.FunctionValue{{Function: "total-cost", Value: 0}},
		Goal: ast.Condition{
			Literals: []ast.Literal{
				{Positive: true, Predicate: "at-robby", Args: []ast.Term{ast.Const("roomA")}},
			},
		},
	}
}

// UnsolvableByStaticPruning returns a problem whose goal mentions
// room(roomC), an object that exists but is never asserted as a
// room. room is static, so no action can ever make room(roomC) true —
// the pre-search grounder never enumerates that ground atom at all,
// which is what lets the search prove unsolvability before expanding any
// node.
func UnsolvableByStaticPruning(domain *ast.Domain) *ast.Problem {
	p := TwoRoomsTwoBalls(domain)
	p.Objects = append(p.Objects, "roomC")
	p.Goal = ast.Condition{
		Literals: []ast.Literal{
			{Positive: true, Predicate: "room", Args: []ast.Term{ast.Const("roomC")}},
		},
	}
	return p
}
