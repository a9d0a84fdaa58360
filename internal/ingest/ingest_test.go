package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokanplan/gokanplan/pkg/entity"

	"github.com/gokanplan/gokanplan/internal/ast"
	"github.com/gokanplan/gokanplan/internal/testdomain"
)

func TestDomainIngestsGripper(t *testing.T) {
	domain, err := Domain(testdomain.Gripper())
	require.NoError(t, err)
	assert.Len(t, domain.Predicates, 7)
	assert.Len(t, domain.Functions, 1)
	assert.Len(t, domain.Actions, 3)
	assert.Empty(t, domain.Axioms)
}

func TestProblemOverlaysDomainRepository(t *testing.T) {
	gripperDomain := testdomain.Gripper()
	domain, err := Domain(gripperDomain)
	require.NoError(t, err)

	task, err := Problem(domain, testdomain.TwoRoomsTwoBalls(gripperDomain))
	require.NoError(t, err)

	assert.Len(t, task.Objects, 6)
	assert.Len(t, task.InitialAtoms, 11)
	assert.Len(t, task.InitialFunctionValues, 1)
	require.NotNil(t, task.Metric)

	// The task's repository overlays the domain's: actions interned while
	// building the domain must still resolve through the task's repo.
	for _, idx := range domain.Actions {
		action := task.Repo.Actions.At(idx)
		assert.NotEmpty(t, action.Name)
	}
}

func TestDomainRejectsDuplicatePredicate(t *testing.T) {
	d := &ast.Domain{
		Name: "bad",
		Predicates: []ast.PredicateDecl{
			{Name: "p", Arity: 1, Kind: entity.Fluent},
			{Name: "p", Arity: 1, Kind: entity.Fluent},
		},
	}
	_, err := Domain(d)
	assert.ErrorIs(t, err, ErrDuplicatePredicate)
}

func TestDomainRejectsDuplicateFunction(t *testing.T) {
	d := &ast.Domain{
		Name: "bad",
		Functions: []ast.FunctionDecl{
			{Name: "cost", Arity: 0, Kind: entity.Fluent},
			{Name: "cost", Arity: 0, Kind: entity.Fluent},
		},
	}
	_, err := Domain(d)
	assert.ErrorIs(t, err, ErrDuplicateFunction)
}

func TestActionRejectsUnknownPredicate(t *testing.T) {
	x := ast.Param("x")
	d := &ast.Domain{
		Name: "bad",
		Actions: []ast.ActionDecl{
			{
				Name:       "noop",
				Parameters: []string{"x"},
				Precondition: ast.Condition{
					Literals: []ast.Literal{{Positive: true, Predicate: "missing", Args: []ast.Term{x}}},
				},
			},
		},
	}
	_, err := Domain(d)
	assert.ErrorIs(t, err, ErrUnknownPredicate)
}

func TestActionRejectsDuplicateParameter(t *testing.T) {
	d := &ast.Domain{
		Name: "bad",
		Predicates: []ast.PredicateDecl{
			{Name: "p", Arity: 1, Kind: entity.Fluent},
		},
		Actions: []ast.ActionDecl{
			{Name: "dup", Parameters: []string{"x", "x"}},
		},
	}
	_, err := Domain(d)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
}

func TestProblemRejectsNegativeInitialLiteral(t *testing.T) {
	gripperDomain := testdomain.Gripper()
	domain, err := Domain(gripperDomain)
	require.NoError(t, err)

	problem := testdomain.TwoRoomsTwoBalls(gripperDomain)
	problem.InitialLiterals[0].Positive = false

	_, err = Problem(domain, problem)
	assert.Error(t, err)
}

func TestProblemRejectsUnknownObjectInGoal(t *testing.T) {
	gripperDomain := testdomain.Gripper()
	domain, err := Domain(gripperDomain)
	require.NoError(t, err)

	problem := testdomain.TwoRoomsTwoBalls(gripperDomain)
	problem.Goal.Literals = []ast.Literal{
		{Positive: true, Predicate: "at", Args: []ast.Term{ast.Const("ball1"), ast.Const("nowhere")}},
	}

	_, err = Problem(domain, problem)
	assert.ErrorIs(t, err, ErrUnknownObject)
}
