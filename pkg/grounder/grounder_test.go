package grounder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"

	"github.com/gokanplan/gokanplan/internal/ingest"
	"github.com/gokanplan/gokanplan/internal/testdomain"
)

func noValues(entity.GroundFunctionTermRef) float64 { return math.NaN() }

func twoRoomsTask(t *testing.T) (*repo.Domain, *repo.Task) {
	t.Helper()
	gripperDomain := testdomain.Gripper()
	domain, err := ingest.Domain(gripperDomain)
	require.NoError(t, err)
	task, err := ingest.Problem(domain, testdomain.TwoRoomsTwoBalls(gripperDomain))
	require.NoError(t, err)
	return domain, task
}

func findObject(t *testing.T, r *repo.Repository, objects []intern.Index[entity.Object], name string) intern.Index[entity.Object] {
	t.Helper()
	for _, idx := range objects {
		if r.Objects.At(idx).Name == name {
			return idx
		}
	}
	t.Fatalf("object %q not found", name)
	return 0
}

func TestHoldsFalseBeforeGoalAtomsAreAsserted(t *testing.T) {
	_, task := twoRoomsTask(t)
	facts := Facts{Atoms: task.Repo.GroundAtoms, Functions: task.Repo.GroundFunctionTerms, Values: noValues}
	ctx := &Context{Repo: task.Repo, Facts: facts}

	goal := *task.Repo.Conditions.At(task.Goal)
	assert.False(t, ctx.Holds(goal, entity.Binding{}), "goal atoms were never asserted in the initial state")
}

func TestHoldsTrueAfterGoalAtomsAreAsserted(t *testing.T) {
	_, task := twoRoomsTask(t)
	facts := Facts{Atoms: task.Repo.GroundAtoms, Functions: task.Repo.GroundFunctionTerms, Values: noValues}
	ctx := &Context{Repo: task.Repo, Facts: facts}

	goal := *task.Repo.Conditions.At(task.Goal)
	for _, lit := range goal.FluentLiterals {
		atom := *task.Repo.Atoms.At(lit.Atom)
		binding := make(entity.Binding, len(atom.Terms))
		for i, term := range atom.Terms {
			binding[i] = term.Object
		}
		task.Repo.GroundAtoms.GetOrCreate(atom.Predicate, binding)
	}

	assert.True(t, ctx.Holds(goal, entity.Binding{}))
}

func TestVerifyAcceptsStaticPreconditionOfMoveAction(t *testing.T) {
	domain, task := twoRoomsTask(t)
	facts := Facts{Atoms: task.Repo.GroundAtoms, Functions: task.Repo.GroundFunctionTerms, Values: noValues}
	ctx := &Context{Repo: task.Repo, Facts: facts}

	move := *task.Repo.Actions.At(domain.Actions[0])
	require.Equal(t, "move", move.Name)
	body := *task.Repo.Conditions.At(move.Precondition)

	roomA := findObject(t, task.Repo, task.Objects, "roomA")
	roomB := findObject(t, task.Repo, task.Objects, "roomB")
	binding := entity.Binding{roomA, roomB}

	assert.True(t, ctx.Verify(body, binding), "roomA and roomB are both room/1 and at-robby(roomA) was asserted in the initial state")
}

func TestVerifyRejectsMoveWhenRobotIsElsewhere(t *testing.T) {
	domain, task := twoRoomsTask(t)
	facts := Facts{Atoms: task.Repo.GroundAtoms, Functions: task.Repo.GroundFunctionTerms, Values: noValues}
	ctx := &Context{Repo: task.Repo, Facts: facts}

	move := *task.Repo.Actions.At(domain.Actions[0])
	body := *task.Repo.Conditions.At(move.Precondition)

	roomA := findObject(t, task.Repo, task.Objects, "roomA")
	roomB := findObject(t, task.Repo, task.Objects, "roomB")
	// move(roomB, roomA): at-robby(roomB) was never asserted.
	binding := entity.Binding{roomB, roomA}

	assert.False(t, ctx.Verify(body, binding))
}

func TestGroundBodyOmitsStaticLiterals(t *testing.T) {
	domain, task := twoRoomsTask(t)
	facts := Facts{Atoms: task.Repo.GroundAtoms, Functions: task.Repo.GroundFunctionTerms, Values: noValues}
	ctx := &Context{Repo: task.Repo, Facts: facts}

	move := *task.Repo.Actions.At(domain.Actions[0])
	body := *task.Repo.Conditions.At(move.Precondition)
	require.NotEmpty(t, body.StaticLiterals, "move's precondition declares room/1 static literals")

	roomA := findObject(t, task.Repo, task.Objects, "roomA")
	roomB := findObject(t, task.Repo, task.Objects, "roomB")
	binding := entity.Binding{roomA, roomB}

	ground := ctx.GroundBody(body, binding)
	assert.Len(t, ground.Literals, len(body.FluentLiterals)+len(body.DerivedLiterals))
}

func TestEvalExprReadsGroundFunctionValue(t *testing.T) {
	_, task := twoRoomsTask(t)
	values := map[entity.GroundFunctionTermRef]float64{}
	for _, fv := range task.InitialFunctionValues {
		values[fv.Term] = fv.Value
	}
	facts := Facts{
		Atoms:     task.Repo.GroundAtoms,
		Functions: task.Repo.GroundFunctionTerms,
		Values:    func(ref entity.GroundFunctionTermRef) float64 { return values[ref] },
	}
	ctx := &Context{Repo: task.Repo, Facts: facts}

	require.NotNil(t, task.Metric)
	assert.Equal(t, 0.0, ctx.EvalExpr(task.Metric.Expression, entity.Binding{}))
}
