package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokanplan/gokanplan/internal/ast"
	"github.com/gokanplan/gokanplan/internal/config"
	"github.com/gokanplan/gokanplan/internal/testdomain"
)

// Determinism runs domain/problem through Solve twice against cfg and
// fails t if the two runs disagree on status, cost, or the sequence of
// action names taken: OpenList's insertion-order tie-break means two
// runs over the same task must always expand nodes, and so pick
// actions, in the same order.
func Determinism(t *testing.T, domain *ast.Domain, problem *ast.Problem, cfg *config.Config) {
	t.Helper()

	first, firstBuilt, err := Solve(context.Background(), domain, problem, cfg, quietLog(t))
	require.NoError(t, err)
	second, secondBuilt, err := Solve(context.Background(), domain, problem, cfg, quietLog(t))
	require.NoError(t, err)

	require.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Plan.Cost, second.Plan.Cost)
	require.Equal(t, len(first.Plan.Steps), len(second.Plan.Steps))
	for i := range first.Plan.Steps {
		assert.Equal(t,
			DescribeStep(firstBuilt, first.Plan.Steps[i]),
			DescribeStep(secondBuilt, second.Plan.Steps[i]),
			"step %d must name the same ground action on both runs", i)
	}
}

func TestDeterminismAcrossRepeatedRuns(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.TwoRoomsTwoBalls(domain)
	Determinism(t, domain, problem, config.Default())
}

func TestDeterminismHoldsUnderGBFS(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.TwoRoomsTwoBalls(domain)
	cfg := config.Default()
	cfg.Search.Algorithm = "gbfs"
	Determinism(t, domain, problem, cfg)
}
