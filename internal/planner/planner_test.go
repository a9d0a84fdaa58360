package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gokanplan/gokanplan/pkg/search"

	"github.com/gokanplan/gokanplan/internal/config"
	"github.com/gokanplan/gokanplan/internal/testdomain"
)

func quietLog(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	return zap.NewNop().Sugar()
}

func TestSolveTwoRoomsTwoBalls(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.TwoRoomsTwoBalls(domain)

	result, built, err := Solve(context.Background(), domain, problem, config.Default(), quietLog(t))
	require.NoError(t, err)
	require.Equal(t, search.Solved, result.Status)
	assert.NotEmpty(t, result.Plan.Steps)
	assert.Equal(t, float64(len(result.Plan.Steps)), result.Plan.Cost)

	for _, step := range result.Plan.Steps {
		assert.NotEmpty(t, DescribeStep(built, step))
	}
}

func TestSolveAlreadyAtGoal(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.AlreadyAtGoal(domain)

	result, _, err := Solve(context.Background(), domain, problem, config.Default(), quietLog(t))
	require.NoError(t, err)
	require.Equal(t, search.Solved, result.Status)
	assert.Empty(t, result.Plan.Steps, "initial state already satisfies the goal")
	assert.Zero(t, result.Plan.Cost)
}

func TestSolveUnsolvableByStaticPruning(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.UnsolvableByStaticPruning(domain)

	result, _, err := Solve(context.Background(), domain, problem, config.Default(), quietLog(t))
	require.NoError(t, err)
	assert.Equal(t, search.Unsolvable, result.Status)
}

func TestSolveBlindHeuristicStillSolves(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.TwoRoomsTwoBalls(domain)

	cfg := config.Default()
	cfg.Search.Heuristic = "blind"
	cfg.Search.Algorithm = "gbfs"

	result, _, err := Solve(context.Background(), domain, problem, cfg, quietLog(t))
	require.NoError(t, err)
	require.Equal(t, search.Solved, result.Status)
}

func TestSolveParallelGroundingAgreesWithSequential(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.TwoRoomsTwoBalls(domain)

	sequential, _, err := Solve(context.Background(), domain, problem, config.Default(), quietLog(t))
	require.NoError(t, err)

	parallelCfg := config.Default()
	parallelCfg.Grounding.Parallel = true
	parallelCfg.Grounding.Workers = 4
	parallel, _, err := Solve(context.Background(), domain, problem, parallelCfg, quietLog(t))
	require.NoError(t, err)

	assert.Equal(t, sequential.Status, parallel.Status)
	assert.Equal(t, sequential.Plan.Cost, parallel.Plan.Cost)
	assert.Equal(t, len(sequential.Plan.Steps), len(parallel.Plan.Steps))
}

func TestSolveMaxStatesBudgetStopsSearch(t *testing.T) {
	domain := testdomain.Gripper()
	problem := testdomain.TwoRoomsTwoBalls(domain)

	cfg := config.Default()
	cfg.Search.MaxStates = 1
	result, _, err := Solve(context.Background(), domain, problem, cfg, quietLog(t))
	require.NoError(t, err)
	assert.Equal(t, search.OutOfStates, result.Status)
}
