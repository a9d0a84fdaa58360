package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gokanplan/gokanplan/pkg/search"

	"github.com/gokanplan/gokanplan/internal/ast"
	"github.com/gokanplan/gokanplan/internal/config"
	"github.com/gokanplan/gokanplan/internal/planner"
	"github.com/gokanplan/gokanplan/internal/testdomain"
)

// scenarios maps a --scenario name to the built-in Gripper problem it
// selects. There is no text-format domain/problem parser, so solve runs
// against the programmatically-built fixtures internal/testdomain
// already ships for exactly this purpose.
var scenarios = map[string]func(*ast.Domain) *ast.Problem{
	"two-rooms-two-balls":       testdomain.TwoRoomsTwoBalls,
	"already-at-goal":           testdomain.AlreadyAtGoal,
	"unsolvable-static-pruning": testdomain.UnsolvableByStaticPruning,
}

var (
	scenarioFlag  string
	algorithmFlag string
	heuristicFlag string
	maxStatesFlag int
	maxTimeFlag   time.Duration
	parallelFlag  bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "run best-first search against a built-in planning scenario",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&scenarioFlag, "scenario", "two-rooms-two-balls", "built-in scenario name")
	solveCmd.Flags().StringVar(&algorithmFlag, "algorithm", "", "search algorithm: astar or gbfs")
	solveCmd.Flags().StringVar(&heuristicFlag, "heuristic", "", "heuristic: blind or goalcount")
	solveCmd.Flags().IntVar(&maxStatesFlag, "max-states", 0, "state budget (0 = unbounded)")
	solveCmd.Flags().DurationVar(&maxTimeFlag, "max-time", 0, "wall-clock budget (0 = unbounded)")
	solveCmd.Flags().BoolVar(&parallelFlag, "parallel", false, "ground derived rules with the parallel workspace")
}

func runSolve(cmd *cobra.Command, args []string) error {
	build, ok := scenarios[scenarioFlag]
	if !ok {
		return fmt.Errorf("solve: unknown scenario %q", scenarioFlag)
	}

	cfg := config.Default()
	if configPath != "" {
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = fileCfg
	}
	flags := &config.Config{
		Search: config.SearchConfig{
			Algorithm: algorithmFlag,
			Heuristic: heuristicFlag,
			MaxStates: maxStatesFlag,
			MaxTime:   maxTimeFlag,
		},
		Grounding: config.GroundingConfig{Parallel: parallelFlag},
		Debug:     debugFlag,
	}
	cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logger *zap.Logger
	var err error
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("solve: build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	domain := testdomain.Gripper()
	problem := build(domain)

	result, built, err := planner.Solve(cmd.Context(), domain, problem, cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %s\n", result.Status)
	if result.Status != search.Solved {
		return nil
	}
	fmt.Fprintf(out, "cost: %g\n", result.Plan.Cost)
	fmt.Fprintf(out, "length: %d\n", len(result.Plan.Steps))
	for i, step := range result.Plan.Steps {
		fmt.Fprintf(out, "%d. %s\n", i+1, planner.DescribeStep(built, step))
	}
	return nil
}
