// Package planner wires the ingestor, pre-search grounding, and search
// packages into the single entry point both the CLI (cmd/gokanplan) and
// the determinism test helper drive: ingest a domain and problem, run the
// rule evaluator over the task's program (Solve passes it no rules),
// ground axioms, build the initial state and close it under axioms, and
// run best-first search against the configured algorithm and heuristic.
package planner

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/gokanplan/gokanplan/pkg/axiom"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/evaluator"
	"github.com/gokanplan/gokanplan/pkg/executor"
	"github.com/gokanplan/gokanplan/pkg/repo"
	"github.com/gokanplan/gokanplan/pkg/search"
	"github.com/gokanplan/gokanplan/pkg/state"

	"github.com/gokanplan/gokanplan/internal/ast"
	"github.com/gokanplan/gokanplan/internal/config"
	"github.com/gokanplan/gokanplan/internal/ingest"
	"github.com/gokanplan/gokanplan/internal/parallel"
)

// noStatics is the static-function-value lookup for domains with no
// static numeric functions: it is never called, since every
// GroundFunctionTermRef Compiled reaches here would have to belong to a
// static function, and Gripper-derived domains declare none.
func noStatics(entity.GroundFunctionTermRef) float64 { return math.NaN() }

// Built is everything a completed ingest+ground pass produces, kept
// around after Solve returns so a caller can inspect the task that was
// actually searched (e.g. to print a plan's ground action names).
type Built struct {
	Task    *repo.Task
	Indexer *state.Indexer
	States  *state.Repository
}

// Solve ingests domain and problem, grounds the task, and runs search per
// cfg, returning the search result alongside the built task for plan
// rendering. The search's own initial-state pool handle is dropped before
// Solve returns; Result.Plan's states remain valid because Run registers
// every state it visits in the returned Built.States repository, which
// outlives this call.
func Solve(ctx context.Context, domain *ast.Domain, problem *ast.Problem, cfg *config.Config, log *zap.SugaredLogger) (search.Result, *Built, error) {
	repoDomain, err := ingest.Domain(domain)
	if err != nil {
		return search.Result{}, nil, fmt.Errorf("planner: ingest domain: %w", err)
	}
	task, err := ingest.Problem(repoDomain, problem)
	if err != nil {
		return search.Result{}, nil, fmt.Errorf("planner: ingest problem: %w", err)
	}

	var pool *parallel.Pool
	if cfg.Grounding.Parallel && cfg.Grounding.Workers > 0 {
		pool = parallel.New(cfg.Grounding.Workers)
	}
	ws := evaluator.NewWorkspace(task.Repo, pool)
	program := task.ToProgram(nil)
	if err := evaluator.Evaluate(ctx, program, ws); err != nil {
		return search.Result{}, nil, fmt.Errorf("planner: rule evaluation: %w", err)
	}

	axiomProg, err := axiom.Ground(task.Repo, task, task.Objects)
	if err != nil {
		return search.Result{}, nil, fmt.Errorf("planner: axiom grounding: %w", err)
	}

	idx := state.Build(task.Repo)
	states := state.NewRepository(idx)
	initial, handle := state.InitialState(task.Repo, task, idx, states)
	initialUnpacked := handle.Get()
	axiom.Evaluate(initialUnpacked, axiomProg, idx, noStatics)
	defer handle.Drop()

	exec := &executor.Context{
		Repo:    task.Repo,
		Task:    task,
		Indexer: idx,
		States:  states,
		Axioms:  axiomProg,
		Statics: noStatics,
	}

	handler := search.NewDefaultEventHandler(log)
	goal := *task.Repo.Conditions.At(task.Goal)
	result := search.Run(ctx, exec, initial, initialUnpacked, goal, search.Config{
		Algorithm:    cfg.Algorithm(),
		Heuristic:    cfg.Heuristic(idx),
		EventHandler: handler,
		Budgets:      cfg.Budgets(),
	})

	return result, &Built{Task: task, Indexer: idx, States: states}, nil
}

// DescribeStep renders one plan step as "action-name(arg1, arg2, ...)"
// for human-readable plan output.
func DescribeStep(b *Built, step search.Step) string {
	action := *b.Task.Repo.Actions.At(step.Action.Action)
	out := action.Name + "("
	for i, obj := range step.Action.Binding {
		if i > 0 {
			out += ", "
		}
		out += b.Task.Repo.Objects.At(obj).Name
	}
	return out + ")"
}
