// Evaluate drives the stratified bottom-up fixpoint: ground every rule of
// a stratum against the current fact tables, commit newly discovered
// atoms, and repeat the stratum until a full pass adds nothing — then
// move to the next stratum, whose rules may read everything the lower
// strata have already settled.
package evaluator

import (
	"context"

	"github.com/gokanplan/gokanplan/internal/parallel"
	"github.com/gokanplan/gokanplan/pkg/analysis"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/grounder"
	"github.com/gokanplan/gokanplan/pkg/intern"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// Workspace bundles the live fact tables and the incrementally maintained
// per-predicate assignment sets, which are updated whenever new atoms are
// committed. The consistency-graph builder (analysis.Build) reads the
// ground-atom table directly, not these sets. A Workspace is built once
// per task for the pre-search rule evaluation.
type Workspace struct {
	Repo    *repo.Repository
	Facts   grounder.Facts
	Domains *analysis.PredicateDomains
	// Pool, if non-nil, grounds every rule of a stratum iteration
	// concurrently and commits their results under a single barrier. A
	// nil Pool grounds sequentially, which is both the fallback for
	// single-core runs and the reference behaviour the parallel path is
	// checked against.
	Pool *parallel.Pool
}

// NewWorkspace creates an evaluation workspace over r's live fact tables,
// seeding the assignment sets from every fact already present (the
// initial state's atoms, for the first evaluation of a task).
func NewWorkspace(r *repo.Repository, pool *parallel.Pool) *Workspace {
	ws := &Workspace{
		Repo:    r,
		Facts:   grounder.Facts{Atoms: r.GroundAtoms, Functions: r.GroundFunctionTerms},
		Domains: analysis.NewPredicateDomains(),
		Pool:    pool,
	}
	for i, pred := range r.Predicates.All() {
		predIdx := intern.Index[entity.Predicate](i)
		for _, ref := range r.GroundAtoms.All(predIdx) {
			ws.Domains.Add(predIdx, pred.Arity, r.GroundAtoms.Binding(ref))
		}
	}
	return ws
}

// Evaluate grounds program's rules to a stratified fixpoint, asserting
// every newly derived atom into ws's fact tables as it is found.
func Evaluate(ctx context.Context, program *repo.Program, ws *Workspace) error {
	strata, err := Stratify(ws.Repo, program)
	if err != nil {
		return err
	}
	for _, stratum := range strata {
		if err := evaluateStratum(ctx, ws, program, stratum); err != nil {
			return err
		}
	}
	return nil
}

func evaluateStratum(ctx context.Context, ws *Workspace, program *repo.Program, stratum []intern.Index[entity.Rule]) error {
	for {
		newFacts, err := groundStratumOnce(ctx, ws, program, stratum)
		if err != nil {
			return err
		}
		if !newFacts {
			return nil
		}
	}
}

func groundStratumOnce(ctx context.Context, ws *Workspace, program *repo.Program, stratum []intern.Index[entity.Rule]) (bool, error) {
	gctx := &grounder.Context{Repo: ws.Repo, Facts: ws.Facts}

	if ws.Pool == nil {
		anyNew := false
		for _, ruleIdx := range stratum {
			newAtoms, err := groundRule(ws, gctx, program, ruleIdx)
			if err != nil {
				return false, err
			}
			if len(newAtoms) > 0 {
				anyNew = true
				commitAtoms(ws, program, newAtoms)
			}
		}
		return anyNew, nil
	}

	tasks := make([]parallel.Task[[]discoveredAtom], len(stratum))
	for i, ruleIdx := range stratum {
		ruleIdx := ruleIdx
		tasks[i] = func(ctx context.Context) ([]discoveredAtom, error) {
			return groundRule(ws, gctx, program, ruleIdx)
		}
	}
	anyNew := false
	err := parallel.Run(ctx, ws.Pool, tasks, func(results [][]discoveredAtom) error {
		for _, newAtoms := range results {
			if len(newAtoms) > 0 {
				anyNew = true
				commitAtoms(ws, program, newAtoms)
			}
		}
		return nil
	})
	return anyNew, err
}

type discoveredAtom struct {
	Predicate intern.Index[entity.Predicate]
	Binding   entity.Binding
}

// groundRule enumerates every ground instance of ruleIdx and returns the
// head atoms not yet present in ws's fact tables, without asserting them
// — grounding reads a stable snapshot, commitAtoms performs the only
// mutation, so concurrent grounding of sibling rules never races on the
// same table.
func groundRule(ws *Workspace, gctx *grounder.Context, program *repo.Program, ruleIdx intern.Index[entity.Rule]) ([]discoveredAtom, error) {
	rule := *ws.Repo.Rules.At(ruleIdx)
	body := *ws.Repo.Conditions.At(rule.Body)
	g := analysis.Build(ws.Repo, ws.Repo.GroundAtoms, body, len(rule.Variables), program.Objects)

	var out []discoveredAtom
	gctx.GroundRule(ruleIdx, g, nil, func(gr entity.GroundRule) bool {
		if _, found := ws.Facts.Atoms.Find(rule.Head.Predicate, gr.Head.Binding); !found {
			out = append(out, discoveredAtom{Predicate: rule.Head.Predicate, Binding: gr.Head.Binding})
		}
		return true
	})
	return out, nil
}

func commitAtoms(ws *Workspace, program *repo.Program, atoms []discoveredAtom) {
	for _, a := range atoms {
		if _, inserted := ws.Facts.Atoms.GetOrCreate(a.Predicate, a.Binding); inserted {
			arity := ws.Repo.Predicates.At(a.Predicate).Arity
			ws.Domains.Add(a.Predicate, arity, a.Binding)
		}
	}
}
