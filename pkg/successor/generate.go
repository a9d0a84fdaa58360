package successor

import (
	"github.com/gokanplan/gokanplan/pkg/analysis"
	"github.com/gokanplan/gokanplan/pkg/clique"
	"github.com/gokanplan/gokanplan/pkg/entity"
	"github.com/gokanplan/gokanplan/pkg/grounder"
	"github.com/gokanplan/gokanplan/pkg/repo"
)

// Candidates finds every ground action whose precondition holds in the
// state view, in the consistency graph's canonical order, and calls emit
// once per candidate. Static-literal domains are read from the
// repository's global ground-atom table (static facts never vary by
// state); fluent, derived, and numeric truth are read through view.
func Candidates(r *repo.Repository, task *repo.Task, view *StateView, statics func(entity.GroundFunctionTermRef) float64, emit func(entity.GroundAction) bool) {
	facts := view.Facts(statics)
	for _, actionIdx := range task.Actions {
		action := *r.Actions.At(actionIdx)
		body := *r.Conditions.At(action.Precondition)
		g := analysis.Build(r, r.GroundAtoms, body, len(action.Parameters), task.Objects)
		gctx := &grounder.Context{Repo: r, Facts: facts}

		stop := false
		clique.Enumerate(g, nil, func(binding entity.Binding) bool {
			if !gctx.Verify(body, binding) {
				return true
			}
			if !emit(entity.GroundAction{Action: actionIdx, Binding: binding}) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}
