package analytics

import "trackmate/internal/core"

// GoalStatus is the display state of a savings goal.
type GoalStatus struct {
	// Percent is clamped to [0, 100] even when the saved amount overshoots
	// the target.
	Percent   float64 `json:"percent"`
	Completed bool    `json:"completed"`
}

// GoalProgress grades a goal by its saved-versus-target ratio. Completion is
// decided on the unclamped ratio, so an overshot goal still reads as
// complete while displaying 100%.
func GoalProgress(g core.Goal) GoalStatus {
	if g.Target.Cents <= 0 {
		return GoalStatus{}
	}
	ratio := float64(g.Current.Cents) / float64(g.Target.Cents)
	percent := ratio * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return GoalStatus{Percent: percent, Completed: ratio >= 1}
}
