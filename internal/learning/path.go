package learning

import (
	"errors"
	"fmt"
)

var (
	ErrStepNotFound     = errors.New("step not found")
	ErrStepLocked       = errors.New("step is locked")
	ErrAlreadyCompleted = errors.New("step already completed")
)

// Normalize enforces the unlock invariant on a freshly generated path:
// the first step is active and every other step is locked, whatever the
// backend said. Missing or duplicate step ids are replaced with "step-N"
// and a missing total is the sum of step rewards.
func Normalize(path *LearningPath) {
	seen := make(map[string]bool, len(path.Steps))
	sum := 0
	for i := range path.Steps {
		st := &path.Steps[i]
		if st.ID == "" || seen[st.ID] {
			st.ID = fmt.Sprintf("step-%d", i+1)
		}
		seen[st.ID] = true

		if st.XPReward < 0 {
			st.XPReward = 0
		}
		if i == 0 {
			st.Status = StatusActive
		} else {
			st.Status = StatusLocked
		}
		sum += st.Reward()
	}
	if path.TotalXP <= 0 {
		path.TotalXP = sum
	}
}

// CompleteStep marks the step completed, unlocks the step after it and
// awards the step's reward to the profile.
//
// Only an active (or reviewing) step can be completed. Completing a step
// twice returns ErrAlreadyCompleted and awards nothing.
func CompleteStep(path *LearningPath, profile *UserProfile, stepID string) (StepCompleted, error) {
	idx := path.indexOf(stepID)
	if idx < 0 {
		return StepCompleted{}, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}

	st := &path.Steps[idx]
	switch st.Status {
	case StatusCompleted:
		return StepCompleted{}, fmt.Errorf("%w: %s", ErrAlreadyCompleted, stepID)
	case StatusLocked:
		return StepCompleted{}, fmt.Errorf("%w: %s", ErrStepLocked, stepID)
	}

	st.Status = StatusCompleted
	reward := st.Reward()
	profile.XP += reward

	ev := StepCompleted{Step: *st, XPAwarded: reward}
	if idx+1 < len(path.Steps) {
		next := &path.Steps[idx+1]
		if next.Status == StatusLocked {
			next.Status = StatusActive
		}
		nextCopy := *next
		ev.NextStep = &nextCopy
	}
	ev.PathCompleted = path.Completed()
	return ev, nil
}

// CurrentStep returns the step to display: the first active step, or the
// last completed step once nothing is active. Nil for an empty path.
func (p *LearningPath) CurrentStep() *Step {
	for i := range p.Steps {
		if p.Steps[i].Status == StatusActive {
			return &p.Steps[i]
		}
	}
	for i := len(p.Steps) - 1; i >= 0; i-- {
		if p.Steps[i].Status == StatusCompleted {
			return &p.Steps[i]
		}
	}
	return nil
}

// Step returns the step with the given id, or nil.
func (p *LearningPath) Step(id string) *Step {
	if i := p.indexOf(id); i >= 0 {
		return &p.Steps[i]
	}
	return nil
}

// Progress returns the number of completed steps and the step count.
func (p *LearningPath) Progress() (done, total int) {
	for _, st := range p.Steps {
		if st.Status == StatusCompleted {
			done++
		}
	}
	return done, len(p.Steps)
}

// EarnedXP sums the rewards of completed steps.
func (p *LearningPath) EarnedXP() int {
	xp := 0
	for _, st := range p.Steps {
		if st.Status == StatusCompleted {
			xp += st.Reward()
		}
	}
	return xp
}

// Completed reports whether every step is completed.
func (p *LearningPath) Completed() bool {
	done, total := p.Progress()
	return total > 0 && done == total
}

func (p *LearningPath) indexOf(id string) int {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return i
		}
	}
	return -1
}
