package learning

import "sync"

// Tracker owns a learner's profile and path and serializes step
// completion, so a double-triggered completion cannot award XP twice.
// Observers subscribe to completion events instead of being called by
// the engine directly.
type Tracker struct {
	mu      sync.Mutex
	profile *UserProfile
	path    *LearningPath
	subs    []func(StepCompleted)
}

// NewTracker creates a tracker. path may be nil until one is generated.
func NewTracker(profile *UserProfile, path *LearningPath) *Tracker {
	return &Tracker{profile: profile, path: path}
}

// SetPath replaces the tracked path.
func (t *Tracker) SetPath(path *LearningPath) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.path = path
}

// Path returns the tracked path, or nil.
func (t *Tracker) Path() *LearningPath {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Profile returns a copy of the learner profile.
func (t *Tracker) Profile() UserProfile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.profile
}

// Subscribe registers fn to receive every StepCompleted event. Callbacks
// run synchronously after the tracker lock is released.
func (t *Tracker) Subscribe(fn func(StepCompleted)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// Complete completes a step on the tracked path and notifies subscribers.
func (t *Tracker) Complete(stepID string) (StepCompleted, error) {
	t.mu.Lock()
	if t.path == nil {
		t.mu.Unlock()
		return StepCompleted{}, ErrStepNotFound
	}
	ev, err := CompleteStep(t.path, t.profile, stepID)
	subs := append([]func(StepCompleted){}, t.subs...)
	t.mu.Unlock()

	if err != nil {
		return StepCompleted{}, err
	}
	for _, fn := range subs {
		fn(ev)
	}
	return ev, nil
}
