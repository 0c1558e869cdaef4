// Package path is the learning path screen: the curriculum, the active
// step's instructions and screenshot submission for review.
package path

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/layout"
)

type phase int

const (
	phaseGenerating phase = iota
	phaseBrowsing
	phaseSubmitting
	phaseReviewing
	phaseFailed
)

// pathGeneratedMsg is sent when curriculum generation finishes.
type pathGeneratedMsg struct {
	Path *learning.LearningPath
	Err  error
}

// reviewDoneMsg is sent when a step submission has been judged.
type reviewDoneMsg struct {
	StepID string
	Result orchestrator.ReviewResult
	Err    error // set only when the screenshot could not be read
}

// PathScreen implements screen.Screen for the learning path.
type PathScreen struct {
	orch    *orchestrator.Orchestrator
	tracker *learning.Tracker

	phase    phase
	selected int
	frame    int
	input    components.TextInput

	review *orchestrator.ReviewResult
	notice string
	errMsg string
}

var _ screen.Screen = (*PathScreen)(nil)
var _ screen.KeyHintProvider = (*PathScreen)(nil)
var _ screen.Modal = (*PathScreen)(nil)

// New creates the path screen. A curriculum is generated on Init when the
// tracker has none yet.
func New(orch *orchestrator.Orchestrator, tracker *learning.Tracker) *PathScreen {
	s := &PathScreen{
		orch:    orch,
		tracker: tracker,
		phase:   phaseBrowsing,
		input:   components.NewTextInput("Screenshot file", "/path/to/screenshot.png", 0),
	}
	if p := tracker.Path(); p != nil {
		s.selected = currentIndex(p)
	}
	return s
}

func (s *PathScreen) Init() tea.Cmd {
	if s.tracker.Path() != nil {
		return nil
	}
	return s.generate()
}

func (s *PathScreen) Title() string {
	return "Learning Path"
}

// Modal reports whether Esc should go to the screen instead of the router.
func (s *PathScreen) Modal() bool {
	return s.phase == phaseSubmitting
}

func (s *PathScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseSubmitting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit for review"},
			{Key: "Esc", Description: "Cancel"},
		}
	case phaseFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseBrowsing:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Steps"},
			{Key: "S", Description: "Submit work"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		if s.phase == phaseGenerating || s.phase == phaseReviewing {
			s.frame++
			return s, components.SpinnerTick()
		}
		return s, nil

	case pathGeneratedMsg:
		return s.handleGenerated(msg)

	case reviewDoneMsg:
		return s.handleReviewDone(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseSubmitting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PathScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseSubmitting:
		switch msg.String() {
		case "esc":
			s.phase = phaseBrowsing
			s.input.Reset()
			return s, nil
		case "enter":
			file := s.input.Value()
			step := s.selectedStep()
			if file == "" || step == nil {
				return s, nil
			}
			s.input.Reset()
			s.phase = phaseReviewing
			s.review = nil
			s.notice = ""
			return s, tea.Batch(s.submit(*step, file), components.SpinnerTick())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseFailed:
		if msg.String() == "r" {
			return s, s.generate()
		}

	case phaseBrowsing:
		p := s.tracker.Path()
		if p == nil {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(p.Steps)-1 {
				s.selected++
			}
		case "s":
			step := s.selectedStep()
			if step == nil {
				return s, nil
			}
			switch step.Status {
			case learning.StatusActive, learning.StatusReviewing:
				s.phase = phaseSubmitting
				s.errMsg = ""
				return s, s.input.Init()
			case learning.StatusLocked:
				s.notice = "Finish the earlier steps to unlock this one."
			case learning.StatusCompleted:
				s.notice = "You already completed this step."
			}
		}
	}
	return s, nil
}

func (s *PathScreen) handleGenerated(msg pathGeneratedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseFailed
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.tracker.SetPath(msg.Path)
	s.phase = phaseBrowsing
	s.selected = currentIndex(msg.Path)
	s.errMsg = ""
	return s, nil
}

func (s *PathScreen) handleReviewDone(msg reviewDoneMsg) (screen.Screen, tea.Cmd) {
	s.phase = phaseBrowsing
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.review = &msg.Result
	if !msg.Result.Passed {
		return s, nil
	}

	ev, err := s.tracker.Complete(msg.StepID)
	if err != nil {
		if !errors.Is(err, learning.ErrAlreadyCompleted) {
			s.errMsg = err.Error()
		}
		return s, nil
	}

	switch {
	case ev.PathCompleted:
		s.notice = fmt.Sprintf("+%d XP. Path complete!", ev.XPAwarded)
	case ev.NextStep != nil:
		s.notice = fmt.Sprintf("+%d XP. Unlocked: %s", ev.XPAwarded, ev.NextStep.Title)
	default:
		s.notice = fmt.Sprintf("+%d XP", ev.XPAwarded)
	}
	s.selected = currentIndex(s.tracker.Path())
	return s, nil
}

func (s *PathScreen) generate() tea.Cmd {
	s.phase = phaseGenerating
	s.errMsg = ""
	profile := s.tracker.Profile()
	orch := s.orch
	gen := func() tea.Msg {
		p, err := orch.GenerateLearningPath(context.Background(), profile.Domain, profile.Tool, profile.Goal, profile.SkillLevel)
		return pathGeneratedMsg{Path: p, Err: err}
	}
	return tea.Batch(gen, components.SpinnerTick())
}

func (s *PathScreen) submit(step learning.Step, file string) tea.Cmd {
	orch := s.orch
	return func() tea.Msg {
		img, err := media.Load(file)
		if err != nil {
			return reviewDoneMsg{StepID: step.ID, Err: err}
		}
		res := orch.ReviewSubmission(context.Background(), img, step.Description, step.Criteria)
		return reviewDoneMsg{StepID: step.ID, Result: res}
	}
}

func (s *PathScreen) selectedStep() *learning.Step {
	p := s.tracker.Path()
	if p == nil || s.selected < 0 || s.selected >= len(p.Steps) {
		return nil
	}
	return &p.Steps[s.selected]
}

// currentIndex returns the index of the path's current step.
func currentIndex(p *learning.LearningPath) int {
	if p == nil {
		return 0
	}
	cur := p.CurrentStep()
	if cur == nil {
		return 0
	}
	for i := range p.Steps {
		if p.Steps[i].ID == cur.ID {
			return i
		}
	}
	return 0
}
