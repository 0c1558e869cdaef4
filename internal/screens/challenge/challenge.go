// Package challenge is the daily challenge screen: a generated design with
// its reference image, the penalty-aware timer, hints and AI judging.
package challenge

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	chal "github.com/abhisek/skillforge/internal/challenge"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/router"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/layout"
)

type phase int

const (
	phaseGenerating phase = iota
	phaseReady
	phaseRunning
	phaseSubmitting
	phaseEvaluating
	phaseResult
)

// challengeReadyMsg carries the generated challenge.
type challengeReadyMsg struct {
	Challenge chal.Challenge
}

// timerTickMsg carries the timer status after a tick.
type timerTickMsg chal.Status

// timerStoppedMsg is sent once the tick goroutine has exited.
type timerStoppedMsg struct{}

// hintMsg carries a generated hint.
type hintMsg string

// evaluationMsg carries the judge's verdict.
type evaluationMsg struct {
	Result orchestrator.EvaluationResult
	Err    error // set only when the submission could not be read
}

// ChallengeScreen implements screen.Screen for the daily challenge.
type ChallengeScreen struct {
	orch    *orchestrator.Orchestrator
	profile learning.UserProfile

	phase     phase
	frame     int
	challenge chal.Challenge
	timer     *chal.Timer
	ticks     chan chal.Status
	status    chal.Status

	hints       []string
	hintPending bool

	input  components.TextInput
	result *orchestrator.EvaluationResult
	final  chal.Status
	errMsg string
}

var _ screen.Screen = (*ChallengeScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengeScreen)(nil)
var _ screen.Modal = (*ChallengeScreen)(nil)

// New creates the challenge screen. The challenge is generated on Init.
func New(orch *orchestrator.Orchestrator, profile learning.UserProfile) *ChallengeScreen {
	return &ChallengeScreen{
		orch:    orch,
		profile: profile,
		input:   components.NewTextInput("Submission file", "/path/to/render.png", 0),
	}
}

func (s *ChallengeScreen) Init() tea.Cmd {
	s.phase = phaseGenerating
	orch, p := s.orch, s.profile
	gen := func() tea.Msg {
		c := orch.GenerateDailyChallenge(context.Background(), p.Domain, p.Tool, p.SkillLevel)
		return challengeReadyMsg{Challenge: c}
	}
	return tea.Batch(gen, components.SpinnerTick())
}

func (s *ChallengeScreen) Title() string {
	return "Daily Challenge"
}

// Modal keeps Esc on the screen while the timer runs, so the tick
// goroutine is stopped before the screen is dismissed.
func (s *ChallengeScreen) Modal() bool {
	return s.phase == phaseRunning || s.phase == phaseSubmitting
}

func (s *ChallengeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseReady:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start timer"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseRunning:
		return []layout.KeyHint{
			{Key: "H", Description: "Hint (+2:00)"},
			{Key: "S", Description: "Submit"},
			{Key: "Esc", Description: "Give up"},
		}
	case phaseSubmitting:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit for judging"},
			{Key: "Esc", Description: "Keep working"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "N", Description: "New challenge"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *ChallengeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		if s.phase == phaseGenerating || s.phase == phaseEvaluating || s.hintPending {
			s.frame++
			return s, components.SpinnerTick()
		}
		return s, nil

	case challengeReadyMsg:
		s.challenge = msg.Challenge
		s.timer = chal.NewTimer(msg.Challenge)
		s.status = s.timer.Status()
		s.phase = phaseReady
		return s, nil

	case timerTickMsg:
		s.status = chal.Status(msg)
		return s, s.waitTick()

	case timerStoppedMsg:
		return s, nil

	case hintMsg:
		s.hintPending = false
		s.hints = append(s.hints, string(msg))
		return s, nil

	case evaluationMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.phase = phaseRunning
			return s, s.startTimer()
		}
		s.result = &msg.Result
		s.phase = phaseResult
		return s, nil

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

func (s *ChallengeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseReady:
		if key == "enter" {
			s.phase = phaseRunning
			return s, s.startTimer()
		}

	case phaseRunning:
		switch key {
		case "h":
			// The penalty applies whether or not the hint arrives.
			s.status = s.timer.RequestHint()
			if s.hintPending {
				return s, nil
			}
			s.hintPending = true
			return s, tea.Batch(s.requestHint(), components.SpinnerTick())
		case "s":
			s.phase = phaseSubmitting
			s.errMsg = ""
			return s, s.input.Init()
		case "esc":
			s.timer.Stop()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}

	case phaseSubmitting:
		switch key {
		case "esc":
			s.phase = phaseRunning
			s.input.Reset()
			return s, nil
		case "enter":
			file := s.input.Value()
			if file == "" {
				return s, nil
			}
			s.input.Reset()
			s.timer.Stop()
			s.final = s.timer.Status()
			s.status = s.final
			s.phase = phaseEvaluating
			return s, tea.Batch(s.evaluate(file), components.SpinnerTick())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseResult:
		if key == "n" {
			next := New(s.orch, s.profile)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

// startTimer starts the tick goroutine and waits for its first tick. Ticks
// are handed over through a one-slot channel and dropped when the UI lags,
// since each status is a full snapshot.
func (s *ChallengeScreen) startTimer() tea.Cmd {
	s.ticks = make(chan chal.Status, 1)
	ticks := s.ticks
	err := s.timer.Start(context.Background(), time.Second, func(st chal.Status) {
		select {
		case ticks <- st:
		default:
		}
	})
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.waitTick()
}

func (s *ChallengeScreen) waitTick() tea.Cmd {
	ticks, done := s.ticks, s.timer.Done()
	return func() tea.Msg {
		select {
		case st := <-ticks:
			return timerTickMsg(st)
		case <-done:
			return timerStoppedMsg{}
		}
	}
}

func (s *ChallengeScreen) requestHint() tea.Cmd {
	orch, tool, c := s.orch, s.profile.Tool, s.challenge
	return func() tea.Msg {
		return hintMsg(orch.GenerateHint(context.Background(), tool, c))
	}
}

func (s *ChallengeScreen) evaluate(file string) tea.Cmd {
	orch, c := s.orch, s.challenge
	return func() tea.Msg {
		img, err := media.Load(file)
		if err != nil {
			return evaluationMsg{Err: err}
		}
		return evaluationMsg{Result: orch.EvaluateChallengeSubmission(context.Background(), c, img)}
	}
}
