// Package chat is the mentor chat screen. Replies stream into the
// transcript as they arrive.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillforge/internal/chat"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/layout"
)

// streamMsg carries a partial reply.
type streamMsg struct {
	events <-chan tea.Msg
}

// replyDoneMsg is sent when a send or edit has finished.
type replyDoneMsg struct {
	Err error
}

// attachedMsg carries an image loaded from disk.
type attachedMsg struct {
	Image media.Image
	Path  string
	Err   error
}

// ChatScreen implements screen.Screen for the mentor conversation.
type ChatScreen struct {
	session *chat.Session
	tracker *learning.Tracker

	input      components.TextInput
	attachment *media.Image
	attachName string
	busy       bool
	frame      int
	errMsg     string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a chat screen over a fresh session.
func New(session *chat.Session, tracker *learning.Tracker) *ChatScreen {
	return &ChatScreen{
		session: session,
		tracker: tracker,
		input:   components.NewTextInput("", "Ask your mentor... (/attach <file>, /edit <instruction>)", 0),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Mentor Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "/attach", Description: "Image"},
		{Key: "/edit", Description: "Edit image"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		if s.busy {
			s.frame++
			return s, components.SpinnerTick()
		}
		return s, nil

	case streamMsg:
		return s, waitEvent(msg.events)

	case replyDoneMsg:
		s.busy = false
		if msg.Err != nil && !errors.Is(msg.Err, chat.ErrResponsePending) {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case attachedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.attachment = &msg.Image
		s.attachName = msg.Path
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			cmd := s.submit()
			if s.busy && cmd != nil {
				cmd = tea.Batch(cmd, components.SpinnerTick())
			}
			return s, cmd
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit handles the input line and returns the command that waits for
// the result.
func (s *ChatScreen) submit() tea.Cmd {
	text := s.input.Value()
	if text == "" && s.attachment == nil {
		return nil
	}
	s.errMsg = ""

	if path, ok := strings.CutPrefix(text, "/attach "); ok {
		s.input.Reset()
		return attach(strings.TrimSpace(path))
	}

	if s.busy {
		s.errMsg = chat.ErrResponsePending.Error()
		return nil
	}
	s.input.Reset()

	img := s.attachment
	s.attachment, s.attachName = nil, ""
	s.busy = true

	events := make(chan tea.Msg, 16)
	session := s.session
	if instruction, ok := strings.CutPrefix(text, "/edit "); ok {
		go func() {
			defer close(events)
			_, err := session.EditImage(context.Background(), instruction, img)
			events <- replyDoneMsg{Err: err}
		}()
	} else {
		cc := s.context()
		go func() {
			defer close(events)
			_, err := session.Send(context.Background(), text, img, cc, func(chat.Message) {
				select {
				case events <- streamMsg{events: events}:
				default:
				}
			})
			events <- replyDoneMsg{Err: err}
		}()
	}
	return waitEvent(events)
}

// context describes the learner's current module for the mentor.
func (s *ChatScreen) context() chat.Context {
	profile := s.tracker.Profile()
	cc := chat.Context{Tool: profile.Tool}
	if p := s.tracker.Path(); p != nil {
		if st := p.CurrentStep(); st != nil {
			cc.ModuleTitle = st.Title
			cc.ModuleDescription = st.Description
		}
	}
	return cc
}

// waitEvent delivers the next stream event. Stream events only trigger a
// redraw: the transcript itself is read from the session.
func waitEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return replyDoneMsg{}
		}
		return msg
	}
}

func attach(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := media.Load(path)
		return attachedMsg{Image: img, Path: path, Err: err}
	}
}
