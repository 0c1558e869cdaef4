// Package chat holds one mentoring conversation: the visible transcript,
// the context the model sees, and the streamed send cycle.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/prompts"
)

// Role is the author of a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Fallback texts shown in place of a failed reply.
const (
	FallbackReply     = "Sorry, I couldn't reach your mentor just now. Please try again."
	FallbackEditReply = "Sorry, I couldn't edit that image. Please try again."
	EditedReply       = "Here's the edited image."
)

var (
	// ErrResponsePending is returned when a message is sent while a reply
	// is still streaming.
	ErrResponsePending = errors.New("a response is still pending")

	// ErrEmptyMessage is returned for a send with no text and no image.
	ErrEmptyMessage = errors.New("message is empty")
)

// Message is one entry of the visible transcript.
type Message struct {
	ID        string
	Role      Role
	Text      string
	ImageURL  string
	Timestamp time.Time
}

// Context is the learner's situation, sent ahead of every message.
type Context struct {
	Tool              string
	ModuleTitle       string
	ModuleDescription string
}

// ImageEditor edits an image according to an instruction.
type ImageEditor interface {
	EditImage(ctx context.Context, img media.Image, instruction string) (media.Image, error)
}

// Session is one conversational context. Its transcript is append-only and
// only one reply can be in flight at a time.
type Session struct {
	provider llm.Provider
	editor   ImageEditor
	system   string
	logger   *zap.Logger

	mu       sync.Mutex
	history  []llm.Message // what the model has seen, context blocks included
	messages []Message     // what the learner sees
	pending  bool
}

// NewSession creates an empty conversation.
func NewSession(provider llm.Provider, system string, editor ImageEditor, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		provider: provider,
		editor:   editor,
		system:   system,
		logger:   logger,
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Pending reports whether a reply is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Send appends the learner's message and streams the reply into a model
// message. onUpdate, if set, receives the reply after every fragment, in
// arrival order. On failure, or when the reply is empty, the reply shows
// FallbackReply, the turn is left out of the model's history and the error
// is returned.
func (s *Session) Send(ctx context.Context, text string, image *media.Image, cc Context, onUpdate func(Message)) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && (image == nil || image.IsZero()) {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Message{}, ErrResponsePending
	}
	s.pending = true

	user := newMessage(RoleUser, text)
	turn := llm.Message{
		Role:    llm.RoleUser,
		Content: prompts.MentorContext(cc.Tool, cc.ModuleTitle, cc.ModuleDescription) + text,
	}
	if image != nil && !image.IsZero() {
		user.ImageURL = image.DataURL()
		turn.Images = []llm.Image{image.LLM()}
	}
	s.messages = append(s.messages, user)

	reply := newMessage(RoleModel, "")
	replyIdx := len(s.messages)
	s.messages = append(s.messages, reply)

	req := llm.Request{
		System:   s.system,
		Messages: append(append([]llm.Message(nil), s.history...), turn),
	}
	s.mu.Unlock()

	ctx = llm.WithPurpose(ctx, llm.PurposeChat)
	resp, err := llm.Stream(ctx, s.provider, req, func(chunk string) error {
		s.mu.Lock()
		s.messages[replyIdx].Text += chunk
		snapshot := s.messages[replyIdx]
		s.mu.Unlock()

		if onUpdate != nil {
			onUpdate(snapshot)
		}
		return nil
	})

	s.mu.Lock()
	s.pending = false
	if err == nil && s.messages[replyIdx].Text == "" && resp != nil {
		s.messages[replyIdx].Text = resp.Text
	}
	if err == nil && strings.TrimSpace(s.messages[replyIdx].Text) == "" {
		err = &llm.ErrEmptyResponse{Model: s.provider.ModelID()}
	}
	if err != nil {
		s.messages[replyIdx].Text = FallbackReply
		final := s.messages[replyIdx]
		s.mu.Unlock()

		s.logger.Warn("chat reply failed", zap.Error(err))
		if onUpdate != nil {
			onUpdate(final)
		}
		return final, err
	}

	s.history = append(s.history, turn, llm.Message{
		Role:    llm.RoleAssistant,
		Content: s.messages[replyIdx].Text,
	})
	final := s.messages[replyIdx]
	s.mu.Unlock()
	return final, nil
}

// EditImage asks the editor for a modified image, bypassing the streamed
// conversation. With no image attached, the most recent image in the
// transcript is edited. Edits are not added to the model's history.
func (s *Session) EditImage(ctx context.Context, instruction string, image *media.Image) (Message, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Message{}, ErrResponsePending
	}

	var src media.Image
	if image != nil && !image.IsZero() {
		src = *image
	} else if last, ok := s.lastImageLocked(); ok {
		src = last
	} else {
		s.mu.Unlock()
		return Message{}, media.ErrNoImage
	}
	s.pending = true

	user := newMessage(RoleUser, instruction)
	user.ImageURL = src.DataURL()
	s.messages = append(s.messages, user)
	s.mu.Unlock()

	edited, err := s.editor.EditImage(ctx, src, instruction)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	reply := newMessage(RoleModel, EditedReply)
	if err != nil {
		s.logger.Warn("image edit failed", zap.Error(err))
		reply.Text = FallbackEditReply
	} else {
		reply.ImageURL = edited.DataURL()
	}
	s.messages = append(s.messages, reply)
	return reply, err
}

func (s *Session) lastImageLocked() (media.Image, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if img, ok := media.ParseDataURL(s.messages[i].ImageURL); ok {
			return img, true
		}
	}
	return media.Image{}, false
}

func newMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}
