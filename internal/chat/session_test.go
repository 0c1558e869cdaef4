package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/media"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeEditor struct {
	got         media.Image
	instruction string
	out         media.Image
	err         error
}

func (f *fakeEditor) EditImage(_ context.Context, img media.Image, instruction string) (media.Image, error) {
	f.got = img
	f.instruction = instruction
	return f.out, f.err
}

func testImage() media.Image {
	return media.Image{MIMEType: "image/png", Data: pngHeader}
}

func TestSend_StreamsFragmentsInOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"Use ", "the ", "Bevel tool."}})
	s := NewSession(mock, "mentor", nil, nil)

	var updates []string
	reply, err := s.Send(context.Background(), "How do I round edges?", nil,
		Context{Tool: "Blender", ModuleTitle: "Modeling", ModuleDescription: "Basics"},
		func(m Message) { updates = append(updates, m.Text) })
	require.NoError(t, err)

	assert.Equal(t, []string{"Use ", "Use the ", "Use the Bevel tool."}, updates)
	assert.Equal(t, "Use the Bevel tool.", reply.Text)
	assert.Equal(t, RoleModel, reply.Role)
	assert.False(t, s.Pending())

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "How do I round edges?", msgs[0].Text)
	assert.Equal(t, reply.ID, msgs[1].ID)
}

func TestSend_ContextBlockOnlyInModelView(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	s := NewSession(mock, "mentor", nil, nil)

	_, err := s.Send(context.Background(), "hi", nil,
		Context{Tool: "Figma", ModuleTitle: "Frames", ModuleDescription: "Auto layout"}, nil)
	require.NoError(t, err)

	req := mock.LastCall()
	assert.Equal(t, "mentor", req.System)
	require.Len(t, req.Messages, 1)
	content := req.Messages[0].Content
	assert.True(t, strings.HasPrefix(content, "[Context]\n"), content)
	assert.Contains(t, content, "Current tool: Figma")
	assert.Contains(t, content, "Active module: Frames")
	assert.True(t, strings.HasSuffix(content, "[/Context]\n\nhi"), content)

	assert.Equal(t, "hi", s.Messages()[0].Text)
}

func TestSend_HistoryCarriesPriorTurns(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "first"}, llm.MockResponse{Text: "second"})
	s := NewSession(mock, "mentor", nil, nil)

	_, err := s.Send(context.Background(), "one", nil, Context{}, nil)
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "two", nil, Context{}, nil)
	require.NoError(t, err)

	req := mock.LastCall()
	require.Len(t, req.Messages, 3)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Equal(t, llm.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, "first", req.Messages[1].Content)
	assert.True(t, strings.HasSuffix(req.Messages[2].Content, "two"))
}

func TestSend_AttachesImage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "nice render"})
	s := NewSession(mock, "mentor", nil, nil)
	img := testImage()

	_, err := s.Send(context.Background(), "", &img, Context{}, nil)
	require.NoError(t, err)

	req := mock.LastCall()
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "image/png", req.Messages[0].Images[0].MIMEType)
	assert.Equal(t, img.DataURL(), s.Messages()[0].ImageURL)
}

func TestSend_FailureShowsFallback(t *testing.T) {
	backendErr := &llm.ErrProviderUnavailable{Err: errors.New("down")}
	mock := llm.NewMockProvider(llm.MockResponse{Err: backendErr}, llm.MockResponse{Text: "back"})
	s := NewSession(mock, "mentor", nil, nil)

	var last Message
	reply, err := s.Send(context.Background(), "hello", nil, Context{}, func(m Message) { last = m })
	require.Error(t, err)

	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.Equal(t, FallbackReply, reply.Text)
	assert.Equal(t, FallbackReply, last.Text)
	assert.False(t, s.Pending())
	require.Len(t, s.Messages(), 2)

	_, err = s.Send(context.Background(), "again", nil, Context{}, nil)
	require.NoError(t, err)
	// The failed turn is not replayed to the model.
	assert.Len(t, mock.LastCall().Messages, 1)
}

func TestSend_EmptyReplyIsNotKept(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{}}, llm.MockResponse{Text: "Try the Knife tool."})
	s := NewSession(mock, "mentor", nil, nil)

	reply, err := s.Send(context.Background(), "hello", nil, Context{}, nil)
	var empty *llm.ErrEmptyResponse
	require.True(t, errors.As(err, &empty), "got %v", err)
	assert.Equal(t, FallbackReply, reply.Text)
	assert.False(t, s.Pending())

	_, err = s.Send(context.Background(), "again", nil, Context{}, nil)
	require.NoError(t, err)
	msgs := mock.LastCall().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
}

func TestSend_RejectsEmpty(t *testing.T) {
	mock := llm.NewMockProvider()
	s := NewSession(mock, "mentor", nil, nil)

	_, err := s.Send(context.Background(), "   ", nil, Context{}, nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, mock.CallCount())
	assert.Empty(t, s.Messages())
}

func TestSend_RejectsWhilePending(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"a", "b"}})
	s := NewSession(mock, "mentor", nil, nil)

	var nested error
	_, err := s.Send(context.Background(), "first", nil, Context{}, func(Message) {
		if nested == nil {
			_, nested = s.Send(context.Background(), "second", nil, Context{}, nil)
		}
	})
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrResponsePending)
	assert.Len(t, s.Messages(), 2)
}

func TestEditImage_UsesAttachedImage(t *testing.T) {
	edited := media.Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}
	editor := &fakeEditor{out: edited}
	s := NewSession(llm.NewMockProvider(), "mentor", editor, nil)
	img := testImage()

	reply, err := s.EditImage(context.Background(), "make it red", &img)
	require.NoError(t, err)

	assert.Equal(t, "make it red", editor.instruction)
	assert.Equal(t, img.Data, editor.got.Data)
	assert.Equal(t, edited.DataURL(), reply.ImageURL)
	assert.Len(t, s.Messages(), 2)
}

func TestEditImage_FallsBackToLastTranscriptImage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "looks good"})
	editor := &fakeEditor{out: testImage()}
	s := NewSession(mock, "mentor", editor, nil)
	img := testImage()

	_, err := s.Send(context.Background(), "rate this", &img, Context{}, nil)
	require.NoError(t, err)

	_, err = s.EditImage(context.Background(), "add a shadow", nil)
	require.NoError(t, err)
	assert.Equal(t, img.Data, editor.got.Data)
	// Edits bypass the model conversation.
	assert.Equal(t, 1, mock.CallCount())
}

func TestEditImage_NoImage(t *testing.T) {
	s := NewSession(llm.NewMockProvider(), "mentor", &fakeEditor{}, nil)

	_, err := s.EditImage(context.Background(), "brighter", nil)
	assert.ErrorIs(t, err, media.ErrNoImage)
	assert.Empty(t, s.Messages())
}

func TestEditImage_Failure(t *testing.T) {
	editor := &fakeEditor{err: errors.New("boom")}
	s := NewSession(llm.NewMockProvider(), "mentor", editor, nil)
	img := testImage()

	reply, err := s.EditImage(context.Background(), "brighter", &img)
	require.Error(t, err)
	assert.Equal(t, FallbackEditReply, reply.Text)
	assert.Empty(t, reply.ImageURL)
	assert.False(t, s.Pending())
}
