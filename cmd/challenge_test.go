package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillforge/internal/challenge"
	"github.com/abhisek/skillforge/internal/llm"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

const designReply = `{"title": "Teapot Sprint", "theme": "Kitchen", "description": "Model a teapot.", "imagePrompt": "a teapot", "goldTime": 5, "silverTime": 10, "bronzeTime": 15}`

func TestChallengeCmd_EmbeddedReferenceSaved(t *testing.T) {
	fast := llm.NewMockProvider(llm.MockResponse{Text: designReply})
	image := llm.NewMockProvider(llm.MockResponse{Images: []llm.Image{{MIMEType: "image/png", Data: pngBytes}}})
	stubBackend(t, fast, llm.NewMockProvider(), image)

	dest := filepath.Join(t.TempDir(), "ref.png")
	args := append([]string{"challenge"}, learnerArgs(t)...)
	out, err := execute(t, newChallengeCmd(), append(args, "--out", dest)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Teapot Sprint  (Kitchen)\nModel a teapot.\n")
	assert.Contains(t, out, "Gold 5m  Silver 10m  Bronze 15m")
	assert.Contains(t, out, "Reference: embedded image/png, 16 bytes")
	assert.Contains(t, out, "Saved to "+dest)

	saved, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, saved)
}

func TestChallengeCmd_ShortOutFlag(t *testing.T) {
	fast := llm.NewMockProvider(llm.MockResponse{Text: designReply})
	image := llm.NewMockProvider(llm.MockResponse{Images: []llm.Image{{MIMEType: "image/png", Data: pngBytes}}})
	stubBackend(t, fast, llm.NewMockProvider(), image)

	dest := filepath.Join(t.TempDir(), "ref.png")
	args := append([]string{"challenge"}, learnerArgs(t)...)
	_, err := execute(t, newChallengeCmd(), append(args, "-o", dest)...)
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestChallengeCmd_WithoutOutWritesNothing(t *testing.T) {
	fast := llm.NewMockProvider(llm.MockResponse{Text: designReply})
	image := llm.NewMockProvider(llm.MockResponse{Images: []llm.Image{{MIMEType: "image/png", Data: pngBytes}}})
	stubBackend(t, fast, llm.NewMockProvider(), image)

	out, err := execute(t, newChallengeCmd(), append([]string{"challenge"}, learnerArgs(t)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Reference: embedded image/png")
	assert.NotContains(t, out, "Saved to")
}

func TestChallengeCmd_FallbackDesignAndPlaceholder(t *testing.T) {
	stubBackend(t, llm.NewMockProvider(), llm.NewMockProvider(), llm.NewMockProvider())

	dest := filepath.Join(t.TempDir(), "ref.png")
	args := append([]string{"challenge"}, learnerArgs(t)...)
	out, err := execute(t, newChallengeCmd(), append(args, "--out", dest)...)
	require.NoError(t, err, "challenge generation never fails")

	assert.Contains(t, out, challenge.FallbackTitle+"  ("+challenge.FallbackTheme+")")
	assert.Contains(t, out, "Gold 10m  Silver 20m  Bronze 30m")
	assert.Contains(t, out, "Reference: placeholder https://placehold.co/")
	assert.Contains(t, out, "No image to save.")
	assert.NoFileExists(t, dest)
}
