package learning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDomain(t *testing.T) {
	tests := []struct {
		in   string
		want Domain
	}{
		{"Engineering", DomainEngineering},
		{"digital art", DomainDigitalArt},
		{"digital-art", DomainDigitalArt},
		{" ARCHITECTURE ", DomainArchitecture},
	}
	for _, tt := range tests {
		got, err := ParseDomain(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDomain("cooking")
	assert.Error(t, err)
}

func TestParseSkillLevel(t *testing.T) {
	got, err := ParseSkillLevel("intermediate")
	require.NoError(t, err)
	assert.Equal(t, LevelIntermediate, got)

	_, err = ParseSkillLevel("expert")
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Ada
domain: digital-art
tool: Blender
skillLevel: beginner
goal: Sculpt a stylized character
xp: 120
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, DomainDigitalArt, p.Domain)
	assert.Equal(t, LevelBeginner, p.SkillLevel)
	assert.Equal(t, "Sculpt a stylized character", p.Goal)
	assert.Equal(t, 120, p.XP)
	assert.Equal(t, 1, p.Streak)
}

func TestLoadProfile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada\ndomain: Engineering\nskillLevel: Novice\nxp: -5\n"), 0o644))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool is required")
	assert.Contains(t, err.Error(), "xp must be >= 0")

	_, err = LoadProfile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
