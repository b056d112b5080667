package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mediaProfile = `---
name: media-processing-specialist
description: >
  Use this agent when the task involves video or audio media: converting
  formats, transcoding with FFmpeg.
  <example>Context: the user has a raw recording.
  user: "convert my 4K video.mp4 to a web-friendly format"
  assistant: "I'll hand this to the media-processing-specialist agent."
  <commentary>Format conversion of a video file is a media task.</commentary></example>
tier: standard
affinity: gpu
---
You are a media processing specialist.
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(mediaProfile))
	require.NoError(t, err)

	assert.Equal(t, "media-processing-specialist", p.Name)
	assert.Equal(t, "standard", p.Tier)
	assert.Equal(t, "gpu", p.Affinity)
	assert.Equal(t, "You are a media processing specialist.", p.Persona)

	assert.Contains(t, p.TriggerDescription, "converting formats")
	assert.NotContains(t, p.TriggerDescription, "<example>", "examples must be stripped from the trigger")

	require.Len(t, p.Examples, 1)
	assert.Equal(t, "convert my 4K video.mp4 to a web-friendly format", p.Examples[0].Request)
	assert.Equal(t, "media-processing-specialist", p.Examples[0].Dispatch)
	assert.Contains(t, p.Examples[0].Rationale, "media task")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no frontmatter", "just a persona body"},
		{"unterminated frontmatter", "---\nname: x\n"},
		{"missing name", "---\ndescription: something\n---\nbody"},
		{"bad yaml", "---\nname: [\n---\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestDirSource_Load(t *testing.T) {
	dir := t.TempDir()

	write := func(name, profileName string) {
		content := "---\nname: " + profileName + "\ndescription: handles " + profileName + " work\n---\npersona\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("b-second.md", "second")
	write("a-first.md", "first")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	profiles, err := NewDirSource(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	// Filename order, not creation order, decides registry insertion order.
	assert.Equal(t, "first", profiles[0].Name)
	assert.Equal(t, "second", profiles[1].Name)
}

func TestDirSource_Load_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter here"), 0o644))

	_, err := NewDirSource(dir).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
}

func TestDirSource_Load_MissingDir(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	require.Error(t, err)
}

func TestStaticSource_Load(t *testing.T) {
	src := StaticSource{{Name: "a", TriggerDescription: "x"}}
	got, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}
