package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/generation"
)

func TestAnalyzeResume_File(t *testing.T) {
	offline(t)
	path := filepath.Join(t.TempDir(), "resume.txt")
	text := "Senior engineer with 7 years of experience in Go, Kafka and Kubernetes. BSc in Computer Science."
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	out, err := execute(t, "analyze-resume", "--file", path)
	require.NoError(t, err)

	var got ResumeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, path, got.Source)
	assert.Equal(t, generation.TierStatic, got.Tier)
	require.NotNil(t, got.Resume)
	assert.Equal(t, []string{"Go", "Kafka", "Kubernetes"}, got.Resume.Skills)
	assert.Equal(t, 7, got.Resume.ExperienceYears)
	assert.Equal(t, "Bachelor's", got.Resume.EducationLevel)
}

func TestAnalyzeResume_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no source",
			args:    []string{"analyze-resume"},
			wantErr: "exactly one of --file or --object-key is required",
		},
		{
			name:    "both sources",
			args:    []string{"analyze-resume", "--file", "resume.txt", "--object-key", "resumes/a.pdf"},
			wantErr: "exactly one of --file or --object-key is required",
		},
		{
			name:    "object storage not configured",
			args:    []string{"analyze-resume", "--object-key", "resumes/a.pdf"},
			wantErr: "object storage is not configured",
		},
		{
			name:    "missing file",
			args:    []string{"analyze-resume", "--file", filepath.Join(t.TempDir(), "missing.pdf")},
			wantErr: "failed to read resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offline(t)
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
