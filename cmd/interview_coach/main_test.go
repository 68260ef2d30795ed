package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "generate-questions", "practice", "analyze-resume", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flags   []string
	}{
		{"serve", []string{"port", "whitelist"}},
		{"generate-questions", []string{"job", "job-file", "job-url", "role", "skills", "candidate-skills", "count", "output"}},
		{"practice", []string{"job", "job-file", "role", "skills", "candidate-skills", "count"}},
		{"analyze-resume", []string{"file", "object-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			require.NoError(t, err)
			for _, name := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
			}
		})
	}

	for _, name := range []string{"config", "debug", "json"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing persistent flag --%s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
