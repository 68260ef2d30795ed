package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// offline keeps commands away from real model endpoints and backends
// even when .env provides credentials
func offline(t *testing.T) {
	t.Helper()
	t.Setenv("INTERVIEW_LLM_PROVIDER", "offline")
	t.Setenv("INTERVIEW_STORE_BACKEND", "memory")
	t.Setenv("INTERVIEW_REDIS_ADDR", "")
	t.Setenv("INTERVIEW_AMQP_URL", "")
	t.Setenv("INTERVIEW_S3_BUCKET", "")
}

// resetFlags restores the package-level flag variables after a test
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		servePort, serveWhitelist = 0, ""
		genJob, genJobFile, genJobURL, genRole, genOutput = "", "", "", "", ""
		genSkills, genCandidateSkills, genCount = nil, nil, 0
		practiceJob, practiceJobFile, practiceRole = "", "", ""
		practiceSkills, practiceCandidateSkills, practiceCount = nil, nil, 0
		resumeFile, resumeObjectKey = "", ""
	})
}

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func requireContainsAll(t *testing.T, s string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		require.Contains(t, s, p)
	}
}
