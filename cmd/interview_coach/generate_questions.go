package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

var (
	genJob             string
	genJobFile         string
	genJobURL          string
	genRole            string
	genSkills          []string
	genCandidateSkills []string
	genCount           int
	genOutput          string
)

var generateQuestionsCmd = &cobra.Command{
	Use:   "generate-questions",
	Short: "Generate interview questions for a job",
	Long: `Generate a tailored list of interview questions from a job description.
The job can be given inline, read from a file (txt, pdf, docx, html) or fetched from a URL.`,
	RunE: runGenerateQuestions,
}

func init() {
	generateQuestionsCmd.Flags().StringVar(&genJob, "job", "", "Job description text")
	generateQuestionsCmd.Flags().StringVar(&genJobFile, "job-file", "", "Path to a job description file")
	generateQuestionsCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL of a job posting")
	generateQuestionsCmd.Flags().StringVar(&genRole, "role", "", "Role title")
	generateQuestionsCmd.Flags().StringSliceVar(&genSkills, "skills", nil, "Required skills (comma-separated)")
	generateQuestionsCmd.Flags().StringSliceVar(&genCandidateSkills, "candidate-skills", nil, "Candidate skills (comma-separated)")
	generateQuestionsCmd.Flags().IntVarP(&genCount, "count", "n", 0, "Number of questions (1-10, default 5)")
	generateQuestionsCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Write JSON to this file instead of stdout")
	rootCmd.AddCommand(generateQuestionsCmd)
}

// QuestionsOutput is the JSON written by generate-questions
type QuestionsOutput struct {
	RoleTitle string                    `json:"role_title,omitempty"`
	Questions []types.GeneratedQuestion `json:"questions"`
	JobMatch  *float64                  `json:"job_match,omitempty"`
}

func runGenerateQuestions(cmd *cobra.Command, _ []string) error {
	req := &types.CreateInterviewRequest{
		JobDescription:  genJob,
		JobURL:          genJobURL,
		RoleTitle:       genRole,
		RequiredSkills:  genSkills,
		CandidateSkills: genCandidateSkills,
		QuestionCount:   genCount,
	}
	if genJobFile != "" {
		doc, err := ingestion.ExtractFile(genJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		req.JobDescription = doc.Text
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	if req.JobDescription == "" && req.JobURL != "" {
		doc, err := ingestion.FetchJobPosting(ctx, req.JobURL, nil)
		if err != nil {
			return err
		}
		req.JobDescription = doc.Text
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	a, err := buildApp(ctx, cfg, log, appOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(ctx) }()

	session, err := a.manager.CreateSession(ctx, interview.CreateRequest{
		JobDescription:  req.JobDescription,
		RoleTitle:       req.RoleTitle,
		RequiredSkills:  req.RequiredSkills,
		CandidateSkills: req.CandidateSkills,
		Count:           req.QuestionCount,
	})
	if err != nil {
		return err
	}

	out := QuestionsOutput{
		RoleTitle: session.RoleTitle,
		Questions: session.Questions,
		JobMatch:  session.JobMatch,
	}
	if genOutput != "" {
		f, err := os.Create(genOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return writeJSON(f, out)
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
