package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/events"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	PromptNext    = "Next question"
	PromptAbandon = "Abandon interview"
)

var errAbandoned = errors.New("interview abandoned")

var (
	practiceJob             string
	practiceJobFile         string
	practiceRole            string
	practiceSkills          []string
	practiceCandidateSkills []string
	practiceCount           int
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive mock interview in the terminal",
	RunE:  runPractice,
}

func init() {
	practiceCmd.Flags().StringVar(&practiceJob, "job", "", "Job description text")
	practiceCmd.Flags().StringVar(&practiceJobFile, "job-file", "", "Path to a job description file")
	practiceCmd.Flags().StringVar(&practiceRole, "role", "", "Role title")
	practiceCmd.Flags().StringSliceVar(&practiceSkills, "skills", nil, "Required skills (comma-separated)")
	practiceCmd.Flags().StringSliceVar(&practiceCandidateSkills, "candidate-skills", nil, "Candidate skills (comma-separated)")
	practiceCmd.Flags().IntVarP(&practiceCount, "count", "n", 0, "Number of questions (1-10, default 5)")
	rootCmd.AddCommand(practiceCmd)
}

// practiceUI collects answers from the candidate
type practiceUI interface {
	Answer(q types.GeneratedQuestion, index, total int) (string, error)
	// Continue reports whether to move on after an evaluation
	Continue() (bool, error)
}

type promptUI struct{}

func (promptUI) Answer(q types.GeneratedQuestion, index, total int) (string, error) {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Answer %d/%d", index+1, total),
	}
	return prompt.Run()
}

func (promptUI) Continue() (bool, error) {
	sel := promptui.Select{
		Label: "Proceed?",
		Items: []string{PromptNext, PromptAbandon},
	}
	_, choice, err := sel.Run()
	if err != nil {
		return false, err
	}
	return choice == PromptNext, nil
}

func runPractice(cmd *cobra.Command, _ []string) error {
	job := practiceJob
	if practiceJobFile != "" {
		doc, err := ingestion.ExtractFile(practiceJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		job = doc.Text
	}
	req := &types.CreateInterviewRequest{
		JobDescription:  job,
		RoleTitle:       practiceRole,
		RequiredSkills:  practiceSkills,
		CandidateSkills: practiceCandidateSkills,
		QuestionCount:   practiceCount,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
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
	a, err := buildApp(ctx, cfg, log, appOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(ctx) }()

	recorder := events.NewRecorder()
	manager := interview.NewManager(a.cascade, a.store, log, interview.WithPublisher(recorder))

	err = practice(ctx, manager, req, promptUI{}, cmd.OutOrStdout())
	log.Debug("practice finished", zap.Int("events", len(recorder.Events())))
	if errors.Is(err, errAbandoned) {
		fmt.Fprintln(cmd.OutOrStdout(), "Interview abandoned.")
		return nil
	}
	return err
}

// practice runs one session to completion or abandonment
func practice(ctx context.Context, m *interview.Manager, req *types.CreateInterviewRequest, ui practiceUI, out io.Writer) error {
	session, err := m.CreateSession(ctx, interview.CreateRequest{
		JobDescription:  req.JobDescription,
		RoleTitle:       req.RoleTitle,
		RequiredSkills:  req.RequiredSkills,
		CandidateSkills: req.CandidateSkills,
		Count:           req.QuestionCount,
	})
	if err != nil {
		return err
	}
	if session, err = m.Start(ctx, session.ID); err != nil {
		return err
	}

	printer := observability.NewPrinter(out)
	total := len(session.Questions)
	fmt.Fprintf(out, "Starting interview with %d questions.\n", total)

	for {
		q, index, ok, err := m.CurrentQuestion(ctx, session.ID)
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		printer.PrintQuestion(q, index, total)

		answer, err := ui.Answer(q, index, total)
		if err != nil {
			return err
		}
		result, err := m.SubmitAnswer(ctx, session.ID, index, answer)
		if err != nil {
			return err
		}
		printer.PrintEvaluation(result.Evaluation)
		session = result.Session

		if session.Status == interview.StatusCompleted {
			break
		}
		next, err := ui.Continue()
		if err != nil {
			return err
		}
		if !next {
			if _, err := m.Abandon(ctx, session.ID); err != nil {
				return err
			}
			return errAbandoned
		}
	}

	printer.PrintReport(session.Scores, session.Feedback)
	return nil
}
