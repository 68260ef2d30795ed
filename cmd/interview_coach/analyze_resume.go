package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/types"
)

var (
	resumeFile      string
	resumeObjectKey string
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume",
	Short: "Extract skills and experience from a resume",
	Long: `Extract skills, experience, education and a summary from a resume.
The resume is read from a local file (txt, pdf, docx, html) or from object storage.`,
	RunE: runAnalyzeResume,
}

func init() {
	analyzeResumeCmd.Flags().StringVarP(&resumeFile, "file", "f", "", "Path to the resume file")
	analyzeResumeCmd.Flags().StringVar(&resumeObjectKey, "object-key", "", "Object storage key of the resume")
	rootCmd.AddCommand(analyzeResumeCmd)
}

// ResumeOutput is the JSON written by analyze-resume
type ResumeOutput struct {
	Source string                  `json:"source"`
	Resume *types.ResumeExtraction `json:"resume"`
	Tier   generation.TierName     `json:"tier"`
}

func runAnalyzeResume(cmd *cobra.Command, _ []string) error {
	if (resumeFile == "") == (resumeObjectKey == "") {
		return fmt.Errorf("exactly one of --file or --object-key is required")
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
	a, err := buildApp(ctx, cfg, log, appOptions{objects: resumeObjectKey != ""})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(ctx) }()

	var doc *ingestion.Document
	if resumeFile != "" {
		doc, err = ingestion.ExtractFile(resumeFile)
	} else {
		if a.objects == nil {
			return fmt.Errorf("object storage is not configured (set s3.bucket)")
		}
		doc, err = a.objects.Extract(ctx, resumeObjectKey)
	}
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	req := &types.AnalyzeResumeRequest{ResumeText: doc.Text}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid resume: %w", err)
	}

	resume, tier, err := a.manager.AnalyzeResume(ctx, req.ResumeText)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), ResumeOutput{
		Source: doc.Metadata.Source,
		Resume: resume,
		Tier:   tier,
	})
}
