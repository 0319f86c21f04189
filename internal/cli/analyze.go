package cli

import (
	"context"
	"fmt"

	"atscan/internal/analyzer"
	"atscan/internal/common"
	"atscan/internal/extract"
	"atscan/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Analyze a resume for ATS compatibility",
	Long: `Analyze a resume file and report how well it would fare in an
applicant tracking system. PDF, DOCX, plain text and markdown files are
supported.

The analysis includes:
- Candidate name, education and experience detection
- Skill keyword matching against the configured taxonomy
- Resume section coverage (summary, skills, experience, ...)
- A weighted 0-100 ATS compatibility score
- Concrete suggestions for improving the resume`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	taxonomy, err := cfg.LoadTaxonomy()
	if err != nil {
		return fmt.Errorf("failed to load keyword taxonomy: %w", err)
	}
	engine, err := analyzer.New(taxonomy)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	extractor := extract.NewDocumentExtractor(logger)

	filename := args[0]

	createInput := func(contents []string) (types.AnalyzeResumeInput, error) {
		if len(contents) != 1 {
			return types.AnalyzeResumeInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		// PDF and DOCX need text extraction, plain text passes through.
		text, err := extractor.Extract(cmd.Context(), []byte(contents[0]), filename)
		if err != nil {
			return types.AnalyzeResumeInput{}, err
		}
		return types.AnalyzeResumeInput{
			ResumeText: text,
		}, nil
	}

	logDetails := func(input types.AnalyzeResumeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"file", filename,
			"resume_chars", len(input.ResumeText),
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, error) {
		return engine.Analyze(input.ResumeText), nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
