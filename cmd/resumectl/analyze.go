package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume and print the result as JSON",
	RunE:  runAnalyze,
}

var (
	analyzeFile     string
	analyzeRequired []string
	analyzeSkills   []string
	analyzeLocal    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a .pdf or .docx resume (required)")
	analyzeCmd.Flags().StringSliceVar(&analyzeRequired, "required", nil, "Skills the resume is expected to show")
	analyzeCmd.Flags().StringSliceVar(&analyzeSkills, "skills", nil, "Skill vocabulary (defaults to SKILL_VOCABULARY or the built-in role catalog)")
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "Skip the Gemini tier even when GEMINI_API_KEY is set")
	_ = analyzeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(analyzeCmd)
}

// cliEnv holds what both subcommands need.
type cliEnv struct {
	cfg       *config.Config
	log       *zap.Logger
	inference services.InferenceService
	skills    services.SkillMatcher
	pipeline  services.ResumeAnalysisPipeline
}

func newCLIEnv(vocabulary []string, localOnly bool) (*cliEnv, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var inference services.InferenceService
	if !localOnly {
		inference, err = services.NewGeminiService(cfg.Gemini, log)
		if err != nil && !errors.Is(err, services.ErrInferenceUnavailable) {
			return nil, err
		}
	}

	if len(vocabulary) == 0 {
		vocabulary = cfg.Analysis.SkillVocabulary
	}

	scoringCfg := services.DefaultScoringConfig()
	scoringCfg.ContentBaseline = cfg.Analysis.ContentBaseline

	skills := services.NewSkillMatcher()
	pipeline := services.NewResumeAnalysisPipeline(services.PipelineComponents{
		Skills:       skills,
		Achievements: services.NewAchievementAnalyzer(inference, log),
		Scoring:      services.NewScoringEngine(scoringCfg),
		Vocabulary: services.CatalogVocabulary(vocabulary, func() ([]models.JobRole, error) {
			return models.DefaultRoles(), nil
		}),
	}, log)

	return &cliEnv{cfg: cfg, log: log, inference: inference, skills: skills, pipeline: pipeline}, nil
}

func (e *cliEnv) analyzeFile(ctx context.Context, path string, required []string) (*models.AnalysisResult, error) {
	format, err := services.ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}

	return e.pipeline.Analyze(ctx, models.RawDocument{Content: content, Format: format}, required)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	env, err := newCLIEnv(analyzeSkills, analyzeLocal)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	result, err := env.analyzeFile(cmd.Context(), analyzeFile, trimAll(analyzeRequired))
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), result)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
