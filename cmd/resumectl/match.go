package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/services"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Analyze a resume and rank job roles against it",
	Long:  "Analyze a resume, then rank the built-in role catalog (or roles from --roles) by embedding similarity. Requires GEMINI_API_KEY.",
	RunE:  runMatch,
}

var (
	matchFile     string
	matchRoles    string
	matchLimit    int
	matchRequired []string
)

func init() {
	matchCmd.Flags().StringVarP(&matchFile, "file", "f", "", "Path to a .pdf or .docx resume (required)")
	matchCmd.Flags().StringVar(&matchRoles, "roles", "", "JSON file with an array of roles (title, description, required_skills)")
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 0, "Maximum number of matches (defaults to MATCH_DEFAULT_LIMIT)")
	matchCmd.Flags().StringSliceVar(&matchRequired, "required", nil, "Skills the resume is expected to show")
	_ = matchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(matchRoles)
	if err != nil {
		return err
	}

	env, err := newCLIEnv(nil, false)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	result, err := env.analyzeFile(cmd.Context(), matchFile, trimAll(matchRequired))
	if err != nil {
		return err
	}

	var embedder services.EmbeddingProvider
	if env.inference != nil {
		embedder = env.inference
	}

	matcher := services.NewJobMatcher(embedder, services.NewMemoryEmbeddingStore(), env.skills, services.MatcherConfig{
		Threshold:    env.cfg.Matching.Threshold,
		DefaultLimit: env.cfg.Matching.DefaultLimit,
		Concurrency:  env.cfg.Matching.Concurrency,
	}, env.log)

	matches, err := matcher.FindMatches(cmd.Context(), result, catalog, matchLimit)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), struct {
		OverallScore int                `json:"overall_score"`
		Matches      []models.RoleMatch `json:"matches"`
	}{result.OverallScore, matches})
}

func loadCatalog(path string) ([]models.JobRole, error) {
	var roles []models.JobRole
	if path == "" {
		roles = models.DefaultRoles()
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read roles file: %w", err)
		}
		if err := json.Unmarshal(raw, &roles); err != nil {
			return nil, fmt.Errorf("failed to parse roles file: %w", err)
		}
	}

	for i := range roles {
		if roles[i].ID == uuid.Nil {
			roles[i].ID = uuid.New()
		}
	}
	return roles, nil
}
