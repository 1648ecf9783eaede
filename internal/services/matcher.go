package services

import (
	"context"
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
)

// JobMatcher ranks catalog roles against an analyzed resume.
type JobMatcher interface {
	FindMatches(ctx context.Context, result *models.AnalysisResult, catalog []models.JobRole, limit int) ([]models.RoleMatch, error)
}

type MatcherConfig struct {
	Threshold    float64
	DefaultLimit int
	Concurrency  int
}

func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		Threshold:    0.6,
		DefaultLimit: 3,
		Concurrency:  4,
	}
}

type jobMatcher struct {
	provider EmbeddingProvider
	cache    *RoleEmbeddingCache
	skills   SkillMatcher
	prompts  *PromptBuilder
	cfg      MatcherConfig
	logger   *zap.Logger
}

// NewJobMatcher accepts a nil provider; every match then fails with
// MatchingUnavailableError.
func NewJobMatcher(provider EmbeddingProvider, store EmbeddingStore, skills SkillMatcher, cfg MatcherConfig, log *zap.Logger) JobMatcher {
	log = logger.OrNop(log).Named("matcher")
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultMatcherConfig().DefaultLimit
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if store == nil {
		store = NewMemoryEmbeddingStore()
	}

	m := &jobMatcher{
		provider: provider,
		skills:   skills,
		prompts:  NewPromptBuilder(),
		cfg:      cfg,
		logger:   log,
	}
	if provider != nil {
		m.cache = NewRoleEmbeddingCache(store, provider, log)
	}
	return m
}

// FindMatches implements JobMatcher.
func (m *jobMatcher) FindMatches(ctx context.Context, result *models.AnalysisResult, catalog []models.JobRole, limit int) ([]models.RoleMatch, error) {
	if m.provider == nil {
		return nil, &MatchingUnavailableError{Err: ErrInferenceUnavailable}
	}
	if result == nil {
		return nil, errors.New("analysis result is required")
	}
	if limit <= 0 {
		limit = m.cfg.DefaultLimit
	}
	if len(catalog) == 0 {
		return []models.RoleMatch{}, nil
	}

	profile := m.prompts.BuildResumeProfileText(
		result.ExtractedSkills,
		result.Achievements.ActionVerbs,
		result.Achievements.MeasurableAchievements,
	)

	resumeVector, err := m.provider.Embed(ctx, profile)
	if err != nil {
		return nil, &MatchingUnavailableError{Err: err}
	}

	similarities := make([]float64, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Concurrency)
	for i := range catalog {
		g.Go(func() error {
			roleVector, err := m.cache.Vector(gctx, catalog[i])
			if err != nil {
				return err
			}
			similarities[i] = CosineSimilarity(resumeVector, roleVector)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &MatchingUnavailableError{Err: err}
	}

	matches := make([]models.RoleMatch, 0, len(catalog))
	for i, role := range catalog {
		if similarities[i] < m.cfg.Threshold {
			continue
		}
		matches = append(matches, models.RoleMatch{
			RoleID:        role.ID,
			Title:         role.Title,
			MatchScore:    math.Round(similarities[i]*10000) / 100,
			MatchedSkills: m.skills.Matched(result.ExtractedSkills, role.RequiredSkills),
			MissingSkills: m.skills.Missing(result.ExtractedSkills, role.RequiredSkills),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	m.logger.Debug("Ranked roles",
		zap.Int("catalog", len(catalog)),
		zap.Int("matches", len(matches)),
	)

	return matches, nil
}
