package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-guide/internal/models"
)

// unitAt returns a unit vector whose cosine with (1, 0) is c.
func unitAt(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
}

func rankingProvider() *fakeInference {
	return &fakeInference{
		embed: func(text string) ([]float32, error) {
			switch {
			case strings.HasPrefix(text, "Backend Engineer"):
				return unitAt(0.65), nil
			case strings.HasPrefix(text, "Data Engineer"):
				return unitAt(0.82), nil
			case strings.HasPrefix(text, "UI Designer"):
				return unitAt(0.4), nil
			default:
				return []float32{1, 0}, nil
			}
		},
	}
}

func rankingCatalog() []models.JobRole {
	return []models.JobRole{
		{ID: uuid.New(), Title: "Backend Engineer", Description: "APIs", RequiredSkills: []string{"Go", "SQL"}},
		{ID: uuid.New(), Title: "UI Designer", Description: "Interfaces", RequiredSkills: []string{"Figma"}},
		{ID: uuid.New(), Title: "Data Engineer", Description: "Pipelines", RequiredSkills: []string{"Python", "SQL", "Spark"}},
	}
}

func TestFindMatches_RanksAboveThreshold(t *testing.T) {
	matcher := NewJobMatcher(rankingProvider(), nil, NewSkillMatcher(), DefaultMatcherConfig(), nil)
	result := &models.AnalysisResult{ExtractedSkills: []string{"Python", "SQL"}}

	matches, err := matcher.FindMatches(context.Background(), result, rankingCatalog(), 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "Data Engineer", matches[0].Title)
	assert.InDelta(t, 82.0, matches[0].MatchScore, 0.01)
	assert.Equal(t, []string{"Python", "SQL"}, matches[0].MatchedSkills)
	assert.Equal(t, []string{"Spark"}, matches[0].MissingSkills)

	assert.Equal(t, "Backend Engineer", matches[1].Title)
	assert.InDelta(t, 65.0, matches[1].MatchScore, 0.01)
	assert.Equal(t, []string{"Go"}, matches[1].MissingSkills)

	for _, m := range matches {
		assert.GreaterOrEqual(t, m.MatchScore, 60.0)
	}
}

func TestFindMatches_AppliesLimit(t *testing.T) {
	matcher := NewJobMatcher(rankingProvider(), nil, NewSkillMatcher(), DefaultMatcherConfig(), nil)

	matches, err := matcher.FindMatches(context.Background(), &models.AnalysisResult{}, rankingCatalog(), 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Data Engineer", matches[0].Title)
}

func TestFindMatches_ProviderUnavailable(t *testing.T) {
	matcher := NewJobMatcher(nil, nil, NewSkillMatcher(), DefaultMatcherConfig(), nil)

	_, err := matcher.FindMatches(context.Background(), &models.AnalysisResult{}, rankingCatalog(), 3)

	var unavailable *MatchingUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, ErrInferenceUnavailable)
}

func TestFindMatches_EmbeddingFailureIsFatal(t *testing.T) {
	provider := &fakeInference{embed: func(text string) ([]float32, error) {
		if strings.HasPrefix(text, "UI Designer") {
			return nil, errors.New("connection refused")
		}
		return []float32{1, 0}, nil
	}}
	matcher := NewJobMatcher(provider, nil, NewSkillMatcher(), DefaultMatcherConfig(), nil)

	matches, err := matcher.FindMatches(context.Background(), &models.AnalysisResult{}, rankingCatalog(), 3)

	var unavailable *MatchingUnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Nil(t, matches)
}

func TestFindMatches_ReusesRoleEmbeddings(t *testing.T) {
	provider := rankingProvider()
	store := NewMemoryEmbeddingStore()
	matcher := NewJobMatcher(provider, store, NewSkillMatcher(), DefaultMatcherConfig(), nil)
	catalog := rankingCatalog()
	result := &models.AnalysisResult{ExtractedSkills: []string{"Go"}}

	_, err := matcher.FindMatches(context.Background(), result, catalog, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, provider.embedCount())

	_, err = matcher.FindMatches(context.Background(), result, catalog, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, provider.embedCount(), "only the resume is embedded again")
}

func TestFindMatches_EmptyCatalog(t *testing.T) {
	matcher := NewJobMatcher(rankingProvider(), nil, NewSkillMatcher(), DefaultMatcherConfig(), nil)

	matches, err := matcher.FindMatches(context.Background(), &models.AnalysisResult{}, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
