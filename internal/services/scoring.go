package services

import (
	"math"

	"alfredoptarigan/career-guide/internal/models"
)

// Weights combine SectionScores into the overall score. They must sum to 1.
type Weights struct {
	Formatting   float64
	Content      float64
	Achievements float64
	Skills       float64
}

func (w Weights) Sum() float64 {
	return w.Formatting + w.Content + w.Achievements + w.Skills
}

var DefaultWeights = Weights{
	Formatting:   0.20,
	Content:      0.30,
	Achievements: 0.25,
	Skills:       0.25,
}

// ScoringConfig enumerates every tunable of the scoring engine.
type ScoringConfig struct {
	Weights Weights
	// ContentBaseline is the fixed content axis; no signal feeds it yet.
	ContentBaseline int

	HighPenalty   int
	MediumPenalty int
	LowPenalty    int

	PointsPerSkill int

	MinActionVerbs       int
	MinMeasurable        int
	AchievementShortfall int
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights:              DefaultWeights,
		ContentBaseline:      70,
		HighPenalty:          20,
		MediumPenalty:        10,
		LowPenalty:           5,
		PointsPerSkill:       10,
		MinActionVerbs:       5,
		MinMeasurable:        3,
		AchievementShortfall: 50,
	}
}

// ScoringEngine turns extracted signals into scores. It is pure: identical
// inputs always give identical outputs.
type ScoringEngine interface {
	Score(skills, verbs, achievements []string, findings []models.SectionFinding) (models.SectionScores, int)
}

type scoringEngine struct {
	cfg ScoringConfig
}

func NewScoringEngine(cfg ScoringConfig) ScoringEngine {
	return &scoringEngine{cfg: cfg}
}

// Score implements ScoringEngine.
func (s *scoringEngine) Score(skills, verbs, achievements []string, findings []models.SectionFinding) (models.SectionScores, int) {
	scores := models.SectionScores{
		Formatting:   s.formatting(findings),
		Content:      clamp(s.cfg.ContentBaseline),
		Skills:       clamp(s.cfg.PointsPerSkill * len(skills)),
		Achievements: s.achievements(len(verbs), len(achievements)),
	}
	return scores, s.overall(scores)
}

func (s *scoringEngine) formatting(findings []models.SectionFinding) int {
	score := 100
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityHigh:
			score -= s.cfg.HighPenalty
		case models.SeverityMedium:
			score -= s.cfg.MediumPenalty
		case models.SeverityLow:
			score -= s.cfg.LowPenalty
		}
	}
	return clamp(score)
}

func (s *scoringEngine) achievements(verbCount, measurableCount int) int {
	score := 100
	if verbCount < s.cfg.MinActionVerbs {
		score -= s.cfg.AchievementShortfall
	}
	if measurableCount < s.cfg.MinMeasurable {
		score -= s.cfg.AchievementShortfall
	}
	return clamp(score)
}

func (s *scoringEngine) overall(scores models.SectionScores) int {
	w := s.cfg.Weights
	total := w.Formatting*float64(scores.Formatting) +
		w.Content*float64(scores.Content) +
		w.Achievements*float64(scores.Achievements) +
		w.Skills*float64(scores.Skills)
	return clamp(int(math.Round(total)))
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
