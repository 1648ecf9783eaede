package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
)

// ResumeAnalysisPipeline turns one document into one AnalysisResult. A run
// either returns a complete result or an error, never both.
type ResumeAnalysisPipeline interface {
	Analyze(ctx context.Context, doc models.RawDocument, requiredSkills []string) (*models.AnalysisResult, error)
}

// VocabularySource supplies the canonical skill list for a run.
type VocabularySource func(ctx context.Context) ([]string, error)

// StaticVocabulary returns a VocabularySource over a fixed list.
func StaticVocabulary(skills []string) VocabularySource {
	return func(context.Context) ([]string, error) {
		return skills, nil
	}
}

type PipelineComponents struct {
	Extractor    TextExtractor
	PersonalInfo PersonalInfoExtractor
	Skills       SkillMatcher
	Sections     SectionAnalyzer
	Achievements AchievementAnalyzer
	Scoring      ScoringEngine
	Vocabulary   VocabularySource
}

type resumeAnalysisPipeline struct {
	c      PipelineComponents
	now    func() time.Time
	logger *zap.Logger
}

// NewResumeAnalysisPipeline fills unset components with the local
// implementations. Achievements default to the local tier only.
func NewResumeAnalysisPipeline(c PipelineComponents, log *zap.Logger) ResumeAnalysisPipeline {
	log = logger.OrNop(log).Named("pipeline")

	if c.Extractor == nil {
		c.Extractor = NewTextExtractor()
	}
	if c.PersonalInfo == nil {
		c.PersonalInfo = NewPersonalInfoExtractor()
	}
	if c.Skills == nil {
		c.Skills = NewSkillMatcher()
	}
	if c.Sections == nil {
		c.Sections = NewSectionAnalyzer()
	}
	if c.Achievements == nil {
		c.Achievements = NewAchievementAnalyzer(nil, log)
	}
	if c.Scoring == nil {
		c.Scoring = NewScoringEngine(DefaultScoringConfig())
	}
	if c.Vocabulary == nil {
		c.Vocabulary = StaticVocabulary(nil)
	}

	return &resumeAnalysisPipeline{c: c, now: time.Now, logger: log}
}

// Analyze implements ResumeAnalysisPipeline.
func (p *resumeAnalysisPipeline) Analyze(ctx context.Context, doc models.RawDocument, requiredSkills []string) (*models.AnalysisResult, error) {
	raw, err := p.c.Extractor.Extract(doc.Content, doc.Format)
	if err != nil {
		var unsupported *UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, &AnalysisError{Step: "extract", Err: err}
	}

	text := CleanText(raw)
	p.logger.Debug("📄 Text extracted",
		zap.String("format", string(doc.Format)),
		zap.Int("chars", len(text)),
		zap.String("preview", logger.Truncate(text, 80)),
	)

	if err := ctx.Err(); err != nil {
		return nil, &AnalysisError{Step: "personal_info", Err: err}
	}
	personal := p.c.PersonalInfo.ExtractAll(text)

	vocabulary, err := p.c.Vocabulary(ctx)
	if err != nil {
		return nil, &AnalysisError{Step: "skills", Err: err}
	}
	vocabulary = BuildVocabulary(vocabulary, requiredSkills)
	skills := p.c.Skills.Identify(text, vocabulary)
	missing := p.c.Skills.Missing(skills, requiredSkills)

	findings := p.c.Sections.Analyze(text)

	if err := ctx.Err(); err != nil {
		return nil, &AnalysisError{Step: "achievements", Err: err}
	}
	verbs := p.c.Achievements.DetectActionVerbs(ctx, text)
	measurable := p.c.Achievements.DetectMeasurableAchievements(ctx, text)
	suggestions := p.c.Achievements.Suggest(ctx, text)

	if err := ctx.Err(); err != nil {
		return nil, &AnalysisError{Step: "scoring", Err: err}
	}
	scores, overall := p.c.Scoring.Score(skills, verbs, measurable, findings)

	return &models.AnalysisResult{
		PersonalInfo:    personal,
		ExtractedSkills: skills,
		MissingSkills:   missing,
		Achievements: models.AchievementEvidence{
			ActionVerbs:            verbs,
			MeasurableAchievements: measurable,
		},
		FormatFeedback: findings,
		SectionScores:  scores,
		OverallScore:   overall,
		AISuggestions:  suggestions,
		AnalyzedAt:     p.now().UTC(),
	}, nil
}
