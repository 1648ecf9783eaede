package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/repositories"
)

// AnalysisService runs queued analyses and persists their outcome.
type AnalysisService interface {
	Run(ctx context.Context, analysisID uuid.UUID) error
}

type analysisService struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	storage      StorageService
	pipeline     ResumeAnalysisPipeline
	logger       *zap.Logger
}

func NewAnalysisService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	storage StorageService,
	pipeline ResumeAnalysisPipeline,
	log *zap.Logger,
) AnalysisService {
	return &analysisService{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		storage:      storage,
		pipeline:     pipeline,
		logger:       logger.OrNop(log).Named("analysis"),
	}
}

// Run implements AnalysisService. Analyses already claimed elsewhere are
// skipped without error.
func (s *analysisService) Run(ctx context.Context, analysisID uuid.UUID) error {
	claimed, err := s.analysisRepo.Claim(analysisID)
	if err != nil {
		return err
	}
	if !claimed {
		s.logger.Debug("Analysis already claimed", zap.String("analysis_id", analysisID.String()))
		return nil
	}

	log := s.logger.With(zap.String("analysis_id", analysisID.String()))
	log.Info("🔄 Starting analysis")

	analysis, err := s.analysisRepo.FindByID(analysisID)
	if err != nil {
		return s.fail(analysisID, fmt.Errorf("failed to load analysis: %w", err))
	}

	doc, err := s.docRepo.FindByID(analysis.DocumentID)
	if err != nil {
		return s.fail(analysisID, fmt.Errorf("failed to load document: %w", err))
	}

	content, err := s.storage.ReadFile(doc.FilePath)
	if err != nil {
		return s.fail(analysisID, err)
	}

	result, err := s.pipeline.Analyze(ctx, models.RawDocument{Content: content, Format: doc.Format}, analysis.RequiredSkills)
	if err != nil {
		return s.fail(analysisID, err)
	}

	if err := s.analysisRepo.UpdateResult(analysisID, result); err != nil {
		return s.fail(analysisID, err)
	}

	log.Info("✅ Analysis completed", zap.Int("overall_score", result.OverallScore))
	return nil
}

func (s *analysisService) fail(analysisID uuid.UUID, cause error) error {
	if err := s.analysisRepo.UpdateError(analysisID, cause.Error()); err != nil {
		s.logger.Error("❌ Failed to record analysis error",
			zap.String("analysis_id", analysisID.String()),
			zap.Error(err),
		)
	}
	return cause
}
