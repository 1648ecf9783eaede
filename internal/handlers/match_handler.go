package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

type MatchHandler struct {
	analysisRepo repositories.AnalysisRepository
	roleRepo     repositories.JobRoleRepository
	matcher      services.JobMatcher
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewMatchHandler(
	analysisRepo repositories.AnalysisRepository,
	roleRepo repositories.JobRoleRepository,
	matcher services.JobMatcher,
	validate *validator.Validate,
	log *zap.Logger,
) *MatchHandler {
	return &MatchHandler{
		analysisRepo: analysisRepo,
		roleRepo:     roleRepo,
		matcher:      matcher,
		validate:     validate,
		logger:       logger.OrNop(log).Named("match_handler"),
	}
}

// HandleMatch handles POST /analyses/:id/matches
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid analysis ID format")
	}

	var req models.MatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request payload")
		}
	}
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return errorJSON(c, statusFor(err), "analysis not found")
	}

	if analysis.Status != models.StatusCompleted {
		return errorJSON(c, fiber.StatusConflict, "analysis is not completed yet")
	}

	result, err := analysis.DecodeResult()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "stored analysis result is unreadable")
	}

	catalog, err := h.roleRepo.List()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to load job roles")
	}

	matches, err := h.matcher.FindMatches(c.UserContext(), result, catalog, req.Limit)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("⚠️ Job matching failed", zap.String("analysis_id", analysisID.String()), zap.Error(err))
		if status == fiber.StatusServiceUnavailable {
			return errorJSON(c, status, "job matching is currently unavailable")
		}
		return errorJSON(c, status, "failed to match job roles")
	}

	return c.JSON(models.MatchResponse{
		AnalysisID: analysisID.String(),
		Matches:    matches,
	})
}
