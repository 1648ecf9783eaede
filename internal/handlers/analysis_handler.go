package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/repositories"
)

type AnalysisHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewAnalysisHandler(analysisRepo repositories.AnalysisRepository) *AnalysisHandler {
	return &AnalysisHandler{
		analysisRepo: analysisRepo,
	}
}

// HandleGetAnalysis handles GET /analyses/:id
func (h *AnalysisHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid analysis ID format")
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return errorJSON(c, statusFor(err), "analysis not found")
	}

	response := models.AnalysisResponse{
		ID:         analysis.ID.String(),
		DocumentID: analysis.DocumentID.String(),
		Status:     string(analysis.Status),
	}

	switch analysis.Status {
	case models.StatusCompleted:
		result, err := analysis.DecodeResult()
		if err != nil {
			return errorJSON(c, fiber.StatusInternalServerError, "stored analysis result is unreadable")
		}
		response.Result = result
	case models.StatusFailed:
		if analysis.ErrorMessage != nil && *analysis.ErrorMessage != "" {
			response.ErrorMessage = analysis.ErrorMessage
		}
	}

	return c.JSON(response)
}
