package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

type ResumeHandler struct {
	docRepo        repositories.DocumentRepository
	analysisRepo   repositories.AnalysisRepository
	storageService services.StorageService
	worker         services.Worker
	logger         *zap.Logger
}

func NewResumeHandler(
	docRepo repositories.DocumentRepository,
	analysisRepo repositories.AnalysisRepository,
	storageService services.StorageService,
	worker services.Worker,
	log *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		docRepo:        docRepo,
		analysisRepo:   analysisRepo,
		storageService: storageService,
		worker:         worker,
		logger:         logger.OrNop(log).Named("resume_handler"),
	}
}

type reanalyzeRequest struct {
	RequiredSkills *[]string `json:"required_skills"`
}

// HandleUpload handles POST /resumes
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "a 'resume' file (pdf or docx) is required")
	}

	stored, err := h.storageService.SaveFile(file)
	if err != nil {
		return errorJSON(c, statusFor(err), fmt.Sprintf("failed to save resume: %v", err))
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         stored.Filename,
		OriginalFileName: file.Filename,
		Format:           stored.Format,
		FilePath:         stored.Path,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		if cleanupErr := h.storageService.DeleteFile(stored.Filename); cleanupErr != nil {
			h.logger.Warn("⚠️ Failed to clean up upload", zap.String("file", stored.Filename), zap.Error(cleanupErr))
		}
		return errorJSON(c, fiber.StatusInternalServerError, "failed to save resume document record")
	}

	analysis, err := h.queueAnalysis(doc.ID, parseSkillList(c.FormValue("required_skills")))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to create analysis job")
	}

	return c.Status(fiber.StatusAccepted).JSON(models.UploadResponse{
		DocumentID:   doc.ID.String(),
		AnalysisID:   analysis.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		Format:       string(doc.Format),
		Status:       string(analysis.Status),
	})
}

// HandleReanalyze handles POST /resumes/:id/reanalyze. Without a skill list
// in the body the previous analysis' required skills are reused.
func (h *ResumeHandler) HandleReanalyze(c *fiber.Ctx) error {
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid document ID format")
	}

	var req reanalyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request payload")
		}
	}

	doc, err := h.docRepo.FindByID(docID)
	if err != nil {
		return errorJSON(c, statusFor(err), "resume document not found")
	}

	var skills []string
	if req.RequiredSkills != nil {
		skills = services.BuildVocabulary(*req.RequiredSkills)
	} else if previous, err := h.analysisRepo.LatestForDocument(doc.ID); err == nil {
		skills = previous.RequiredSkills
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to load previous analysis")
	}

	analysis, err := h.queueAnalysis(doc.ID, skills)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to create analysis job")
	}

	return c.Status(fiber.StatusAccepted).JSON(models.UploadResponse{
		DocumentID:   doc.ID.String(),
		AnalysisID:   analysis.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		Format:       string(doc.Format),
		Status:       string(analysis.Status),
	})
}

func (h *ResumeHandler) queueAnalysis(docID uuid.UUID, requiredSkills []string) (*models.Analysis, error) {
	if requiredSkills == nil {
		requiredSkills = []string{}
	}

	analysis := &models.Analysis{
		ID:             uuid.New(),
		DocumentID:     docID,
		Status:         models.StatusQueued,
		RequiredSkills: requiredSkills,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.analysisRepo.Create(analysis); err != nil {
		h.logger.Error("❌ Failed to create analysis", zap.Error(err))
		return nil, err
	}

	h.worker.EnqueueJob(analysis.ID)
	return analysis, nil
}
