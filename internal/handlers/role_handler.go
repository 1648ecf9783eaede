package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

// EmbeddingInvalidator drops cached role embeddings after a role changes.
type EmbeddingInvalidator interface {
	Invalidate(ctx context.Context, roleID uuid.UUID) error
}

type RoleHandler struct {
	roleRepo   repositories.JobRoleRepository
	embeddings EmbeddingInvalidator
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewRoleHandler(
	roleRepo repositories.JobRoleRepository,
	embeddings EmbeddingInvalidator,
	validate *validator.Validate,
	log *zap.Logger,
) *RoleHandler {
	return &RoleHandler{
		roleRepo:   roleRepo,
		embeddings: embeddings,
		validate:   validate,
		logger:     logger.OrNop(log).Named("role_handler"),
	}
}

// HandleList handles GET /roles
func (h *RoleHandler) HandleList(c *fiber.Ctx) error {
	roles, err := h.roleRepo.List()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to load job roles")
	}

	return c.JSON(fiber.Map{
		"roles": roles,
	})
}

// HandleCreate handles POST /roles
func (h *RoleHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request payload")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	role := &models.JobRole{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: services.BuildVocabulary(req.RequiredSkills),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if len(role.RequiredSkills) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request: required_skills must contain a skill")
	}

	if err := h.roleRepo.Create(role); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to create job role")
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// HandleUpdate handles PUT /roles/:id
func (h *RoleHandler) HandleUpdate(c *fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid role ID format")
	}

	var req models.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request payload")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	skills := services.BuildVocabulary(req.RequiredSkills)
	if len(skills) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request: required_skills must contain a skill")
	}

	role, err := h.roleRepo.FindByID(roleID)
	if err != nil {
		return errorJSON(c, statusFor(err), "job role not found")
	}

	role.Title = req.Title
	role.Description = req.Description
	role.RequiredSkills = skills
	role.UpdatedAt = time.Now()

	if err := h.roleRepo.Update(role); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to update job role")
	}

	if h.embeddings != nil {
		if err := h.embeddings.Invalidate(c.UserContext(), role.ID); err != nil {
			h.logger.Warn("⚠️ Failed to invalidate role embedding", zap.String("role_id", role.ID.String()), zap.Error(err))
		}
	}

	return c.JSON(role)
}
