package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		unsupported *services.UnsupportedFormatError
		unavailable *services.MatchingUnavailableError
		validation  validator.ValidationErrors
	)

	switch {
	case errors.As(err, &unsupported), errors.Is(err, services.ErrFileTooLarge), errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &unavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func validationMessage(err error) string {
	var validation validator.ValidationErrors
	if !errors.As(err, &validation) {
		return err.Error()
	}

	fields := make([]string, 0, len(validation))
	for _, fe := range validation {
		fields = append(fields, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return "invalid request: " + strings.Join(fields, ", ")
}

// parseSkillList accepts a comma separated list.
func parseSkillList(raw string) []string {
	skills := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return services.BuildVocabulary(skills)
}
