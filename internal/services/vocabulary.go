package services

import (
	"context"

	"alfredoptarigan/career-guide/internal/models"
)

// CatalogVocabulary derives the skill vocabulary from the role catalog unless
// an explicit list is configured.
func CatalogVocabulary(configured []string, listRoles func() ([]models.JobRole, error)) VocabularySource {
	if len(configured) > 0 {
		return StaticVocabulary(BuildVocabulary(configured))
	}

	return func(context.Context) ([]string, error) {
		roles, err := listRoles()
		if err != nil {
			return nil, err
		}

		lists := make([][]string, 0, len(roles))
		for _, role := range roles {
			lists = append(lists, role.RequiredSkills)
		}
		return BuildVocabulary(lists...), nil
	}
}
