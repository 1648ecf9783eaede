package models

type UploadResponse struct {
	DocumentID   string `json:"document_id"`
	AnalysisID   string `json:"analysis_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Format       string `json:"format"`
	Status       string `json:"status"`
}

type AnalysisResponse struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"document_id"`
	Status       string          `json:"status"`
	Result       *AnalysisResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type CreateRoleRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required"`
	RequiredSkills []string `json:"required_skills" validate:"required,min=1,dive,required"`
}

type MatchRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=50"`
}

type MatchResponse struct {
	AnalysisID string      `json:"analysis_id"`
	Matches    []RoleMatch `json:"matches"`
}
