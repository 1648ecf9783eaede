package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// PersonalInfo holds independently extracted contact fields; nil means not found.
type PersonalInfo struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	LinkedIn  *string `json:"linkedin"`
	Portfolio *string `json:"portfolio"`
	Location  *string `json:"location"`
}

type SectionFinding struct {
	Section  string   `json:"section"`
	Feedback string   `json:"feedback"`
	Severity Severity `json:"severity"`
}

type SectionScores struct {
	Formatting   int `json:"formatting"`
	Content      int `json:"content"`
	Skills       int `json:"skills"`
	Achievements int `json:"achievements"`
}

type AchievementEvidence struct {
	ActionVerbs            []string `json:"action_verbs"`
	MeasurableAchievements []string `json:"measurable_achievements"`
}

// AnalysisResult is the output of one pipeline run. It is never mutated after
// creation; a re-analysis produces a new value.
type AnalysisResult struct {
	PersonalInfo    PersonalInfo        `json:"personal_info"`
	ExtractedSkills []string            `json:"extracted_skills"`
	MissingSkills   []string            `json:"missing_skills"`
	Achievements    AchievementEvidence `json:"achievements"`
	FormatFeedback  []SectionFinding    `json:"format_feedback"`
	SectionScores   SectionScores       `json:"section_scores"`
	OverallScore    int                 `json:"overall_score"`
	AISuggestions   string              `json:"ai_suggestions"`
	AnalyzedAt      time.Time           `json:"analyzed_at"`
}

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

type Analysis struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	Status         AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	RequiredSkills []string       `gorm:"type:jsonb;serializer:json" json:"required_skills"`
	Result         datatypes.JSON `gorm:"type:jsonb" json:"result,omitempty"`
	OverallScore   *int           `json:"overall_score,omitempty"`
	ErrorMessage   *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// DecodeResult unmarshals the stored result; it returns nil when the analysis
// has not completed.
func (a *Analysis) DecodeResult() (*AnalysisResult, error) {
	if len(a.Result) == 0 {
		return nil, nil
	}
	var result AnalysisResult
	if err := json.Unmarshal(a.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &result, nil
}

// EncodeResult serializes result into a JSON column value.
func EncodeResult(result *AnalysisResult) (datatypes.JSON, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	return datatypes.JSON(raw), nil
}
