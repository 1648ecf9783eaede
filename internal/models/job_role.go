package models

import (
	"time"

	"github.com/google/uuid"
)

// JobRole is a catalog entry. Its embedding is not stored here; see the
// role-embedding cache in services.
type JobRole struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	RequiredSkills []string  `gorm:"type:jsonb;serializer:json" json:"required_skills"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobRole) TableName() string {
	return "job_roles"
}

// RoleMatch is one ranked role for a resume. It is recomputed on every request.
type RoleMatch struct {
	RoleID        uuid.UUID `json:"role_id"`
	Title         string    `json:"title"`
	MatchScore    float64   `json:"match_score"`
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills"`
}

// DefaultRoles seeds an empty catalog.
func DefaultRoles() []JobRole {
	return []JobRole{
		{
			Title:          "Full Stack Developer",
			Description:    "Build and maintain web applications using modern technologies",
			RequiredSkills: []string{"JavaScript", "React", "Node.js", "MongoDB", "Express", "Git", "RESTful API"},
		},
		{
			Title:          "Data Scientist",
			Description:    "Analyze data and build machine learning models",
			RequiredSkills: []string{"Python", "Machine Learning", "SQL", "TensorFlow", "PyTorch", "Data Analysis"},
		},
		{
			Title:          "DevOps Engineer",
			Description:    "Manage infrastructure and deployment pipelines",
			RequiredSkills: []string{"AWS", "Docker", "Kubernetes", "CI/CD", "Linux", "Git"},
		},
		{
			Title:          "Frontend Developer",
			Description:    "Create responsive and user-friendly web interfaces",
			RequiredSkills: []string{"JavaScript", "React", "HTML5", "CSS3", "TypeScript", "Redux"},
		},
		{
			Title:          "Backend Developer",
			Description:    "Design and implement server-side applications",
			RequiredSkills: []string{"Node.js", "Express", "MongoDB", "RESTful API", "SQL", "Microservices"},
		},
	}
}
