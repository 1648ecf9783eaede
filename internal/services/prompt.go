package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildActionVerbPrompt asks for the action verbs used in a resume excerpt.
func (pb *PromptBuilder) BuildActionVerbPrompt(text string) string {
	return fmt.Sprintf(`You are reviewing part of a resume.

RESUME EXCERPT:
%s

List every action verb the candidate uses to describe their own work (for example "led", "built", "reduced").
Return ONLY a JSON array of lowercase strings, e.g. ["led", "built"]. Return [] if there are none.`, text)
}

// BuildMeasurableAchievementPrompt asks for quantified achievements.
func (pb *PromptBuilder) BuildMeasurableAchievementPrompt(text string) string {
	return fmt.Sprintf(`You are reviewing part of a resume.

RESUME EXCERPT:
%s

Find measurable achievements: statements containing numbers, percentages, money amounts or other metrics.
Return ONLY a JSON array of the shortest quoted phrases that carry the metric, e.g. ["40%%", "$2M", "10,000 users"].
Return [] if there are none.`, text)
}

// BuildSuggestionPrompt asks for improvement advice.
func (pb *PromptBuilder) BuildSuggestionPrompt(text string) string {
	return fmt.Sprintf(`Analyze this resume text and provide specific suggestions for improvement, focusing on action verbs and measurable achievements.

RESUME:
%s

Return 3-5 short bullet points as plain text. No JSON.`, text)
}

// BuildResumeProfileText renders the profile fields used for role matching.
func (pb *PromptBuilder) BuildResumeProfileText(skills, verbs, achievements []string) string {
	var b strings.Builder
	b.WriteString("Skills: ")
	b.WriteString(strings.Join(skills, ", "))
	if len(achievements) > 0 {
		b.WriteString("\nAchievements: ")
		b.WriteString(strings.Join(achievements, "; "))
	}
	if len(verbs) > 0 {
		b.WriteString("\nExperience: ")
		b.WriteString(strings.Join(verbs, " "))
	}
	return b.String()
}

// parseStringList decodes a JSON string array out of an LLM reply.
func parseStringList(response string) ([]string, error) {
	jsonStr := extractJSON(response)
	if !strings.HasPrefix(jsonStr, "[") {
		return nil, errors.New("response does not contain a JSON array")
	}

	var items []string
	if err := json.Unmarshal([]byte(jsonStr), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned, nil
}

// extractJSON strips markdown fences and returns the outermost JSON array or
// object found in text.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")

	if startArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj) {
		return text[startArr : endArr+1]
	}
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return text
}
