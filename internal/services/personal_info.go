package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/career-guide/internal/models"
)

// PersonalInfoExtractor pulls contact fields out of resume text. Each field is
// independent and absence is reported as nil, never as an error.
type PersonalInfoExtractor interface {
	ExtractAll(text string) models.PersonalInfo
}

const nameSearchLines = 5

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:(?i:name)\s*:?\s*)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`),
		regexp.MustCompile(`^(?:(?i:name)\s*:?\s*)?([A-Z]{2,}(?:\s+[A-Z]{2,}){1,2})$`),
	}
	emailRegex     = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRegex     = regexp.MustCompile(`(?:\+\d{1,3}[-. ]?)?\b\d{3}[-. ]?\d{3}[-. ]?\d{4}\b`)
	phoneSeparator = regexp.MustCompile(`[-. ]`)
	linkedInRegex  = regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_-]+/?`)
	// Deliberately loose: any host/path token qualifies.
	portfolioRegex = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:github\.com|[\w-]+\.[\w-]+)/[\w-]+/?`)
	locationRegex  = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*,\s*[A-Z]{2}\b`)
)

type personalInfoExtractor struct{}

func NewPersonalInfoExtractor() PersonalInfoExtractor {
	return &personalInfoExtractor{}
}

// ExtractAll implements PersonalInfoExtractor.
func (p *personalInfoExtractor) ExtractAll(text string) models.PersonalInfo {
	return models.PersonalInfo{
		Name:      extractName(text),
		Email:     extractEmail(text),
		Phone:     extractPhone(text),
		LinkedIn:  firstMatch(linkedInRegex, text),
		Portfolio: firstMatch(portfolioRegex, text),
		Location:  extractLocation(text),
	}
}

func extractName(text string) *string {
	lines := strings.Split(text, "\n")
	if len(lines) > nameSearchLines {
		lines = lines[:nameSearchLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, pattern := range namePatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				return stringPtr(strings.TrimSpace(m[1]))
			}
		}
	}
	return nil
}

func extractEmail(text string) *string {
	if m := emailRegex.FindString(text); m != "" {
		return stringPtr(strings.ToLower(m))
	}
	return nil
}

func extractPhone(text string) *string {
	if m := phoneRegex.FindString(text); m != "" {
		return stringPtr(phoneSeparator.ReplaceAllString(m, "-"))
	}
	return nil
}

func extractLocation(text string) *string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(strings.ToLower(line), "university") {
			continue
		}
		if m := locationRegex.FindString(line); m != "" {
			return stringPtr(m)
		}
	}
	return nil
}

func firstMatch(re *regexp.Regexp, text string) *string {
	if m := re.FindString(text); m != "" {
		return stringPtr(m)
	}
	return nil
}

func stringPtr(s string) *string {
	return &s
}
