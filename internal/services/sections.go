package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/career-guide/internal/models"
)

// SectionAnalyzer reports structural problems in resume text.
type SectionAnalyzer interface {
	Analyze(text string) []models.SectionFinding
}

// CanonicalSections are the sections every resume is expected to have.
var CanonicalSections = []string{
	"education",
	"experience",
	"skills",
	"projects",
	"certifications",
	"summary",
	"objective",
}

const minSectionContentLength = 50

var sectionHeaderRegex = regexp.MustCompile(`^[A-Z][A-Za-z\s]+:?`)

type sectionAnalyzer struct {
	presence map[string]*regexp.Regexp
}

func NewSectionAnalyzer() SectionAnalyzer {
	presence := make(map[string]*regexp.Regexp, len(CanonicalSections))
	for _, section := range CanonicalSections {
		presence[section] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(section) + `\b`)
	}
	return &sectionAnalyzer{presence: presence}
}

// Analyze implements SectionAnalyzer. The presence and thinness checks are
// independent and both append to the same list.
func (s *sectionAnalyzer) Analyze(text string) []models.SectionFinding {
	findings := make([]models.SectionFinding, 0)

	for _, section := range CanonicalSections {
		if !s.presence[section].MatchString(text) {
			findings = append(findings, models.SectionFinding{
				Section:  section,
				Feedback: fmt.Sprintf("Missing %s section", section),
				Severity: models.SeverityHigh,
			})
		}
	}

	for _, block := range splitSections(text) {
		if utf8.RuneCountInString(strings.TrimSpace(block)) < minSectionContentLength {
			findings = append(findings, models.SectionFinding{
				Section:  "Content",
				Feedback: "Section content appears too brief",
				Severity: models.SeverityMedium,
			})
		}
	}

	return findings
}

// splitSections cuts text before every line that looks like a section header.
// The first block always starts at the beginning of the text.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")
	blocks := make([]string, 0)
	current := make([]string, 0, len(lines))

	for i, line := range lines {
		if i > 0 && sectionHeaderRegex.MatchString(line) {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	return append(blocks, strings.Join(current, "\n"))
}
