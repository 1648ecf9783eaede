package services

import (
	"regexp"
	"strings"
	"sync"
)

// SkillMatcher finds vocabulary skills in free text. Results always use the
// vocabulary's canonical spelling and order.
type SkillMatcher interface {
	Identify(text string, vocabulary []string) []string
	Missing(present, required []string) []string
	Matched(present, required []string) []string
}

type skillMatcher struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func NewSkillMatcher() SkillMatcher {
	return &skillMatcher{patterns: make(map[string]*regexp.Regexp)}
}

// Identify implements SkillMatcher.
func (s *skillMatcher) Identify(text string, vocabulary []string) []string {
	found := make([]string, 0)
	seen := make(map[string]bool, len(vocabulary))

	for _, skill := range vocabulary {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		if s.pattern(skill).MatchString(text) {
			seen[key] = true
			found = append(found, skill)
		}
	}
	return found
}

// Missing implements SkillMatcher.
func (s *skillMatcher) Missing(present, required []string) []string {
	have := lowerSet(present)
	missing := make([]string, 0)
	for _, skill := range required {
		if !have[strings.ToLower(skill)] {
			missing = append(missing, skill)
		}
	}
	return missing
}

// Matched implements SkillMatcher.
func (s *skillMatcher) Matched(present, required []string) []string {
	have := lowerSet(present)
	matched := make([]string, 0)
	for _, skill := range required {
		if have[strings.ToLower(skill)] {
			matched = append(matched, skill)
		}
	}
	return matched
}

// pattern compiles a case-insensitive word-boundary matcher. Boundaries are
// expressed as non-word neighbours so skills such as "C++" or ".NET" work.
func (s *skillMatcher) pattern(skill string) *regexp.Regexp {
	s.mu.RLock()
	re, ok := s.patterns[skill]
	s.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)(?:^|\W)` + regexp.QuoteMeta(strings.TrimSpace(skill)) + `(?:$|\W)`)

	s.mu.Lock()
	s.patterns[skill] = re
	s.mu.Unlock()
	return re
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

// BuildVocabulary merges lists in order, dropping case-insensitive duplicates.
func BuildVocabulary(lists ...[]string) []string {
	seen := make(map[string]bool)
	vocabulary := make([]string, 0)
	for _, list := range lists {
		for _, skill := range list {
			skill = strings.TrimSpace(skill)
			key := strings.ToLower(skill)
			if skill == "" || seen[key] {
				continue
			}
			seen[key] = true
			vocabulary = append(vocabulary, skill)
		}
	}
	return vocabulary
}
