package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillMatcher_CanonicalCasing(t *testing.T) {
	m := NewSkillMatcher()
	vocabulary := []string{"Python", "SQL", "Docker"}

	present := m.Identify("I used Python and docker daily", vocabulary)
	assert.Equal(t, []string{"Python", "Docker"}, present)
	assert.Equal(t, []string{"SQL"}, m.Missing(present, []string{"Python", "SQL", "Docker"}))
	assert.Equal(t, []string{"Python", "Docker"}, m.Matched(present, []string{"Python", "SQL", "Docker"}))
}

func TestSkillMatcher_WordBoundary(t *testing.T) {
	m := NewSkillMatcher()

	assert.Empty(t, m.Identify("Pythonic code and JavaScripting", []string{"Python", "Java"}))
	assert.Equal(t, []string{"C++", "Node.js"}, m.Identify("Wrote C++, then node.js services.", []string{"C++", "Node.js", "C#"}))
	assert.Equal(t, []string{"CI/CD"}, m.Identify("Owned CI/CD", []string{"CI/CD"}))
}

func TestSkillMatcher_PreservesVocabularyOrder(t *testing.T) {
	m := NewSkillMatcher()
	present := m.Identify("docker, go, sql", []string{"SQL", "Go", "Docker", "sql"})
	assert.Equal(t, []string{"SQL", "Go", "Docker"}, present)
}

func TestSkillMatcher_Deterministic(t *testing.T) {
	m := NewSkillMatcher()
	vocabulary := []string{"Go", "Kubernetes", "AWS"}
	text := "Go services on AWS with Kubernetes"

	first := m.Identify(text, vocabulary)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Identify(text, vocabulary))
	}
}

func TestSkillMatcher_MissingCaseInsensitive(t *testing.T) {
	m := NewSkillMatcher()
	assert.Empty(t, m.Missing([]string{"python"}, []string{"Python"}))
	assert.Equal(t, []string{}, m.Missing(nil, nil))
}

func TestBuildVocabulary(t *testing.T) {
	vocabulary := BuildVocabulary([]string{"Go", "SQL"}, []string{"sql", " Docker ", ""})
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, vocabulary)
}
