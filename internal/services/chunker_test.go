package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunks := NewTextChunker().ChunkText("one\n\ntwo", 100, 10)
	assert.Equal(t, []string{"one\ntwo"}, chunks)
}

func TestChunkText_RespectsMaxSize(t *testing.T) {
	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, strings.Repeat("word ", 15))
	}
	text := strings.Join(paras, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 200, 20)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
	}
}

func TestChunkText_LongParagraphSplitBySentence(t *testing.T) {
	text := strings.Repeat("Built a thing. ", 20)
	chunks := NewTextChunker().ChunkText(text, 50, 0)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 50)
	}
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("  \n\n ", 100, 0))
}
