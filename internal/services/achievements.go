package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
)

// AchievementAnalyzer finds achievement evidence in resume text. Detection
// never fails: the inference tier only adds to the local result.
type AchievementAnalyzer interface {
	DetectActionVerbs(ctx context.Context, text string) []string
	DetectMeasurableAchievements(ctx context.Context, text string) []string
	Suggest(ctx context.Context, text string) string
}

var actionVerbs = []string{
	"achieved", "improved", "developed", "led", "managed",
	"created", "implemented", "increased", "reduced", "designed",
	"launched", "built", "delivered", "optimized", "streamlined",
	"coordinated", "established", "negotiated", "mentored", "spearheaded",
}

var actionVerbPatterns = compileVerbPatterns(actionVerbs)

var measurablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+(?:\.\d+)?\s?%`),
	regexp.MustCompile(`[$€£]\s?\d+(?:,\d{3})*(?:\.\d+)?(?:\s?(?:[kKmMbB]\b|million|billion|thousand))?`),
	regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*\+?\s+(?:users|customers|clients|people|employees|members|engineers|developers|students|projects|teams|downloads|transactions|requests|servers|services|applications|countries)\b`),
	regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?x\b`),
}

const (
	enhancedChunkSize    = 4000
	enhancedChunkOverlap = 200
	enhancedMaxChunks    = 4
)

type achievementAnalyzer struct {
	inference InferenceService
	prompts   *PromptBuilder
	chunker   TextChunker
	logger    *zap.Logger
}

// NewAchievementAnalyzer accepts a nil inference service, in which case only
// the local tier runs.
func NewAchievementAnalyzer(inference InferenceService, log *zap.Logger) AchievementAnalyzer {
	return &achievementAnalyzer{
		inference: inference,
		prompts:   NewPromptBuilder(),
		chunker:   NewTextChunker(),
		logger:    logger.OrNop(log).Named("achievements"),
	}
}

// DetectActionVerbs implements AchievementAnalyzer.
func (a *achievementAnalyzer) DetectActionVerbs(ctx context.Context, text string) []string {
	local := localActionVerbs(text)

	extra, err := a.enhance(ctx, text, a.prompts.BuildActionVerbPrompt, normalizeVerbs)
	if err != nil {
		a.logFallback("action_verbs", err)
		return local
	}

	return unionFold(local, extra, strings.ToLower)
}

// DetectMeasurableAchievements implements AchievementAnalyzer.
func (a *achievementAnalyzer) DetectMeasurableAchievements(ctx context.Context, text string) []string {
	local := localMeasurableAchievements(text)

	extra, err := a.enhance(ctx, text, a.prompts.BuildMeasurableAchievementPrompt, keepQuantified)
	if err != nil {
		a.logFallback("measurable_achievements", err)
		return local
	}

	return unionFold(local, extra, func(s string) string { return s })
}

// Suggest implements AchievementAnalyzer. It returns an empty string when no
// inference service is configured or the call fails.
func (a *achievementAnalyzer) Suggest(ctx context.Context, text string) string {
	if a.inference == nil || strings.TrimSpace(text) == "" {
		return ""
	}

	chunks := a.chunker.ChunkText(text, enhancedChunkSize, 0)
	if len(chunks) == 0 {
		return ""
	}

	resp, err := a.inference.GenerateText(ctx, a.prompts.BuildSuggestionPrompt(chunks[0]))
	if err != nil {
		a.logFallback("suggestions", err)
		return ""
	}

	return strings.TrimSpace(resp)
}

// enhance runs one prompt per chunk. Any failure or an empty combined result
// is reported as an error so the caller falls back to the local tier.
func (a *achievementAnalyzer) enhance(
	ctx context.Context,
	text string,
	buildPrompt func(string) string,
	clean func([]string) []string,
) ([]string, error) {
	if a.inference == nil {
		return nil, ErrInferenceUnavailable
	}

	chunks := a.chunker.ChunkText(text, enhancedChunkSize, enhancedChunkOverlap)
	if len(chunks) > enhancedMaxChunks {
		chunks = chunks[:enhancedMaxChunks]
	}

	var collected []string
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := a.inference.GenerateText(ctx, buildPrompt(chunk))
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}

		items, err := parseStringList(resp)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: invalid response: %w", i, err)
		}
		collected = append(collected, items...)
	}

	collected = clean(collected)
	if len(collected) == 0 {
		return nil, errors.New("empty response")
	}

	return collected, nil
}

func (a *achievementAnalyzer) logFallback(kind string, err error) {
	if errors.Is(err, ErrInferenceUnavailable) {
		return
	}
	a.logger.Warn("⚠️ Inference tier failed, using local result",
		zap.String("kind", kind),
		zap.Error(err),
	)
}

func compileVerbPatterns(verbs []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(verbs))
	for i, verb := range verbs {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(verb) + `\b`)
	}
	return patterns
}

func localActionVerbs(text string) []string {
	found := []string{}
	for i, pattern := range actionVerbPatterns {
		if pattern.MatchString(text) {
			found = append(found, actionVerbs[i])
		}
	}
	return found
}

// localMeasurableAchievements returns metric matches in order of appearance
// without duplicates. Overlapping matches count once and keep the longer span.
func localMeasurableAchievements(text string) []string {
	type hit struct {
		start, end int
	}

	var hits []hit
	for _, pattern := range measurablePatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{start: loc[0], end: loc[1]})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].end > hits[j].end
	})

	merged := make([]hit, 0, len(hits))
	for _, h := range hits {
		if n := len(merged); n > 0 && h.start < merged[n-1].end {
			if h.end-h.start > merged[n-1].end-merged[n-1].start {
				merged[n-1] = h
			}
			continue
		}
		merged = append(merged, h)
	}

	found := []string{}
	seen := make(map[string]struct{}, len(merged))
	for _, h := range merged {
		value := strings.TrimSpace(text[h.start:h.end])
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		found = append(found, value)
	}
	return found
}

// normalizeVerbs keeps single-word alphabetic items, lowercased.
func normalizeVerbs(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" || strings.IndexFunc(item, func(r rune) bool { return !unicode.IsLetter(r) }) != -1 {
			continue
		}
		out = append(out, item)
	}
	return out
}

// keepQuantified drops items that carry no digit.
func keepQuantified(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.IndexFunc(item, unicode.IsDigit) != -1 {
			out = append(out, item)
		}
	}
	return out
}

// unionFold appends extra items to base, skipping those whose folded key is
// already present.
func unionFold(base, extra []string, fold func(string) string) []string {
	out := append([]string{}, base...)
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, item := range base {
		seen[fold(item)] = struct{}{}
	}
	for _, item := range extra {
		key := fold(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
