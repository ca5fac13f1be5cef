package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"example/seo-score-api/app/models"
)

var errEmptyResponse = errors.New("model returned an empty response")

// parseAnalysis decodes model output, tolerating a Markdown code fence.
func parseAnalysis(raw string) (models.Analysis, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return models.Analysis{}, errEmptyResponse
	}

	var payload struct {
		Score           *float64                `json:"score"`
		Issues          []models.Issue          `json:"issues"`
		Recommendations []models.Recommendation `json:"recommendations"`
		Performance     []models.Metric         `json:"performance"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return models.Analysis{}, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if payload.Score == nil {
		return models.Analysis{}, errors.New("response has no score")
	}

	a := models.Analysis{
		Score:           clampScore(*payload.Score),
		Issues:          payload.Issues,
		Recommendations: payload.Recommendations,
		Performance:     payload.Performance,
	}
	if a.Issues == nil {
		a.Issues = []models.Issue{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []models.Recommendation{}
	}
	if a.Performance == nil {
		a.Performance = []models.Metric{}
	}
	return a, nil
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v + 0.5)
	}
}
