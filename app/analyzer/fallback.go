package analyzer

import "example/seo-score-api/app/models"

const (
	degradedScore     = 70
	errorPreviewRunes = 100
)

// SampleAnalysis is served when no provider is configured.
func SampleAnalysis() models.Analysis {
	return models.Analysis{
		Score: 75,
		Issues: []models.Issue{
			{Type: models.IssueWarning, Title: "Missing Meta Description", Description: "Add a meta description to improve click-through rates"},
			{Type: models.IssueError, Title: "Slow Page Load", Description: "Page takes more than 3 seconds to load"},
			{Type: models.IssueInfo, Title: "No Sitemap Found", Description: "Add a sitemap.xml for better indexing"},
		},
		Recommendations: []models.Recommendation{
			{Priority: models.PriorityHigh, Title: "Optimize Images", Description: "Compress images to reduce page load time by up to 40%"},
			{Priority: models.PriorityMedium, Title: "Add Alt Text", Description: "Add descriptive alt text to all images for accessibility and SEO"},
			{Priority: models.PriorityLow, Title: "Implement Schema Markup", Description: "Add structured data to enhance search result appearance"},
		},
		Performance: []models.Metric{
			{Metric: "Page Load Time", Value: "3.2s", Status: models.StatusWarning},
			{Metric: "Mobile Friendly", Value: "Yes", Status: models.StatusGood},
			{Metric: "HTTPS", Value: "Enabled", Status: models.StatusGood},
			{Metric: "Core Web Vitals", Value: "Needs Improvement", Status: models.StatusWarning},
		},
	}
}

// DegradedAnalysis is served when the provider call or its output fails.
func DegradedAnalysis(err error) models.Analysis {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if r := []rune(msg); len(r) > errorPreviewRunes {
		msg = string(r[:errorPreviewRunes])
	}
	return models.Analysis{
		Score: degradedScore,
		Issues: []models.Issue{
			{Type: models.IssueWarning, Title: "Analysis Partial", Description: "Could not complete full analysis: " + msg},
		},
		Recommendations: []models.Recommendation{
			{Priority: models.PriorityHigh, Title: "Manual Review Recommended", Description: "Please review the website manually for SEO issues"},
		},
		Performance: []models.Metric{
			{Metric: "Analysis Status", Value: "Partial", Status: models.StatusWarning},
		},
	}
}
