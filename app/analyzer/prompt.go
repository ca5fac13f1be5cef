package analyzer

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert SEO analyst. Always respond with valid JSON only."

const promptTemplate = `Analyze the SEO of this website URL: %s

You are an expert SEO analyst. Provide a comprehensive SEO analysis in the following JSON format:
{
    "score": <number between 0-100 representing overall SEO health>,
    "issues": [
        {"type": "error|warning|info", "title": "<issue title>", "description": "<detailed description>"}
    ],
    "recommendations": [
        {"priority": "high|medium|low", "title": "<recommendation title>", "description": "<actionable recommendation>"}
    ],
    "performance": [
        {"metric": "<metric name>", "value": "<current value>", "status": "good|warning|error"}
    ]
}

Analyze key SEO factors including:
- Title tags and meta descriptions
- Header structure (H1, H2, etc.)
- Mobile responsiveness
- Page speed indicators
- URL structure
- Internal/external linking
- Image optimization
- Core Web Vitals estimates
- HTTPS security
- Content quality signals
`

const promptFooter = `
Provide 3-5 items for each category. Be specific and actionable.
Respond ONLY with valid JSON, no additional text.`

func buildPrompt(pageURL string, snap *PageSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptTemplate, pageURL)

	if snap != nil {
		b.WriteString("\nObserved on the live page:\n")
		fmt.Fprintf(&b, "- HTTP status: %d\n", snap.StatusCode)
		fmt.Fprintf(&b, "- Served over HTTPS: %t\n", snap.HTTPS)
		fmt.Fprintf(&b, "- Title (%d chars): %q\n", len([]rune(snap.Title)), snap.Title)
		fmt.Fprintf(&b, "- Meta description (%d chars): %q\n", len([]rune(snap.MetaDescription)), snap.MetaDescription)
		fmt.Fprintf(&b, "- Canonical URL: %q\n", snap.Canonical)
		fmt.Fprintf(&b, "- H1 count: %d, H2 count: %d\n", snap.H1Count, snap.H2Count)
		fmt.Fprintf(&b, "- Images: %d, missing alt text: %d\n", snap.Images, snap.ImagesMissingAlt)
		fmt.Fprintf(&b, "- Links: %d internal, %d external\n", snap.InternalLinks, snap.ExternalLinks)
		fmt.Fprintf(&b, "- Viewport meta tag: %t\n", snap.HasViewport)
	}

	b.WriteString(promptFooter)
	return b.String()
}
