package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	pageFetchTimeout = 10 * time.Second
	maxPageBytes     = 2 << 20
	pageUserAgent    = "SEOScoreBot/1.0 (+https://seoscore.example)"
)

// PageSnapshot holds on-page signals the model cannot see from the URL alone.
type PageSnapshot struct {
	StatusCode       int
	HTTPS            bool
	Title            string
	MetaDescription  string
	Canonical        string
	H1Count          int
	H2Count          int
	Images           int
	ImagesMissingAlt int
	InternalLinks    int
	ExternalLinks    int
	HasViewport      bool
}

type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher uses client, or a client with a 10s timeout when nil.
func NewPageFetcher(client *http.Client) *PageFetcher {
	if client == nil {
		client = &http.Client{Timeout: pageFetchTimeout}
	}
	return &PageFetcher{client: client}
}

func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (*PageSnapshot, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, pageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", pageUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, fmt.Errorf("not an html page: %s", ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	final := resp.Request.URL
	if final == nil {
		final = u
	}
	snap := snapshotDocument(doc, final)
	snap.StatusCode = resp.StatusCode
	return snap, nil
}

func snapshotDocument(doc *goquery.Document, base *url.URL) *PageSnapshot {
	snap := &PageSnapshot{
		HTTPS:   base.Scheme == "https",
		Title:   strings.TrimSpace(doc.Find("head title").First().Text()),
		H1Count: doc.Find("h1").Length(),
		H2Count: doc.Find("h2").Length(),
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "description":
			if snap.MetaDescription == "" {
				snap.MetaDescription = strings.TrimSpace(content)
			}
		case "viewport":
			snap.HasViewport = true
		}
	})

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		snap.Canonical = strings.TrimSpace(href)
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		snap.Images++
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			snap.ImagesMissingAlt++
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || ref.Scheme == "mailto" || ref.Scheme == "tel" || ref.Scheme == "javascript" {
			return
		}
		abs := base.ResolveReference(ref)
		if strings.EqualFold(abs.Hostname(), base.Hostname()) {
			snap.InternalLinks++
		} else {
			snap.ExternalLinks++
		}
	})

	return snap
}
