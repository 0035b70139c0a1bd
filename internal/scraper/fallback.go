package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/toolscout/internal/httpclient"
)

// userAgent identifies direct fetches when no reader API key is configured.
const userAgent = "Mozilla/5.0 (compatible; toolscout/1.0)"

// nonContentSelectors lists elements stripped before extracting body text.
const nonContentSelectors = "script, style, nav, header, footer, noscript"

// HTMLFetcher fetches a page directly and reconstructs reader-style Page
// content with goquery. It is the fallback when the reader API is not
// configured.
type HTMLFetcher struct {
	httpClient *http.Client
}

// NewHTMLFetcher creates a direct HTML fetcher. httpClient may be nil.
func NewHTMLFetcher(httpClient *http.Client) *HTMLFetcher {
	if httpClient == nil {
		httpClient = httpclient.Default()
	}
	return &HTMLFetcher{httpClient: httpClient}
}

// Fetch retrieves pageURL and extracts title, meta tags, text, images and links.
func (f *HTMLFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{
		URL:    pageURL,
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Images: make(map[string]string),
		Links:  make(map[string]string),
		Meta:   make(map[string]string),
	}

	extractMetaTags(doc, page)
	page.Content = extractBodyText(doc)
	collectImages(doc, page)
	collectLinks(doc, page)

	return page, nil
}

func extractMetaTags(doc *goquery.Document, page *Page) {
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok || content == "" {
			return
		}
		if name, exists := sel.Attr("name"); exists {
			page.Meta[name] = content
			if name == "description" {
				page.Description = strings.TrimSpace(content)
			}
			return
		}
		if property, exists := sel.Attr("property"); exists {
			page.Meta[property] = content
			if property == "og:description" && page.Description == "" {
				page.Description = strings.TrimSpace(content)
			}
		}
	})
}

func extractBodyText(doc *goquery.Document) string {
	root := doc.Find("main").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	root.Find(nonContentSelectors).Remove()

	var parts []string
	root.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(sel) == "li" {
			text = "- " + text
		}
		parts = append(parts, text)
	})

	return strings.Join(parts, "\n\n")
}

func collectImages(doc *goquery.Document, page *Page) {
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		alt, _ := sel.Attr("alt")
		if alt == "" {
			alt = src
		}
		page.Images[alt] = src
	})
}

func collectLinks(doc *goquery.Document, page *Page) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.HasPrefix(href, "http") {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			text = href
		}
		page.Links[text] = href
	})
}
