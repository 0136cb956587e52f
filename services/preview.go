package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Preview is the basic metadata scraped from a page head. It is the fallback
// when enrichment fails: a title, a description and an icon are better than
// a fully blank form.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
}

var previewClient = &http.Client{Timeout: 15 * time.Second}

// FetchPreview downloads the page and extracts title, meta description and
// icon from its head. Best effort only.
func FetchPreview(ctx context.Context, pageURL string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "launchit-preview/1.0")

	resp, err := previewClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("preview fetch returned status %d", resp.StatusCode)
	}

	preview := parsePreview(resp.Body, pageURL)
	if preview.Title == "" && preview.Description == "" && preview.IconURL == "" {
		return nil, fmt.Errorf("no usable metadata at %s", pageURL)
	}
	return preview, nil
}

func parsePreview(body interface{ Read([]byte) (int, error) }, pageURL string) *Preview {
	preview := &Preview{}
	tokenizer := html.NewTokenizer(body)

	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			preview.IconURL = resolveURL(pageURL, preview.IconURL)
			return preview
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "title":
				inTitle = true
			case "meta":
				name := attr(token, "name")
				property := attr(token, "property")
				content := attr(token, "content")
				if preview.Description == "" && (name == "description" || property == "og:description") {
					preview.Description = content
				}
			case "link":
				rel := strings.ToLower(attr(token, "rel"))
				if preview.IconURL == "" && strings.Contains(rel, "icon") {
					preview.IconURL = attr(token, "href")
				}
			case "body":
				// Head is done; nothing below matters.
				preview.IconURL = resolveURL(pageURL, preview.IconURL)
				return preview
			}
		case html.TextToken:
			if inTitle && preview.Title == "" {
				preview.Title = strings.TrimSpace(tokenizer.Token().Data)
			}
		case html.EndTagToken:
			if tokenizer.Token().Data == "title" {
				inTitle = false
			}
		}
	}
}

func attr(token html.Token, key string) string {
	for _, a := range token.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
