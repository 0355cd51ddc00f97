package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/khrees2412/jobscout/pkg/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourcePage marks postings read from a single job page.
const SourcePage = "url"

const maxPageBytes = 2 << 20

// FetchJobPage reads the title, company and description of a job posting
// page. Company comes from og:site_name, the ATS board path or the domain.
func FetchJobPage(ctx context.Context, client *http.Client, pageURL string) (models.Posting, error) {
	if !ValidURL(pageURL) {
		return models.Posting{}, fmt.Errorf("invalid job URL %q", pageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.Posting{}, fmt.Errorf("create request: %w", err)
	}
	// some sites block the default Go UA
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return models.Posting{}, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Posting{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	meta, err := readPageMeta(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return models.Posting{}, fmt.Errorf("parse page: %w", err)
	}

	p := models.Posting{
		Title:       cleanPageTitle(firstNonEmpty(meta["og:title"], meta["title"])),
		Company:     firstNonEmpty(meta["og:site_name"], companyFromURL(pageURL)),
		Description: HTMLToText(firstNonEmpty(meta["og:description"], meta["description"])),
		Source:      SourcePage,
		URL:         pageURL,
	}
	if p.Title == "" {
		return models.Posting{}, fmt.Errorf("could not extract job title from URL")
	}
	return finalize(p), nil
}

// readPageMeta collects <title> and the name/property meta tags of a page.
func readPageMeta(r io.Reader) (map[string]string, error) {
	meta := make(map[string]string)
	z := html.NewTokenizer(r)
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return meta, nil
			}
			return meta, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Title:
				inTitle = true
			case atom.Meta:
				var key, content string
				for _, a := range tok.Attr {
					switch strings.ToLower(a.Key) {
					case "name", "property":
						key = strings.ToLower(a.Val)
					case "content":
						content = strings.TrimSpace(a.Val)
					}
				}
				if key != "" && content != "" && meta[key] == "" {
					meta[key] = content
				}
			case atom.Body:
				// metadata lives in <head>
				return meta, nil
			}
		case html.TextToken:
			if inTitle && meta["title"] == "" {
				meta["title"] = strings.TrimSpace(string(z.Text()))
			}
		case html.EndTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Title {
				inTitle = false
			}
		}
	}
}

// cleanPageTitle drops the " - Company" and " | Site" suffixes.
func cleanPageTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" | ", " - ", " – "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// companyFromURL reads the company out of Greenhouse and Lever board paths,
// falling back to the first label of the domain.
func companyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	name := ""
	switch {
	case strings.HasSuffix(host, "greenhouse.io"), strings.HasSuffix(host, "lever.co"),
		strings.HasSuffix(host, "ashbyhq.com"):
		if segments[0] != "" {
			name = segments[0]
		}
	}
	if name == "" {
		name = strings.Split(host, ".")[0]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
