// Package fetcher downloads allow-listed web pages and extracts their main
// text for the knowledge base.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrDomainNotAllowed = errors.New("domain not allowed")
	ErrTooLarge         = errors.New("page too large")
	ErrUnsupportedType  = errors.New("unsupported content type")
	ErrUpstream         = errors.New("page fetch failed")
)

const maxRedirects = 5

type Fetcher struct {
	allow    map[string]bool
	maxBytes int64
	httpc    *http.Client
}

// New allows exactly the given hosts (case-insensitive). maxBytes caps the
// body read per page.
func New(allowed []string, maxBytes int64) *Fetcher {
	allow := map[string]bool{}
	for _, h := range allowed {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allow[h] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1_500_000
	}
	f := &Fetcher{allow: allow, maxBytes: maxBytes}
	f.httpc = &http.Client{Timeout: 20 * time.Second, CheckRedirect: f.checkRedirect}
	return f
}

// checkRedirect holds every hop to the allow-list.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if !f.Allowed(req.URL.String()) {
		return fmt.Errorf("%w: redirect to %s", ErrDomainNotAllowed, req.URL.Host)
	}
	return nil
}

func (f *Fetcher) Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return f.allow[strings.ToLower(u.Hostname())]
}

// Fetch returns the page's main text and title.
func (f *Fetcher) Fetch(ctx context.Context, raw string) (text, title string, err error) {
	if !f.Allowed(raw) {
		return "", "", ErrDomainNotAllowed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "farmlink-kb/1.0")
	resp, err := f.httpc.Do(req)
	if errors.Is(err, ErrDomainNotAllowed) {
		return "", "", err
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return "", "", ErrTooLarge
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if int64(len(b)) > f.maxBytes {
		return "", "", ErrTooLarge
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/plain"):
		s := cleanWhitespace(string(b))
		return s, guessTitleFromText(s), nil
	case strings.Contains(ct, "text/html"):
		return mainText(b)
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
}

func mainText(b []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var parts []string
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("script, style, nav, footer").Remove()
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	text := cleanWhitespace(strings.Join(parts, "\n"))
	if title == "" {
		title = guessTitleFromText(text)
	}
	return text, title, nil
}

var wsRX = regexp.MustCompile(`[ \t]*\n`)

func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(wsRX.ReplaceAllString(s, "\n"))
}

func guessTitleFromText(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if r := []rune(line); len(r) > 120 {
		line = string(r[:120])
	}
	return line
}
