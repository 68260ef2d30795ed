package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches page chrome that never belongs to a job description
const noiseSelector = "nav, footer, header, script, style, noscript, iframe, form, .cookie-banner, .ad, .ads, .sidebar, .apply-button"

// contentSelectors are tried in order; the first match is taken as the posting body
var contentSelectors = []string{
	".job-description",
	"#job-description",
	"[data-testid='job-description']",
	".posting-content",
	"#content .section-wrapper",
	".job-details",
	"main",
	"article",
	"#content",
}

// blockElements get a line break after their text so structure survives
const blockElements = "p, div, li, h1, h2, h3, h4, h5, h6, br, tr, section"

// CleanHTML extracts readable text from an HTML job posting
func CleanHTML(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	body := doc.Find("body")
	for _, sel := range contentSelectors {
		if match := doc.Find(sel); match.Length() > 0 {
			body = match.First()
			break
		}
	}

	body.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	body.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(body.Text()), nil
}

// FetchOptions configures FetchJobPosting
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
	// Client replaces the default client; the dial guard of BlockPrivate is not applied to it
	Client *http.Client
	// BlockPrivate refuses loopback, private, link-local and unspecified targets,
	// both in the URL and on every dial (redirects included)
	BlockPrivate bool
}

// ErrBlockedAddress is returned when BlockPrivate refuses a target
var ErrBlockedAddress = errors.New("job URL points to a private or loopback address")

// cgnat is the shared address space of RFC 6598
var cgnat = netip.MustParsePrefix("100.64.0.0/10")

func blockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() || cgnat.Contains(addr)
}

// blockedHost checks a URL host before any lookup
func blockedHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && blockedAddr(addr)
}

// guardDial runs after name resolution, so it also covers DNS names and redirects
func guardDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || blockedAddr(addr) {
		return ErrBlockedAddress
	}
	return nil
}

func guardedClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: guardDial}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

// DefaultFetchOptions returns the defaults used when nil is passed
func DefaultFetchOptions() *FetchOptions {
	return &FetchOptions{
		Timeout:   30 * time.Second,
		UserAgent: "Mozilla/5.0 (compatible; InterviewCoach/1.0)",
	}
}

// FetchError describes a failed job posting download
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// FetchJobPosting downloads a job posting page and returns its text
func FetchJobPosting(ctx context.Context, rawURL string, opts *FetchOptions) (*Document, error) {
	if opts == nil {
		opts = DefaultFetchOptions()
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &FetchError{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if opts.BlockPrivate && blockedHost(parsed.Hostname()) {
		return nil, &FetchError{URL: rawURL, Message: "blocked address", Cause: ErrBlockedAddress}
	}

	client := opts.Client
	switch {
	case client != nil:
	case opts.BlockPrivate:
		client = guardedClient(opts.Timeout)
	default:
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	contentType := DetectContentType(resp.Header.Get("Content-Type"), parsed.Path, body)
	doc, err := ExtractText(contentType, body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "extraction failed", Cause: err}
	}
	doc.Metadata.Source = rawURL
	return doc, nil
}
