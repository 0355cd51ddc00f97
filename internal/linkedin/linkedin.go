// Package linkedin captures the visible text of a public LinkedIn profile so
// it can feed the candidate signal.
package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrInvalidProfileURL is returned for URLs that are not linkedin.com/in/ pages.
var ErrInvalidProfileURL = errors.New("not a LinkedIn profile URL")

// DefaultTimeout bounds one capture, browser start-up included.
const DefaultTimeout = 45 * time.Second

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Capturer drives headless Chrome.
type Capturer struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

// New returns a Capturer. Zero timeout means DefaultTimeout.
func New(timeout time.Duration, logger *zap.Logger) *Capturer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{Timeout: timeout, Logger: logger}
}

// ValidateProfileURL normalizes raw into an https linkedin.com/in/ URL.
func ValidateProfileURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidProfileURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidProfileURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return "", fmt.Errorf("%w: host %q", ErrInvalidProfileURL, host)
	}
	if !strings.HasPrefix(u.Path, "/in/") || len(strings.Trim(u.Path, "/")) <= len("in") {
		return "", fmt.Errorf("%w: path %q", ErrInvalidProfileURL, u.Path)
	}
	u.Scheme = "https"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Capture loads the profile page and returns its normalized text.
func (c *Capturer) Capture(ctx context.Context, profileURL string) (string, error) {
	target, err := ValidateProfileURL(profileURL)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	browserCtx, closeBrowser := c.browserContext(ctx)
	defer closeBrowser()

	start := time.Now()
	var text string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to capture %s: %w", target, err)
	}

	out := Normalize(text)
	c.Logger.Info("linkedin captured",
		zap.String("url", target),
		zap.Int("chars", len(out)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// browserContext starts headless Chrome with the automation fingerprints
// turned off.
func (c *Capturer) browserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("useAutomationExtension", false),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...any) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		c.Logger.Debug("chromedp", zap.String("msg", msg))
	}))

	return ctx, func() {
		cancelCtx()
		cancelAlloc()
	}
}
