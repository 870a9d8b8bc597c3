// Package share builds the share links of a case and performs share
// actions: opening a social share page, composing an email, or copying
// the case link to the clipboard.
package share

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/Ashfaaq98/case-map-console/internal/bus"
	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

// Target is a share destination.
type Target string

const (
	Facebook Target = "facebook"
	Twitter  Target = "twitter"
	Email    Target = "email"
	CopyLink Target = "link"
)

// Targets lists the share destinations in display order.
var Targets = []Target{Facebook, Twitter, Email, CopyLink}

// CopiedToast is shown after the link is copied.
const CopiedToast = "Link Copied to Clipboard."

const mailtoPrefix = "mailto:?subject=Take%20a%20look%20at%20this%20&body=Take%20a%20look%20at%20this%20%3A%0A%0A"

// FacebookURL returns the Facebook share page for a case.
func FacebookURL(c catalog.Case) string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(c.URL)
}

// TwitterURL returns the Twitter share page for a case.
func TwitterURL(c catalog.Case) string {
	q := url.Values{}
	q.Set("url", c.URL)
	q.Set("text", c.Title)
	return "https://twitter.com/intent/tweet?" + q.Encode()
}

// MailtoURL returns the mailto link inviting someone to look at a case.
func MailtoURL(c catalog.Case) string {
	return mailtoPrefix + c.URL
}

// Link returns the URL a target opens, or "" for CopyLink.
func Link(t Target, c catalog.Case) string {
	switch t {
	case Facebook:
		return FacebookURL(c)
	case Twitter:
		return TwitterURL(c)
	case Email:
		return MailtoURL(c)
	default:
		return ""
	}
}

// Options configures a Sharer. Nil hooks use the system browser and
// clipboard.
type Options struct {
	Bus    bus.Bus
	Logger *log.Logger
	Open   func(url string) error
	Copy   func(text string) error
}

// Sharer performs share actions and publishes them on the bus.
type Sharer struct {
	bus    bus.Bus
	logger *log.Logger
	open   func(string) error
	copy   func(string) error
}

// New creates a Sharer.
func New(opts Options) *Sharer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Sharer{bus: opts.Bus, logger: logger, open: opts.Open, copy: opts.Copy}
	if s.bus == nil {
		s.bus = bus.NewNullBus(logger)
	}
	if s.open == nil {
		s.open = browser.OpenURL
	}
	if s.copy == nil {
		s.copy = clipboard.WriteAll
	}
	return s
}

// Share performs t for c and returns the message to show the user.
func (s *Sharer) Share(ctx context.Context, t Target, c catalog.Case) (string, error) {
	var toast string
	switch t {
	case CopyLink:
		if err := s.copy(c.URL); err != nil {
			return "", fmt.Errorf("failed to copy link: %w", err)
		}
		toast = CopiedToast
	case Facebook, Twitter, Email:
		if err := s.open(Link(t, c)); err != nil {
			return "", fmt.Errorf("failed to open %s share: %w", t, err)
		}
		toast = fmt.Sprintf("Opened %s share.", t)
	default:
		return "", fmt.Errorf("unknown share target %q", t)
	}

	if err := s.bus.PublishShare(ctx, bus.NewShareMessage(c.ID, c.URL, string(t))); err != nil {
		s.logger.Printf("Failed to publish share of case %s: %v", c.ID, err)
	}
	return toast, nil
}

// OpenCase opens the case's own page.
func (s *Sharer) OpenCase(c catalog.Case) error {
	if c.URL == "" {
		return fmt.Errorf("case %s has no URL", c.ID)
	}
	if err := s.open(c.URL); err != nil {
		return fmt.Errorf("failed to open case %s: %w", c.ID, err)
	}
	return nil
}
