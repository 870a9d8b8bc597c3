package share

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/case-map-console/internal/bus"
	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

type recordingBus struct {
	bus.NullBus
	shares []bus.ShareMessage
}

func (r *recordingBus) PublishShare(ctx context.Context, msg bus.ShareMessage) error {
	r.shares = append(r.shares, msg)
	return nil
}

var sample = catalog.Case{ID: "7", Title: "Bridge & Road", URL: "https://www.achp.gov/cases/bridge-road"}

func TestLinks(t *testing.T) {
	assert.Equal(t,
		"mailto:?subject=Take%20a%20look%20at%20this%20&body=Take%20a%20look%20at%20this%20%3A%0A%0Ahttps://www.achp.gov/cases/bridge-road",
		MailtoURL(sample))
	assert.Equal(t,
		"https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fwww.achp.gov%2Fcases%2Fbridge-road",
		FacebookURL(sample))
	assert.Equal(t,
		"https://twitter.com/intent/tweet?text=Bridge+%26+Road&url=https%3A%2F%2Fwww.achp.gov%2Fcases%2Fbridge-road",
		TwitterURL(sample))
	assert.Empty(t, Link(CopyLink, sample))
}

func TestShareCopyLink(t *testing.T) {
	rb := &recordingBus{}
	var copied string
	s := New(Options{Bus: rb, Copy: func(text string) error { copied = text; return nil }})

	toast, err := s.Share(context.Background(), CopyLink, sample)
	require.NoError(t, err)
	assert.Equal(t, CopiedToast, toast)
	assert.Equal(t, sample.URL, copied)
	require.Len(t, rb.shares, 1)
	assert.Equal(t, "7", rb.shares[0].CaseID)
	assert.Equal(t, "link", rb.shares[0].Target)
}

func TestShareOpensBrowser(t *testing.T) {
	rb := &recordingBus{}
	var opened []string
	s := New(Options{Bus: rb, Open: func(u string) error { opened = append(opened, u); return nil }})

	for _, target := range []Target{Facebook, Twitter, Email} {
		_, err := s.Share(context.Background(), target, sample)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{FacebookURL(sample), TwitterURL(sample), MailtoURL(sample)}, opened)
	assert.Len(t, rb.shares, 3)
}

func TestShareFailuresAreNotPublished(t *testing.T) {
	rb := &recordingBus{}
	s := New(Options{
		Bus:  rb,
		Copy: func(string) error { return errors.New("no clipboard") },
		Open: func(string) error { return errors.New("no browser") },
	})

	_, err := s.Share(context.Background(), CopyLink, sample)
	assert.ErrorContains(t, err, "no clipboard")
	_, err = s.Share(context.Background(), Email, sample)
	assert.ErrorContains(t, err, "no browser")
	_, err = s.Share(context.Background(), Target("fax"), sample)
	assert.Error(t, err)
	assert.Empty(t, rb.shares)
}

func TestOpenCase(t *testing.T) {
	var opened string
	s := New(Options{Open: func(u string) error { opened = u; return nil }})
	require.NoError(t, s.OpenCase(sample))
	assert.Equal(t, sample.URL, opened)
	assert.Error(t, s.OpenCase(catalog.Case{ID: "x"}))
}
