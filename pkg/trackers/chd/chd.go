// Package chd implements the client for ptchdbits.co. The site does
// not expose an upload form to this tool; the client is used for
// credential checks, duplicate search, and metadata backfill from
// existing torrents.
package chd

import (
	"context"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
	"github.com/halfmoonpt/trackarr/pkg/trackers/types"
)

const baseURL = "https://ptchdbits.co"

type Client struct {
	*nexusphp.Site
}

func New(cfg config.Tracker) (*Client, error) {
	return newWithBase(cfg, baseURL)
}

func newWithBase(cfg config.Tracker, base string) (*Client, error) {
	site, err := nexusphp.NewSite("CHD", base, "CHD", cfg)
	if err != nil {
		return nil, err
	}
	return &Client{Site: site}, nil
}

func (c *Client) Name() string { return "CHD" }

func (c *Client) Upload(context.Context, *meta.Meta, string) (bool, error) {
	return false, types.ErrUploadNotSupported
}

// CategoryID maps the release to the site's numeric category.
func CategoryID(m *meta.Meta) string {
	id := "0"
	switch m.Category {
	case meta.CategoryMovie:
		id = "401"
	case meta.CategoryTV:
		id = "404"
	}
	if nexusphp.HasGenre(m, "animation", "anime") {
		id = "403"
	}
	if nexusphp.HasGenre(m, "variety", "reality", "talk show") {
		id = "405"
	}
	if nexusphp.HasGenre(m, "documentary") {
		id = "402"
	}
	return id
}

// ResolveInfo scrapes a details page and backfills external IDs the
// record is missing.
func (c *Client) ResolveInfo(ctx context.Context, m *meta.Meta, torrentID string) (*nexusphp.Details, error) {
	d, err := c.FetchDetails(ctx, torrentID)
	if err != nil {
		return nil, err
	}
	if m.IMDbID == 0 {
		m.IMDbID = d.IMDbID
	}
	if m.TMDbID == 0 {
		m.TMDbID = d.TMDbID
	}
	if m.DoubanID == "" {
		m.DoubanID = d.DoubanID
	}
	return d, nil
}
