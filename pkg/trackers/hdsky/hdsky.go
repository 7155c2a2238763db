// Package hdsky implements the upload client for hdsky.me. The site
// does not accept direct uploads from this tool; releases are submitted
// as offers (candidates) that staff approve.
package hdsky

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/internal/request"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
)

const baseURL = "https://hdsky.me"

var offerIDRe = regexp.MustCompile(`id=(\d+)`)

type Client struct {
	*nexusphp.Site
}

func New(cfg config.Tracker) (*Client, error) {
	return newWithBase(cfg, baseURL)
}

func newWithBase(cfg config.Tracker, base string) (*Client, error) {
	site, err := nexusphp.NewSite("HDSKY", base, "HDSky", cfg)
	if err != nil {
		return nil, err
	}
	return &Client{Site: site}, nil
}

func (c *Client) Name() string { return "HDSKY" }

// Upload submits an offer to offer.php. The torrent file is still
// produced locally for later seeding, but the offer form carries only
// the metadata; the site builds its own torrent on approval.
func (c *Client) Upload(ctx context.Context, m *meta.Meta, _ string) (bool, error) {
	_, description, err := c.PrepareUpload(ctx, m, "")
	if err != nil {
		return false, err
	}

	form := url.Values{
		"type": {CategoryID(m)},
		"name": {nexusphp.UploadName(m)},
		"body": {description},
	}
	if len(m.Images) > 0 && m.Images[0].ImgURL != "" {
		form.Set("picture", m.Images[0].ImgURL)
	}

	resp, body, err := c.PostForm(ctx, "/offer.php", form, nil)
	if err != nil {
		return false, err
	}

	final := resp.Request.URL.String()
	accepted := strings.HasPrefix(final, c.BaseURL+"/offers.php") ||
		strings.HasPrefix(final, c.BaseURL+"/offer.php?id=") ||
		strings.Contains(string(body), "候选已添加") ||
		strings.Contains(strings.ToLower(final), "offer")
	if !accepted {
		return false, request.NewStatusError(final, resp.StatusCode, []byte("offer submission failed: unexpected result page"))
	}

	st := &meta.Status{Message: "Offer submitted successfully"}
	if match := offerIDRe.FindStringSubmatch(resp.Request.URL.RawQuery); match != nil {
		st.Message = final
		st.OfferID = match[1]
	}
	m.SetStatus(c.Tracker, st)
	return true, nil
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
