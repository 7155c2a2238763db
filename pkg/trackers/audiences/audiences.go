// Package audiences implements the upload client for audiences.me.
package audiences

import (
	"context"
	"fmt"
	"net/url"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
)

const baseURL = "https://audiences.me"

type Client struct {
	*nexusphp.Site
	anonymous bool
}

func New(cfg config.Tracker) (*Client, error) {
	return newWithBase(cfg, baseURL)
}

func newWithBase(cfg config.Tracker, base string) (*Client, error) {
	site, err := nexusphp.NewSite("AUDIENCES", base, "AUDIENCES", cfg)
	if err != nil {
		return nil, err
	}
	return &Client{Site: site, anonymous: cfg.Anonymous}, nil
}

func (c *Client) Name() string { return "AUDIENCES" }

// Upload builds the takeupload.php form, submits the torrent, and on
// the details-page redirect swaps the local torrent for the
// tracker-signed copy.
func (c *Client) Upload(ctx context.Context, m *meta.Meta, _ string) (bool, error) {
	_, description, err := c.PrepareUpload(ctx, m, "")
	if err != nil {
		return false, err
	}
	file, err := nexusphp.ReadTorrent(m, c.Tracker)
	if err != nil {
		return false, err
	}

	form := url.Values{
		"name":           {nexusphp.UploadName(m)},
		"small_descr":    {nexusphp.SmallDescr(m)},
		"descr":          {description},
		"type":           {CategoryID(m)},
		"medium_sel":     {MediumSel(m)},
		"codec_sel":      {CodecSel(m)},
		"audiocodec_sel": {AudioCodecSel(m)},
		"standard_sel":   {StandardSel(m)},
	}
	if m.IMDbID != 0 {
		form.Set("url", fmt.Sprintf("https://www.imdb.com/title/%s/", m.IMDb()))
	}
	if m.Anonymous || c.anonymous {
		form.Set("uplver", "yes")
	}
	if tags := Tags(m); len(tags) > 0 {
		form["tags[]"] = tags
	}

	res, err := c.SubmitUpload(ctx, form, file)
	if err != nil {
		return false, err
	}

	m.SetStatus(c.Tracker, &meta.Status{Message: res.URL, TorrentID: res.TorrentID})
	if err := c.DownloadRegistered(ctx, m, res.TorrentID); err != nil {
		return true, err
	}
	return true, nil
}
