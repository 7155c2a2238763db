// Package hhan implements the upload client for hhanclub.net.
package hhan

import (
	"context"
	"net/url"
	"strconv"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
)

const baseURL = "https://hhanclub.net"

type Client struct {
	*nexusphp.Site
	anonymous bool
}

func New(cfg config.Tracker) (*Client, error) {
	return newWithBase(cfg, baseURL)
}

func newWithBase(cfg config.Tracker, base string) (*Client, error) {
	site, err := nexusphp.NewSite("HHAN", base, "HHanClub", cfg)
	if err != nil {
		return nil, err
	}
	return &Client{Site: site, anonymous: cfg.Anonymous}, nil
}

func (c *Client) Name() string { return "HHAN" }

// CategoryID maps the release to the site's numeric category.
func CategoryID(m *meta.Meta) string {
	id := "0"
	switch m.Category {
	case meta.CategoryMovie:
		id = "401"
	case meta.CategoryTV:
		id = "404"
	}
	if nexusphp.HasGenre(m, "documentary") {
		id = "402"
	}
	if nexusphp.HasGenre(m, "animation") {
		id = "403"
	}
	return id
}

// Upload submits the takeupload.php form. Unlike most sites the
// anonymity field is always sent, as yes or no, and a personal release
// carries the pr flag.
func (c *Client) Upload(ctx context.Context, m *meta.Meta, _ string) (bool, error) {
	_, description, err := c.PrepareUpload(ctx, m, "")
	if err != nil {
		return false, err
	}
	file, err := nexusphp.ReadTorrent(m, c.Tracker)
	if err != nil {
		return false, err
	}

	anon := "no"
	if m.Anonymous || c.anonymous {
		anon = "yes"
	}

	form := url.Values{
		"name":        {nexusphp.UploadName(m)},
		"small_descr": {nexusphp.SmallDescr(m)},
		"descr":       {description},
		"type":        {CategoryID(m)},
		"source_sel":  {nexusphp.MediumCode(m)},
		"team_sel":    {strconv.Itoa(nexusphp.AreaID(m))},
		"uplver":      {anon},
	}
	if nexusphp.IsZhongzi(m) {
		form.Set("zhongzi", "yes")
	}
	if m.PersonalRelease {
		form.Set("pr", "yes")
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
