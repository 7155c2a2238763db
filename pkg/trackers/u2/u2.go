// Package u2 implements the client for u2.dmhy.org. Uploads are not
// supported; the client validates cookies, searches for duplicates,
// and mines details pages for external IDs. U2 torrents often carry
// only an AniDB link, so the adapter can exchange the AniDB id for
// IMDb/TMDB/MAL ids through the ids.moe relation service.
package u2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/internal/request"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
	"github.com/halfmoonpt/trackarr/pkg/trackers/types"
)

const (
	baseURL    = "https://u2.dmhy.org"
	idsMoeBase = "https://api.ids.moe"

	idsMoeTimeout = 10 * time.Second
)

var anidbAidRe = regexp.MustCompile(`(?i)anidb\.net[^"']*[?&]aid=(\d+)|animedb\.pl[^"']*[?&]aid=(\d+)|[/?&]aid=(\d+)`)

type Client struct {
	*nexusphp.Site
	idsMoeAPIKey string
	idsMoeURL    string
	idsClient    *request.Client
}

func New(cfg config.Tracker) (*Client, error) {
	return newWithBase(cfg, baseURL, idsMoeBase)
}

func newWithBase(cfg config.Tracker, base, idsBase string) (*Client, error) {
	site, err := nexusphp.NewSite("U2", base, "U2", cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		Site:         site,
		idsMoeAPIKey: cfg.IDsMoeAPIKey,
		idsMoeURL:    idsBase,
		idsClient:    request.New(request.WithTimeout(idsMoeTimeout)),
	}, nil
}

func (c *Client) Name() string { return "U2" }

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

// ResolveInfo scrapes a details page, backfills external IDs, and when
// only an AniDB link is present resolves the rest through ids.moe.
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

	aid := ExtractAniDBID(d.Page)
	if aid == 0 {
		return d, nil
	}
	m.AniDBID = aid

	if (m.IMDbID == 0 || m.TMDbID == 0) && c.idsMoeAPIKey != "" {
		if err := c.resolveAniDB(ctx, m, aid); err != nil {
			return d, err
		}
	}
	return d, nil
}

// ExtractAniDBID pulls the first AniDB aid out of a page fragment.
func ExtractAniDBID(page string) int64 {
	for _, match := range anidbAidRe.FindAllStringSubmatch(page, -1) {
		for _, group := range match[1:] {
			if group != "" {
				aid, err := strconv.ParseInt(group, 10, 64)
				if err == nil {
					return aid
				}
			}
		}
	}
	return 0
}

type idsMoeResponse struct {
	IMDb        string          `json:"imdb"`
	TheMovieDB  json.RawMessage `json:"themoviedb"`
	MyAnimeList json.RawMessage `json:"myanimelist"`
}

func (c *Client) resolveAniDB(ctx context.Context, m *meta.Meta, aid int64) error {
	ctx, cancel := context.WithTimeout(ctx, idsMoeTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/ids/%d?p=anidb", c.idsMoeURL, aid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.idsMoeAPIKey)

	body, err := c.idsClient.MakeRequest(req)
	if err != nil {
		return fmt.Errorf("ids.moe lookup for aid %d: %w", aid, err)
	}

	var ids idsMoeResponse
	if err := json.Unmarshal(body, &ids); err != nil {
		return fmt.Errorf("decoding ids.moe response: %w", err)
	}

	if m.IMDbID == 0 && ids.IMDb != "" {
		raw := strings.TrimLeft(strings.TrimSpace(ids.IMDb), "t")
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			m.IMDbID = id
		}
	}
	if m.TMDbID == 0 {
		m.TMDbID = rawNumber(ids.TheMovieDB)
	}
	if m.MALID == 0 {
		m.MALID = rawNumber(ids.MyAnimeList)
	}
	return nil
}

// rawNumber accepts either a JSON number or a numeric string.
func rawNumber(raw json.RawMessage) int64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
