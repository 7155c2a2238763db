// Package mteam implements the upload client for kp.m-team.cc. Unlike
// the cookie-authenticated sites, M-Team runs the mTorrent API: every
// call carries an x-api-key header and answers with a {code, message,
// data} envelope where code 0 (integer or string) means success
// regardless of HTTP status. After a successful upload the
// tracker-signed torrent is fetched through a one-time download token.
package mteam

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/internal/logger"
	"github.com/halfmoonpt/trackarr/internal/request"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/common"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
	"github.com/halfmoonpt/trackarr/pkg/trackers/types"
)

const (
	baseURL    = "https://kp.m-team.cc"
	sourceFlag = "M-Team"

	apiTimeout    = 60 * time.Second
	searchTimeout = 10 * time.Second
)

type Client struct {
	base      string
	apiKey    string
	anonymous bool
	client    *request.Client
	ptgen     *common.PTGenClient
	logger    zerolog.Logger
}

func New(cfg config.Tracker) (*Client, error) {
	return newWithBase(cfg, baseURL)
}

func newWithBase(cfg config.Tracker, base string) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("MTEAM: api key is not configured")
	}

	opts := []request.ClientOption{
		request.WithTimeout(apiTimeout),
		request.WithHeaders(map[string]string{"x-api-key": cfg.APIKey}),
		request.WithLogger(logger.New("mteam")),
	}
	if cfg.RateLimit != "" {
		opts = append(opts, request.WithRateLimiter(request.ParseRateLimit(cfg.RateLimit)))
	}
	if cfg.Proxy != "" {
		opts = append(opts, request.WithProxy(cfg.Proxy))
	}

	c := &Client{
		base:      strings.TrimRight(base, "/"),
		apiKey:    cfg.APIKey,
		anonymous: cfg.Anonymous,
		client:    request.New(opts...),
		logger:    logger.New("mteam"),
	}
	if cfg.PTGenAPI != "" {
		c.ptgen = common.NewPTGen(cfg.PTGenAPI, nil)
	}
	return c, nil
}

func (c *Client) Name() string { return "MTEAM" }

// ValidateCredentials checks the API key against the profile endpoint.
// A 401 is a definitive rejection; other non-200 answers are treated
// as a site hiccup rather than bad credentials.
func (c *Client) ValidateCredentials(ctx context.Context, _ *meta.Meta) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/user/profile", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, request.NewTransportError(c.base+"/api/user/profile", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized:
		return false, nil
	default:
		c.logger.Warn().Int("status", resp.StatusCode).Msg("profile check returned unexpected status, proceeding")
		return true, nil
	}
}

type torrentHit struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SmallDescr string `json:"smallDescr"`
	Size       string `json:"size"`
	Standard   string `json:"standard"`
	Medium     string `json:"medium"`
	FileCount  int    `json:"fileCount"`
}

type searchPage struct {
	Data []torrentHit `json:"data"`
}

// SearchExisting queries the torrent search API by IMDb link and maps
// the hits into normalized duplicate records; fields the API omits are
// inferred from the release name.
func (c *Client) SearchExisting(ctx context.Context, m *meta.Meta, _ string) ([]types.Dupe, error) {
	if m.IMDbID == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/api/torrents?imdb=%s", c.base, url.QueryEscape(m.IMDb()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	page, err := request.DoEnvelope[searchPage](c.client, req)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, nil
	}

	dupes := make([]types.Dupe, 0, len(page.Data))
	for _, hit := range page.Data {
		size, _ := strconv.ParseInt(hit.Size, 10, 64)
		dupes = append(dupes, types.Dupe{
			Name:       hit.Name,
			Size:       size,
			Resolution: hit.Standard,
			Source:     hit.Medium,
			FileCount:  hit.FileCount,
			Link:       fmt.Sprintf("%s/detail/%s", c.base, hit.ID),
		})
	}
	return types.NormalizeAll(dupes), nil
}

// Upload posts the multipart upload form and, on a clean envelope,
// exchanges a one-time token for the tracker-signed torrent.
func (c *Client) Upload(ctx context.Context, m *meta.Meta, _ string) (bool, error) {
	if c.ptgen != nil && m.PTGen == nil {
		info, err := c.ptgen.Fetch(ctx, m)
		if err != nil {
			c.logger.Warn().Err(err).Msg("ptgen fetch failed, description will omit the synopsis")
		} else if info != nil {
			m.PTGen = info
			if m.DoubanID == "" {
				m.DoubanID = info.Douban
			}
		}
	}

	announce := fmt.Sprintf("%s/announce", c.base)
	if _, err := common.CreateForUpload(m, "MTEAM", announce, sourceFlag); err != nil {
		return false, err
	}
	description, err := common.AssembleDescription(m, "MTEAM", "")
	if err != nil {
		return false, err
	}
	torrent, err := os.ReadFile(m.TorrentFile("MTEAM"))
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":       nexusphp.UploadName(m),
		"smallDescr": nexusphp.SmallDescr(m),
		"descr":      description,
		"category":   CategoryID(m),
	}
	if v := Standard(m); v != "" {
		fields["standard"] = v
	}
	if v := VideoCodec(m); v != "" {
		fields["videoCodec"] = v
	}
	if v := AudioCodec(m); v != "" {
		fields["audioCodec"] = v
	}
	if m.MediaInfoText != "" {
		fields["mediainfo"] = m.MediaInfoText
	}
	if m.IMDbID != 0 {
		fields["imdb"] = fmt.Sprintf("https://www.imdb.com/title/%s/", m.IMDb())
	}
	if m.DoubanID != "" {
		fields["douban"] = fmt.Sprintf("https://movie.douban.com/subject/%s/", m.DoubanID)
	}
	if m.Anonymous || c.anonymous {
		fields["anonymous"] = "true"
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return false, err
		}
	}
	for _, country := range Countries(m) {
		if err := w.WriteField("countries", country); err != nil {
			return false, err
		}
	}
	for _, label := range Labels(m) {
		if err := w.WriteField("labelsNew", label); err != nil {
			return false, err
		}
	}
	part, err := w.CreateFormFile("file", nexusphp.TorrentUploadName(m))
	if err != nil {
		return false, err
	}
	if _, err := part.Write(torrent); err != nil {
		return false, err
	}
	if err := w.Close(); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/torrents/upload", &buf)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	torrentID, err := request.DoEnvelope[string](c.client, req)
	if err != nil {
		return false, err
	}
	if torrentID == nil || *torrentID == "" {
		return false, request.NewStatusError(req.URL.String(), http.StatusOK, []byte("upload succeeded but response carried no torrent id"))
	}

	m.SetStatus("MTEAM", &meta.Status{Message: "Upload successful", TorrentID: *torrentID})
	if err := c.downloadRegistered(ctx, m, *torrentID); err != nil {
		return true, err
	}
	return true, nil
}

// downloadRegistered exchanges the torrent id for a one-time download
// URL and replaces the local torrent with the tracker-signed copy. The
// token URL needs no session; only the exchange call is authenticated.
func (c *Client) downloadRegistered(ctx context.Context, m *meta.Meta, torrentID string) error {
	form := url.Values{"id": {torrentID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/torrent/genDlToken", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	dlURL, err := request.DoEnvelope[string](c.client, req)
	if err != nil {
		return fmt.Errorf("fetching download token: %w", err)
	}
	if dlURL == nil || *dlURL == "" {
		return request.NewStatusError(req.URL.String(), http.StatusOK, []byte("token exchange returned no download url"))
	}

	return common.DownloadTorrent(ctx, c.client, *dlURL, m.TorrentFile("MTEAM"))
}
