// Package nexusphp implements the cookie-authenticated flow shared by
// the NexusPHP family of trackers: logged-in check against a logout
// marker, torrents.php duplicate search, takeupload.php multipart
// submission with a details.php redirect as the success signal, and
// passkey-based re-download of the registered torrent.
package nexusphp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/internal/logger"
	"github.com/halfmoonpt/trackarr/internal/request"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/common"
	"github.com/halfmoonpt/trackarr/pkg/trackers/types"
)

const (
	// Present on every logged-in NexusPHP page.
	logoutMarker = `<a href="#" data-url="logout.php" id="logout-confirm">`

	validateTimeout = 30 * time.Second
	searchTimeout   = 10 * time.Second
	submitTimeout   = 30 * time.Second
)

var (
	imdbIDRe   = regexp.MustCompile(`tt(\d+)`)
	tmdbIDRe   = regexp.MustCompile(`/(movie|tv)/(\d+)`)
	doubanIDRe = regexp.MustCompile(`(?:movie\.)?douban\.com/subject/(\d+)`)
)

// Site is one cookie-authenticated NexusPHP tracker. Adapters embed it
// and add their own field mapping and form schema on top.
type Site struct {
	Tracker    string // upper-case short name, used for work files
	BaseURL    string
	SourceFlag string
	Passkey    string

	client *request.Client
	ptgen  *common.PTGenClient
	logger zerolog.Logger
}

// NewSite builds the shared site client from the tracker configuration.
// The cookie file is loaded once; a missing or empty file is a
// precondition failure before any network call.
func NewSite(tracker, baseURL, sourceFlag string, cfg config.Tracker) (*Site, error) {
	cookies, err := common.ParseCookieFile(cfg.CookieFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tracker, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating cookie jar: %w", tracker, err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parsing base url: %w", tracker, err)
	}
	jar.SetCookies(base, cookies)

	opts := []request.ClientOption{
		request.WithCookieJar(jar),
		request.WithLogger(logger.New(strings.ToLower(tracker))),
	}
	if cfg.RateLimit != "" {
		opts = append(opts, request.WithRateLimiter(request.ParseRateLimit(cfg.RateLimit)))
	}
	if cfg.Proxy != "" {
		opts = append(opts, request.WithProxy(cfg.Proxy))
	}

	s := &Site{
		Tracker:    tracker,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SourceFlag: sourceFlag,
		Passkey:    cfg.Passkey,
		client:     request.New(opts...),
		logger:     logger.New(strings.ToLower(tracker)),
	}
	if cfg.PTGenAPI != "" {
		s.ptgen = common.NewPTGen(cfg.PTGenAPI, nil)
	}
	return s, nil
}

// ValidateCredentials loads the landing page and checks for the logout
// control only a logged-in session sees.
func (s *Site) ValidateCredentials(ctx context.Context, _ *meta.Meta) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return false, err
	}
	body, err := s.client.MakeRequest(req)
	if err != nil {
		return false, err
	}

	page := string(body)
	ok := strings.Contains(page, logoutMarker) || strings.Contains(page, "logout")
	if !ok {
		s.logger.Warn().Str("tracker", s.Tracker).Msg("no logout marker on landing page, cookies likely expired")
	}
	return ok, nil
}

// SearchExisting queries torrents.php by IMDb id filtered to the
// release's medium and returns the normalized hits. Without an IMDb id
// there is nothing to search for and no request is made.
func (s *Site) SearchExisting(ctx context.Context, m *meta.Meta, _ string) ([]types.Dupe, error) {
	if m.IMDbID == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	searchURL := fmt.Sprintf("%s/torrents.php?search=%s&incldead=0&search_mode=0", s.BaseURL, m.IMDb())
	if code := MediumCode(m); code != "" {
		searchURL += fmt.Sprintf("&source%s=1", code)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	body, err := s.client.MakeRequest(req)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	// Each hit row nests a table.torrentname, whose inner rows would
	// otherwise match a plain tr selector twice.
	var dupes []types.Dupe
	doc.Find("table.torrents tr:has(table.torrentname)").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href^="details.php?id="]`).First()
		name := strings.TrimSpace(link.AttrOr("title", ""))
		if name == "" {
			return
		}
		dupes = append(dupes, types.Dupe{
			Name: name,
			Link: s.BaseURL + "/" + link.AttrOr("href", ""),
		})
	})
	return types.NormalizeAll(dupes), nil
}

// Details holds what a details.php page exposes about a torrent.
type Details struct {
	Name        string
	IMDbID      int64
	TMDbID      int64
	DoubanID    string
	InfoHash    string
	Description string
	Page        string // raw page HTML, for site-specific extraction
}

// FetchDetails scrapes a details.php page for external IDs, the release
// name, the info hash, and the raw description block. Sites answer
// unauthenticated requests with a login page, which is reported as an
// error rather than an empty result.
func (s *Site) FetchDetails(ctx context.Context, torrentID string) (*Details, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	u, err := request.JoinURL(s.BaseURL, "details.php?id="+torrentID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	body, err := s.client.MakeRequest(req)
	if err != nil {
		return nil, err
	}

	page := string(body)
	lower := strings.ToLower(page)
	if strings.Contains(lower, "login") &&
		(strings.Contains(lower, "username") || strings.Contains(lower, "password") || strings.Contains(page, "未登录")) {
		return nil, fmt.Errorf("%s: details page is a login form, cookies expired", s.Tracker)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing details page: %w", err)
	}

	d := &Details{Page: page}

	if href := firstHref(doc, `a[href*="imdb.com/title/tt"]`); href != "" {
		if m := imdbIDRe.FindStringSubmatch(href); m != nil {
			d.IMDbID = parseInt64(m[1])
		}
	}
	if href := firstHref(doc, `a[href*="themoviedb.org"]`); href != "" {
		if m := tmdbIDRe.FindStringSubmatch(href); m != nil {
			d.TMDbID = parseInt64(m[2])
		}
	}
	if href := firstHref(doc, `a[href*="douban.com/subject/"]`); href != "" {
		if m := doubanIDRe.FindStringSubmatch(href); m != nil {
			d.DoubanID = m[1]
		}
	} else if m := doubanIDRe.FindStringSubmatch(page); m != nil {
		d.DoubanID = m[1]
	}

	d.Name = strings.TrimSpace(doc.Find("h1, .torrentname, td.torrentname, b.torrentname").First().Text())
	if desc := doc.Find("#desctext, .desctext, .nfo").First(); desc.Length() > 0 {
		html, _ := goquery.OuterHtml(desc)
		d.Description = html
	}
	if hash := strings.TrimSpace(doc.Find(`input[name="hash"], code, .hash`).First().Text()); len(hash) == 40 {
		d.InfoHash = hash
	}

	return d, nil
}

// UploadFile is the torrent attachment of a form submission.
type UploadFile struct {
	Field    string
	Name     string
	Contents []byte
}

// PostForm submits a multipart form and returns the final response
// after redirects together with the body. Success interpretation is
// site-specific and left to the caller.
func (s *Site) PostForm(ctx context.Context, path string, form url.Values, file *UploadFile) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, values := range form {
		for _, v := range values {
			if err := w.WriteField(field, v); err != nil {
				return nil, nil, fmt.Errorf("writing form field %s: %w", field, err)
			}
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("attaching torrent: %w", err)
		}
		if _, err := part.Write(file.Contents); err != nil {
			return nil, nil, fmt.Errorf("attaching torrent: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, nil, err
	}

	u := s.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, request.NewTransportError(u, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, request.NewTransportError(u, err)
	}
	return resp, body, nil
}

// UploadResult is the outcome of a successful takeupload.php submission.
type UploadResult struct {
	TorrentID string
	URL       string
}

// SubmitUpload posts the form to takeupload.php and interprets success
// as a redirect to the details page of the new torrent. Any other final
// URL is the single terminal upload failure for this call.
func (s *Site) SubmitUpload(ctx context.Context, form url.Values, file *UploadFile) (*UploadResult, error) {
	resp, body, err := s.PostForm(ctx, "/takeupload.php", form, file)
	if err != nil {
		return nil, err
	}

	final := resp.Request.URL
	if strings.HasPrefix(final.String(), s.BaseURL+"/details.php?id=") {
		id := final.Query().Get("id")
		if id == "" {
			return nil, request.NewStatusError(final.String(), resp.StatusCode, []byte("upload succeeded but redirect carried no torrent id"))
		}
		return &UploadResult{
			TorrentID: id,
			URL:       strings.Replace(final.String(), "&uploaded=1", "", 1),
		}, nil
	}

	s.logger.Error().
		Str("url", final.String()).
		Int("status", resp.StatusCode).
		Msg("upload rejected")
	return nil, request.NewStatusError(final.String(), resp.StatusCode,
		[]byte(fmt.Sprintf("upload to %s failed: unexpected result page: %s", s.Tracker, snippet(body))))
}

// DownloadRegistered re-downloads the tracker-signed torrent by passkey
// and replaces the local per-tracker torrent file with it.
func (s *Site) DownloadRegistered(ctx context.Context, m *meta.Meta, torrentID string) error {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	u, err := request.JoinURL(s.BaseURL, fmt.Sprintf("download.php?id=%s&passkey=%s", torrentID, s.Passkey))
	if err != nil {
		return err
	}
	return common.DownloadTorrent(ctx, s.client, u, m.TorrentFile(s.Tracker))
}

// FetchPTGen populates the synopsis block once per release. A fetch
// failure is logged and the description is built without the synopsis.
func (s *Site) FetchPTGen(ctx context.Context, m *meta.Meta) {
	if s.ptgen == nil || m.PTGen != nil {
		return
	}
	info, err := s.ptgen.Fetch(ctx, m)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ptgen fetch failed, description will omit the synopsis")
		return
	}
	if info != nil {
		m.PTGen = info
		if m.DoubanID == "" {
			m.DoubanID = info.Douban
		}
	}
}

// PrepareUpload builds the per-tracker torrent and description files if
// a previous run has not produced them already.
func (s *Site) PrepareUpload(ctx context.Context, m *meta.Meta, signature string) (torrentPath, description string, err error) {
	s.FetchPTGen(ctx, m)
	announce := fmt.Sprintf("%s/announce.php?passkey=%s", s.BaseURL, s.Passkey)
	torrentPath, err = common.CreateForUpload(m, s.Tracker, announce, s.SourceFlag)
	if err != nil {
		return "", "", err
	}
	description, err = common.AssembleDescription(m, s.Tracker, signature)
	if err != nil {
		return "", "", err
	}
	return torrentPath, description, nil
}

// TorrentUploadName derives the attachment filename from the main video
// for single-file releases, or the release directory otherwise.
func TorrentUploadName(m *meta.Meta) string {
	src := m.Path
	if len(m.Filelist) == 1 {
		src = m.VideoPath
	}
	name := strings.ReplaceAll(filepath.Base(src), " ", ".")
	return name + ".torrent"
}

// ReadTorrent loads the per-tracker torrent as an attachment.
func ReadTorrent(m *meta.Meta, tracker string) (*UploadFile, error) {
	contents, err := os.ReadFile(m.TorrentFile(tracker))
	if err != nil {
		return nil, fmt.Errorf("reading torrent: %w", err)
	}
	return &UploadFile{Field: "file", Name: TorrentUploadName(m), Contents: contents}, nil
}

func firstHref(doc *goquery.Document, selector string) string {
	return doc.Find(selector).First().AttrOr("href", "")
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}
