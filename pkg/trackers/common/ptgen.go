package common

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/halfmoonpt/trackarr/internal/logger"
	"github.com/halfmoonpt/trackarr/internal/request"
	"github.com/halfmoonpt/trackarr/pkg/meta"
)

// PTGenClient fetches localized synopsis/poster blocks from a PTGen
// endpoint. Concurrent fetches for the same subject are coalesced: when
// several adapters build descriptions for one release, the service is
// hit once.
type PTGenClient struct {
	api    string
	client *request.Client
	sf     singleflight.Group
	logger zerolog.Logger
}

func NewPTGen(api string, client *request.Client) *PTGenClient {
	if client == nil {
		client = request.Default()
	}
	return &PTGenClient{
		api:    api,
		client: client,
		logger: logger.New("ptgen"),
	}
}

type ptgenResponse struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error"`
	Format     string   `json:"format"`
	TransTitle []string `json:"trans_title"`
	Genre      []string `json:"genre"`
	Region     []string `json:"region"`
	SID        string   `json:"sid"`
}

// Fetch resolves the PTGen block for a release, preferring the Douban
// subject when the record has one and falling back to the IMDb link.
// Returns nil without error when the endpoint is not configured or the
// record carries no usable identifier.
func (p *PTGenClient) Fetch(ctx context.Context, m *meta.Meta) (*meta.PTGen, error) {
	if p.api == "" {
		return nil, nil
	}

	var subject string
	switch {
	case m.DoubanID != "":
		subject = fmt.Sprintf("https://movie.douban.com/subject/%s/", m.DoubanID)
	case m.IMDbID != 0:
		subject = fmt.Sprintf("https://www.imdb.com/title/%s/", m.IMDb())
	default:
		return nil, nil
	}

	v, err, shared := p.sf.Do(subject, func() (interface{}, error) {
		return p.fetch(ctx, subject)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.logger.Debug().Str("subject", subject).Msg("ptgen fetch coalesced")
	}
	return v.(*meta.PTGen), nil
}

func (p *PTGenClient) fetch(ctx context.Context, subject string) (*meta.PTGen, error) {
	u := fmt.Sprintf("%s?url=%s", p.api, url.QueryEscape(subject))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating ptgen request: %w", err)
	}

	body, err := p.client.MakeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("fetching ptgen: %w", err)
	}

	var resp ptgenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding ptgen response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("ptgen lookup failed: %s", resp.Error)
	}

	return &meta.PTGen{
		Body:       resp.Format,
		TransTitle: resp.TransTitle,
		Genre:      resp.Genre,
		Region:     resp.Region,
		Douban:     resp.SID,
	}, nil
}
