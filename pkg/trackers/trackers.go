// Package trackers wires the per-site upload clients behind one
// registry. Each client is built once from its configuration and kept
// for the life of the process; uploads run one tracker at a time.
package trackers

import (
	"context"
	"fmt"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/internal/logger"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/audiences"
	"github.com/halfmoonpt/trackarr/pkg/trackers/chd"
	"github.com/halfmoonpt/trackarr/pkg/trackers/hdsky"
	"github.com/halfmoonpt/trackarr/pkg/trackers/hhan"
	"github.com/halfmoonpt/trackarr/pkg/trackers/mteam"
	"github.com/halfmoonpt/trackarr/pkg/trackers/types"
	"github.com/halfmoonpt/trackarr/pkg/trackers/u2"
)

// New builds the client for one tracker by name.
func New(name string, cfg config.Tracker) (types.Client, error) {
	switch strings.ToUpper(name) {
	case "AUDIENCES":
		return audiences.New(cfg)
	case "HDSKY":
		return hdsky.New(cfg)
	case "HHAN":
		return hhan.New(cfg)
	case "CHD":
		return chd.New(cfg)
	case "U2":
		return u2.New(cfg)
	case "MTEAM":
		return mteam.New(cfg)
	default:
		return nil, fmt.Errorf("unknown tracker: %s", name)
	}
}

// Manager holds the built clients for the configured trackers.
type Manager struct {
	clients *xsync.Map[string, types.Client]
	logger  zerolog.Logger
}

// NewManager builds a client for every configured tracker. A tracker
// whose client cannot be built (missing cookie file, missing API key)
// is skipped with a logged reason rather than failing the rest.
func NewManager(cfg *config.Config) *Manager {
	mgr := &Manager{
		clients: xsync.NewMap[string, types.Client](),
		logger:  logger.New("trackers"),
	}
	for _, trk := range cfg.Trackers {
		client, err := New(trk.Name, trk)
		if err != nil {
			mgr.logger.Error().Err(err).Str("tracker", trk.Name).Msg("skipping tracker")
			continue
		}
		mgr.clients.Store(strings.ToUpper(trk.Name), client)
	}
	return mgr
}

// Client returns the built client for a tracker name.
func (mgr *Manager) Client(name string) (types.Client, bool) {
	return mgr.clients.Load(strings.ToUpper(name))
}

// Names returns the trackers with a usable client.
func (mgr *Manager) Names() []string {
	var names []string
	mgr.clients.Range(func(name string, _ types.Client) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Result is the outcome of processing one tracker.
type Result struct {
	Tracker  string
	Uploaded bool
	Dupes    []types.Dupe
	Err      error
}

// Process runs the upload flow for one release against each named
// tracker in turn: credential check, duplicate search, then upload.
// A failure on one tracker is recorded and the next proceeds; there is
// no retry and no rollback.
func (mgr *Manager) Process(ctx context.Context, m *meta.Meta, names []string, discType string) []Result {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, mgr.processOne(ctx, m, name, discType))
		if err := ctx.Err(); err != nil {
			break
		}
	}
	return results
}

func (mgr *Manager) processOne(ctx context.Context, m *meta.Meta, name, discType string) Result {
	res := Result{Tracker: strings.ToUpper(name)}
	log := mgr.logger.With().Str("tracker", res.Tracker).Logger()

	client, ok := mgr.Client(name)
	if !ok {
		res.Err = fmt.Errorf("tracker %s is not configured", name)
		return res
	}

	valid, err := client.ValidateCredentials(ctx, m)
	if err != nil {
		res.Err = fmt.Errorf("validating credentials: %w", err)
		return res
	}
	if !valid {
		res.Err = fmt.Errorf("credentials rejected, check cookies or api key")
		m.SetStatus(res.Tracker, &meta.Status{Message: res.Err.Error()})
		return res
	}

	dupes, err := client.SearchExisting(ctx, m, discType)
	if err != nil {
		log.Warn().Err(err).Msg("duplicate search failed, proceeding with upload")
	}
	res.Dupes = dupes
	if len(dupes) > 0 {
		log.Info().Int("hits", len(dupes)).Msg("existing releases found, skipping upload")
		m.SetStatus(res.Tracker, &meta.Status{Message: fmt.Sprintf("%d existing releases found", len(dupes))})
		return res
	}

	res.Uploaded, res.Err = client.Upload(ctx, m, discType)
	if res.Err != nil && !res.Uploaded {
		m.SetStatus(res.Tracker, &meta.Status{Message: res.Err.Error()})
	}
	return res
}
