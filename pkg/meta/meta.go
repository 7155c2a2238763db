// Package meta carries the release metadata record shared between the
// orchestrator and the tracker adapters. Adapters read it and write back
// resolved external IDs and per-site upload status; they never own it.
package meta

import (
	"fmt"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/halfmoonpt/trackarr/pkg/mediainfo"
)

// Release categories and source types, as derived by the orchestrator.
const (
	CategoryMovie = "MOVIE"
	CategoryTV    = "TV"

	TypeRemux  = "REMUX"
	TypeEncode = "ENCODE"
	TypeWebDL  = "WEBDL"
	TypeWebRip = "WEBRIP"
	TypeHDTV   = "HDTV"

	DiscBDMV  = "BDMV"
	DiscDVD   = "DVD"
	DiscHDDVD = "HD DVD"
)

// Disc describes one disc of a disc-based release.
type Disc struct {
	Type    string // BDMV or DVD
	Name    string
	Summary string // BDInfo summary for BDMV
	VobMI   string // mediainfo dumps for DVD
	IfoMI   string
}

// Image is one screenshot of the gallery.
type Image struct {
	WebURL string
	ImgURL string
}

// PTGen holds the localized synopsis block fetched from a PTGen service.
type PTGen struct {
	Body       string   // rendered BBCode block
	TransTitle []string // localized titles
	Genre      []string
	Region     []string
	Douban     string // douban subject id
}

// Status is the per-tracker upload outcome written back into the record.
type Status struct {
	Message   string
	TorrentID string
	OfferID   string
}

// Meta is the release metadata record.
type Meta struct {
	Name  string // full release name
	Title string // bare title
	AKA   string

	Category   string // MOVIE or TV
	Type       string // REMUX, ENCODE, WEBDL, WEBRIP, HDTV
	IsDisc     string // BDMV, DVD, HD DVD, or empty
	Resolution string // 2160p, 1080p, ...

	TVPack            bool
	PersonalRelease   bool
	Anonymous         bool
	HasEncodeSettings bool

	IMDbID   int64
	TMDbID   int64
	MALID    int64
	AniDBID  int64
	DoubanID string

	Genres   []string
	Keywords []string

	MediaInfo       *mediainfo.Report
	MediaInfoText   string // cleaned text dump embedded in descriptions
	BDInfoSubtitles []string
	Discs           []Disc

	Images  []Image
	Screens int // gallery cap

	PTGen *PTGen

	// Filesystem layout, owned by the orchestrator.
	BaseDir   string // working directory root
	UUID      string // per-release subdirectory under BaseDir/tmp
	VideoPath string // main video file
	Path      string // release directory
	Filelist  []string

	TrackerStatus *xsync.Map[string, *Status]
}

// New returns a record with an initialized status map.
func New() *Meta {
	return &Meta{
		TrackerStatus: xsync.NewMap[string, *Status](),
	}
}

// IMDb returns the tt-prefixed identifier, or "" when the record has none.
func (m *Meta) IMDb() string {
	if m.IMDbID == 0 {
		return ""
	}
	return fmt.Sprintf("tt%07d", m.IMDbID)
}

// WorkDir is the per-release scratch directory.
func (m *Meta) WorkDir() string {
	return filepath.Join(m.BaseDir, "tmp", m.UUID)
}

// DescriptionFile is the orchestrator-produced free-text description.
func (m *Meta) DescriptionFile() string {
	return filepath.Join(m.WorkDir(), "DESCRIPTION.txt")
}

// TrackerDescriptionFile is the per-tracker assembled description cache.
func (m *Meta) TrackerDescriptionFile(tracker string) string {
	return filepath.Join(m.WorkDir(), fmt.Sprintf("[%s]DESCRIPTION.txt", tracker))
}

// TorrentFile is the per-tracker torrent produced for upload.
func (m *Meta) TorrentFile(tracker string) string {
	return filepath.Join(m.WorkDir(), fmt.Sprintf("[%s].torrent", tracker))
}

// BaseTorrentFile is the tracker-agnostic torrent the collaborator produced.
func (m *Meta) BaseTorrentFile() string {
	return filepath.Join(m.WorkDir(), "BASE.torrent")
}

// SetStatus records the upload outcome for one tracker.
func (m *Meta) SetStatus(tracker string, st *Status) {
	if m.TrackerStatus == nil {
		m.TrackerStatus = xsync.NewMap[string, *Status]()
	}
	m.TrackerStatus.Store(tracker, st)
}

// GetStatus returns the recorded outcome for one tracker, nil when absent.
func (m *Meta) GetStatus(tracker string) *Status {
	if m.TrackerStatus == nil {
		return nil
	}
	st, _ := m.TrackerStatus.Load(tracker)
	return st
}
