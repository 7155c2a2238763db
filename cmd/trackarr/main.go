package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/moistari/rls"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/internal/logger"
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers"
	"github.com/halfmoonpt/trackarr/pkg/version"
)

func main() {
	configPath := flag.String("config", "/app", "path to the config directory")
	releasePath := flag.String("path", "", "release file or directory to upload")
	trackerList := flag.String("trackers", "", "comma-separated tracker names (default: all configured)")
	imdbID := flag.Int64("imdb", 0, "IMDb numeric id of the work")
	doubanID := flag.String("douban", "", "Douban subject id of the work")
	anonymous := flag.Bool("anon", false, "upload anonymously where supported")
	personal := flag.Bool("pr", false, "mark as personal release where supported")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetInfo())
		return
	}
	if *releasePath == "" {
		fmt.Fprintln(os.Stderr, "missing -path: nothing to upload")
		flag.Usage()
		os.Exit(2)
	}

	config.SetConfigPath(*configPath)
	cfg := config.Get()
	log := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := buildMeta(cfg, *releasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("preparing release metadata")
	}
	m.IMDbID = *imdbID
	m.DoubanID = *doubanID
	m.Anonymous = *anonymous
	m.PersonalRelease = *personal

	mgr := trackers.NewManager(cfg)
	names := mgr.Names()
	if *trackerList != "" {
		names = strings.Split(*trackerList, ",")
	}
	if len(names) == 0 {
		log.Fatal().Msg("no usable trackers configured")
	}

	log.Info().
		Str("release", m.Name).
		Strs("trackers", names).
		Msg("processing release")

	failed := false
	for _, res := range mgr.Process(ctx, m, names, m.IsDisc) {
		switch {
		case res.Err != nil:
			failed = true
			log.Error().Err(res.Err).Str("tracker", res.Tracker).Msg("failed")
		case len(res.Dupes) > 0:
			log.Warn().Str("tracker", res.Tracker).Int("dupes", len(res.Dupes)).Msg("skipped, existing releases found")
			for _, d := range res.Dupes {
				log.Info().Str("tracker", res.Tracker).Str("name", d.Name).Str("link", d.Link).Msg("dupe")
			}
		case res.Uploaded:
			result := ""
			if st := m.GetStatus(res.Tracker); st != nil {
				result = st.Message
			}
			log.Info().Str("tracker", res.Tracker).Str("result", result).Msg("uploaded")
		}
	}
	if failed {
		os.Exit(1)
	}
}

// buildMeta derives the release record from the path: the name parse
// fills title, resolution, and source classification, and the file
// walk records the payload for torrent creation.
func buildMeta(cfg *config.Config, path string) (*meta.Meta, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("release path: %w", err)
	}

	m := meta.New()
	m.Path = abs
	m.BaseDir = cfg.WorkDir
	m.UUID = newUUID()
	m.Screens = cfg.Screens

	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	m.Name = strings.ReplaceAll(name, ".", " ")

	r := rls.ParseString(filepath.Base(abs))
	m.Title = r.Title
	m.Resolution = r.Resolution
	m.Type = classifySource(r.Source, filepath.Base(abs))
	if r.Series > 0 {
		m.Category = meta.CategoryTV
		m.TVPack = r.Episode == 0
	} else {
		m.Category = meta.CategoryMovie
	}

	if err := collectFiles(m, abs); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(m.WorkDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}
	return m, nil
}

func classifySource(source, name string) string {
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "REMUX") {
		return meta.TypeRemux
	}
	switch strings.ToUpper(source) {
	case "WEB-DL", "WEBDL", "WEB":
		return meta.TypeWebDL
	case "WEBRIP":
		return meta.TypeWebRip
	case "HDTV":
		return meta.TypeHDTV
	}
	return meta.TypeEncode
}

func collectFiles(m *meta.Meta, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		m.Filelist = []string{path}
		m.VideoPath = path
		return nil
	}

	var largest int64
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		m.Filelist = append(m.Filelist, p)
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.Size() > largest {
			largest = fi.Size()
			m.VideoPath = p
		}
		return nil
	})
	return err
}

func newUUID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "release"
	}
	return hex.EncodeToString(buf)
}
