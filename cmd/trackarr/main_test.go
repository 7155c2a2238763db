package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halfmoonpt/trackarr/internal/config"
	"github.com/halfmoonpt/trackarr/pkg/meta"
)

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		file   string
		want   string
	}{
		{"remux wins over source", "BluRay", "Movie.2020.1080p.BluRay.REMUX.AVC-GRP.mkv", meta.TypeRemux},
		{"web-dl", "WEB-DL", "Movie.2020.1080p.WEB-DL.H264-GRP.mkv", meta.TypeWebDL},
		{"webrip", "WEBRip", "Movie.2020.1080p.WEBRip.x264-GRP.mkv", meta.TypeWebRip},
		{"hdtv", "HDTV", "Show.S01E01.720p.HDTV.x264-GRP.mkv", meta.TypeHDTV},
		{"bluray encode", "BluRay", "Movie.2020.1080p.BluRay.x264-GRP.mkv", meta.TypeEncode},
		{"unknown falls back to encode", "", "Movie.2020.mkv", meta.TypeEncode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySource(tt.source, tt.file); got != tt.want {
				t.Errorf("classifySource(%q, %q) = %q, want %q", tt.source, tt.file, got, tt.want)
			}
		})
	}
}

func TestBuildMetaFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "The.Matrix.1999.1080p.BluRay.x264-GRP.mkv")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{WorkDir: t.TempDir(), Screens: 3}
	m, err := buildMeta(cfg, path)
	if err != nil {
		t.Fatalf("buildMeta() error = %v", err)
	}
	if m.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", m.Title, "The Matrix")
	}
	if m.Resolution != "1080p" {
		t.Errorf("Resolution = %q, want %q", m.Resolution, "1080p")
	}
	if m.Category != meta.CategoryMovie {
		t.Errorf("Category = %q, want %q", m.Category, meta.CategoryMovie)
	}
	if m.Type != meta.TypeEncode {
		t.Errorf("Type = %q, want %q", m.Type, meta.TypeEncode)
	}
	if m.VideoPath != path {
		t.Errorf("VideoPath = %q, want %q", m.VideoPath, path)
	}
	if len(m.Filelist) != 1 {
		t.Errorf("Filelist has %d entries, want 1", len(m.Filelist))
	}
	if m.Screens != 3 {
		t.Errorf("Screens = %d, want 3", m.Screens)
	}
	if _, err := os.Stat(m.WorkDir()); err != nil {
		t.Errorf("work dir not created: %v", err)
	}
}

func TestBuildMetaFromDirectory(t *testing.T) {
	work := t.TempDir()
	release := filepath.Join(work, "Show.S01.1080p.WEB-DL.H264-GRP")
	if err := os.MkdirAll(release, 0o755); err != nil {
		t.Fatal(err)
	}
	big := filepath.Join(release, "Show.S01E01.mkv")
	if err := os.WriteFile(big, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(release, "Show.S01E01.nfo"), []byte("nfo"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{WorkDir: t.TempDir(), Screens: 6}
	m, err := buildMeta(cfg, release)
	if err != nil {
		t.Fatalf("buildMeta() error = %v", err)
	}
	if m.Category != meta.CategoryTV {
		t.Errorf("Category = %q, want %q", m.Category, meta.CategoryTV)
	}
	if !m.TVPack {
		t.Error("TVPack = false, want true for a season directory")
	}
	if m.Type != meta.TypeWebDL {
		t.Errorf("Type = %q, want %q", m.Type, meta.TypeWebDL)
	}
	if m.VideoPath != big {
		t.Errorf("VideoPath = %q, want largest file %q", m.VideoPath, big)
	}
	if len(m.Filelist) != 2 {
		t.Errorf("Filelist has %d entries, want 2", len(m.Filelist))
	}
}

func TestBuildMetaMissingPath(t *testing.T) {
	cfg := &config.Config{WorkDir: t.TempDir()}
	if _, err := buildMeta(cfg, filepath.Join(t.TempDir(), "gone.mkv")); err == nil {
		t.Error("buildMeta() expected error for missing path")
	}
}

func TestNewUUID(t *testing.T) {
	a, b := newUUID(), newUUID()
	if len(a) != 16 {
		t.Errorf("newUUID() length = %d, want 16", len(a))
	}
	if a == b {
		t.Error("newUUID() returned duplicate values")
	}
}
