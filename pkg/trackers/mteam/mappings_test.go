package mteam

import (
	"testing"

	"github.com/halfmoonpt/trackarr/pkg/mediainfo"
	"github.com/halfmoonpt/trackarr/pkg/meta"
)

func TestCategoryID(t *testing.T) {
	tests := []struct {
		name string
		m    meta.Meta
		want string
	}{
		{"movie bluray", meta.Meta{Category: meta.CategoryMovie, IsDisc: meta.DiscBDMV}, "421"},
		{"movie dvd", meta.Meta{Category: meta.CategoryMovie, IsDisc: meta.DiscDVD}, "420"},
		{"movie remux", meta.Meta{Category: meta.CategoryMovie, Type: meta.TypeRemux}, "439"},
		{"movie hd", meta.Meta{Category: meta.CategoryMovie, Resolution: "1080p"}, "419"},
		{"movie sd", meta.Meta{Category: meta.CategoryMovie, Resolution: "480p"}, "401"},
		{"tv bluray", meta.Meta{Category: meta.CategoryTV, IsDisc: meta.DiscBDMV}, "438"},
		{"tv dvd", meta.Meta{Category: meta.CategoryTV, IsDisc: meta.DiscDVD}, "435"},
		{"tv hd", meta.Meta{Category: meta.CategoryTV, Resolution: "2160p"}, "402"},
		{"tv sd", meta.Meta{Category: meta.CategoryTV}, "403"},
		{"documentary", meta.Meta{Category: meta.CategoryMovie, Genres: []string{"Documentary"}}, "404"},
		{"animation", meta.Meta{Category: meta.CategoryTV, Genres: []string{"Animation"}}, "405"},
		{"sport", meta.Meta{Category: meta.CategoryTV, Genres: []string{"Sports"}}, "407"},
		{"misc", meta.Meta{}, "409"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryID(&tt.m); got != tt.want {
				t.Errorf("CategoryID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStandard(t *testing.T) {
	tests := []struct {
		res  string
		want string
	}{
		{"8K", "8K"},
		{"2160p", "4K"},
		{"1080p", "1080p"},
		{"1080i", "1080i"},
		{"720p", "720p"},
		{"480p", "SD"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.res, func(t *testing.T) {
			m := meta.Meta{Resolution: tt.res}
			if got := Standard(&m); got != tt.want {
				t.Errorf("Standard(%s) = %q, want %q", tt.res, got, tt.want)
			}
		})
	}
}

func TestVideoCodec(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"HEVC", "H.265"},
		{"AVC", "H.264"},
		{"VC-1", "VC-1"},
		{"MPEG-2 Video", "MPEG-2"},
		{"AV1", "AV1"},
		{"Theora", ""},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			m := meta.Meta{MediaInfo: &mediainfo.Report{Media: mediainfo.Media{Tracks: []mediainfo.Track{
				{Type: "Video", Format: tt.format},
			}}}}
			if got := VideoCodec(&m); got != tt.want {
				t.Errorf("VideoCodec(%s) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}

	t.Run("no track", func(t *testing.T) {
		if got := VideoCodec(&meta.Meta{}); got != "" {
			t.Errorf("VideoCodec() = %q, want empty", got)
		}
	})
}

func TestAudioCodec(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		profile string
		want    string
	}{
		{"dts x beats dts", "DTS", "DTS:X", "DTS:X"},
		{"atmos beats truehd", "TrueHD", "TrueHD Atmos", "TrueHD Atmos"},
		{"dts hd", "DTS-HD MA", "", "DTS-HD MA"},
		{"truehd", "TrueHD", "", "TrueHD"},
		{"lpcm", "PCM", "", "LPCM"},
		{"plain dts", "DTS", "", "DTS"},
		{"ac3", "AC3", "", "AC3"},
		{"aac", "AAC", "", "AAC"},
		{"unknown", "Vorbis", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meta.Meta{MediaInfo: &mediainfo.Report{Media: mediainfo.Media{Tracks: []mediainfo.Track{
				{Type: "Audio", Format: tt.format, FormatProfile: tt.profile},
			}}}}
			if got := AudioCodec(&m); got != tt.want {
				t.Errorf("AudioCodec(%s/%s) = %q, want %q", tt.format, tt.profile, got, tt.want)
			}
		})
	}
}

func TestCountries(t *testing.T) {
	m := meta.Meta{PTGen: &meta.PTGen{Region: []string{"美国", "英国", "美国", "冰岛"}}}
	got := Countries(&m)
	want := []string{"US", "GB"}
	if len(got) != len(want) {
		t.Fatalf("Countries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Countries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := Countries(&meta.Meta{}); got != nil {
		t.Errorf("Countries() = %v, want nil", got)
	}
}

func TestLabels(t *testing.T) {
	m := meta.Meta{MediaInfo: &mediainfo.Report{Media: mediainfo.Media{Tracks: []mediainfo.Track{
		{Type: "Text", Language: "zh"},
		{Type: "Audio", Format: "AAC", Language: "chi"},
	}}}}
	got := Labels(&m)
	if len(got) != 2 || got[0] != "中字" || got[1] != "中配" {
		t.Errorf("Labels() = %v", got)
	}

	if got := Labels(&meta.Meta{}); got != nil {
		t.Errorf("Labels() = %v, want nil", got)
	}
}
