package nexusphp

import (
	"strings"

	"github.com/halfmoonpt/trackarr/pkg/meta"
)

// MediumCode is the source-type code used by the torrents.php search
// filter. Identical across the NexusPHP sites supported here; an
// unmatched release returns "" and the filter is omitted.
func MediumCode(m *meta.Meta) string {
	switch m.IsDisc {
	case meta.DiscBDMV, meta.DiscHDDVD:
		if m.Resolution == "2160p" {
			return "1"
		}
		return "2"
	case meta.DiscDVD:
		return "7"
	}
	switch m.Type {
	case meta.TypeHDTV:
		return "4"
	case meta.TypeEncode, meta.TypeWebRip:
		return "6"
	case meta.TypeRemux:
		return "3"
	case meta.TypeWebDL:
		return "5"
	}
	return ""
}

// areaIDs maps PTGen region names to the shared production-area codes;
// unlisted regions fall into the catch-all 8.
var areaIDs = map[string]int{
	"中国大陆": 1, "中国香港": 2, "中国台湾": 3,
	"美国": 4, "法国": 4, "意大利": 4, "德国": 4, "西班牙": 4, "葡萄牙": 4,
	"英国": 4, "澳大利亚": 4, "比利时": 4, "加拿大": 4, "瑞士": 4,
	"韩国": 5, "日本": 6, "印度": 7,
}

// AreaID resolves the production-area code from the PTGen region list.
func AreaID(m *meta.Meta) int {
	if m.PTGen == nil {
		return 8
	}
	for _, region := range m.PTGen.Region {
		if id, ok := areaIDs[region]; ok {
			return id
		}
	}
	return 8
}

// HasGenre reports whether any of the words appears in the release's
// genre or keyword lists, case-insensitively.
func HasGenre(m *meta.Meta, words ...string) bool {
	genres := strings.ToLower(strings.Join(m.Genres, ", "))
	keywords := strings.ToLower(strings.Join(m.Keywords, ", "))
	for _, w := range words {
		if strings.Contains(genres, w) || strings.Contains(keywords, w) {
			return true
		}
	}
	return false
}

// IsZhongzi reports whether the release carries Chinese subtitles: a
// zh text track for file releases, a Chinese entry in the BDInfo
// subtitle list for disc releases.
func IsZhongzi(m *meta.Meta) bool {
	if m.IsDisc != meta.DiscBDMV {
		if m.MediaInfo == nil {
			return false
		}
		for _, track := range m.MediaInfo.TextTracks() {
			if track.Language == "zh" {
				return true
			}
		}
		return false
	}
	for _, language := range m.BDInfoSubtitles {
		if language == "Chinese" {
			return true
		}
	}
	return false
}

// SmallDescr builds the Chinese one-line subtitle from the PTGen
// localized titles plus the first genre, falling back to the bare
// title when no translation is known.
func SmallDescr(m *meta.Meta) string {
	if m.PTGen == nil || len(m.PTGen.TransTitle) == 0 || (len(m.PTGen.TransTitle) == 1 && m.PTGen.TransTitle[0] == "") {
		return m.Title
	}

	var b strings.Builder
	for _, title := range m.PTGen.TransTitle {
		b.WriteString(title)
		b.WriteString(" / ")
	}
	genre := ""
	if len(m.PTGen.Genre) > 0 {
		genre = m.PTGen.Genre[0]
	}
	b.WriteString("| 类别:")
	b.WriteString(genre)
	return strings.Replace(b.String(), "/ |", "|", 1)
}

// UploadName cleans the release name for the submission form: dub
// markers and the AKA title are dropped, PQ10 is listed as HDR, and a
// WEB-DL that was re-encoded is labelled x264 rather than H.264.
func UploadName(m *meta.Meta) string {
	name := m.Name
	for _, drop := range []string{"Dubbed", "Dual-Audio"} {
		name = strings.ReplaceAll(name, drop, "")
	}
	if m.AKA != "" {
		name = strings.ReplaceAll(name, m.AKA, "")
	}
	name = strings.ReplaceAll(name, "PQ10", "HDR")
	if m.Type == meta.TypeWebDL && m.HasEncodeSettings {
		name = strings.ReplaceAll(name, "H.264", "x264")
	}
	return name
}
