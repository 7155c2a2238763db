package mteam

import (
	"strings"

	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
)

func isHDRes(res string) bool {
	switch strings.ToLower(res) {
	case "1080p", "720p", "2160p", "4k":
		return true
	}
	return false
}

// CategoryID maps the release to the site's numeric category. Movies
// and TV split by medium and resolution; documentary, animation, and
// sport override both.
func CategoryID(m *meta.Meta) string {
	if nexusphp.HasGenre(m, "documentary") {
		return "404"
	}
	if nexusphp.HasGenre(m, "animation", "anime") {
		return "405"
	}
	if nexusphp.HasGenre(m, "sport") {
		return "407"
	}

	switch m.Category {
	case meta.CategoryMovie:
		switch {
		case m.IsDisc == meta.DiscBDMV:
			return "421"
		case m.IsDisc == meta.DiscDVD:
			return "420"
		case m.Type == meta.TypeRemux:
			return "439"
		case isHDRes(m.Resolution):
			return "419"
		default:
			return "401"
		}
	case meta.CategoryTV:
		switch {
		case m.IsDisc == meta.DiscBDMV:
			return "438"
		case m.IsDisc == meta.DiscDVD:
			return "435"
		case isHDRes(m.Resolution):
			return "402"
		default:
			return "403"
		}
	}
	return "409"
}

// Standard maps the resolution to the API's named standard, or "" when
// the resolution is unrecognized.
func Standard(m *meta.Meta) string {
	res := strings.ToLower(m.Resolution)
	switch {
	case strings.Contains(res, "8k"), strings.Contains(res, "7680"):
		return "8K"
	case strings.Contains(res, "4k"), strings.Contains(res, "2160"):
		return "4K"
	case strings.Contains(res, "1080p"):
		return "1080p"
	case strings.Contains(res, "1080i"):
		return "1080i"
	case strings.Contains(res, "720"):
		return "720p"
	case strings.Contains(res, "480"), strings.Contains(res, "576"):
		return "SD"
	}
	return ""
}

// VideoCodec maps the first video track to the API's named codec.
func VideoCodec(m *meta.Meta) string {
	track := m.MediaInfo.FirstVideo()
	if track == nil {
		return ""
	}
	codec := strings.ToUpper(track.Format)
	switch {
	case strings.Contains(codec, "HEVC"), strings.Contains(codec, "H.265"), strings.Contains(codec, "X265"):
		return "H.265"
	case strings.Contains(codec, "AVC"), strings.Contains(codec, "H.264"), strings.Contains(codec, "X264"):
		return "H.264"
	case strings.Contains(codec, "VC-1"):
		return "VC-1"
	case strings.Contains(codec, "MPEG-2"), strings.Contains(codec, "MPEG2"):
		return "MPEG-2"
	case strings.Contains(codec, "AV1"):
		return "AV1"
	}
	return ""
}

// AudioCodec maps the first audio track to the API's named codec, with
// profile markers checked ahead of base formats.
func AudioCodec(m *meta.Meta) string {
	track := m.MediaInfo.FirstAudio()
	if track == nil {
		return ""
	}
	codec := strings.ToUpper(track.Format)
	profile := strings.ToUpper(track.FormatProfile)
	switch {
	case strings.Contains(profile, "DTS:X"), strings.Contains(profile, "DTSX"):
		return "DTS:X"
	case strings.Contains(profile, "ATMOS"), strings.Contains(codec, "TRUEHD ATMOS"):
		return "TrueHD Atmos"
	case strings.Contains(codec, "DTS-HD"), strings.Contains(codec, "DTSHD"):
		return "DTS-HD MA"
	case strings.Contains(codec, "TRUEHD"):
		return "TrueHD"
	case strings.Contains(codec, "LPCM"), strings.Contains(codec, "PCM"):
		return "LPCM"
	case strings.Contains(codec, "DTS"):
		return "DTS"
	case strings.Contains(codec, "AC3"), strings.Contains(codec, "DD"), strings.Contains(codec, "DOLBY DIGITAL"):
		return "AC3"
	case strings.Contains(codec, "OPUS"):
		return "OPUS"
	case strings.Contains(codec, "AAC"):
		return "AAC"
	case strings.Contains(codec, "FLAC"):
		return "FLAC"
	}
	return ""
}

var countryCodes = []struct {
	region string
	code   string
}{
	{"中国大陆", "CN"}, {"中国香港", "HK"}, {"中国台湾", "TW"},
	{"美国", "US"}, {"日本", "JP"}, {"韩国", "KR"},
	{"英国", "GB"}, {"法国", "FR"}, {"德国", "DE"},
	{"意大利", "IT"}, {"西班牙", "ES"}, {"印度", "IN"},
}

// Countries maps the PTGen regions to the multi-select country codes,
// deduplicated and in the record's order.
func Countries(m *meta.Meta) []string {
	if m.PTGen == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, region := range m.PTGen.Region {
		for _, cc := range countryCodes {
			if cc.region == region && !seen[cc.code] {
				seen[cc.code] = true
				out = append(out, cc.code)
			}
		}
	}
	return out
}

// Labels derives the checkbox labels: 中字 for Chinese subtitles, 中配
// for a Chinese audio track.
func Labels(m *meta.Meta) []string {
	var labels []string
	if nexusphp.IsZhongzi(m) {
		labels = append(labels, "中字")
	}
	if m.MediaInfo != nil {
		for _, track := range m.MediaInfo.AudioTracks() {
			if track.Language == "zh" || track.Language == "chi" {
				labels = append(labels, "中配")
				break
			}
		}
	}
	return labels
}
