package audiences

import (
	"strings"

	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
)

// CategoryID maps the release to the site's numeric category. The ids
// are form values observed on the live upload page.
func CategoryID(m *meta.Meta) string {
	id := "0"
	switch m.Category {
	case meta.CategoryMovie:
		id = "401"
	case meta.CategoryTV:
		id = "402"
	}
	if nexusphp.HasGenre(m, "variety", "reality", "talk show") {
		id = "403"
	}
	if nexusphp.HasGenre(m, "documentary") {
		id = "406"
	}
	return id
}

// MediumSel maps the release medium to the form's medium select. DIY
// discs (custom encode settings present) get their own ids.
func MediumSel(m *meta.Meta) string {
	id := "0"
	if m.IsDisc == meta.DiscBDMV {
		switch {
		case m.Resolution == "2160p" && m.HasEncodeSettings:
			id = "13"
		case m.Resolution == "2160p":
			id = "12"
		case m.HasEncodeSettings:
			id = "14"
		default:
			id = "1"
		}
	}
	if m.IsDisc == meta.DiscDVD {
		id = "2"
	}
	switch m.Type {
	case meta.TypeRemux:
		id = "3"
	case meta.TypeHDTV:
		id = "5"
	case meta.TypeWebDL:
		id = "10"
	case meta.TypeEncode, meta.TypeWebRip:
		id = "15"
	}
	return id
}

// CodecSel maps the first video track's format to the codec select.
func CodecSel(m *meta.Meta) string {
	track := m.MediaInfo.FirstVideo()
	if track == nil {
		return "0"
	}
	codec := strings.ToUpper(track.Format)
	switch {
	case strings.Contains(codec, "HEVC"), strings.Contains(codec, "H.265"), strings.Contains(codec, "X265"):
		return "6"
	case strings.Contains(codec, "AVC"), strings.Contains(codec, "H.264"), strings.Contains(codec, "X264"):
		return "1"
	case strings.Contains(codec, "VC-1"):
		return "2"
	case strings.Contains(codec, "MPEG-2"), strings.Contains(codec, "MPEG2"):
		return "4"
	case strings.Contains(codec, "AV1"):
		return "7"
	}
	return "5"
}

// AudioCodecSel maps the first audio track to the audio codec select.
// Profile markers are checked before base formats so DTS:X and Atmos
// variants resolve ahead of their generic containers.
func AudioCodecSel(m *meta.Meta) string {
	track := m.MediaInfo.FirstAudio()
	if track == nil {
		return "0"
	}
	codec := strings.ToUpper(track.Format)
	profile := strings.ToUpper(track.FormatProfile)
	switch {
	case strings.Contains(profile, "DTS:X"), strings.Contains(profile, "DTSX"):
		return "25"
	case strings.Contains(profile, "ATMOS"), strings.Contains(codec, "TRUEHD ATMOS"):
		return "26"
	case strings.Contains(codec, "DTS-HD"), strings.Contains(codec, "DTSHD"):
		return "19"
	case strings.Contains(codec, "TRUEHD"):
		return "20"
	case strings.Contains(codec, "LPCM"), strings.Contains(codec, "PCM"):
		return "21"
	case strings.Contains(codec, "DTS"):
		return "3"
	case strings.Contains(codec, "AC3"), strings.Contains(codec, "DD"), strings.Contains(codec, "DOLBY DIGITAL"):
		return "18"
	case strings.Contains(codec, "OPUS"):
		return "27"
	case strings.Contains(codec, "AAC"):
		return "6"
	case strings.Contains(codec, "FLAC"):
		return "1"
	case strings.Contains(codec, "APE"):
		return "2"
	case strings.Contains(codec, "WAV"):
		return "22"
	case strings.Contains(codec, "MP3"):
		return "23"
	case strings.Contains(codec, "M4A"):
		return "24"
	}
	return "7"
}

// StandardSel maps the resolution to the standard select.
func StandardSel(m *meta.Meta) string {
	res := strings.ToLower(m.Resolution)
	switch {
	case strings.Contains(res, "8k"), strings.Contains(res, "7680"):
		return "10"
	case strings.Contains(res, "4k"), strings.Contains(res, "2160"):
		return "5"
	case strings.Contains(res, "1080p"):
		return "1"
	case strings.Contains(res, "1080i"):
		return "2"
	case strings.Contains(res, "720"):
		return "3"
	case strings.Contains(res, "480"), strings.Contains(res, "576"):
		return "4"
	}
	return "11"
}

// Tags derives the site's tag checkboxes: zz for Chinese subtitles,
// dh for animation, wj for a completed season pack.
func Tags(m *meta.Meta) []string {
	var tags []string
	if nexusphp.IsZhongzi(m) {
		tags = append(tags, "zz")
	}
	if nexusphp.HasGenre(m, "animation", "anime") {
		tags = append(tags, "dh")
	}
	if m.TVPack {
		tags = append(tags, "wj")
	}
	return tags
}
