// Package mediainfo models the JSON report produced by a media probe:
// a flat track list where each track carries an "@type" discriminator.
package mediainfo

// Track is one entry of the probe report. Only the fields the upload
// mappings consume are modeled; the probe emits many more.
type Track struct {
	Type          string `json:"@type"`
	Format        string `json:"Format"`
	FormatProfile string `json:"Format_Profile"`
	Language      string `json:"Language"`
}

type Media struct {
	Tracks []Track `json:"track"`
}

type Report struct {
	Media Media `json:"media"`
}

func (r *Report) tracks(kind string) []Track {
	if r == nil {
		return nil
	}
	var out []Track
	for _, t := range r.Media.Tracks {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	return out
}

// FirstVideo returns the first video track, or nil when the report has none.
// The field mappings only ever consult the first track of each kind.
func (r *Report) FirstVideo() *Track {
	if tracks := r.tracks("Video"); len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

// FirstAudio returns the first audio track, or nil when the report has none.
func (r *Report) FirstAudio() *Track {
	if tracks := r.tracks("Audio"); len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

// TextTracks returns all subtitle tracks.
func (r *Report) TextTracks() []Track {
	return r.tracks("Text")
}

// AudioTracks returns all audio tracks.
func (r *Report) AudioTracks() []Track {
	return r.tracks("Audio")
}
