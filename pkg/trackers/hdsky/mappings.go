package hdsky

import (
	"github.com/halfmoonpt/trackarr/pkg/meta"
	"github.com/halfmoonpt/trackarr/pkg/trackers/nexusphp"
)

// CategoryID maps the release to the site's numeric category. TV and
// variety entries split into per-episode and pack ids.
func CategoryID(m *meta.Meta) string {
	id := "0"
	switch m.Category {
	case meta.CategoryMovie:
		id = "401"
	case meta.CategoryTV:
		if m.TVPack {
			id = "411"
		} else {
			id = "402"
		}
	}
	if nexusphp.HasGenre(m, "documentary") {
		id = "404"
	}
	if nexusphp.HasGenre(m, "animation") {
		id = "405"
	}
	if nexusphp.HasGenre(m, "variety", "reality", "talk show") {
		if m.TVPack {
			id = "415"
		} else {
			id = "403"
		}
	}
	return id
}
