package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/halfmoonpt/trackarr/pkg/meta"
)

// AssembleDescription builds the per-tracker BBCode description: PTGen
// block, technical dumps, the orchestrator's base description with its
// markup rewritten for NexusPHP, then the screenshot gallery and the
// signature. The result is cached per tracker so a rerun after a
// partial failure reuses it instead of rebuilding.
func AssembleDescription(m *meta.Meta, trackerName, signature string) (string, error) {
	cache := m.TrackerDescriptionFile(trackerName)
	if data, err := os.ReadFile(cache); err == nil && len(data) > 0 {
		return string(data), nil
	}

	var b strings.Builder

	if m.IMDbID != 0 && m.PTGen != nil && m.PTGen.Body != "" {
		b.WriteString(m.PTGen.Body)
		b.WriteString("\n")
	}

	switch {
	case len(m.Discs) > 0:
		for _, d := range m.Discs {
			switch d.Type {
			case meta.DiscBDMV:
				fmt.Fprintf(&b, "[hide=BDInfo]%s[/hide]\n", d.Summary)
			case meta.DiscDVD:
				b.WriteString(d.Name)
				b.WriteString("\n")
				fmt.Fprintf(&b, "[hide=mediainfo]%s\n\n%s[/hide]\n", d.VobMI, d.IfoMI)
			}
		}
	case m.MediaInfoText != "":
		fmt.Fprintf(&b, "[hide=mediainfo]%s[/hide]\n", m.MediaInfoText)
	}

	if base, err := os.ReadFile(m.DescriptionFile()); err == nil {
		desc := string(base)
		desc = ConvertCodeToQuote(desc)
		desc = ConvertSpoilerToHide(desc)
		desc = ConvertComparisonToCentered(desc)
		desc = StripImageSizing(desc)
		desc = strings.TrimSpace(desc)
		if desc != "" {
			b.WriteString(desc)
			b.WriteString("\n")
		}
	}

	if len(m.Images) > 0 {
		cap := m.Screens
		if cap <= 0 || cap > len(m.Images) {
			cap = len(m.Images)
		}
		b.WriteString("[center]")
		for _, img := range m.Images[:cap] {
			fmt.Fprintf(&b, "[url=%s][img]%s[/img][/url]", img.WebURL, img.ImgURL)
		}
		b.WriteString("[/center]\n")
	}

	if signature != "" {
		b.WriteString(signature)
		b.WriteString("\n")
	}

	out := b.String()
	if err := os.WriteFile(cache, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("caching description: %w", err)
	}
	return out, nil
}
