package common

import (
	"regexp"
	"strings"
)

var (
	codeOpenRe    = regexp.MustCompile(`(?i)\[code\]`)
	codeCloseRe   = regexp.MustCompile(`(?i)\[/code\]`)
	spoilerOpenRe = regexp.MustCompile(`(?i)\[spoiler(=[^\]]*)?\]`)
	spoilerEndRe  = regexp.MustCompile(`(?i)\[/spoiler\]`)
	comparisonRe  = regexp.MustCompile(`(?is)\[comparison=([^\]]+)\](.*?)\[/comparison\]`)
	imgSizedRe    = regexp.MustCompile(`(?i)\[img=\d+(x\d+)?\]`)
)

// ConvertCodeToQuote rewrites [code] blocks as [quote]; the NexusPHP
// renderer strips unknown tags, which would flatten mediainfo dumps.
func ConvertCodeToQuote(desc string) string {
	desc = codeOpenRe.ReplaceAllString(desc, "[quote]")
	return codeCloseRe.ReplaceAllString(desc, "[/quote]")
}

// ConvertSpoilerToHide rewrites [spoiler=title] blocks as [hide=title].
func ConvertSpoilerToHide(desc string) string {
	desc = spoilerOpenRe.ReplaceAllStringFunc(desc, func(tag string) string {
		m := spoilerOpenRe.FindStringSubmatch(tag)
		if m[1] != "" {
			return "[hide" + m[1] + "]"
		}
		return "[hide]"
	})
	return spoilerEndRe.ReplaceAllString(desc, "[/hide]")
}

// ConvertComparisonToCentered rewrites [comparison=A, B]...[/comparison]
// blocks as a centered source list followed by the image run, the form
// the Chinese sites render cleanly.
func ConvertComparisonToCentered(desc string) string {
	return comparisonRe.ReplaceAllStringFunc(desc, func(block string) string {
		m := comparisonRe.FindStringSubmatch(block)
		sources := strings.TrimSpace(m[1])
		body := strings.TrimSpace(m[2])

		var images []string
		for _, line := range strings.Fields(body) {
			if line != "" {
				images = append(images, line)
			}
		}

		var b strings.Builder
		b.WriteString("[center]")
		b.WriteString(sources)
		b.WriteString("\n")
		for _, img := range images {
			b.WriteString("[img]")
			b.WriteString(img)
			b.WriteString("[/img]")
		}
		b.WriteString("[/center]")
		return b.String()
	})
}

// StripImageSizing rewrites sized image tags ([img=350]) to plain [img];
// NexusPHP ignores the size argument and shows the raw tag otherwise.
func StripImageSizing(desc string) string {
	return imgSizedRe.ReplaceAllString(desc, "[img]")
}
