package textutil

import (
	"regexp"
	"strings"

	"github.com/kyokomi/emoji/v2"
)

var (
	reMultiSpace          = regexp.MustCompile(`([^\S\n])+`)
	reMoreThan2Linebreaks = regexp.MustCompile(`(\n){3,}`)
	reShortcode           = regexp.MustCompile(`:[a-z0-9_+\-]+:`)
)

var emojiCodeMap = emoji.CodeMap()

// SmartTrim collapses runs of spaces within lines, trims every line
// and allows at most one blank line between paragraphs.
func SmartTrim(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	oldLines := strings.Split(s, "\n")
	newLines := make([]string, 0, len(oldLines))
	for _, line := range oldLines {
		line = strings.TrimSpace(reMultiSpace.ReplaceAllString(line, "$1"))
		newLines = append(newLines, line)
	}
	s = strings.Join(newLines, "\n")
	s = reMoreThan2Linebreaks.ReplaceAllString(s, "$1$1")
	return strings.TrimSpace(s)
}

// ExpandEmoji replaces known :shortcodes: with their emoji.
// Unknown shortcodes are left untouched.
func ExpandEmoji(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}

	return reShortcode.ReplaceAllStringFunc(s, func(code string) string {
		if e, ok := emojiCodeMap[code]; ok {
			return strings.TrimSpace(e)
		}
		return code
	})
}
