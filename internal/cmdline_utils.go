// Command line usage helpers

package amicontained_internal

import (
	"strings"
)

const (
	// The help usage message line wraparound default width:
	DEFAULT_FLAG_USAGE_WIDTH = 58
)

// FormatFlagUsageWidth reflows the usage message to the given width; the
// original line breaks and indentation are discarded, so the message may be
// written as an indented raw string:
//
//	var formatArg = flag.String(
//		"format",
//		"text",
//		FormatFlagUsage(`
//		This usage message will be reformatted to the default width,
//		discarding the current line breaks and line prefixing spaces.
//		`),
//	)
func FormatFlagUsageWidth(usage string, width int) string {
	lines := make([]string, 0)
	line := &strings.Builder{}
	for _, word := range strings.Fields(usage) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func FormatFlagUsage(usage string) string {
	return FormatFlagUsageWidth(usage, DEFAULT_FLAG_USAGE_WIDTH)
}
