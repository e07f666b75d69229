// Package cli holds terminal helpers for the command line tools.
package cli

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/amp-labs/cyclekit/envutil"
)

const (
	boxTopLeft     = "╒"
	boxBottomLeft  = "└"
	boxTopRight    = "╕"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	ellipsis       = "…"
)

const (
	AlignLeft = iota
	AlignCenter
	AlignRight

	bannerPadding   = 2
	truncateReserve = 1
	halfDivisor     = 2
)

// DefaultTerminalWidth is used when COLUMNS is unset or invalid.
const DefaultTerminalWidth = 80

func suppressBanner() bool {
	return envutil.Bool("CYCLEKIT_NO_BANNER", envutil.Default(false)).ValueOrElse(false)
}

// TerminalWidth returns $COLUMNS, or DefaultTerminalWidth.
func TerminalWidth() int {
	width := envutil.Int("COLUMNS", envutil.Default(DefaultTerminalWidth)).ValueOrElse(DefaultTerminalWidth)
	if width <= bannerPadding {
		return DefaultTerminalWidth
	}

	return width
}

// BannerAutoWidth draws a banner as wide as the terminal.
func BannerAutoWidth(s string, alignment int) string {
	return Banner(s, TerminalWidth(), alignment)
}

// Banner draws s inside a box width columns wide. Lines that do not fit are
// truncated with an ellipsis. CYCLEKIT_NO_BANNER=true prints s unboxed.
func Banner(s string, width int, alignment int) string {
	if suppressBanner() {
		return s + "\n"
	}

	if width <= bannerPadding {
		return ""
	}

	inner := width - bannerPadding
	parts := []string{boxTopLeft + strings.Repeat(boxTop, inner) + boxTopRight}

	for _, l := range getLines(s) {
		var line string

		switch alignment {
		case AlignCenter:
			line = padCenter(l, inner)
		case AlignLeft:
			line = padLeft(l, inner)
		case AlignRight:
			line = padRight(l, inner)
		default:
			return ""
		}

		parts = append(parts, boxSide+line+boxSide)
	}

	parts = append(parts, boxBottomLeft+strings.Repeat(boxBottom, inner)+boxBottomRight)

	return strings.Join(parts, "\n") + "\n"
}

func getLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	return strings.Split(s, "\n")
}

func countGraphic(s string) int {
	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			count++
		}
	}

	return count
}

// fit truncates text to width graphic runes and returns it with its length.
func fit(text string, width int) (string, int) {
	length := countGraphic(text)
	if length <= width {
		return text, length
	}

	var sb strings.Builder

	count := 0

	for _, r := range text {
		if unicode.IsGraphic(r) {
			if count == width-truncateReserve {
				break
			}

			count++
		}

		sb.WriteRune(r)
	}

	return sb.String() + ellipsis, count + 1
}

func padCenter(text string, width int) string {
	str, length := fit(text, width)
	diff := width - length
	left := diff / halfDivisor

	return fmt.Sprintf("%s%s%s", strings.Repeat(" ", left), str, strings.Repeat(" ", diff-left))
}

func padLeft(text string, width int) string {
	str, length := fit(text, width)

	return str + strings.Repeat(" ", width-length)
}

func padRight(text string, width int) string {
	str, length := fit(text, width)

	return strings.Repeat(" ", width-length) + str
}
