package ui

import (
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 120

// TerminalWidth returns the width of stdout, or DefaultWidth when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// FormatSize renders a byte count the way package managers show download sizes.
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

var titleCaser = cases.Title(language.English)

// Title capitalizes each word of s.
func Title(s string) string {
	return titleCaser.String(s)
}

// Plural picks the singular or plural noun for n.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
