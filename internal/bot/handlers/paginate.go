package handlers

import "strings"

// Paginate splits text into pages of at most pageLength bytes, breaking on
// line boundaries where possible. Lines longer than a page are split on rune
// boundaries.
func Paginate(text string, pageLength int) []string {
	if pageLength <= 0 {
		pageLength = 2000
	}
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	var pages []string
	var page strings.Builder
	flush := func() {
		if page.Len() > 0 {
			pages = append(pages, page.String())
			page.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > pageLength {
			flush()
			cut := runeCut(line, pageLength)
			pages = append(pages, line[:cut])
			line = line[cut:]
		}
		needed := len(line)
		if page.Len() > 0 {
			needed++
		}
		if page.Len()+needed > pageLength {
			flush()
		}
		if page.Len() > 0 {
			page.WriteByte('\n')
		}
		page.WriteString(line)
	}
	flush()
	return pages
}

// runeCut returns the largest index <= n that falls on a rune boundary of s.
func runeCut(s string, n int) int {
	for n > 0 && n < len(s) && !isRuneStart(s[n]) {
		n--
	}
	return n
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
