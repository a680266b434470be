package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxImageNumber = math.MaxUint16

// imageNameRegex matches eg "XY-[section-a]-0.png". The two letters are a tag and are not used.
var imageNameRegex = regexp.MustCompile(`^[A-Z]{2}-\[([\p{L}\p{M}\p{Nd}\p{Pc}-]+)\]-([0-9]+)\.png$`)

// MatchImageName extracts the section token and the ordering number from a file name.
// A name that does not follow the convention returns ok == false and no error.
// A name that follows it but carries a number wider than uint16 returns a *NumberOverflowError.
func MatchImageName(name string) (token string, number uint16, ok bool, err error) {
	caps := imageNameRegex.FindStringSubmatch(name)
	if caps == nil {
		return "", 0, false, nil
	}

	n, err := strconv.ParseUint(caps[2], 10, 16)
	if err != nil {
		return caps[1], 0, true, &NumberOverflowError{File: name, Number: caps[2]}
	}

	return caps[1], uint16(n), true, nil
}

// SectionFile returns the page name for a section token, eg "section-a" -> "section-a.html".
func SectionFile(token string) string {
	return token + ".html"
}

// FormatName turns a file token into a label: "new-post" -> "New Post".
// Empty segments are kept as empty words.
func FormatName(token string) string {
	if token == "" {
		return ""
	}

	words := strings.Split(token, "-")
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}

	return strings.Join(words, " ")
}

const upperHex = "0123456789ABCDEF"

// EscapeFileName percent-encodes a file name for href and src attributes.
// Only ASCII letters, digits and "*-._" pass through, every other byte becomes %XX.
func EscapeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for i := 0; i < len(name); i++ {
		c := name[i]
		if shouldPassThrough(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}

	return b.String()
}

func shouldPassThrough(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}
