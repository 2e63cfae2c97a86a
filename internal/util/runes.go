package util

import "unicode/utf8"

// RuneLen is the character length used for every correction offset.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// Slice returns s[start:end] in rune offsets, clamped to the string.
func Slice(runes []rune, start, end int) string {
	start = max(0, min(start, len(runes)))
	end = max(start, min(end, len(runes)))
	return string(runes[start:end])
}
