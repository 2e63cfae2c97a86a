package util

// Levenshtein returns the edit distance between two strings, counted in runes.
func Levenshtein(a, b string) int {
	return LevenshteinRunes([]rune(a), []rune(b))
}

// LevenshteinRunes is Levenshtein over pre-decoded runes.
// Keeps a single rolling row; the shorter input is used for the row.
func LevenshteinRunes(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			up := row[j]
			best := diag
			if a[i-1] != b[j-1] {
				best = min(diag, up, row[j-1]) + 1
			}
			row[j] = best
			diag = up
		}
	}
	return row[len(b)]
}
