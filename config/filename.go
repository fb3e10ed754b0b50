package config

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameLen = 200

// CleanFileName makes single file name out of arbitrary text: characters not
// allowed by the OS and control characters are removed, surrounding spaces
// and dots are dropped and result is limited to maxFileNameLen bytes.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbiddenFileNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.Trim(out, " .")
	if len(out) > maxFileNameLen {
		cut := maxFileNameLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = strings.TrimRight(out[:cut], " .")
	}
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
