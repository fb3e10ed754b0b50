package process

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLines returns line oriented difference of two texts: removed lines are
// prefixed with "- ", added with "+ " and common with two spaces. Result is
// empty when texts are equal.
func DiffLines(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var (
		out     strings.Builder
		changed bool
	)
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, changed = "+ ", true
		case diffpatch.DiffDelete:
			prefix, changed = "- ", true
		}
		for line := range strings.Lines(d.Text) {
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	if !changed {
		return ""
	}
	return out.String()
}
