// Package compile talks to external markup to HTML compiler.
package compile

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Error is single validation message reported by compiler.
type Error struct {
	Line    int
	Message string
	TagName string
}

func (e Error) String() string {
	switch {
	case e.Line > 0 && e.TagName != "":
		return fmt.Sprintf("line %d (%s): %s", e.Line, e.TagName, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result of single compilation. HTML may be present together with errors.
type Result struct {
	HTML   string
	Errors []Error
}

// Compiler turns template markup into HTML.
type Compiler interface {
	Compile(ctx context.Context, markup string) (Result, error)
}

// "Line 8 of /tmp/in.mjml (mj-column) — Attribute foo is illegal"
var reValidation = regexp.MustCompile(`^Line (\d+)(?: of [^(]*)?\s*\(([^)]*)\)\s*(?:—|-{1,2})\s*(.*)$`)

// ParseErrors extracts validation messages from compiler diagnostics output.
// Lines which do not look like validation messages are kept as is.
func ParseErrors(out string) []Error {
	var errs []Error
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := reValidation.FindStringSubmatch(line)
		if m == nil {
			errs = append(errs, Error{Message: line})
			continue
		}
		n, _ := strconv.Atoi(m[1])
		errs = append(errs, Error{Line: n, TagName: m[2], Message: strings.TrimSpace(m[3])})
	}
	return errs
}
