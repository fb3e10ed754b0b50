package config

import (
	"errors"
	"fmt"
	"strings"
)

// Specification of produced output.
type OutputFmt int

const (
	OutputFmtJson OutputFmt = iota
	OutputFmtMarkup
	OutputFmtHtml
)

var ErrInvalidOutputFmt = errors.New("not a valid OutputFmt")

var outputFmtNames = []string{"json", "markup", "html"}

// OutputFmtNames returns list of possible string values of OutputFmt.
func OutputFmtNames() []string {
	return append([]string(nil), outputFmtNames...)
}

func (o OutputFmt) String() string {
	if o.IsValid() {
		return outputFmtNames[o]
	}
	return fmt.Sprintf("OutputFmt(%d)", o)
}

func (o OutputFmt) IsValid() bool {
	return o >= OutputFmtJson && o <= OutputFmtHtml
}

func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range outputFmtNames {
		if strings.EqualFold(n, name) {
			return OutputFmt(i), nil
		}
	}
	return OutputFmt(0), fmt.Errorf("%s is %w", name, ErrInvalidOutputFmt)
}

func (o OutputFmt) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OutputFmt) UnmarshalText(text []byte) error {
	v, err := ParseOutputFmt(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtJson:
		return ".json"
	case OutputFmtMarkup:
		return ".mjml"
	case OutputFmtHtml:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
