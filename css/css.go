// Package css handles inline style attribute values.
package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is single "name: value" pair of inline style.
type Declaration struct {
	Name  string
	Value string
}

func (d Declaration) String() string {
	return d.Name + ":" + d.Value
}

// ParseDeclarations tokenizes inline style. Property names are lower-cased,
// values are rebuilt from tokens (see joinValues). When property is declared
// more than once the last value wins and keeps position of the first
// declaration. Custom properties are preserved, broken declarations skipped.
func ParseDeclarations(style string) []Declaration {
	var (
		decls []Declaration
		index = make(map[string]int)
	)
	add := func(name, value string) {
		if name == "" || value == "" {
			return
		}
		if i, ok := index[name]; ok {
			decls[i].Value = value
			return
		}
		index[name] = len(decls)
		decls = append(decls, Declaration{Name: name, Value: value})
	}

	p := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return decls
		case css.DeclarationGrammar:
			add(strings.ToLower(string(data)), joinValues(p.Values()))
		case css.CustomPropertyGrammar:
			add(string(data), strings.TrimSpace(joinValues(p.Values())))
		}
	}
}

// joinValues builds value from tokens. Whitespace runs become single space.
// Tokenizer does not report spaces around commas, so lists come out compact
// ("rgb(0,0,0)"), and "!" of priority is always preceded by a space.
func joinValues(tokens []css.Token) string {
	var b strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pendingSpace = b.Len() > 0
			continue
		}
		if t.TokenType == css.DelimToken && len(t.Data) == 1 && t.Data[0] == '!' && b.Len() > 0 {
			pendingSpace = true
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// FormatDeclarations renders declarations as compact "k:v;k2:v2".
func FormatDeclarations(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		if d.Name == "" || d.Value == "" {
			continue
		}
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ";")
}

// Normalize is FormatDeclarations(ParseDeclarations(style)).
func Normalize(style string) string {
	return FormatDeclarations(ParseDeclarations(style))
}
