package compile

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const bannerStyle = "font-family:monospace;font-size:12px;color:#a94442;background-color:#f2dede;border:1px solid #ebccd1;padding:8px;margin:0 0 8px 0;white-space:pre-wrap"

// WithBanner puts messages on top of the page: inside body when page has one,
// in front of the raw output otherwise. Page is returned unchanged when there
// are no messages.
func WithBanner(page string, messages []string) string {
	if len(messages) == 0 {
		return page
	}
	banner := newBanner(messages)

	// parser always synthesizes body, check the source instead
	if !strings.Contains(strings.ToLower(page), "<body") {
		return render(banner) + page
	}
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return render(banner) + page
	}
	body := findBody(root)
	if body == nil {
		return render(banner) + page
	}
	body.InsertBefore(banner, body.FirstChild)

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return render(banner) + page
	}
	return b.String()
}

func newBanner(messages []string) *html.Node {
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Div.String(),
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "class", Val: "mjed-errors"},
			{Key: "style", Val: bannerStyle},
		},
	}
	for i, msg := range messages {
		if i > 0 {
			div.AppendChild(&html.Node{Type: html.ElementNode, Data: atom.Br.String(), DataAtom: atom.Br})
		}
		div.AppendChild(&html.Node{Type: html.TextNode, Data: msg})
	}
	return div
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func render(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

// Messages lists banner lines for compilation outcome.
func Messages(res Result, err error) []string {
	var msgs []string
	if err != nil {
		msgs = append(msgs, "Compilation failed: "+err.Error())
	}
	for _, e := range res.Errors {
		msgs = append(msgs, e.String())
	}
	return msgs
}
