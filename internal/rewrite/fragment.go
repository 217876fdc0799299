package rewrite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses an HTML fragment in a body context so that no
// html/head/body wrappers are added around it.
func parseFragment(fragment string) (*goquery.Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(body), nil
}

// renderFragment serializes the children of the fragment root.
func renderFragment(doc *goquery.Document) (string, error) {
	out, err := doc.Selection.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render fragment: %w", err)
	}
	return out, nil
}
