// Package htmlreport reduces the fixed-structure HTML game reports to cell
// text sequences. The normalizers never see markup, only cells.
package htmlreport

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Rows returns every <tr> as a slice of its <td> texts, in document order.
// Nested markup inside a cell (font/bold tags) is flattened to its text.
func Rows(r io.Reader) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				collectTDs(c, &row)
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows, nil
}

func collectTDs(n *html.Node, row *[]string) {
	if n.Type == html.ElementNode && n.Data == "td" {
		*row = append(*row, cellText(n))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTDs(c, row)
	}
}

// cellText flattens a cell's text content. Non-breaking spaces become plain
// spaces; surrounding whitespace is trimmed.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	s := strings.ReplaceAll(b.String(), " ", " ")
	return strings.TrimSpace(s)
}
