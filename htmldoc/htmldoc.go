// Package htmldoc provides an HTML document provider for the viewer
// engine. The HTML is parsed once, block-level text is flattened into
// lines, and the lines are paginated into fixed-size pages that rasterize
// as synthetic text pages.
//
// The document title comes from the <title> element with a file-name
// fallback. Script, style, and head content never contributes text.
//
// Importing this package registers it for the .html and .htm extensions.
package htmldoc

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/raster"
)

func init() {
	document.Register(".html", Open)
	document.Register(".htm", Open)
}

// Doc is a document.Document backed by paginated HTML text.
type Doc struct {
	pages [][]string
	size  model.Size
	title string
}

// Open parses the HTML file at path.
func Open(path string) (document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html %s: %w", path, err)
	}
	defer f.Close()

	doc, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", path, err)
	}

	doc.title = document.CleanTitle(doc.title, path)
	return doc, nil
}

// FromReader parses HTML from an io.Reader.
func FromReader(r io.Reader) (*Doc, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	size := raster.DefaultPageSize
	text := flatten(root)

	return &Doc{
		pages: raster.Paginate(text, size),
		size:  size,
		title: document.CleanTitle(titleOf(root), ""),
	}, nil
}

// PageCount returns the number of paginated pages.
func (d *Doc) PageCount() int {
	return len(d.pages)
}

// PageSize returns the synthetic page size in points.
func (d *Doc) PageSize(index int) (model.Size, error) {
	if index < 0 || index >= len(d.pages) {
		return model.Size{}, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return d.size, nil
}

// PageText returns the page's flattened text.
func (d *Doc) PageText(index int) (string, error) {
	if index < 0 || index >= len(d.pages) {
		return "", fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return strings.Join(d.pages[index], "\n"), nil
}

// Rasterize draws the page's text lines at the requested resolution.
func (d *Doc) Rasterize(index, dpi int) (image.Image, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("%w: %d", document.ErrPageOutOfRange, index)
	}
	return raster.RenderPage(d.pages[index], d.size, dpi), nil
}

// Title returns the <title> text, falling back to the file name.
func (d *Doc) Title() string {
	return d.title
}

// Close is a no-op; nothing is held open after parsing.
func (d *Doc) Close() error {
	return nil
}

// Flatten parses HTML and returns its block-level text, one line per
// block, along with a display title taken from the <title> element or the
// first heading. The epub provider uses it to flatten chapter content.
func Flatten(r io.Reader) (text, title string, err error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("parsing HTML: %w", err)
	}

	title = titleOf(root)
	if title == "" {
		for _, tag := range []string{"h1", "h2", "h3"} {
			if node := findElement(root, tag); node != nil {
				title = textContent(node)
				break
			}
		}
	}
	return flatten(root), title, nil
}

// blockElements start a new line when flattening. Values distinguish
// elements followed by a blank separator line.
var blockElements = map[string]bool{
	"p": true, "div": false, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": false, "ol": false, "li": false, "table": true, "tr": false,
	"blockquote": true, "pre": true, "br": false, "header": false,
	"footer": false, "main": false,
}

// skippedElements contribute no text at all.
var skippedElements = map[string]bool{
	"script": true, "style": true, "head": true, "noscript": true,
	"template": true,
}

// flatten walks the node tree collecting block-level text lines.
func flatten(root *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if _, block := blockElements[n.Data]; block {
				endLine(&b)
			}
			if n.Data == "li" {
				b.WriteString("- ")
			}
		}

		if n.Type == html.TextNode {
			if text := collapseSpace(n.Data); text != "" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") && !strings.HasSuffix(b.String(), " ") && !strings.HasSuffix(b.String(), "- ") {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			if separate, block := blockElements[n.Data]; block {
				endLine(&b)
				if separate {
					b.WriteString("\n")
				}
			}
		}
	}

	walk(root)
	return strings.TrimSpace(b.String())
}

func endLine(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleOf returns the text of the first <title> element.
func titleOf(root *html.Node) string {
	if node := findElement(root, "title"); node != nil {
		return textContent(node)
	}
	return ""
}

// findElement returns the first element with the given tag name in
// document order.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tagName); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
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
	return strings.TrimSpace(b.String())
}
