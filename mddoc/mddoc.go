// Package mddoc provides a Markdown document provider for the viewer
// engine, built on github.com/yuin/goldmark. The Markdown AST is flattened
// into text lines (headings set off by blank lines, list items with
// markers, fenced code verbatim), paginated into fixed-size pages, and
// rasterized as synthetic text pages.
//
// The title is the first level-1 heading, falling back to the file name.
//
// Importing this package registers it for the .md and .markdown
// extensions.
package mddoc

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tsawler/lectern/document"
	"github.com/tsawler/lectern/model"
	"github.com/tsawler/lectern/raster"
)

func init() {
	document.Register(".md", Open)
	document.Register(".markdown", Open)
}

// Doc is a document.Document backed by paginated Markdown text.
type Doc struct {
	pages [][]string
	size  model.Size
	title string
}

// Open parses the Markdown file at path.
func Open(path string) (document.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open markdown %s: %w", path, err)
	}

	doc := FromBytes(src)
	doc.title = document.CleanTitle(doc.title, path)
	return doc, nil
}

// FromBytes parses Markdown source.
func FromBytes(src []byte) *Doc {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	size := raster.DefaultPageSize
	flat, title := flatten(root, src)

	return &Doc{
		pages: raster.Paginate(flat, size),
		size:  size,
		title: title,
	}
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

// Title returns the first level-1 heading, falling back to the file name.
func (d *Doc) Title() string {
	return d.title
}

// Close is a no-op; nothing is held open after parsing.
func (d *Doc) Close() error {
	return nil
}

// flatten walks the document's top-level blocks collecting text, and
// returns the first level-1 heading as the title.
func flatten(root ast.Node, src []byte) (flat, title string) {
	var blocks []string

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := string(node.Text(src))
			if node.Level == 1 && title == "" {
				title = heading
			}
			blocks = append(blocks, heading)

		case *ast.List:
			var items []string
			marker := "- "
			if node.IsOrdered() {
				marker = "" // numbered below
			}
			i := node.Start
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				line := string(nodeText(item, src))
				if node.IsOrdered() {
					items = append(items, fmt.Sprintf("%d. %s", i, line))
					i++
				} else {
					items = append(items, marker+line)
				}
			}
			blocks = append(blocks, strings.Join(items, "\n"))

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, codeLines(n, src))

		default:
			if para := string(nodeText(n, src)); para != "" {
				blocks = append(blocks, para)
			}
		}
	}

	return strings.Join(blocks, "\n\n"), title
}

// nodeText collects the raw text of a node's inline content.
func nodeText(n ast.Node, src []byte) []byte {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString(" ")
			}
		}
		return ast.WalkContinue, nil
	})
	return []byte(strings.TrimSpace(b.String()))
}

// codeLines returns a code block's lines verbatim.
func codeLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}
