package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrNoOPF = errors.New("epub: missing package document (OPF)")

// Package is the parsed OPF package document: the metadata, the manifest
// of files keyed by ID, and the spine giving reading order.
type Package struct {
	Metadata Metadata
	Manifest map[string]ManifestItem
	Spine    []SpineItem
	Version  string
}

// Metadata holds the Dublin Core fields the viewer cares about.
type Metadata struct {
	Title    string
	Creator  []string
	Language string
}

// ManifestItem is a file in the EPUB.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// SpineItem is a content document in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	Version  string   `xml:"version,attr"`
	Metadata struct {
		Title    []string `xml:"title"`
		Creator  []string `xml:"creator"`
		Language []string `xml:"language"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// parseOPF parses the package document at opfPath and returns it along
// with the directory manifest hrefs resolve against.
func parseOPF(zr *zip.Reader, opfPath string) (*Package, string, error) {
	data, err := readFile(zr, opfPath)
	if err != nil {
		return nil, "", ErrNoOPF
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", fmt.Errorf("epub: invalid package document: %w", err)
	}

	pkg := &Package{
		Version:  opf.Version,
		Manifest: make(map[string]ManifestItem, len(opf.Manifest.Items)),
	}

	if len(opf.Metadata.Title) > 0 {
		pkg.Metadata.Title = strings.TrimSpace(opf.Metadata.Title[0])
	}
	if len(opf.Metadata.Language) > 0 {
		pkg.Metadata.Language = strings.TrimSpace(opf.Metadata.Language[0])
	}
	for _, c := range opf.Metadata.Creator {
		if c = strings.TrimSpace(c); c != "" {
			pkg.Metadata.Creator = append(pkg.Metadata.Creator, c)
		}
	}

	for _, item := range opf.Manifest.Items {
		pkg.Manifest[item.ID] = ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
	}

	for _, ref := range opf.Spine.ItemRefs {
		pkg.Spine = append(pkg.Spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}

	if len(pkg.Spine) == 0 {
		return nil, "", ErrEmptySpine
	}
	return pkg, baseDir, nil
}
