package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/tsawler/lectern/document"
)

var (
	ErrNoContainer    = errors.New("epub: missing META-INF/container.xml")
	ErrNoRootfile     = errors.New("epub: no rootfile found in container.xml")
	ErrMissingContent = errors.New("epub: referenced content file not found")
)

// containerXML is the structure of META-INF/container.xml, which points at
// the package document.
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// parseContainer returns the archive path of the OPF package document.
func parseContainer(zr *zip.Reader) (string, error) {
	data, err := readFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", ErrNoContainer
	}

	var container containerXML
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", fmt.Errorf("epub: invalid container.xml: %w", err)
	}

	for _, rf := range container.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" && rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	return "", ErrNoRootfile
}

// readFile reads a file from the archive by exact name.
func readFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingContent, name)
}

// resolveHref resolves a manifest href against the OPF's directory.
func resolveHref(baseDir, href string) string {
	if decoded, err := url.QueryUnescape(href); err == nil {
		href = decoded
	}
	if baseDir == "" {
		return href
	}
	return path.Join(baseDir, href)
}

// encryptionXML is the structure of META-INF/encryption.xml.
type encryptionXML struct {
	XMLName       xml.Name `xml:"encryption"`
	EncryptedData []struct {
		EncryptionMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
		CipherData struct {
			CipherReference struct {
				URI string `xml:"URI,attr"`
			} `xml:"CipherReference"`
		} `xml:"CipherData"`
	} `xml:"EncryptedData"`
}

// checkForDRM rejects books whose content is DRM-protected. An Adobe ADEPT
// rights file always means DRM. Entries in encryption.xml mean DRM only
// when they cover content files; font obfuscation is tolerated.
func checkForDRM(zr *zip.Reader) error {
	for _, f := range zr.File {
		switch f.Name {
		case "META-INF/rights.xml":
			return fmt.Errorf("epub: DRM rights file present: %w", document.ErrEncrypted)

		case "META-INF/encryption.xml":
			data, err := readFile(zr, f.Name)
			if err != nil {
				return fmt.Errorf("epub: unreadable encryption.xml: %w", document.ErrEncrypted)
			}
			var enc encryptionXML
			if err := xml.Unmarshal(data, &enc); err != nil {
				return fmt.Errorf("epub: unparseable encryption.xml: %w", document.ErrEncrypted)
			}
			for _, ed := range enc.EncryptedData {
				if isFontObfuscation(ed.EncryptionMethod.Algorithm) {
					continue
				}
				if isContentFile(ed.CipherData.CipherReference.URI) {
					return fmt.Errorf("epub: encrypted content: %w", document.ErrEncrypted)
				}
			}
		}
	}
	return nil
}

// isFontObfuscation reports whether the algorithm is one of the Adobe or
// IDPF font obfuscation schemes, which exist to deter font extraction and
// do not protect content.
func isFontObfuscation(algorithm string) bool {
	if !strings.Contains(algorithm, "obfuscation") {
		return false
	}
	return strings.Contains(algorithm, "adobe.com") || strings.Contains(algorithm, "idpf.org")
}

func isContentFile(uri string) bool {
	uri = strings.ToLower(uri)
	for _, ext := range []string{".xhtml", ".html", ".htm", ".xml", ".css"} {
		if strings.HasSuffix(uri, ext) {
			return true
		}
	}
	return false
}
