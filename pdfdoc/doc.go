// Package pdfdoc provides a pure-Go PDF document provider for the viewer
// engine, built on github.com/ledongthuc/pdf.
//
// The underlying library reads PDF structure and text but does not paint
// page content, so rasterization draws each page's extracted text onto a
// synthetic page image at the requested resolution. Page sizes come from
// the (inheritable) MediaBox; titles come from the Info dictionary with
// UTF-16 and Latin-1 string decoding and a file-name fallback.
//
// Importing this package registers it for the .pdf extension.
package pdfdoc
