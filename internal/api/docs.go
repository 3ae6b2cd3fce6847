package api

import (
	"bytes"
	_ "embed"
	"net/http"

	"github.com/yuin/goldmark"
)

//go:embed docs.md
var docsMarkdown []byte

// renderDocs converts the embedded API documentation to HTML once at
// server construction.
func renderDocs() []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>COE Image API</title></head><body>\n")
	if err := goldmark.New().Convert(docsMarkdown, &buf); err != nil {
		return []byte("<!DOCTYPE html><html><body><p>documentation unavailable</p></body></html>")
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes()
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.docs)
}
