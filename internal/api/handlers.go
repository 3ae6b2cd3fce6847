package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chaturmeyts/coeimg/internal/coe"
	"github.com/go-chi/chi/v5"
)

// fieldAliases maps legacy route names onto template fields. year_level
// has always served the acad_year crop.
var fieldAliases = map[string]coe.Field{
	"year_level": coe.FieldAcadYear,
}

// loadCOE reads the uploaded "coe" form file and runs it through
// load+normalize. On failure it writes the error response itself and
// returns false.
func (s *Server) loadCOE(w http.ResponseWriter, r *http.Request) (*coe.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("coe")
	if err != nil {
		jsonError(w, "coe file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, "file exceeds max size", http.StatusRequestEntityTooLarge)
		return nil, false
	}

	// The filename is logged but never trusted for dispatch; content is
	// self-detected by the loader.
	s.log.Info("processing coe upload",
		"filename", sanitizeFilename(header.Filename),
		"bytes", len(data),
	)

	doc, err := coe.Load(data)
	if err != nil {
		s.extractionError(w, err)
		return nil, false
	}
	doc.Normalize()
	return doc, true
}

func (s *Server) handleFullImage(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCOE(w, r)
	if !ok {
		return
	}
	img, err := doc.Image()
	if err != nil {
		s.extractionError(w, err)
		return
	}
	writePNG(w, img)
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "field")

	doc, ok := s.loadCOE(w, r)
	if !ok {
		return
	}

	var img image.Image
	var err error
	switch name {
	case "top_band":
		img, err = doc.TopBand()
	case "bottom_band":
		img, err = doc.BottomBand()
	default:
		field := coe.Field(name)
		if alias, ok := fieldAliases[name]; ok {
			field = alias
		}
		img, err = doc.ExtractField(field)
	}
	if err != nil {
		s.extractionError(w, err)
		return
	}
	writePNG(w, img)
}

func (s *Server) handleClassRows(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCOE(w, r)
	if !ok {
		return
	}

	rows, err := doc.ExtractClassRows()
	if err != nil {
		s.extractionError(w, err)
		return
	}

	type rowPayload struct {
		ClassCode   string `json:"class_code"`
		SubjectName string `json:"subject_name"`
		Schedule    string `json:"schedule"`
		UnitCount   string `json:"unit_count"`
	}
	payload := make([]rowPayload, 0, len(rows))
	for _, row := range rows {
		p := rowPayload{
			ClassCode:   pngBase64(row.ClassCode),
			SubjectName: pngBase64(row.SubjectName),
			Schedule:    pngBase64(row.Schedule),
			UnitCount:   pngBase64(row.UnitCount),
		}
		payload = append(payload, p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(payload),
		"classes": payload,
	})
}

// extractionError maps core errors onto HTTP statuses: bad input is the
// client's fault, everything else is ours.
func (s *Server) extractionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coe.ErrUnsupportedFormat),
		errors.Is(err, coe.ErrNoEmbeddedImage),
		errors.Is(err, coe.ErrInvalidField):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("extraction failed", "error", err)
		jsonError(w, "an unexpected error occurred", http.StatusInternalServerError)
	}
}

func writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		jsonError(w, "failed to encode image", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func pngBase64(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
