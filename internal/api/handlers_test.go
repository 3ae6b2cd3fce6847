package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chaturmeyts/coeimg/internal/config"
)

func testServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(log, config.Load())
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("coe", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodePNGResponse(t *testing.T, rec *httptest.ResponseRecorder) image.Image {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode response png: %v", err)
	}
	return img
}

func TestImage_FullReturnsCanonicalPNG(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	// The filename extension is informational only; content decides.
	srv.ServeHTTP(rec, uploadRequest(t, "/image", "scan.bin", testPNG(t, 600, 800)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	img := decodePNGResponse(t, rec)
	if img.Bounds().Dx() != 850 || img.Bounds().Dy() != 1000 {
		t.Errorf("expected 850x1000, got %v", img.Bounds())
	}
}

func TestImage_FieldCrops(t *testing.T) {
	tests := []struct {
		path string
		w, h int
	}{
		{"/image/top_band", 850, 60},
		{"/image/bottom_band", 520, 694},
		{"/image/student_name", 400, 20},
		{"/image/course", 400, 20},
		{"/image/student_no", 150, 20},
		{"/image/acad_year", 150, 20},
		{"/image/year_level", 150, 20}, // alias of acad_year
		{"/image/semester", 250, 17},
		{"/image/block_no", 100, 25},
	}

	srv := testServer()
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, uploadRequest(t, tc.path, "coe.png", testPNG(t, 600, 800)))

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", tc.path, rec.Code, rec.Body.String())
			continue
		}
		img := decodePNGResponse(t, rec)
		if img.Bounds().Dx() != tc.w || img.Bounds().Dy() != tc.h {
			t.Errorf("%s: expected %dx%d, got %v", tc.path, tc.w, tc.h, img.Bounds())
		}
	}
}

func TestImage_UnknownField(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/image/birthday", "coe.png", testPNG(t, 600, 800)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid field") {
		t.Errorf("expected invalid field error, got %s", rec.Body.String())
	}
}

func TestImage_MissingFile(t *testing.T) {
	srv := testServer()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("note", "no file here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImage_GarbageUpload(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/image", "coe.pdf", []byte("not an image at all")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("expected json error body, got %s", rec.Body.String())
	}
}

func TestClasses_ReturnsFourteenRows(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/image/classes", "coe.png", testPNG(t, 600, 800)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count   int `json:"count"`
		Classes []struct {
			ClassCode   string `json:"class_code"`
			SubjectName string `json:"subject_name"`
			Schedule    string `json:"schedule"`
			UnitCount   string `json:"unit_count"`
		} `json:"classes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Count != 14 || len(resp.Classes) != 14 {
		t.Fatalf("expected 14 classes, got count=%d len=%d", resp.Count, len(resp.Classes))
	}

	// Spot-check the first row's class code decodes to a 90x45 PNG.
	raw, err := base64.StdEncoding.DecodeString(resp.Classes[0].ClassCode)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode class code png: %v", err)
	}
	if img.Bounds().Dx() != 90 || img.Bounds().Dy() != 45 {
		t.Errorf("expected 90x45 class code crop, got %v", img.Bounds())
	}
}

func TestRoot_Greeting(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "klasmeyts") {
		t.Errorf("expected greeting, got %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("expected ok status, got %s", rec.Body.String())
	}
}

func TestDocs_RendersHTML(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h1") || !strings.Contains(body, "COE Image API") {
		t.Errorf("expected rendered documentation, got %s", body)
	}
}
