package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func seedBlob(t *testing.T, store BlobStore, donorID, category, fileName, contentType, content string) *BlobMetadata {
	t.Helper()
	meta := BlobMetadata{
		FileName:    fileName,
		ContentType: contentType,
		DonorID:     donorID,
		Category:    category,
		CreatedBy:   "test-user",
		Tags:        map[string]string{"source": "unit-test"},
	}
	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("seedBlob: %v", err)
	}
	return result
}

func TestInMemoryBlobStore_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "%PDF-1.4 fake lab report"

	meta := BlobMetadata{
		FileName:    "lab-report.pdf",
		ContentType: "application/pdf",
		DonorID:     "donor-1",
		Category:    "lab-report",
		CreatedBy:   "user-1",
	}

	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if result.Size != int64(len(content)) {
		t.Errorf("expected Size=%d, got %d", len(content), result.Size)
	}
	if result.Hash == "" {
		t.Fatal("expected non-empty Hash")
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("expected non-zero CreatedAt")
	}
}

func TestInMemoryBlobStore_UploadValidation(t *testing.T) {
	store := NewInMemoryBlobStore()

	tests := []struct {
		name    string
		meta    BlobMetadata
		wantErr error
	}{
		{
			name:    "missing file name",
			meta:    BlobMetadata{ContentType: "application/pdf"},
			wantErr: ErrMissingFileName,
		},
		{
			name:    "rejected content type",
			meta:    BlobMetadata{FileName: "x.exe", ContentType: "application/octet-stream"},
			wantErr: ErrInvalidContentType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Upload(context.Background(), tt.meta, strings.NewReader("x"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInMemoryBlobStore_DownloadRoundTrip(t *testing.T) {
	store := NewInMemoryBlobStore()
	seeded := seedBlob(t, store, "donor-1", "lab-report", "r.pdf", "application/pdf", "report body")

	rc, meta, err := store.Download(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "report body" {
		t.Errorf("content = %q, want %q", data, "report body")
	}
	if meta.FileName != "r.pdf" {
		t.Errorf("file name = %q", meta.FileName)
	}
}

func TestInMemoryBlobStore_DownloadMissing(t *testing.T) {
	store := NewInMemoryBlobStore()
	if _, _, err := store.Download(context.Background(), "no-such-id"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("err = %v, want ErrBlobNotFound", err)
	}
}

func TestInMemoryBlobStore_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	seeded := seedBlob(t, store, "donor-1", "other", "a.png", "image/png", "png bytes")

	if err := store.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetMetadata(context.Background(), seeded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound after delete, got %v", err)
	}
	if err := store.Delete(context.Background(), seeded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("double delete err = %v, want ErrBlobNotFound", err)
	}
}

func TestInMemoryBlobStore_ListByDonor(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "donor-1", "lab-report", "a.pdf", "application/pdf", "a")
	seedBlob(t, store, "donor-1", "id-document", "b.png", "image/png", "b")
	seedBlob(t, store, "donor-2", "lab-report", "c.pdf", "application/pdf", "c")

	items, total, err := store.ListByDonor(context.Background(), "donor-1", "", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("got %d items (total %d), want 2", len(items), total)
	}

	items, total, err = store.ListByDonor(context.Background(), "donor-1", "lab-report", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].FileName != "a.pdf" {
		t.Errorf("category filter failed: total=%d items=%+v", total, items)
	}
}

func TestInMemoryBlobStore_Search(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "donor-1", "lab-report", "hemoglobin.pdf", "application/pdf", "a")
	seedBlob(t, store, "donor-1", "other", "selfie.jpeg", "image/jpeg", "b")

	items, total, err := store.Search(context.Background(), SearchParams{FileName: "hemo"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].FileName != "hemoglobin.pdf" {
		t.Errorf("file name search failed: total=%d", total)
	}

	items, total, err = store.Search(context.Background(), SearchParams{ContentType: "image/jpeg"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].FileName != "selfie.jpeg" {
		t.Errorf("content type search failed: total=%d", total)
	}
}

func multipartUpload(t *testing.T, fileName, contentType, content string, fields map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + fileName + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestBlobHandler_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	h := NewBlobHandler(store)
	e := echo.New()

	req, rec := multipartUpload(t, "report.pdf", "application/pdf", "%PDF fake", map[string]string{
		"donor_id": "donor-9",
		"category": "lab-report",
	})
	c := e.NewContext(req, rec)

	if err := h.handleUpload(c); err != nil {
		t.Fatalf("handleUpload: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var meta BlobMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.DonorID != "donor-9" || meta.Category != "lab-report" {
		t.Errorf("metadata not carried through: %+v", meta)
	}
}

func TestBlobHandler_UploadRejectsContentType(t *testing.T) {
	h := NewBlobHandler(NewInMemoryBlobStore())
	e := echo.New()

	req, rec := multipartUpload(t, "tool.exe", "application/octet-stream", "MZ", nil)
	c := e.NewContext(req, rec)

	if err := h.handleUpload(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestBlobHandler_DownloadMissing(t *testing.T) {
	h := NewBlobHandler(NewInMemoryBlobStore())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.handleDownload(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
