// Package uploadtest builds multipart requests for handler tests.
package uploadtest

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// Minimal byte prefixes that sniff as the named image type.
var (
	PNG  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	JPEG = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	GIF  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
)

// File is one multipart file part.
type File struct {
	Field string
	Name  string
	Data  []byte
}

// Image returns a PNG part in the "images" field.
func Image(name string) File {
	return File{Field: "images", Name: name, Data: PNG}
}

// NewRequest builds a multipart/form-data request carrying fields and files.
func NewRequest(t *testing.T, method, target string, fields url.Values, files ...File) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range fields {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field %s: %v", key, err)
			}
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("create form file %s: %v", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("write form file %s: %v", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
