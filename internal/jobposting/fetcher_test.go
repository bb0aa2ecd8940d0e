package jobposting

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFetchJobDescriptionExtractsText(t *testing.T) {
	page := `<html><head><title>nope</title></head><body>
	<script>var x = 1;</script>
	<h1>Senior Go Engineer</h1>
	<div>Build &amp; run distributed services.</div>
	<ul><li>Go</li><li>Kubernetes</li></ul>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())
	text, err := client.FetchJobDescription(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(text, "var x") {
		t.Fatalf("script content leaked into text: %q", text)
	}
	if !strings.Contains(text, "Senior Go Engineer") {
		t.Fatalf("heading missing from text: %q", text)
	}
	if !strings.Contains(text, "Build & run distributed services.") {
		t.Fatalf("entities not unescaped: %q", text)
	}
	if !strings.Contains(text, "Kubernetes") {
		t.Fatalf("list items missing from text: %q", text)
	}
}

func TestFetchJobDescriptionGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte("<p>Compressed posting body</p>"))
		zw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())
	// Default transport would decompress transparently; force the manual path
	// the way a proxy with explicit Accept-Encoding sees it.
	client.HTTPClient.Transport = &http.Transport{DisableCompression: true}

	text, err := client.FetchJobDescription(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Compressed posting body" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFetchJobDescriptionBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(zap.NewNop())
	_, err := client.FetchJobDescription(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "bad status") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	text := ExtractText("plain   text\n\n\n\nwith   gaps")
	if text != "plain text\n\nwith gaps" {
		t.Fatalf("unexpected text: %q", text)
	}
}
