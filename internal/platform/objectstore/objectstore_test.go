package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

func TestFSSinkPut(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if err := sink.Put(context.Background(), "audit/snapshot.json", strings.NewReader(`{"ok":true}`), "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "audit", "snapshot.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Fatalf("content: got %q", got)
	}
	if uri := sink.URI("audit/snapshot.json"); !strings.HasPrefix(uri, "file://") || !strings.HasSuffix(uri, "audit/snapshot.json") {
		t.Fatalf("URI: unexpected %q", uri)
	}
}

func TestFSSinkRejectsEscapingKeys(t *testing.T) {
	sink, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	for _, key := range []string{"", "../x", "a/../../b", "a//b"} {
		if err := sink.Put(context.Background(), key, strings.NewReader("x"), ""); err == nil {
			t.Fatalf("Put(%q): expected error", key)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "ftp"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := Open(context.Background(), Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

type recordingTransport struct {
	mu     sync.Mutex
	method string
	path   string
	body   []byte
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.method = req.Method
	rt.path = req.URL.Path
	if req.Body != nil {
		rt.body, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Etag": []string{`"etag"`}},
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func TestS3SinkPut(t *testing.T) {
	rt := &recordingTransport{}
	sink, err := NewS3(context.Background(), S3Config{
		Bucket:    "registry-audit",
		Endpoint:  "https://mock.s3.local",
		PathStyle: true,
	},
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
		config.WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	if err := sink.Put(context.Background(), "exports/snapshot.json", strings.NewReader("payload"), "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rt.method != http.MethodPut || rt.path != "/registry-audit/exports/snapshot.json" {
		t.Fatalf("request: %s %s", rt.method, rt.path)
	}
	if !bytes.Contains(rt.body, []byte("payload")) {
		t.Fatalf("request body missing payload: %q", rt.body)
	}
	if uri := sink.URI("exports/snapshot.json"); uri != "s3://registry-audit/exports/snapshot.json" {
		t.Fatalf("URI: got %q", uri)
	}
}
