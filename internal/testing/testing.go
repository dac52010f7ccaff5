// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// ErrInjected is returned by the failing doubles in this package.
var ErrInjected = errors.New("injected failure")

// FailingWriter rejects every write.
type FailingWriter struct{}

func (FailingWriter) Write(p []byte) (int, error) { return 0, ErrInjected }

// LimitedWriter forwards the first Allowed writes to Target and rejects the rest.
type LimitedWriter struct {
	Allowed int
	Target  io.Writer

	writes int
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.writes >= l.Allowed {
		return 0, ErrInjected
	}
	l.writes++
	return l.Target.Write(p)
}

// FailingBody is a response body whose reads fail.
type FailingBody struct{}

func (FailingBody) Read(p []byte) (int, error) { return 0, ErrInjected }
func (FailingBody) Close() error               { return nil }

// RecordingTransport answers every request with Response (or Err) and keeps the requests it saw.
type RecordingTransport struct {
	Response *http.Response
	Err      error

	mu       sync.Mutex
	requests []*http.Request
}

func (rt *RecordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.requests = append(rt.requests, req)
	rt.mu.Unlock()

	if rt.Err != nil {
		return nil, rt.Err
	}
	return rt.Response, nil
}

// Requests returns the requests seen so far.
func (rt *RecordingTransport) Requests() []*http.Request {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]*http.Request(nil), rt.requests...)
}

// MustChdir switches to dir for the rest of the test and restores the previous directory on cleanup.
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("failed to restore working directory %s: %v", wd, err)
		}
	})
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("file does not exist: %s", path)
		return
	}
	if info.IsDir() {
		t.Errorf("expected a file, found a directory: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(content)
}
