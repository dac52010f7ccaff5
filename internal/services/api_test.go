package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
	tu "github.com/desertthunder/podx/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		okResponse := func() *http.Response {
			return &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: io.NopCloser(strings.NewReader("{}"))}
		}

		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			transport := &tu.RecordingTransport{Response: okResponse()}
			srv := services.NewAPIService("http://example.com", &http.Client{Transport: transport}, nil)

			if _, err := srv.Get(context.Background(), "/stats/current", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			requests := transport.Requests()
			if len(requests) != 1 {
				t.Fatalf("expected the custom client to carry 1 request, got %d", len(requests))
			}
			if got := requests[0].URL.String(); got != "http://example.com/stats/current" {
				t.Errorf("expected http://example.com/stats/current, got %s", got)
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			transport := &tu.RecordingTransport{Response: okResponse()}
			srv := services.NewAPIService("", &http.Client{Transport: transport}, nil)

			if _, err := srv.Get(context.Background(), "/stats/current", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			requests := transport.Requests()
			if len(requests) != 1 {
				t.Fatalf("expected 1 request, got %d", len(requests))
			}
			if got := requests[0].URL.String(); got != services.DefaultPodcastIndexURL+"/stats/current" {
				t.Errorf("expected the default base URL, got %s", got)
			}
			if requests[0].Header.Get("Accept") != "application/json" {
				t.Errorf("expected Accept application/json, got %q", requests[0].Header.Get("Accept"))
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/test" {
					t.Errorf("expected path '/test', got %s", r.URL.Path)
				}
				if r.URL.Query().Get("q") != "go time" {
					t.Errorf("expected query q='go time', got %q", r.URL.Query().Get("q"))
				}
				if r.Header.Get("X-Signed") != "yes" {
					t.Error("expected signer to run")
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "true"})
			}))
			defer server.Close()

			sign := func(req *http.Request) error {
				req.Header.Set("X-Signed", "yes")
				return nil
			}
			srv := services.NewAPIService(server.URL, nil, sign)
			resp, err := srv.Get(context.Background(), "/test", url.Values{"q": {"go time"}})

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected response to be decoded as JSON")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream down"))
			}))
			defer server.Close()

			resp, err := services.NewAPIService(server.URL, nil, nil).Get(context.Background(), "/", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.OK() || resp.IsJSON {
				t.Errorf("expected non-OK, non-JSON response, got %+v", resp)
			}
			if string(resp.Body) != "upstream down" {
				t.Errorf("unexpected body %q", resp.Body)
			}
		})

		t.Run("Signer Error", func(t *testing.T) {
			sign := func(req *http.Request) error { return shared.ErrMissingCredentials }
			_, err := services.NewAPIService("http://example.com", nil, sign).Get(context.Background(), "/", nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			client := &http.Client{Transport: &tu.RecordingTransport{Err: errors.New("connection refused")}}
			_, err := services.NewAPIService("http://example.com", client, nil).Get(context.Background(), "/", nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Deadline Exceeded", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
			defer cancel()

			_, err := services.NewAPIService(server.URL, nil, nil).Get(ctx, "/", nil)
			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Body Read Error", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: tu.FailingBody{}, Header: http.Header{}}
			client := &http.Client{Transport: &tu.RecordingTransport{Response: resp}}
			if _, err := services.NewAPIService("http://example.com", client, nil).Get(context.Background(), "/", nil); err == nil {
				t.Error("expected error when body cannot be read")
			}
		})
	})
}
