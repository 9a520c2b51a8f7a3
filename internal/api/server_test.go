package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"moodtunes/internal/mood"
	"moodtunes/internal/video"
)

type mockAnalyzer struct {
	result mood.Result
	texts  []string
}

func (m *mockAnalyzer) Analyze(_ context.Context, text string) mood.Result {
	m.texts = append(m.texts, text)
	return m.result
}

func mapResolver(ids map[string]string, failing string) video.Resolver {
	return video.ResolverFunc(func(_ context.Context, q string) (string, error) {
		if q == failing {
			return "", errors.New("quota exceeded")
		}
		if id, ok := ids[q]; ok {
			return id, nil
		}
		return "", video.ErrNotFound
	})
}

func TestVideoSearch(t *testing.T) {
	t.Parallel()

	h := NewServer(&mockAnalyzer{}, mapResolver(map[string]string{"Hurt Johnny Cash": "abc"}, "boom"), Options{})

	cases := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"found", "/api/video-search?q=Hurt+Johnny+Cash", http.StatusOK, `"videoId":"abc"`},
		{"missing q", "/api/video-search", http.StatusBadRequest, "Missing query parameter"},
		{"blank q", "/api/video-search?q=+", http.StatusBadRequest, "Missing query parameter"},
		{"no results", "/api/video-search?q=unknown", http.StatusNotFound, "No video found"},
		{"call failure", "/api/video-search?q=boom", http.StatusInternalServerError, "Video search failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("Status Code: got %d, want %d", rec.Code, tc.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("Response Body: got %q, want substring %q", rec.Body.String(), tc.wantBody)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q", ct)
			}
		})
	}
}

func TestVideoSearchFallbackResolver(t *testing.T) {
	t.Parallel()

	h := NewServer(&mockAnalyzer{}, video.Fallback{}, Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/video-search?q=a", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status Code: got %d", rec.Code)
	}
	var resp videoSearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.VideoID != "CevxZvSJLk8" {
		t.Fatalf("videoId: %q", resp.VideoID)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	result := mood.Result{
		Mood:      "calm",
		Intensity: 4,
		Emotions:  []string{"peaceful"},
		Songs:     []mood.Song{{Title: "Weightless", Artist: "Marconi Union", Reason: "Slow", VideoID: "x"}},
		IsDemo:    true,
	}

	t.Run("OK", func(t *testing.T) {
		a := &mockAnalyzer{result: result}
		h := NewServer(a, video.Fallback{}, Options{})

		body, _ := json.Marshal(map[string]string{"text": "quiet evening"})
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status Code: got %d, body %s", rec.Code, rec.Body.String())
		}
		var got struct {
			ID        string      `json:"id"`
			Mood      string      `json:"mood"`
			Intensity int         `json:"intensity"`
			Songs     []mood.Song `json:"songs"`
			IsDemo    bool        `json:"isDemo"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if _, err := uuid.Parse(got.ID); err != nil {
			t.Errorf("id %q is not a uuid: %v", got.ID, err)
		}
		if got.Mood != "calm" || got.Intensity != 4 || !got.IsDemo {
			t.Errorf("unexpected result: %+v", got)
		}
		if len(got.Songs) != 1 || got.Songs[0].VideoID != "x" {
			t.Errorf("unexpected songs: %+v", got.Songs)
		}
		if len(a.texts) != 1 || a.texts[0] != "quiet evening" {
			t.Errorf("analyzer texts: %v", a.texts)
		}
	})

	t.Run("Unsupported Media Type", func(t *testing.T) {
		a := &mockAnalyzer{result: result}
		h := NewServer(a, video.Fallback{}, Options{})

		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"text":"x"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Errorf("Status Code: got %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
		}
		if len(a.texts) != 0 {
			t.Errorf("analyzer should not be called")
		}
	})

	badRequests := map[string]string{
		"malformed body": `{"text":`,
		"empty text":     `{"text":"   "}`,
		"missing text":   `{}`,
	}
	for name, body := range badRequests {
		body := body
		t.Run("Bad Request: "+name, func(t *testing.T) {
			a := &mockAnalyzer{result: result}
			h := NewServer(a, video.Fallback{}, Options{})

			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status Code: got %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if len(a.texts) != 0 {
				t.Errorf("analyzer should not be called")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := NewServer(&mockAnalyzer{}, video.Fallback{}, Options{Debug: true})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := NewServer(&mockAnalyzer{}, video.Fallback{}, Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Status Code: got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(&mockAnalyzer{}, video.Fallback{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
