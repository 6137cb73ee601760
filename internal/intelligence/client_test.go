package intelligence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	cfg := config.ProvidersConfig{
		SpeechURL:    server.URL,
		SpeechKey:    "test-key",
		TTSURL:       server.URL,
		TTSKey:       "test-key",
		TranslateURL: server.URL,
		TranslateKey: "test-key",
		Timeout:      2 * time.Second,
	}
	return NewClient(cfg, zerolog.Nop()), server
}

func TestTranslate_Success(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translatedText":"Guten Morgen","targetLanguage":"de"}`))
	})
	defer server.Close()

	result, err := client.Translate(context.Background(), "Good morning", "de")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if result.TranslatedText != "Guten Morgen" || result.TargetLanguage != "de" {
		t.Errorf("result = %+v", result)
	}
}

func TestPost_UpstreamStatusPreserved(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired} {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"limit reached"}`))
		})

		_, err := client.Transcribe(context.Background(), "YXVkaW8=", "de-DE")
		server.Close()

		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("status %d: err = %v, want UpstreamError", status, err)
		}
		if upstream.Status != status {
			t.Errorf("upstream status = %d, want %d", upstream.Status, status)
		}
		if upstream.Message != "limit reached" {
			t.Errorf("message = %q", upstream.Message)
		}
	}
}

func TestPost_NotConfigured(t *testing.T) {
	client := NewClient(config.ProvidersConfig{Timeout: time.Second}, zerolog.Nop())
	if _, err := client.DetectLanguage(context.Background(), "hallo"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
