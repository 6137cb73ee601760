package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/config"
	"peoplehub/api/internal/security"
)

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{}
	cfg.Security.WebhookSecret = secret

	router := gin.New()
	router.POST("/hook", Webhook(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func signedRequest(t *testing.T, secret string, body []byte, date string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(security.HeaderWebhookDate, date)
	req.Header.Set(security.HeaderWebhookSignature, security.ComputeWebhookSignature(secret, date, body))
	return req
}

func TestWebhook_ValidSignature(t *testing.T) {
	router := webhookRouter("hook-secret")
	body := []byte(`{"table":"absence_requests","record":{"id":"a1","company_id":"c1"}}`)
	date := time.Now().UTC().Format(time.RFC3339)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(t, "hook-secret", body, date))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestWebhook_WrongSecret(t *testing.T) {
	router := webhookRouter("hook-secret")
	body := []byte(`{}`)
	date := time.Now().UTC().Format(time.RFC3339)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(t, "other-secret", body, date))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWebhook_MissingHeaders(t *testing.T) {
	router := webhookRouter("hook-secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader([]byte(`{}`))))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWebhook_StaleDate(t *testing.T) {
	router := webhookRouter("hook-secret")
	body := []byte(`{}`)
	date := time.Now().UTC().Add(-10 * time.Minute).Format(time.RFC3339)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(t, "hook-secret", body, date))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWebhook_TamperedBody(t *testing.T) {
	router := webhookRouter("hook-secret")
	date := time.Now().UTC().Format(time.RFC3339)

	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader([]byte(`{"tampered":true}`)))
	req.Header.Set(security.HeaderWebhookDate, date)
	req.Header.Set(security.HeaderWebhookSignature, security.ComputeWebhookSignature("hook-secret", date, []byte(`{}`)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
