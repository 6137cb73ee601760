// Package intelligence wraps the external speech and translation
// providers behind plain JSON-over-HTTP calls.
package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/config"
)

var ErrNotConfigured = errors.New("provider not configured")

// UpstreamError carries the provider's HTTP status so handlers can map
// rate limits (429) and quota exhaustion (402) onto matching responses.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

type Client struct {
	cfg  config.ProvidersConfig
	http *http.Client
	log  zerolog.Logger
}

func NewClient(cfg config.ProvidersConfig, log zerolog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type TranscriptionResult struct {
	Text   string `json:"text"`
	Intent string `json:"intent"`
}

// Transcribe sends base64 audio to the speech provider and returns the
// recognized text plus a coarse intent classification.
func (c *Client) Transcribe(ctx context.Context, audioBase64 string, locale string) (TranscriptionResult, error) {
	var result TranscriptionResult
	err := c.post(ctx, c.cfg.SpeechURL, c.cfg.SpeechKey, map[string]any{
		"audio":  audioBase64,
		"locale": locale,
	}, &result)
	return result, err
}

type SynthesisResult struct {
	AudioContent string `json:"audioContent"`
}

func (c *Client) Synthesize(ctx context.Context, text string, voiceID string) (SynthesisResult, error) {
	var result SynthesisResult
	err := c.post(ctx, c.cfg.TTSURL, c.cfg.TTSKey, map[string]any{
		"text":  text,
		"voice": voiceID,
	}, &result)
	return result, err
}

type TranslationResult struct {
	TranslatedText string `json:"translatedText"`
	TargetLanguage string `json:"targetLanguage"`
}

func (c *Client) Translate(ctx context.Context, text string, targetLanguage string) (TranslationResult, error) {
	var result TranslationResult
	err := c.post(ctx, c.cfg.TranslateURL, c.cfg.TranslateKey, map[string]any{
		"text":   text,
		"target": targetLanguage,
	}, &result)
	if err == nil && result.TargetLanguage == "" {
		result.TargetLanguage = targetLanguage
	}
	return result, err
}

type DetectionResult struct {
	LanguageCode string `json:"languageCode"`
	LanguageName string `json:"languageName"`
}

func (c *Client) DetectLanguage(ctx context.Context, text string) (DetectionResult, error) {
	var result DetectionResult
	err := c.post(ctx, c.cfg.TranslateURL+"/detect", c.cfg.TranslateKey, map[string]any{
		"text": text,
	}, &result)
	return result, err
}

func (c *Client) post(ctx context.Context, url string, apiKey string, payload map[string]any, out any) error {
	if url == "" || apiKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(raw)
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return &UpstreamError{Status: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
