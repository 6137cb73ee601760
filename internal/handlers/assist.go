package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/ids"
	"peoplehub/api/internal/intelligence"
)

// assistError maps provider failures onto HTTP responses: rate limits
// and quota exhaustion pass through with their original status, the
// rest surfaces as a bad gateway.
func (h HandlerSet) assistError(c *gin.Context, err error) {
	if errors.Is(err, intelligence.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assist provider not configured"})
		return
	}

	var upstream *intelligence.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Status {
		case http.StatusTooManyRequests:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "provider rate limit exceeded"})
		case http.StatusPaymentRequired:
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "provider quota exhausted"})
		default:
			h.log.Warn().Int("status", upstream.Status).Str("message", upstream.Message).Msg("assist provider error")
			c.JSON(http.StatusBadGateway, gin.H{"error": "assist provider error"})
		}
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

type voiceToTextRequest struct {
	Audio  string `json:"audio" binding:"required"`
	Locale string `json:"locale"`
}

func (h HandlerSet) VoiceToText(c *gin.Context) {
	var req voiceToTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := base64.StdEncoding.DecodeString(req.Audio); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio must be base64 encoded"})
		return
	}
	if req.Locale == "" {
		req.Locale = "de-DE"
	}

	result, err := h.assist.Transcribe(c.Request.Context(), req.Audio, req.Locale)
	if err != nil {
		h.assistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":   result.Text,
		"intent": result.Intent,
	})
}

type textToSpeechRequest struct {
	Text    string `json:"text" binding:"required"`
	VoiceID string `json:"voiceId"`
}

func (h HandlerSet) TextToSpeech(c *gin.Context) {
	var req textToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.assist.Synthesize(c.Request.Context(), req.Text, req.VoiceID)
	if err != nil {
		h.assistError(c, err)
		return
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "provider returned invalid audio"})
		return
	}

	audioURL, err := h.objects.PutAudio(c.Request.Context(), "tts/"+ids.New()+".mp3", audio)
	if err != nil {
		// Inline audio still works when the object store is down.
		h.log.Warn().Err(err).Msg("store synthesized audio failed")
		c.JSON(http.StatusOK, gin.H{"audioContent": result.AudioContent})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audioContent": result.AudioContent,
		"audioUrl":     audioURL,
	})
}

type translateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"targetLanguage" binding:"required"`
}

func (h HandlerSet) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.assist.Translate(c.Request.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		h.assistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"translatedText": result.TranslatedText,
		"targetLanguage": result.TargetLanguage,
	})
}

type detectLanguageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h HandlerSet) DetectLanguage(c *gin.Context) {
	var req detectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.assist.DetectLanguage(c.Request.Context(), req.Text)
	if err != nil {
		h.assistError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"languageCode": result.LanguageCode,
		"languageName": result.LanguageName,
	})
}
