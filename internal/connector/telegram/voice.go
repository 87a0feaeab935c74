package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// VoiceConfig enables transcription of Telegram voice notes through an
// OpenAI-compatible transcription endpoint.
type VoiceConfig struct {
	// APIKey for the transcription service.
	APIKey string
	// URL of the endpoint. Default: the OpenAI transcriptions endpoint.
	URL string
	// Model to use (default: "whisper-1").
	Model string
}

// transcribeVoice downloads a voice or audio message and turns it into
// text.
func (c *Connector) transcribeVoice(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	var fileID string
	switch {
	case msg.Voice != nil:
		fileID = msg.Voice.FileID
	case msg.Audio != nil:
		fileID = msg.Audio.FileID
	default:
		return "", fmt.Errorf("message carries no audio")
	}

	fileURL, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve file URL: %w", err)
	}

	audio, err := downloadAudio(ctx, fileURL)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}

	return transcribe(ctx, c.config.Voice, audio)
}

func downloadAudio(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}

	// Telegram caps voice notes at 20MB.
	return io.ReadAll(io.LimitReader(resp.Body, 20<<20))
}

// transcribe posts the audio to a Whisper-compatible API as a multipart
// upload.
func transcribe(ctx context.Context, cfg *VoiceConfig, audio []byte) (string, error) {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/audio/transcriptions"
	}
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", "voice.ogg")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(audio); err != nil {
		return "", err
	}
	w.WriteField("model", model)
	w.WriteField("response_format", "json")
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse transcription response: %w", err)
	}

	return strings.TrimSpace(result.Text), nil
}
