package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing auth header")
		}

		if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "multipart/form-data") {
			t.Errorf("expected multipart form, got %q", ct)
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}

		if model := r.FormValue("model"); model != "whisper-1" {
			t.Errorf("model = %q", model)
		}
		if format := r.FormValue("response_format"); format != "json" {
			t.Errorf("response_format = %q", format)
		}

		_, fh, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if fh.Filename != "voice.ogg" {
			t.Errorf("filename = %q", fh.Filename)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "show me RPG games"})
	}))
	defer srv.Close()

	cfg := &VoiceConfig{URL: srv.URL, APIKey: "test-key"}

	text, err := transcribe(context.Background(), cfg, []byte("fake audio"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "show me RPG games" {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribe_CustomModel(t *testing.T) {
	var gotModel string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(10 << 20)
		gotModel = r.FormValue("model")
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer srv.Close()

	cfg := &VoiceConfig{URL: srv.URL, APIKey: "key", Model: "whisper-large-v3-turbo"}

	if _, err := transcribe(context.Background(), cfg, []byte("audio")); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if gotModel != "whisper-large-v3-turbo" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestTranscribe_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	cfg := &VoiceConfig{URL: srv.URL, APIKey: "key"}

	if _, err := transcribe(context.Background(), cfg, []byte("audio")); err == nil {
		t.Fatal("expected error for 429 status")
	}
}

func TestDownloadAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio bytes"))
	}))
	defer srv.Close()

	data, err := downloadAudio(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("downloadAudio: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Errorf("data = %q", string(data))
	}
}

func TestDownloadAudio_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := downloadAudio(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}
