package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/embracefm/embrace/internal/shared"
	th "github.com/embracefm/embrace/internal/testing"
)

func TestFallbackBio(t *testing.T) {
	t.Run("MissingCredentialsTemplate", func(t *testing.T) {
		got := FallbackBio("Nova Wave", "Electronic", shared.ErrMissingCredentials)
		want := "A promising Electronic artist known as Nova Wave, ready to make their mark on the music scene with a unique and captivating sound."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("CallFailureTemplate", func(t *testing.T) {
		got := FallbackBio("Nova Wave", "Electronic", errors.New("timeout"))
		want := "An emerging talent in the Electronic world, Nova Wave is quickly gaining attention for their innovative sound and compelling performances."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("WrappedMissingCredentials", func(t *testing.T) {
		reason := errors.Join(errors.New("drafter unavailable"), shared.ErrMissingCredentials)
		got := FallbackBio("Leo King", "Folk", reason)
		if !strings.Contains(got, "A promising Folk artist") {
			t.Errorf("wrapped missing-credentials error should select the no-credential template, got %q", got)
		}
	})
}

func geminiResponseBody(text string) io.ReadCloser {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + text + `"}]},"finishReason":"STOP"}]}`
	return io.NopCloser(bytes.NewReader([]byte(body)))
}

func newTestGemini(t *testing.T, rt http.RoundTripper) *GeminiService {
	t.Helper()
	g, err := NewGeminiService(shared.GeminiConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	g.httpClient = &http.Client{Transport: rt}
	return g
}

func TestNewGeminiService(t *testing.T) {
	t.Run("NoCredentialsFails", func(t *testing.T) {
		_, err := NewGeminiService(shared.GeminiConfig{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials, got %v", err)
		}
	})

	t.Run("APIKeySuffices", func(t *testing.T) {
		g, err := NewGeminiService(shared.GeminiConfig{APIKey: "test-key"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.model != geminiDefaultModel {
			t.Errorf("expected default model, got %q", g.model)
		}
	})

	t.Run("ModelOverride", func(t *testing.T) {
		g, err := NewGeminiService(shared.GeminiConfig{APIKey: "k", Model: "gemini-1.5-flash"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.model != "gemini-1.5-flash" {
			t.Errorf("expected overridden model, got %q", g.model)
		}
	})
}

func TestGeminiDraft(t *testing.T) {
	t.Run("ReturnsTrimmedCandidateText", func(t *testing.T) {
		rt := th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       geminiResponseBody("  A crafted biography.  "),
		}, nil)
		g := newTestGemini(t, rt)

		bio, err := g.Draft(context.Background(), "Nova Wave", "Electronic")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bio != "A crafted biography." {
			t.Errorf("expected trimmed text, got %q", bio)
		}
	})

	t.Run("TransportErrorWrapsExternalService", func(t *testing.T) {
		rt := th.NewMockRoundTripper(nil, errors.New("connection refused"))
		g := newTestGemini(t, rt)

		_, err := g.Draft(context.Background(), "Nova Wave", "Electronic")
		if !errors.Is(err, shared.ErrExternalService) {
			t.Errorf("expected external service error, got %v", err)
		}
	})

	t.Run("Non2xxWrapsExternalService", func(t *testing.T) {
		rt := th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"code":429}}`)),
		}, nil)
		g := newTestGemini(t, rt)

		_, err := g.Draft(context.Background(), "Nova Wave", "Electronic")
		if !errors.Is(err, shared.ErrExternalService) {
			t.Errorf("expected external service error, got %v", err)
		}
	})

	t.Run("EmptyCandidatesFails", func(t *testing.T) {
		rt := th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"candidates":[]}`)),
		}, nil)
		g := newTestGemini(t, rt)

		_, err := g.Draft(context.Background(), "Nova Wave", "Electronic")
		if !errors.Is(err, shared.ErrExternalService) {
			t.Errorf("expected external service error, got %v", err)
		}
	})

	t.Run("CancelledContextFails", func(t *testing.T) {
		rt := th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       geminiResponseBody("never used"),
		}, nil)
		g := newTestGemini(t, rt)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := g.Draft(ctx, "Nova Wave", "Electronic"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
