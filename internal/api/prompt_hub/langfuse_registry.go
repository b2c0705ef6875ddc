package promptHub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var _ Registry = (*LangfuseRegistry)(nil)

// LangfuseRegistry reads prompts from the Langfuse public prompt API.
type LangfuseRegistry struct {
	baseURL   string
	publicKey string
	secretKey string
	client    *http.Client
	logger    *slog.Logger
}

type langfusePrompt struct {
	Name    string          `json:"name"`
	Version int             `json:"version"`
	Type    string          `json:"type"`
	Prompt  json.RawMessage `json:"prompt"`
	Config  map[string]any  `json:"config"`
}

func NewLangfuseRegistry(baseURL, publicKey, secretKey string, timeout time.Duration, logger *slog.Logger) *LangfuseRegistry {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LangfuseRegistry{
		baseURL:   strings.TrimRight(baseURL, "/"),
		publicKey: publicKey,
		secretKey: secretKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

func (r *LangfuseRegistry) Fetch(ctx context.Context, label, tag string) (*RegistryEntry, error) {
	l := r.logger.With(slog.String("method", "Fetch"), slog.String("prompt", label), slog.String("tag", tag))

	endpoint := fmt.Sprintf("%s/api/public/v2/prompts/%s?%s",
		r.baseURL, url.PathEscape(label), url.Values{"label": []string{tag}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build prompt request: %w", err)
	}
	req.SetBasicAuth(r.publicKey, r.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Prompt registry unreachable", slog.Any("error", err))
		return nil, fmt.Errorf("fetch prompt %q: %w", label, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read prompt %q: %w", label, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		l.WarnContext(ctx, "Prompt not found in registry")
		return nil, fmt.Errorf("prompt %q with label %q: %w", label, tag, types.ErrPromptNotFound)
	case resp.StatusCode != http.StatusOK:
		l.ErrorContext(ctx, "Prompt registry returned an error", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("fetch prompt %q: registry status %d: %s", label, resp.StatusCode, truncateRunes(string(body), 200))
	}

	var p langfusePrompt
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode prompt %q: %w", label, err)
	}
	if p.Type != "" && p.Type != "text" {
		return nil, fmt.Errorf("prompt %q has type %q, only text prompts are supported: %w", label, p.Type, types.ErrInvalidPromptConfig)
	}
	var text string
	if err := json.Unmarshal(p.Prompt, &text); err != nil {
		return nil, fmt.Errorf("prompt %q body is not a string: %w", label, types.ErrInvalidPromptConfig)
	}

	l.DebugContext(ctx, "Prompt fetched", slog.Int("version", p.Version))
	return &RegistryEntry{Version: p.Version, Body: text, Config: p.Config}, nil
}
