package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

type httpServerAdapter struct {
	client *resty.Client
	token  string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL and configures
// the underlying resty client with it and the request timeout.
//
// Returns an error if address is empty or cannot be parsed as a valid URL.
func NewHTTPServerAdapter(address string, timeout time.Duration, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpServerAdapter{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Authenticate implements [ServerAdapter]. It POSTs the account credentials
// to POST /api/auth/token and stores the returned bearer token. Returns an
// error if the request fails or the server rejects the credentials.
func (h *httpServerAdapter) Authenticate(ctx context.Context, accountID, secret string) error {
	var out struct {
		Token string `json:"token"`
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"account_id": accountID, "secret": secret}).
		SetResult(&out).
		Post("/api/auth/token")
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("auth response carried no token")
	}

	h.SetToken(out.Token)
	return nil
}

// GetUpdates implements [ServerAdapter]. It POSTs the request to
// POST /api/sync/getupdates and decodes the batch. The progress-marker token
// and entity payloads are JSON round-tripped without reinterpretation.
func (h *httpServerAdapter) GetUpdates(ctx context.Context, req models.GetUpdatesRequest) (models.GetUpdatesResponse, error) {
	var out models.GetUpdatesResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(h.token).
		SetBody(req).
		SetResult(&out).
		Post("/api/sync/getupdates")
	if err != nil {
		return models.GetUpdatesResponse{}, fmt.Errorf("get updates request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.GetUpdatesResponse{}, err
	}

	h.logger.Debug().
		Str("model_type", req.ModelType.String()).
		Int("entities", len(out.Entities)).
		Msg("get updates round trip complete")

	return out, nil
}

// Commit implements [ServerAdapter]. It POSTs the contribution to
// POST /api/sync/commit and decodes the per-entity verdicts.
func (h *httpServerAdapter) Commit(ctx context.Context, req models.CommitRequest) (models.CommitResponse, error) {
	var out models.CommitResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(h.token).
		SetBody(req).
		SetResult(&out).
		Post("/api/sync/commit")
	if err != nil {
		return models.CommitResponse{}, fmt.Errorf("commit request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CommitResponse{}, err
	}

	h.logger.Debug().
		Str("model_type", req.ModelType.String()).
		Int("entities", len(req.Entities)).
		Int("results", len(out.Results)).
		Msg("commit round trip complete")

	return out, nil
}
