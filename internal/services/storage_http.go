package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/sangeet/internal/shared"
)

// HTTPStorage implements [ObjectStorage] against a remote upload endpoint.
//
// Each asset is posted as a multipart form with a "kind" field and a "file" part. The endpoint answers with
// {"url": "..."}. Requests are spaced by a token bucket limiter.
type HTTPStorage struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ ObjectStorage = (*HTTPStorage)(nil)

type uploadResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// NewHTTPStorage creates an [HTTPStorage] posting to endpoint at most perSecond times per second.
//
// A nil client defaults to one with a 60 second timeout.
func NewHTTPStorage(endpoint string, perSecond float64, client *http.Client) *HTTPStorage {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &HTTPStorage{endpoint: endpoint, client: client, limiter: rate.NewLimiter(limit, 1)}
}

// UploadAsset posts the content of r and returns the URL reported by the endpoint.
func (s *HTTPStorage) UploadAsset(ctx context.Context, r io.Reader, kind AssetKind) (string, error) {
	if _, err := ParseAssetKind(string(kind)); err != nil {
		return "", err
	}
	if r == nil {
		return "", fmt.Errorf("%w: no %s asset supplied", shared.ErrInvalidArgument, kind)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s asset: %w", kind, err)
	}

	ext, err := DetectExtension(data, kind)
	if err != nil {
		return "", err
	}

	body, contentType, err := multipartBody(kind, shared.GenerateID()+ext, data)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out uploadResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if json.Unmarshal(raw, &out) == nil && out.Error != "" {
			return "", fmt.Errorf("%w: status %d: %s", shared.ErrServiceUnavailable, resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: upload response carried no url", shared.ErrServiceUnavailable)
	}

	return out.URL, nil
}

func multipartBody(kind AssetKind, filename string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("kind", string(kind)); err != nil {
		return nil, "", fmt.Errorf("failed to write form field: %w", err)
	}

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
