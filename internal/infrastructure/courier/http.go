package courier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const maxAttempts = 3

// HTTPProvider asks a courier service for a tracking id:
// POST {baseURL}/shipments {"reference":"orders/O1"} -> {"trackingId":"..."}.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	backoff    time.Duration
}

var _ domain.TrackingProvider = (*HTTPProvider)(nil)

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		backoff: 200 * time.Millisecond,
	}
}

type shipmentRequest struct {
	Reference string `json:"reference"`
	Tab       string `json:"tab"`
	ID        string `json:"id"`
}

type shipmentResponse struct {
	TrackingID string `json:"trackingId"`
}

// TrackingID retries transport errors, 429 and 5xx. Other 4xx answers are final.
// Every attempt of one call carries the same Idempotency-Key, so a retry after
// a lost response cannot book a second shipment.
func (p *HTTPProvider) TrackingID(ctx context.Context, ref domain.RecordRef) (string, error) {
	body, err := json.Marshal(shipmentRequest{Reference: ref.String(), Tab: string(ref.Tab), ID: ref.ID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal shipment: %w", err)
	}

	key := uuid.NewString()
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(i) * p.backoff):
			}
		}

		id, retry, err := p.request(ctx, key, body)
		if err == nil {
			return id, nil
		}
		lastErr = err
		logger.WithContext(ctx).Warn().Err(err).Str("record", ref.String()).Int("attempt", i+1).Msg("Courier Request Failed")
		if !retry {
			break
		}
	}
	return "", lastErr
}

func (p *HTTPProvider) request(ctx context.Context, idempotencyKey string, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/shipments", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("courier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("courier error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out shipmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("failed to decode courier response: %w", err)
	}
	if strings.TrimSpace(out.TrackingID) == "" {
		return "", false, fmt.Errorf("courier returned an empty tracking id")
	}
	return out.TrackingID, false, nil
}
