package twofactor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderdesk-backend/internal/domain"

	"github.com/goccy/go-json"
)

// HTTPVerifier checks codes against an external second-factor service:
// POST {baseURL}/verify {"adminId":"...","code":"..."} -> {"valid":true}.
// A 2xx answer is authoritative. Anything else is reported as an error.
type HTTPVerifier struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ domain.Verifier = (*HTTPVerifier)(nil)
	_ domain.Verifier = StaticVerifier{}
)

func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	AdminID string `json:"adminId"`
	Code    string `json:"code"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, adminID, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	body, err := json.Marshal(verifyRequest{AdminID: adminID, Code: code})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("verification service returned status %d", resp.StatusCode)
	}
	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}
	return out.Valid, nil
}

// StaticVerifier accepts one fixed code for every admin. It exists for local
// development when no second-factor service is reachable.
type StaticVerifier struct {
	Code string
}

func (s StaticVerifier) Verify(_ context.Context, _ string, code string) (bool, error) {
	return s.Code != "" && strings.TrimSpace(code) == s.Code, nil
}
