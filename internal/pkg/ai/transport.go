package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
	"github.com/chacha/chacha/internal/pkg/security"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// postJSON sends payload to url and decodes a 2xx response into out.
// Failures are classified as ProviderUnavailable, ProviderRejected or
// ProviderResponseInvalid.
func postJSON(ctx context.Context, httpClient *http.Client, provider, url string, headers map[string]string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", provider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewProviderUnavailableError(provider, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.NewProviderUnavailableError(provider, fmt.Errorf("failed to read response: %w", err))
	}
	apperrors.LogAPIResponse(provider, httpResp.StatusCode, len(respBody), time.Since(start))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		apperrors.Debug("%s rejected the request: %s", provider, security.SanitizeForLogging(string(respBody)))
		rejected := apperrors.NewProviderRejectedError(provider, httpResp.StatusCode, string(respBody))
		rejected.RetryAfter = apperrors.ParseRetryAfterHeader(httpResp.Header.Get("Retry-After"))
		return rejected
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.NewProviderResponseInvalidError(provider, "body is not valid JSON: "+err.Error())
	}
	return nil
}
