package ai

import (
	"fmt"
	"net/http"
	"time"
)

// NewClient builds the Client for a resolved provider. It is the only place
// that branches on the provider name.
func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Name {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	case ProviderGemini:
		return NewGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Name)
	}
}

// newHTTPClient returns a client whose overall timeout bounds one call.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
