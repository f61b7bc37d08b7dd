package ai

import (
	"testing"
	"time"
)

func TestNewClient_Anthropic(t *testing.T) {
	client, err := NewClient(ProviderConfig{Name: ProviderAnthropic, APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, ok := client.(*AnthropicClient); !ok {
		t.Fatalf("expected *AnthropicClient, got %T", client)
	}
	if client.Name() != "anthropic" {
		t.Errorf("Name() = %q, want %q", client.Name(), "anthropic")
	}
}

func TestNewClient_Gemini(t *testing.T) {
	client, err := NewClient(ProviderConfig{Name: ProviderGemini, APIKey: "g-test", Timeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	gemini, ok := client.(*GeminiClient)
	if !ok {
		t.Fatalf("expected *GeminiClient, got %T", client)
	}
	if gemini.httpClient.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", gemini.httpClient.Timeout)
	}
}

func TestNewClient_Unsupported(t *testing.T) {
	if _, err := NewClient(ProviderConfig{Name: "openai", APIKey: "k"}); err == nil {
		t.Error("NewClient() should reject an unsupported provider")
	}
}

func TestNewHTTPClient_DefaultTimeout(t *testing.T) {
	if got := newHTTPClient(0).Timeout; got != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", got, DefaultTimeout)
	}
}
