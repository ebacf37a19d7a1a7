package util

import (
	"net/http"
	"net/url"
	"testing"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), rawURL string) *url.URL {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	proxy, err := fn(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return proxy
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	fn := NewProxyFunc("http://proxy.local:3128", "http://sproxy.local:3128", "")

	if got := proxyFor(t, fn, "http://example.org/page"); got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("Expected http proxy, got %v", got)
	}
	if got := proxyFor(t, fn, "https://example.org/page"); got == nil || got.Host != "sproxy.local:3128" {
		t.Errorf("Expected https proxy, got %v", got)
	}
}

func TestNewProxyFunc_HTTPProxyCoversHTTPS(t *testing.T) {
	fn := NewProxyFunc("http://proxy.local:3128", "", "")

	if got := proxyFor(t, fn, "https://example.org/page"); got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("Expected fallback to http proxy, got %v", got)
	}
}

func TestNewProxyFunc_NoProxyExclusions(t *testing.T) {
	fn := NewProxyFunc("http://proxy.local:3128", "", "internal.example.org, localhost")

	if got := proxyFor(t, fn, "http://internal.example.org/page"); got != nil {
		t.Errorf("Excluded host must bypass the proxy, got %v", got)
	}
	if got := proxyFor(t, fn, "http://svc.internal.example.org/page"); got != nil {
		t.Errorf("Subdomain of excluded host must bypass the proxy, got %v", got)
	}
	if got := proxyFor(t, fn, "http://example.org/page"); got == nil {
		t.Error("Non-excluded host must use the proxy")
	}
}
