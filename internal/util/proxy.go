package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy function honoring explicit proxy URLs with a
// comma-separated no-proxy exclusion list. If no proxy URLs are provided,
// falls back to the standard environment variables.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var exclusions []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(h); h != "" {
			exclusions = append(exclusions, strings.ToLower(h))
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		if excludedHost(req.URL.Hostname(), exclusions) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// excludedHost reports whether host matches an exclusion entry exactly or as
// a subdomain of one.
func excludedHost(host string, exclusions []string) bool {
	host = strings.ToLower(host)
	for _, e := range exclusions {
		if host == e || strings.HasSuffix(host, "."+e) {
			return true
		}
	}
	return false
}
