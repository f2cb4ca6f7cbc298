package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for requests that are never limited.
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil to use the default.
// Exact path matches win over prefix matches; a configured path ending in "/"
// matches every path below it. Health checks and CORS preflights are unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (path == "/health" && method == http.MethodGet) {
		return unlimited
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}
