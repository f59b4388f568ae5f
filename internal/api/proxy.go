package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Request headers never forwarded to the backend. Cookies stay browser-side.
var droppedRequestHeaders = map[string]bool{
	"host":           true,
	"connection":     true,
	"content-length": true,
	"cookie":         true,
}

// Response headers stripped before relaying: the body is re-framed by this
// server, and content-encoding was already undone by the transport.
var droppedResponseHeaders = map[string]bool{
	"transfer-encoding": true,
	"connection":        true,
	"content-encoding":  true,
}

// handleProxy forwards any method under /api/proxy/ to the configured
// backend origin, stripping the prefix and injecting the server-side API
// key. Status and body pass through verbatim.
func (s *Server) handleProxy(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		allowHeaders := c.GetHeader("Access-Control-Request-Headers")
		if allowHeaders == "" {
			allowHeaders = "*"
		}
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Status(http.StatusNoContent)
		return
	}

	path := c.Param("proxyPath")
	if path == "" {
		path = "/"
	}
	target := s.cfg.BackendURL + path
	if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}

	var body io.Reader
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		body = c.Request.Body
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, body)
	if err != nil {
		s.log.Error("build proxy request", "target", target, "error", err)
		respError(c, http.StatusInternalServerError, "upstream_error")
		return
	}

	for key, values := range c.Request.Header {
		if droppedRequestHeaders[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if s.cfg.BackendAPIKey != "" {
		req.Header.Set("x-api-key", s.cfg.BackendAPIKey)
	}

	resp, err := s.proxyClient.Do(req)
	if err != nil {
		s.log.Error("proxy upstream", "target", target, "error", err)
		respErrorDetails(c, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if droppedResponseHeaders[strings.ToLower(key)] {
			continue
		}
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}
	c.Status(resp.StatusCode)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		s.log.Warn("copy proxy response", "target", target, "error", err)
	}
}
