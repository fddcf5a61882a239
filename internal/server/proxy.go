package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const proxyTimeout = 30 * time.Second

// Browser-like headers; the image host rejects requests without a
// matching referer
const (
	proxyUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	proxyAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	proxyReferer   = "https://comick.io/"
)

var proxyClient = &http.Client{Timeout: proxyTimeout}

// Proxy forwards a GET to the url query parameter so the browser can load
// upstream resources without tripping cross-origin rules. Responses are
// marked publicly cacheable for an hour.
func (h *Handler) Proxy(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No URL provided"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Proxy failed", "details": err.Error()})
		return
	}
	req.Header.Set("User-Agent", proxyUserAgent)
	req.Header.Set("Accept", proxyAccept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", proxyReferer)

	resp, err := proxyClient.Do(req)
	if err != nil {
		h.logger.Error("proxy request failed", "url", target, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy failed", "details": err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Error("proxy upstream error", "url", target, "status", resp.StatusCode)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Proxy failed",
			"details": "upstream status " + resp.Status,
		})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		h.logger.Warn("proxy copy interrupted", "url", target, "error", err)
	}
}
