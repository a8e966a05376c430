package logger

import (
	"crypto/sha256"
	"fmt"
	"net/url"
)

// MaskURL reduces a URL to its host and a short hash so query strings
// carrying API keys never reach the logs
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(rawURL)))[:8]

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "url#" + hash
	}
	return fmt.Sprintf("%s#%s", parsed.Host, hash)
}
