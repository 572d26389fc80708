package security

import (
	"mime"
	"net/http"
)

var sensitiveHeaders = []string{
	"Authorization",
	"Cookie",
	"Set-Cookie",
	"X-Api-Key",
}

// ValidateContentType reports whether a request body media type is one the
// API accepts. Parameters such as charset are ignored.
func ValidateContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/json", "application/x-www-form-urlencoded", "multipart/form-data":
		return true
	}
	return false
}

// SanitizeHeaders returns a copy of headers with credentials redacted
func SanitizeHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for _, header := range sensitiveHeaders {
		if out.Get(header) != "" {
			out.Set(header, "[REDACTED]")
		}
	}
	return out
}
