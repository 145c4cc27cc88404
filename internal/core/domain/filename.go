package domain

import (
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"
)

// ResolveAttachmentFilename extracts a usable filename from a
// Content-Disposition header value. Extended (RFC 5987) encodings are
// percent-decoded and surrounding quotes stripped. Absent or unparseable
// input yields a timestamped fallback; this function never fails.
func ResolveAttachmentFilename(disposition string) string {
	if name := parseDispositionFilename(disposition); name != "" {
		return name
	}
	return fmt.Sprintf("download-%d", time.Now().Unix())
}

func parseDispositionFilename(disposition string) string {
	disposition = strings.TrimSpace(disposition)
	if disposition == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := strings.TrimSpace(params["filename"]); name != "" {
			return name
		}
	}

	// Lenient scan for servers that emit headers ParseMediaType rejects.
	for _, part := range strings.Split(disposition, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(strings.ToLower(part), "filename*="):
			value := part[len("filename*="):]
			if idx := strings.Index(value, "''"); idx >= 0 {
				value = value[idx+2:]
			}
			if decoded, err := url.PathUnescape(value); err == nil {
				value = decoded
			}
			if value = strings.Trim(value, `"`); value != "" {
				return value
			}
		case strings.HasPrefix(strings.ToLower(part), "filename="):
			value := strings.Trim(part[len("filename="):], `"`)
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}
