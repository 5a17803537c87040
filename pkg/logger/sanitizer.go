package logger

import (
	"regexp"
	"strings"
)

// Sensitive value patterns to filter from logs
var (
	bearerPattern   = regexp.MustCompile(`(?i)(bearer)\s+[A-Za-z0-9\-_.~+/]+=*`)
	jwtPattern      = regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	secretPattern   = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s]+`)
	urlUserPattern  = regexp.MustCompile(`([a-z][a-z0-9+.-]*://[^:/@\s]*):[^@\s]+@`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"authorization",
	"password", "passwd", "pwd",
	"token", "jwt", "bearer",
	"secret", "private_key", "private-key",
}

// SanitizeLogMessage removes credentials and tokens from a log message.
func SanitizeLogMessage(message string) string {
	message = bearerPattern.ReplaceAllString(message, "${1} "+redactedPlaceholder)
	message = jwtPattern.ReplaceAllString(message, redactedPlaceholder)
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = urlUserPattern.ReplaceAllString(message, "${1}:"+redactedPlaceholder+"@")
	return message
}

// SanitizeMap returns a copy of data with sensitive keys redacted and string
// values passed through SanitizeLogMessage.
func SanitizeMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		if s, ok := v.(string); ok {
			sanitized[k] = SanitizeLogMessage(s)
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}
