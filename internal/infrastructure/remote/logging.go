package remote

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingTransport logs every request at debug level. The Authorization
// header value is never written to the log.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *logrus.Logger
}

func NewLoggingTransport(base http.RoundTripper, logger *logrus.Logger) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{Base: base, Logger: logger}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	fields := logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}
	if auth := req.Header.Get("Authorization"); auth != "" {
		fields["authorization"] = RedactAuthorization(auth)
	}

	resp, err := t.Base.RoundTrip(req)
	fields["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		t.Logger.WithFields(fields).WithError(err).Debug("api request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	t.Logger.WithFields(fields).Debug("api request")
	return resp, nil
}

// RedactAuthorization keeps the scheme and drops the credential.
func RedactAuthorization(v string) string {
	if scheme, _, ok := strings.Cut(v, " "); ok {
		return scheme + " [REDACTED]"
	}
	return "[REDACTED]"
}
