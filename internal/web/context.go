package web

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/JonMunkholm/gdpview/internal/core"
	"github.com/JonMunkholm/gdpview/internal/logging"
)

// clientIP returns the client address without its port.
// RemoteAddr is already rewritten by TrustedRealIP for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// selectionLogger returns a request-scoped logger describing sel.
func selectionLogger(r *http.Request, sel core.Selection) *slog.Logger {
	return logging.WithFields(r.Context(),
		"countries", len(sel.Countries),
		"from", sel.From,
		"to", sel.To,
	)
}
