package middleware

import (
	"context"
	"net"
	"net/http"
)

type contextKey string

const clientIDKey contextKey = "client_id"

// SetClientID records the identity rate limiting is keyed on.
func SetClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// GetClientID returns the identity set by Authenticate.
func GetClientID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(clientIDKey).(string)
	return id, ok && id != ""
}

// remoteIP strips the port from RemoteAddr.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
