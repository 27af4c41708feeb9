package api

import (
	"context"
	"net"
	"net/http"
)

type clientAddrKey struct{}

// withClientAddr records the caller's address for handlers that store it.
// chi's RealIP has already replaced RemoteAddr with X-Real-IP or
// X-Forwarded-For when either is present.
func withClientAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		if addr != "" {
			r = r.WithContext(context.WithValue(r.Context(), clientAddrKey{}, addr))
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(ctx context.Context) *string {
	if addr, ok := ctx.Value(clientAddrKey{}).(string); ok {
		return &addr
	}
	return nil
}
