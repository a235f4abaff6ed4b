package httputil

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
)

// Pages inline their style and script blocks, so every response carries a
// per-request CSP nonce. The security middleware mints it and the template
// handlers read it back out of the request context.

type nonceKeyType struct{}

var nonceKey nonceKeyType

// GenerateNonce returns a fresh value for a CSP nonce attribute. An empty
// string means the source of randomness failed; callers serve the page
// without it rather than reuse an old value.
func GenerateNonce() string {
	raw := make([]byte, 18)
	if _, err := rand.Read(raw); err != nil {
		slog.Error("mint CSP nonce", "error", err)
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func ContextWithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceKey, nonce)
}

func NonceFromContext(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey).(string)
	return nonce
}
