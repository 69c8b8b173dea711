package restclient

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/restkit/errors"
)

// ConnectionInitializer prepares a connection before it is sent. Initializers
// run once per call, in registration order, before explicit headers are
// added.
type ConnectionInitializer interface {
	Initialize(ctx context.Context, conn Connection) error
}

// InitializerFunc adapts a function to ConnectionInitializer.
type InitializerFunc func(ctx context.Context, conn Connection) error

// Initialize calls f.
func (f InitializerFunc) Initialize(ctx context.Context, conn Connection) error {
	return f(ctx, conn)
}

// Header name used by RequestID.
const HeaderRequestID = "X-Request-ID"

// BasicAuth sets HTTP Basic credentials.
func BasicAuth(username, password string) ConnectionInitializer {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Header("Authorization", "Basic "+token)
}

// BearerAuth adds a bearer token.
func BearerAuth(token string) ConnectionInitializer {
	return Header("Authorization", "Bearer "+token)
}

// APIKey adds an API key header. An empty name uses X-API-Key.
func APIKey(name, key string) ConnectionInitializer {
	if name == "" {
		name = "X-API-Key"
	}
	return Header(name, key)
}

// Header adds a request header. Values set by earlier initializers are kept.
func Header(name, value string) ConnectionInitializer {
	return InitializerFunc(func(_ context.Context, conn Connection) error {
		conn.Header().Add(name, value)
		return nil
	})
}

// UserAgent adds a User-Agent header.
func UserAgent(ua string) ConnectionInitializer {
	return Header("User-Agent", ua)
}

// Timeout bounds the round trip and the body read of each call.
func Timeout(d time.Duration) ConnectionInitializer {
	return InitializerFunc(func(_ context.Context, conn Connection) error {
		conn.SetTimeout(d)
		return nil
	})
}

// RequestID sets a random X-Request-ID unless one is already present.
func RequestID() ConnectionInitializer {
	return InitializerFunc(func(_ context.Context, conn Connection) error {
		if conn.Header().Get(HeaderRequestID) == "" {
			conn.Header().Set(HeaderRequestID, uuid.NewString())
		}
		return nil
	})
}

// TraceContext injects the span context carried by the call context. A nil
// propagator uses the global one.
func TraceContext(p propagation.TextMapPropagator) ConnectionInitializer {
	return InitializerFunc(func(ctx context.Context, conn Connection) error {
		prop := p
		if prop == nil {
			prop = otel.GetTextMapPropagator()
		}
		prop.Inject(ctx, propagation.HeaderCarrier(conn.Header()))
		return nil
	})
}

// JWTConfig configures JWTAuth.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Subject  string
	Audience []string
	// TTL is the token lifetime. Defaults to five minutes.
	TTL time.Duration
	// Now overrides the clock.
	Now func() time.Time
}

// JWTAuth signs a fresh HS256 bearer token for every call.
func JWTAuth(cfg JWTConfig) ConnectionInitializer {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return InitializerFunc(func(_ context.Context, conn Connection) error {
		if len(cfg.Secret) == 0 {
			return errors.InvalidArgument("jwt secret is required")
		}
		now := cfg.Now()
		claims := jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   cfg.Subject,
			Audience:  jwt.ClaimStrings(cfg.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        uuid.NewString(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
		if err != nil {
			return errors.InvalidArgument("sign jwt: %v", err)
		}
		conn.Header().Add("Authorization", "Bearer "+signed)
		return nil
	})
}
