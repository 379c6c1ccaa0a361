package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const rateLimitedMessage = "Too many attempts, please try again later"

// RateLimiterStore counts attempts in a TTL-bounded window.
type RateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles one credential endpoint by client address and
// by the e-mail in the request body. A zero limit disables that dimension.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// counterKey namespaces counters as rl:<policy>:<dimension>:<subject>.
func (p AuthRateLimitPolicy) counterKey(dimension, subject string) string {
	return "rl:" + p.name + ":" + dimension + ":" + subject
}

type rateCheck struct {
	dimension string
	subject   string
	limit     int
}

// AuthRateLimit rejects register/login attempts beyond the policy with 429.
// Store failures surface as 503 rather than letting traffic through.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			checks := make([]rateCheck, 0, 2)
			if ip := clientIP(r); policy.ipLimit > 0 && ip != "" {
				checks = append(checks, rateCheck{dimension: "ip", subject: ip, limit: policy.ipLimit})
			}
			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if email := emailFromBody(body); email != "" {
					checks = append(checks, rateCheck{dimension: "email", subject: hashValue(email), limit: policy.emailLimit})
				}
			}

			for _, check := range checks {
				count, err := store.IncrWithTTL(ctx, policy.counterKey(check.dimension, check.subject), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting unavailable"))
					return
				}
				if count > int64(check.limit) {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":    policy.name,
							"dimension": check.dimension,
							"attempts":  count,
							"limit":     check.limit,
						}), "auth.rate_limited")
					}
					w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, rateLimitedMessage))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop set by the load balancer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
