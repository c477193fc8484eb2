package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"rentacar-backend/internal/config"
	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/security"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request an id, reusing a well-formed one sent by the client.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", clientIP(r),
		)
	})
}

// AuthMiddleware authenticates and authorizes requests by the security level of the matched route.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler must be installed with Router.Use so the matched route is known.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routeName := ""
		if route := mux.CurrentRoute(r); route != nil {
			routeName = route.GetName()
		}
		level := config.GetSecurityLevel(routeName)
		origin := clientIP(r)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), domain.Actor{Origin: origin})))
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeStatus(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", err.Error())
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeStatus(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", fmt.Sprintf("invalid token: %v", err))
			return
		}

		if err := checkSecurityLevel(level, claims); err != nil {
			writeStatus(w, r, http.StatusForbidden, "FORBIDDEN", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), claims.Actor(origin))))
	})
}

func extractToken(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", fmt.Errorf("authorization token is not provided")
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return token, nil
}

func checkSecurityLevel(level config.SecurityLevel, claims *security.UserClaims) error {
	switch level {
	case config.SecurityStaff:
		if !claims.Role.IsStaff() {
			return fmt.Errorf("staff role required")
		}
	case config.SecurityAdmin:
		if claims.Role != domain.RoleAdmin {
			return fmt.Errorf("admin role required")
		}
	}
	return nil
}

// ParseCustomRate allows formats like "10-2m", "100-1m", "5-1h", "20-10s".
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(rateStr, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	durationStr := parts[1]
	var unit time.Duration
	switch {
	case strings.HasSuffix(durationStr, "s"):
		unit = time.Second
	case strings.HasSuffix(durationStr, "m"):
		unit = time.Minute
	case strings.HasSuffix(durationStr, "h"):
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}
	n, err := strconv.Atoi(durationStr[:len(durationStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %s", durationStr)
	}

	return limiter.Rate{
		Period: time.Duration(n) * unit,
		Limit:  int64(limit),
	}, nil
}

// NewRateLimitStore returns a redis-backed store when rdb is set, otherwise an in-process one.
func NewRateLimitStore(rdb *redis.Client, period time.Duration) (limiter.Store, error) {
	opts := limiter.StoreOptions{
		Prefix:          "rentacar_rate_limiter",
		MaxRetry:        3,
		CleanUpInterval: period,
	}
	if rdb == nil {
		return memorystore.NewStoreWithOptions(opts), nil
	}
	store, err := redisstore.NewStoreWithOptions(rdb, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimit limits requests per client IP.
func RateLimit(store limiter.Store, rate limiter.Rate) mux.MiddlewareFunc {
	mw := stdlib.NewMiddleware(limiter.New(store, rate),
		stdlib.WithKeyGetter(clientIP),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Rate limit reached", "remote", clientIP(r))
			writeStatus(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "Rate limiter failed", "error", err)
			writeStatus(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
		}),
	)
	return mw.Handler
}
