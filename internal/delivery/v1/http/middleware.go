package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type sessionCtxKey struct{}

var errNoSession = e.ErrUnauthenticated

// SessionFromCtx возвращает сессию, положенную в контекст RequireSession.
func SessionFromCtx(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*domain.Session)
	return s, ok && s != nil
}

func sessionIDFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}

	return ""
}

// RequireSession пропускает запрос только с действующей сессией из cookie или заголовка Authorization.
func RequireSession(authUC usecase.AuthUC, cookieName string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authUC.Authenticate(r.Context(), sessionIDFromRequest(r, cookieName))
			if err != nil {
				respondError(w, log, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session)))
		})
	}
}

// RequireRole пропускает только сессии с указанной ролью. Ставится после RequireSession.
func RequireRole(role string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromCtx(r.Context())
			if !ok {
				respondError(w, log, r, errNoSession)
				return
			}
			if session.Role != role {
				respondError(w, log, r, e.Wrap(session.Email, e.ErrAccessDenied))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog пишет по строке zap-лога на каждый запрос.
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_ip", r.RemoteAddr),
			)
		})
	}
}

// Metrics — счётчики и гистограммы HTTP-запросов для Prometheus.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop_admin",
			Name:      "http_requests_total",
			Help:      "Количество HTTP-запросов.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shop_admin",
			Name:      "http_request_duration_seconds",
			Help:      "Длительность обработки HTTP-запросов.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)

	return m
}

// Middleware собирает метрики. Маршрут берётся из шаблона chi, чтобы не раздувать метки.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Recover превращает панику обработчика в ответ 500 в общем формате ошибок.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Errorf(fmt.Errorf("panic: %v", rec), "%s %s\n%s", r.Method, r.URL.Path, debug.Stack())
					WriteError(w, e.ErrInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
