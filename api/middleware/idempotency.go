package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/ims-backend/api/responses"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
	"github.com/angelmondragon/ims-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/ims-backend/pkg/redis"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	replayHeader         = "Idempotent-Replayed"
	orderIdempotencyTTL  = 7 * 24 * time.Hour
	idempotencyLease     = time.Minute
	maxIdempotencyKeyLen = 255
)

// idempotentRoute selects an order write by method and path shape.
type idempotentRoute struct {
	method string
	prefix string
	suffix string
	exact  bool
}

func (r idempotentRoute) matches(method, path string) bool {
	if method != r.method {
		return false
	}
	if r.exact {
		return path == r.prefix
	}
	return len(path) > len(r.prefix)+len(r.suffix) &&
		strings.HasPrefix(path, r.prefix) && strings.HasSuffix(path, r.suffix)
}

var idempotentRoutes = []idempotentRoute{
	{method: http.MethodPost, prefix: "/api/v1/orders", exact: true},
	{method: http.MethodPost, prefix: "/api/v1/orders/", suffix: "/cancel"},
}

// storedResponse is what a completed key replays.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency makes order writes safe to retry under the same Idempotency-Key.
// The first request reserves the key; concurrent duplicates get 409 until it
// finishes, later ones replay its response. Responses of 5xx and 429 release
// the key so the client can retry it.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !isIdempotentRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			id := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			switch {
			case id == "":
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			case len(id) > maxIdempotencyKeyLen:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			hash := requestHash(body)
			scope := idempotencyScope(r)

			stored, reserved, err := store.Reserve(ctx, scope, id, idempotencyLease)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				replay(ctx, logg, w, stored, hash, id)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// The client may be gone by now; the key must still settle.
			settleCtx := context.WithoutCancel(ctx)
			status := capture.statusCode()
			if !storable(status) {
				if err := store.Release(settleCtx, scope, id); err != nil {
					logError(ctx, logg, "release idempotency key", err)
				}
				return
			}

			record, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				RequestHash: hash,
			})
			if err == nil {
				err = store.Complete(settleCtx, scope, id, string(record), orderIdempotencyTTL)
			}
			if err != nil {
				logError(ctx, logg, "persist idempotency record", err)
			}
		})
	}
}

// storable reports whether a response status is final for its key. Rate
// limiting and server failures say nothing about the request itself.
func storable(status int) bool {
	return status != http.StatusTooManyRequests && status < http.StatusInternalServerError
}

func replay(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, stored, hash, id string) {
	if pkgredis.IsPending(stored) {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "a request with this Idempotency-Key is still in progress").
			WithDetails(map[string]any{"idempotency_key": id, "in_progress": true}))
		return
	}

	var record storedResponse
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if record.RequestHash != hash {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body").
			WithDetails(map[string]any{"idempotency_key": id}))
		return
	}

	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set(replayHeader, "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(record.Body)
}

func isIdempotentRoute(method, path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, route := range idempotentRoutes {
		if route.matches(method, path) {
			return true
		}
	}
	return false
}

// idempotencyScope ties a key to the caller and the exact endpoint.
func idempotencyScope(r *http.Request) string {
	return UserIDFromContext(r.Context()) + "|" + r.Method + "|" + strings.TrimSuffix(r.URL.Path, "/")
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg != nil {
		logg.Error(ctx, msg, err)
	}
}
