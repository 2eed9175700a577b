package server

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/billingmock/internal/idempotency"
	"go.uber.org/zap"
)

func idempotencyKeyFromHeader(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("Idempotency-Key"))
}

// replayIdempotent writes the recorded response for the request's
// Idempotency-Key and reports whether it did.
func (s *Server) replayIdempotent(c *gin.Context) bool {
	key := idempotencyKeyFromHeader(c)
	if key == "" {
		return false
	}
	rec, err := s.idem.Lookup(c.Request.Context(), key)
	if err != nil {
		s.log.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if rec == nil {
		return false
	}
	c.Data(rec.Status, "application/json", rec.Body)
	c.Abort()
	return true
}

// rememberIdempotent records the response about to be written so retries of
// the same Idempotency-Key replay it.
func (s *Server) rememberIdempotent(c *gin.Context, status int, body any) {
	key := idempotencyKeyFromHeader(c)
	if key == "" {
		return
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return
	}
	if err := s.idem.Remember(c.Request.Context(), key, idempotency.Record{Status: status, Body: raw}); err != nil {
		s.log.Warn("idempotency save failed", zap.String("key", key), zap.Error(err))
	}
}
