package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	testclockctx "github.com/railzwaylabs/billingmock/internal/testclock/context"
	testclockdomain "github.com/railzwaylabs/billingmock/internal/testclock/domain"
	"go.uber.org/zap"
)

const testClockHeader = "Billingmock-Test-Clock"

// testClockMiddleware pins request time to a test clock's frozen time when
// the request names one.
func (s *Server) testClockMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(testClockHeader)
		if id == "" {
			c.Next()
			return
		}
		tc, err := s.testClockSvc.Get(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		ctx := testclockctx.WithTestClock(c.Request.Context(), tc.ID, time.Unix(tc.FrozenTime, 0))
		c.Request = c.Request.WithContext(ctx)
		s.log.Debug("request pinned to test clock",
			zap.String("test_clock_id", tc.ID),
			zap.Int64("frozen_time", tc.FrozenTime))
		c.Next()
	}
}

func (s *Server) CreateTestClock(c *gin.Context) {
	var req testclockdomain.CreateTestClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tc, err := s.testClockSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tc)
}

func (s *Server) GetTestClock(c *gin.Context) {
	tc, err := s.testClockSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tc)
}

func (s *Server) AdvanceTestClock(c *gin.Context) {
	var req struct {
		FrozenTime int64 `json:"frozen_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tc, err := s.testClockSvc.Advance(c.Request.Context(), c.Param("id"), req.FrozenTime)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, tc)
}

func (s *Server) ListTestClocks(c *gin.Context) {
	clocks, err := s.testClockSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, clocks)
}

func (s *Server) DeleteTestClock(c *gin.Context) {
	if err := s.testClockSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
