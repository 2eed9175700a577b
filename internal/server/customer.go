package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/railzwaylabs/billingmock/internal/customer/domain"
)

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if s.replayIdempotent(c) {
		return
	}

	customer, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.rememberIdempotent(c, http.StatusOK, customer)
	respondData(c, customer)
}

func (s *Server) GetCustomer(c *gin.Context) {
	customer, err := s.customerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	list, err := s.customerSvc.Subscriptions(c.Request.Context(), customer.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	customer.Subscriptions = &list
	respondData(c, customer)
}

func (s *Server) ListCustomerSubscriptions(c *gin.Context) {
	list, err := s.customerSvc.Subscriptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, list)
}
