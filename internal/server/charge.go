package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCharges(c *gin.Context) {
	charges, err := s.chargeSvc.List(c.Request.Context(), c.Query("customer"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, charges)
}

func (s *Server) GetCharge(c *gin.Context) {
	charge, err := s.chargeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, charge)
}
