package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loslabs/launchpad-gateway/internal/gating"
)

// handlePricing quotes the mint price for a wallet and username.
// GET /api/pricing?wallet=<address>&username=<name>
func (s *Server) handlePricing(c *gin.Context) {
	wallet := c.Query("wallet")
	username := c.Query("username")
	if wallet == "" || username == "" {
		respError(c, http.StatusBadRequest, "missing_params")
		return
	}

	quote, err := s.pricing.Quote(c.Request.Context(), wallet, username)
	if err != nil {
		s.gatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// handleEligibility returns the raw eligibility evaluation for a wallet.
// GET /api/eligibility?wallet=<address>
func (s *Server) handleEligibility(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		respError(c, http.StatusBadRequest, "missing_params")
		return
	}

	result, err := s.pricing.CheckEligibility(c.Request.Context(), wallet)
	if err != nil {
		s.gatingError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) gatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gating.ErrInvalidAddress):
		respError(c, http.StatusBadRequest, "invalid_address")
	case errors.Is(err, gating.ErrBalanceUnavailable):
		respError(c, http.StatusBadGateway, "balance_unavailable")
	default:
		s.log.Error("pricing request failed", "error", err)
		respError(c, http.StatusInternalServerError, "internal_error")
	}
}
