package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
)

const (
	codeUnauthenticated  = "unauthenticated"
	codeForbidden        = "forbidden"
	codeNotFound         = "not_found"
	codeSupplyExhausted  = "supply_exhausted"
	codeTicketUsed       = "ticket_used"
	codeNotForSale       = "not_for_sale"
	codePaymentRejected  = "payment_rejected"
	codePriceCapExceeded = "price_cap_exceeded"
	codeSystemPaused     = "system_paused"
	codeInvalidRequest   = "invalid_request"
	codeInternalError    = "internal_error"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeDomainError maps a domain error onto an HTTP status, keeping
// the stable rejection message as the body's error string.
func writeDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := codeInternalError
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusForbidden, codeForbidden
	case errors.Is(err, domain.ErrInsufficientPayment), errors.Is(err, domain.ErrExactPaymentOnly):
		status, code = http.StatusPaymentRequired, codePaymentRejected
	case errors.Is(err, domain.ErrPriceCapExceeded):
		status, code = http.StatusUnprocessableEntity, codePriceCapExceeded
	case errors.Is(err, domain.ErrSupplyExhausted):
		status, code = http.StatusConflict, codeSupplyExhausted
	case errors.Is(err, domain.ErrTicketUsed):
		status, code = http.StatusConflict, codeTicketUsed
	case errors.Is(err, domain.ErrNotForSale):
		status, code = http.StatusConflict, codeNotForSale
	case errors.Is(err, domain.ErrSystemPaused):
		status, code = http.StatusServiceUnavailable, codeSystemPaused
	default:
		msg = "internal server error"
	}

	c.JSON(status, errorBody{Error: msg, Code: code})
}

func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg, Code: codeInvalidRequest})
}
