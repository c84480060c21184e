package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ratio91/NFT-event-tickets/internal/core/services"
)

type TicketHandler struct {
	svc *services.TicketService
}

func NewTicketHandler(svc *services.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// Register mounts all routes under the given group. Every route except
// healthz runs behind the auth middleware installed by the caller.
func (h *TicketHandler) Register(api *gin.RouterGroup) {
	api.POST("/tickets", h.Mint)
	api.GET("/tickets/:id", h.GetTicket)
	api.DELETE("/tickets/:id", h.Destroy)
	api.PUT("/tickets/:id/price", h.SetPrice)
	api.POST("/tickets/:id/sale", h.SetForSale)
	api.DELETE("/tickets/:id/sale", h.CancelSale)
	api.POST("/tickets/:id/approval", h.ApproveBuyer)
	api.POST("/tickets/:id/purchase", h.BuyFromHolder)
	api.POST("/tickets/:id/used", h.MarkUsed)
	api.GET("/tickets/:id/ownership", h.CheckOwnership)
	api.GET("/holders/:id/balance", h.HolderBalance)
	api.GET("/event", h.EventInfo)
	api.GET("/events", h.RecentEvents)
	api.PUT("/admin/supply-cap", h.SetSupplyCap)
	api.POST("/admin/pause", h.Pause)
	api.DELETE("/admin/pause", h.Unpause)
	api.POST("/admin/withdraw", h.Withdraw)
	api.GET("/proceeds", h.Proceeds)
	api.POST("/proceeds/withdraw", h.WithdrawProceeds)
}

func ticketID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "invalid ticket id")
		return 0, false
	}
	return id, true
}

type paymentRequest struct {
	Payment int64 `json:"payment"`
}

type mintResponse struct {
	TicketID uint64 `json:"ticketId"`
}

func (h *TicketHandler) Mint(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid json body")
		return
	}

	id, err := h.svc.Mint(c.Request.Context(), callerID(c), req.Payment)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mintResponse{TicketID: id})
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	view, err := h.svc.Ticket(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *TicketHandler) Destroy(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.svc.Destroy(c.Request.Context(), callerID(c), id); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type setPriceRequest struct {
	Price int64 `json:"price"`
}

func (h *TicketHandler) SetPrice(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid json body")
		return
	}

	if err := h.svc.SetPrice(c.Request.Context(), callerID(c), id, req.Price); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) SetForSale(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.svc.SetForSale(c.Request.Context(), callerID(c), id); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) CancelSale(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.svc.CancelSale(c.Request.Context(), callerID(c), id); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type approveBuyerRequest struct {
	Buyer string `json:"buyer"`
}

func (h *TicketHandler) ApproveBuyer(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req approveBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid json body")
		return
	}

	buyer, err := uuid.Parse(req.Buyer)
	if err != nil {
		writeBadRequest(c, "invalid buyer identity")
		return
	}

	if err := h.svc.ApproveBuyer(c.Request.Context(), callerID(c), id, buyer); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) BuyFromHolder(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid json body")
		return
	}

	if err := h.svc.BuyFromHolder(c.Request.Context(), callerID(c), id, req.Payment); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) MarkUsed(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.svc.MarkUsed(c.Request.Context(), callerID(c), id); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) CheckOwnership(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	isOwner, err := h.svc.IsOwner(callerID(c), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isOwner": isOwner})
}

func (h *TicketHandler) HolderBalance(c *gin.Context) {
	identity, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeBadRequest(c, "invalid holder identity")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": h.svc.BalanceOf(identity)})
}

func (h *TicketHandler) EventInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.EventState())
}

func (h *TicketHandler) RecentEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			writeBadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	events, err := h.svc.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

type supplyCapRequest struct {
	SupplyCap uint64 `json:"supplyCap"`
}

func (h *TicketHandler) SetSupplyCap(c *gin.Context) {
	var req supplyCapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid json body")
		return
	}

	if err := h.svc.SetSupplyCap(c.Request.Context(), callerID(c), req.SupplyCap); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) Pause(c *gin.Context) {
	if err := h.svc.Pause(c.Request.Context(), callerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) Unpause(c *gin.Context) {
	if err := h.svc.Unpause(c.Request.Context(), callerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) Withdraw(c *gin.Context) {
	amount, err := h.svc.Withdraw(c.Request.Context(), callerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

func (h *TicketHandler) Proceeds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"proceeds": h.svc.ProceedsOf(callerID(c))})
}

func (h *TicketHandler) WithdrawProceeds(c *gin.Context) {
	amount, err := h.svc.WithdrawProceeds(c.Request.Context(), callerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount})
}
