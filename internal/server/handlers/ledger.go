package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peterso/event-sourced-ledger/internal/ledger"
)

// LedgerHandler serves the read-only surface: ping, balances, event history.
type LedgerHandler struct {
	ledger *ledger.Ledger
}

func NewLedgerHandler(engine *ledger.Ledger) *LedgerHandler {
	return &LedgerHandler{
		ledger: engine,
	}
}

// Ping reports the server time, the service's liveness check.
func (h *LedgerHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		ServerTime: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// Balance returns the projected balance for a user.
func (h *LedgerHandler) Balance(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "userId is a mandatory field", Code: codeBadRequest})
		return
	}

	balance, err := h.ledger.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error(), Code: codeInternal})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		UserID:   userID,
		Balance:  balance.String(),
		Currency: balance.Currency,
	})
}

// Events returns the full event history in insertion order, the audit view.
func (h *LedgerHandler) Events(c *gin.Context) {
	events, err := h.ledger.Events()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error(), Code: codeInternal})
		return
	}

	view := make([]gin.H, 0, len(events))
	for _, e := range events {
		view = append(view, gin.H{
			"id":        e.ID.String(),
			"createdAt": e.CreatedAt,
			"userId":    e.UserID,
			"messageId": e.MessageID,
			"kind":      e.Kind,
			"amount": AmountDTO{
				Amount:        e.Amount.String(),
				Currency:      e.Amount.Currency,
				DebitOrCredit: string(e.Amount.DebitOrCredit),
			},
			"outcome": e.Outcome,
		})
	}
	c.JSON(http.StatusOK, view)
}
