package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peterso/event-sourced-ledger/internal/ledger"
)

type Handlers struct {
	Ledger *ledger.Ledger
	Logger zerolog.Logger
}

func New(engine *ledger.Ledger, logger zerolog.Logger) *Handlers {
	return &Handlers{
		Ledger: engine,
		Logger: logger,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	transactionHandler := NewTransactionHandler(h.Ledger, h.Logger)
	ledgerHandler := NewLedgerHandler(h.Ledger)

	router.GET("/ping", ledgerHandler.Ping)
	router.GET("/balance", ledgerHandler.Balance)
	router.GET("/events", ledgerHandler.Events)

	router.PUT("/load", transactionHandler.Load)
	router.PUT("/authorization", transactionHandler.Authorization)
}
