package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peterso/event-sourced-ledger/internal/ledger"
	"github.com/peterso/event-sourced-ledger/internal/models"
)

const (
	codeBadRequest = "400 BAD_REQUEST"
	codeConflict   = "409 CONFLICT"
	codeInternal   = "500 INTERNAL_SERVER_ERROR"
)

// TransactionHandler exposes the two ledger operations over HTTP.
type TransactionHandler struct {
	ledger *ledger.Ledger
	logger zerolog.Logger
}

func NewTransactionHandler(engine *ledger.Ledger, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger: engine,
		logger: logger,
	}
}

// Load handles PUT /load: records a credit and returns the new balance.
func (h *TransactionHandler) Load(c *gin.Context) {
	var req LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Code: codeBadRequest})
		return
	}

	amount, err := parseRequestAmount(req.TransactionAmount, models.DirectionCredit)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: codeBadRequest})
		return
	}

	result, err := h.ledger.HandleLoad(c.Request.Context(), req.UserID, req.MessageID, amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, LoadResponse{
		UserID:    result.UserID,
		MessageID: result.MessageID,
		Balance: AmountDTO{
			Amount:        result.Balance.String(),
			Currency:      result.Balance.Currency,
			DebitOrCredit: string(result.Balance.DebitOrCredit),
		},
	})
}

// Authorization handles PUT /authorization: decides a debit against the
// current balance. A declined authorization is still a 201; the decision is a
// business result, not an error.
func (h *TransactionHandler) Authorization(c *gin.Context) {
	var req AuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Code: codeBadRequest})
		return
	}

	amount, err := parseRequestAmount(req.TransactionAmount, models.DirectionDebit)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: codeBadRequest})
		return
	}

	result, err := h.ledger.HandleAuthorize(c.Request.Context(), req.UserID, req.MessageID, amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthorizationResponse{
		UserID:       result.UserID,
		MessageID:    result.MessageID,
		ResponseCode: string(result.ResponseCode),
		Balance: AmountDTO{
			Amount:        result.Balance.String(),
			Currency:      result.Balance.Currency,
			DebitOrCredit: string(result.Balance.DebitOrCredit),
		},
	})
}

// parseRequestAmount validates the wire amount and asserts the direction
// expected by the operation. The engine re-asserts direction as a structural
// invariant; checking here gives the caller a 400 before any engine work.
func parseRequestAmount(dto AmountDTO, expected models.Direction) (models.Money, error) {
	if dto.Currency == "" {
		return models.Money{}, errors.New("currency must not be blank")
	}
	direction, err := models.ParseDirection(dto.DebitOrCredit)
	if err != nil {
		return models.Money{}, err
	}
	if direction != expected {
		return models.Money{}, models.ErrAmountTypeMismatch
	}
	return models.ParseAmount(dto.Amount, dto.Currency, direction)
}

func (h *TransactionHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrBlankIdentifier),
		errors.Is(err, models.ErrAmountTypeMismatch),
		errors.Is(err, models.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: codeBadRequest})
	case errors.Is(err, models.ErrMessageConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: codeConflict})
	default:
		h.logger.Error().Err(err).Msg("transaction handling failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error(), Code: codeInternal})
	}
}
