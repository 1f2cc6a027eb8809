package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	"github.com/anupku07/atm_terminal/internal/core/domain"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/dto"
	"github.com/anupku07/atm_terminal/internal/middleware"
	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	invalidAmountMessage  = "Please enter a valid numeric amount."
	pinLengthMessage      = "PIN must be 4 digits long."
	pinMismatchMessage    = "New PIN and confirmation do not match."
	invalidCurrentPin     = "Invalid current PIN."
	pinChangedMessage     = "PIN changed successfully!"
	accountLockedMessage  = "Account is blocked due to multiple failed attempts."
	noTransactionsMessage = "No transactions found"
)

// atmHandler handles the terminal's account operations.
type atmHandler struct {
	atmService portssvc.ATMSvcFacade
}

func newATMHandler(as portssvc.ATMSvcFacade) *atmHandler {
	return &atmHandler{atmService: as}
}

// registerATMRoutes registers the account operation routes on an authenticated group.
func registerATMRoutes(rg *gin.RouterGroup, atmService portssvc.ATMSvcFacade) {
	h := newATMHandler(atmService)

	rg.GET("/account", h.getAccount)
	rg.GET("/balance", h.getBalance)
	rg.POST("/withdraw", h.withdraw)
	rg.POST("/deposit", h.deposit)
	rg.POST("/transfer", h.transfer)
	rg.POST("/pin", h.changePin)
	rg.GET("/transactions", h.listTransactions)
}

// resultStatus maps an operation outcome to its HTTP status.
func resultStatus(result domain.OperationResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case result.Failed(domain.ErrInsufficientBalance):
		return http.StatusConflict
	case result.Failed(domain.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// getAccount godoc
// @Summary Get the terminal account
// @Description Returns account number, holder name, balance, lock state and limits
// @Tags atm
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 423 {object} ErrorResponse "Account locked"
// @Security BearerAuth
// @Router /atm/account [get]
func (h *atmHandler) getAccount(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToAccountResponse(h.atmService.Summary(c.Request.Context())))
}

// getBalance godoc
// @Summary Get the current balance
// @Tags atm
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /atm/balance [get]
func (h *atmHandler) getBalance(c *gin.Context) {
	balance := h.atmService.Balance(c.Request.Context())
	c.JSON(http.StatusOK, dto.BalanceResponse{
		Balance:   balance,
		Formatted: utils.FormatMoney(h.atmService.CurrencySymbol(), balance),
	})
}

// withdraw godoc
// @Summary Withdraw cash
// @Description Withdraws up to the daily withdrawal limit
// @Tags atm
// @Accept json
// @Produce json
// @Param request body dto.AmountRequest true "Amount"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} dto.ResultResponse "Invalid amount"
// @Failure 409 {object} dto.ResultResponse "Insufficient balance"
// @Failure 422 {object} dto.ResultResponse "Limit exceeded"
// @Security BearerAuth
// @Router /atm/withdraw [post]
func (h *atmHandler) withdraw(c *gin.Context) {
	var req dto.AmountRequest
	if !bindAmount(c, &req) {
		return
	}
	h.respond(c, h.atmService.Withdraw(c.Request.Context(), *req.Amount))
}

// deposit godoc
// @Summary Deposit cash
// @Description Deposits up to the daily deposit limit
// @Tags atm
// @Accept json
// @Produce json
// @Param request body dto.AmountRequest true "Amount"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} dto.ResultResponse "Invalid amount"
// @Failure 422 {object} dto.ResultResponse "Limit exceeded"
// @Security BearerAuth
// @Router /atm/deposit [post]
func (h *atmHandler) deposit(c *gin.Context) {
	var req dto.AmountRequest
	if !bindAmount(c, &req) {
		return
	}
	h.respond(c, h.atmService.Deposit(c.Request.Context(), *req.Amount))
}

// transfer godoc
// @Summary Transfer to another account
// @Tags atm
// @Accept json
// @Produce json
// @Param request body dto.TransferRequest true "Amount and target account"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} dto.ResultResponse "Invalid amount or missing target"
// @Failure 409 {object} dto.ResultResponse "Insufficient balance"
// @Failure 422 {object} dto.ResultResponse "Limit exceeded"
// @Security BearerAuth
// @Router /atm/transfer [post]
func (h *atmHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindAmount(c, &req) {
		return
	}
	h.respond(c, h.atmService.Transfer(c.Request.Context(), *req.Amount, req.TargetAccount))
}

// changePin godoc
// @Summary Change the PIN
// @Description A wrong current PIN counts toward the lockout
// @Tags atm
// @Accept json
// @Produce json
// @Param request body dto.ChangePinRequest true "Current, new and confirmed PIN"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "New PIN invalid or not confirmed"
// @Failure 401 {object} ErrorResponse "Invalid current PIN"
// @Failure 423 {object} ErrorResponse "Account locked"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /atm/pin [post]
func (h *atmHandler) changePin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChangePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind PIN change request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: pinChangeBindMessage(err)})
		return
	}

	changed, err := h.atmService.ChangePin(c.Request.Context(), req.CurrentPin, req.NewPin)
	if err != nil {
		logger.Error("Failed to change PIN", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to change PIN"})
		return
	}
	if changed {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: pinChangedMessage})
		return
	}
	if h.atmService.IsLocked() {
		c.JSON(http.StatusLocked, ErrorResponse{Error: accountLockedMessage})
		return
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: invalidCurrentPin})
}

// pinChangeBindMessage checks the new PIN before its confirmation.
func pinChangeBindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request format"
	}
	for _, fe := range verrs {
		if fe.Field() == "NewPin" {
			return pinLengthMessage
		}
	}
	for _, fe := range verrs {
		if fe.Field() == "ConfirmPin" {
			return pinMismatchMessage
		}
	}
	return "Invalid request format"
}

// listTransactions godoc
// @Summary List transaction history
// @Description Ledger entries in chronological order, paged with nextToken
// @Tags atm
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /atm/transactions [get]
func (h *atmHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind transaction list query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txs, next, err := h.atmService.History(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid nextToken"})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	resp := dto.ListTransactionsResponse{
		Transactions: dto.ToHistoryRows(txs, h.atmService.CurrencySymbol()),
		NextToken:    next,
	}
	if len(txs) == 0 && params.NextToken == nil {
		resp.Message = noTransactionsMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (h *atmHandler) respond(c *gin.Context, result domain.OperationResult) {
	c.JSON(resultStatus(result), dto.ToResultResponse(result))
}

// bindAmount binds an amount-carrying body. It writes the 400 response itself on failure.
func bindAmount(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind amount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidAmountMessage})
		return false
	}
	return true
}
