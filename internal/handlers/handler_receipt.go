package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/dto"
	"github.com/anupku07/atm_terminal/internal/middleware"
	"github.com/gin-gonic/gin"
)

type receiptHandler struct {
	receiptService portssvc.ReceiptSvc
}

func newReceiptHandler(rs portssvc.ReceiptSvc) *receiptHandler {
	return &receiptHandler{receiptService: rs}
}

func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvc) {
	h := newReceiptHandler(receiptService)

	receipt := rg.Group("/receipt")
	{
		receipt.GET("", h.getReceipt)
		receipt.POST("/print", h.printReceipt)
		receipt.POST("/save", h.saveReceipt)
	}
}

// getReceipt godoc
// @Summary Receipt for the most recent transaction
// @Tags receipt
// @Produce json
// @Success 200 {object} dto.ReceiptResponse
// @Security BearerAuth
// @Router /atm/receipt [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	text, ok := h.receiptService.RenderReceipt(c.Request.Context())
	c.JSON(http.StatusOK, dto.ReceiptResponse{Receipt: text, Available: ok})
}

// printReceipt godoc
// @Summary Print the receipt
// @Tags receipt
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse "No recent transaction"
// @Security BearerAuth
// @Router /atm/receipt/print [post]
func (h *receiptHandler) printReceipt(c *gin.Context) {
	msg, err := h.receiptService.PrintReceipt(c.Request.Context())
	h.dispatched(c, msg, err)
}

// saveReceipt godoc
// @Summary Save the receipt as text
// @Tags receipt
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse "No recent transaction"
// @Security BearerAuth
// @Router /atm/receipt/save [post]
func (h *receiptHandler) saveReceipt(c *gin.Context) {
	msg, err := h.receiptService.SaveReceipt(c.Request.Context())
	h.dispatched(c, msg, err)
}

func (h *receiptHandler) dispatched(c *gin.Context, msg string, err error) {
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No recent transaction found."})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to dispatch receipt", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to dispatch receipt"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}
