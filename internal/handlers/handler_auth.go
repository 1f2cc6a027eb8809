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

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler handles PIN authentication.
type authHandler struct {
	sessionService portssvc.SessionSvc
}

func newAuthHandler(ss portssvc.SessionSvc) *authHandler {
	return &authHandler{sessionService: ss}
}

// authenticatePin godoc
// @Summary Authenticate with the card PIN
// @Description Validates the PIN and returns a session token. Three consecutive wrong PINs lock the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.PinLoginRequest true "PIN"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} dto.PinErrorResponse "Invalid PIN"
// @Failure 423 {object} dto.PinErrorResponse "Account locked"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse
// @Router /auth/pin [post]
func (h *authHandler) authenticatePin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PinLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind PIN login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), req.Pin)
	if err != nil {
		var rejected *apperrors.PinRejectedError
		if errors.As(err, &rejected) {
			status := http.StatusUnauthorized
			if errors.Is(err, apperrors.ErrLocked) {
				status = http.StatusLocked
			}
			c.JSON(status, dto.PinErrorResponse{Error: rejected.Error(), AttemptsLeft: rejected.AttemptsLeft})
			return
		}
		logger.Error("Failed to open session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to open session"})
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}
