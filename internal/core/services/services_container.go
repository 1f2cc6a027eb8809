package services

import (
	"github.com/anupku07/atm_terminal/internal/core/domain"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/platform/config"
	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/anupku07/atm_terminal/pkg/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, account *domain.Account, collector *metrics.MetricsCollector, analytics *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ATM service is the only writer; the others read through it
	container.ATM = NewATMService(account, WithMetrics(collector), WithAnalytics(analytics))
	container.Session = NewSessionService(cfg, container.ATM)
	container.Receipt = NewReceiptService(container.ATM)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ATMSvcFacade = (*atmService)(nil)
	_ portssvc.SessionSvc   = (*sessionService)(nil)
	_ portssvc.ReceiptSvc   = (*receiptService)(nil)
)
