package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	"github.com/anupku07/atm_terminal/internal/core/domain"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/utils"
)

const (
	NoRecentTransactionText = "No recent transaction found."
	ReceiptPrintedText      = "Receipt sent to printer!"
	ReceiptSavedText        = "Receipt saved as receipt.txt"

	receiptRule = "==============================="
)

// RenderReceipt formats the receipt for tx.
func RenderReceipt(accountNumber, holderName, currencySymbol string, tx domain.Transaction) string {
	var b strings.Builder
	b.WriteString(receiptRule + "\n")
	b.WriteString("        SECUREBANK ATM\n")
	b.WriteString("     Transaction Receipt\n")
	b.WriteString(receiptRule + "\n\n")
	fmt.Fprintf(&b, "Date/Time: %s\n", utils.FormatTimestamp(tx.Timestamp))
	fmt.Fprintf(&b, "Account: %s\n", accountNumber)
	fmt.Fprintf(&b, "Account Holder: %s\n\n", holderName)
	fmt.Fprintf(&b, "Transaction Type: %s\n", tx.Type())
	fmt.Fprintf(&b, "Amount: %s\n", utils.FormatMoney(currencySymbol, tx.Amount))
	fmt.Fprintf(&b, "Balance After: %s\n\n", utils.FormatMoney(currencySymbol, tx.BalanceAfter))
	b.WriteString(receiptRule + "\n")
	b.WriteString("   Thank you for banking with us!\n")
	b.WriteString(receiptRule)
	return b.String()
}

type receiptService struct {
	BaseService
	atm portssvc.ATMReaderSvc
}

// NewReceiptService creates a receipt service reading from atm.
func NewReceiptService(atm portssvc.ATMReaderSvc) portssvc.ReceiptSvc {
	return &receiptService{atm: atm}
}

func (s *receiptService) RenderReceipt(ctx context.Context) (string, bool) {
	tx, ok := s.atm.LastTransaction(ctx)
	if !ok {
		return NoRecentTransactionText, false
	}
	summary := s.atm.Summary(ctx)
	return RenderReceipt(summary.AccountNumber, summary.HolderName, s.atm.CurrencySymbol(), tx), true
}

// PrintReceipt does not talk to a printer; the terminal only confirms the request.
func (s *receiptService) PrintReceipt(ctx context.Context) (string, error) {
	if _, ok := s.RenderReceipt(ctx); !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, NoRecentTransactionText)
	}
	s.LogInfo(ctx, "Receipt sent to printer")
	return ReceiptPrintedText, nil
}

// SaveReceipt does not write a file; the terminal only confirms the request.
func (s *receiptService) SaveReceipt(ctx context.Context) (string, error) {
	if _, ok := s.RenderReceipt(ctx); !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, NoRecentTransactionText)
	}
	s.LogInfo(ctx, "Receipt saved")
	return ReceiptSavedText, nil
}
