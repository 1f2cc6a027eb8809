package dto

import (
	"time"

	"github.com/anupku07/atm_terminal/internal/core/domain"
	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/shopspring/decimal"
)

// AmountRequest is the body of withdraw and deposit.
// Amount accepts a JSON number or a numeric string.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"500.00"`
}

// TransferRequest is the body of a transfer. A blank target is reported by the account, not by binding.
type TransferRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"1000.00"`
	TargetAccount string           `json:"targetAccount" example:"ACC987654321"`
}

// ChangePinRequest is the body of a PIN change.
// CurrentPin is not bound; an empty value is checked by the account like any other PIN.
type ChangePinRequest struct {
	CurrentPin string `json:"currentPin"`
	NewPin     string `json:"newPin" binding:"required,len=4"`
	ConfirmPin string `json:"confirmPin" binding:"required,eqfield=NewPin"`
}

// ResultResponse mirrors domain.OperationResult.
type ResultResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Balance     decimal.Decimal      `json:"balance" swaggertype:"string"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// TransactionResponse is a ledger entry as returned by the API.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter" swaggertype:"string"`
	Timestamp     time.Time       `json:"timestamp"`
}

// MessageResponse carries a single confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountResponse defines the data returned for the terminal account.
type AccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string"`
	Locked        bool            `json:"locked"`
	Limits        LimitsResponse  `json:"limits"`
}

// LimitsResponse lists the per-operation maxima.
type LimitsResponse struct {
	MaxWithdrawal decimal.Decimal `json:"maxWithdrawal" swaggertype:"string"`
	MaxDeposit    decimal.Decimal `json:"maxDeposit" swaggertype:"string"`
	MaxTransfer   decimal.Decimal `json:"maxTransfer" swaggertype:"string"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	Balance   decimal.Decimal `json:"balance" swaggertype:"string"`
	Formatted string          `json:"formatted"` // e.g. "Rs 25000.00"
}

// ListTransactionsParams defines query parameters for the transaction history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// HistoryRow is one line of the transaction history as shown on the terminal.
type HistoryRow struct {
	DateTime string `json:"dateTime"` // dd/MM/yyyy HH:mm:ss
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Balance  string `json:"balance"`
}

// ListTransactionsResponse wraps a page of history rows.
// Message is set when the ledger is empty.
type ListTransactionsResponse struct {
	Transactions []HistoryRow `json:"transactions"`
	Message      string       `json:"message,omitempty"`
	NextToken    *string      `json:"nextToken,omitempty"`
}

// ReceiptResponse carries the rendered receipt text.
type ReceiptResponse struct {
	Receipt   string `json:"receipt"`
	Available bool   `json:"available"`
}

// ToResultResponse converts a domain.OperationResult to ResultResponse DTO
func ToResultResponse(result domain.OperationResult) ResultResponse {
	resp := ResultResponse{
		Success: result.Success,
		Message: result.Message,
		Balance: result.Balance,
	}
	if result.Transaction != nil {
		tx := ToTransactionResponse(*result.Transaction)
		resp.Transaction = &tx
	}
	return resp
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: tx.TransactionID,
		Type:          tx.Type(),
		Amount:        tx.Amount,
		BalanceAfter:  tx.BalanceAfter,
		Timestamp:     tx.Timestamp,
	}
}

// ToAccountResponse converts a domain.AccountSummary to AccountResponse DTO
func ToAccountResponse(summary domain.AccountSummary) AccountResponse {
	return AccountResponse{
		AccountNumber: summary.AccountNumber,
		HolderName:    summary.HolderName,
		Balance:       summary.Balance,
		Locked:        summary.Locked,
		Limits: LimitsResponse{
			MaxWithdrawal: summary.Limits.MaxWithdrawal,
			MaxDeposit:    summary.Limits.MaxDeposit,
			MaxTransfer:   summary.Limits.MaxTransfer,
		},
	}
}

// ToHistoryRow formats a ledger entry for the history table.
func ToHistoryRow(tx domain.Transaction, currencySymbol string) HistoryRow {
	return HistoryRow{
		DateTime: utils.FormatTimestamp(tx.Timestamp),
		Type:     tx.Type(),
		Amount:   utils.FormatMoney(currencySymbol, tx.Amount),
		Balance:  utils.FormatMoney(currencySymbol, tx.BalanceAfter),
	}
}

// ToHistoryRows formats ledger entries in order.
func ToHistoryRows(txs []domain.Transaction, currencySymbol string) []HistoryRow {
	rows := make([]HistoryRow, len(txs))
	for i, tx := range txs {
		rows[i] = ToHistoryRow(tx, currencySymbol)
	}
	return rows
}
