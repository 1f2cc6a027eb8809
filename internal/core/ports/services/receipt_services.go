package services

import "context"

// ReceiptSvc renders and dispatches receipts for the most recent transaction.
type ReceiptSvc interface {
	// RenderReceipt returns the receipt text and whether a transaction exists.
	RenderReceipt(ctx context.Context) (string, bool)
	// PrintReceipt simulates sending the receipt to the printer.
	PrintReceipt(ctx context.Context) (string, error)
	// SaveReceipt simulates saving the receipt as a text file.
	SaveReceipt(ctx context.Context) (string, error)
}
