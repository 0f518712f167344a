package entities

// ReceiptFields holds best-effort fields extracted from a scanned receipt.
// Fields the extractor could not determine are empty strings. These values
// pre-fill the expense form and are never trusted as validated input.
type ReceiptFields struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
}
