package contract

import "time"

// LedgerRow is one realized money movement as shown in a ledger listing.
// FinanceTitle is empty for executions not tied to a finance record.
type LedgerRow struct {
	ID             int64     `json:"id"`
	FinanceID      *int64    `json:"finance_id,omitempty"`
	FinanceTitle   string    `json:"finance_title,omitempty"`
	ProjectID      int64     `json:"project_id"`
	Date           time.Time `json:"date"`
	Amount         float64   `json:"amount"`
	CurrencyID     int64     `json:"currency_id"`
	CurrencyCode   string    `json:"currency_code"`
	CurrencySymbol string    `json:"currency_symbol"`
}

type LedgerPage struct {
	Rows []LedgerRow `json:"rows"`
	Page
}

type CurrencyTotal struct {
	CurrencyID int64   `json:"currency_id"`
	Code       string  `json:"code"`
	Symbol     string  `json:"symbol"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}
