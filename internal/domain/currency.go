package domain

import (
	"strings"
	"time"
)

type Currency struct {
	ID        int64
	Code      string
	Name      string
	Symbol    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CurrencyInput struct {
	Code   string `json:"code" validate:"required,len=3,uppercase"`
	Name   string `json:"name" validate:"required"`
	Symbol string `json:"symbol" validate:"required"`
}

func NewCurrency(in CurrencyInput) (*Currency, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Symbol = strings.TrimSpace(in.Symbol)

	verr := NewValidationError("currency")
	checkStruct(verr, in)
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &Currency{Code: in.Code, Name: in.Name, Symbol: in.Symbol}, nil
}
