package domain

import (
	"math"
	"strings"
	"time"
)

// Finance is a planned or recurring money record attached to a project.
type Finance struct {
	ID         int64
	ProjectID  int64
	TaskID     *int64
	HabitID    *int64
	Title      string
	Amount     float64
	CurrencyID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type FinanceInput struct {
	ProjectID  int64   `json:"project_id" validate:"gt=0"`
	TaskID     *int64  `json:"task_id" validate:"omitempty,gt=0"`
	HabitID    *int64  `json:"habit_id" validate:"omitempty,gt=0"`
	Title      string  `json:"title" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	CurrencyID int64   `json:"currency_id" validate:"gt=0"`
}

func NewFinance(in FinanceInput) (*Finance, error) {
	in.Title = strings.TrimSpace(in.Title)

	verr := NewValidationError("finance")
	checkStruct(verr, in)
	if math.IsInf(in.Amount, 0) {
		verr.Add("amount must be finite")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &Finance{
		ProjectID:  in.ProjectID,
		TaskID:     in.TaskID,
		HabitID:    in.HabitID,
		Title:      in.Title,
		Amount:     in.Amount,
		CurrencyID: in.CurrencyID,
	}, nil
}

// FinanceExecution is a realized money movement. The amount is signed:
// income positive, expense negative by caller convention.
type FinanceExecution struct {
	ID         int64
	FinanceID  *int64
	ProjectID  int64
	Date       time.Time
	Amount     float64
	CurrencyID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type FinanceExecutionInput struct {
	FinanceID  *int64    `json:"finance_id" validate:"omitempty,gt=0"`
	ProjectID  int64     `json:"project_id" validate:"gt=0"`
	Date       time.Time `json:"date"`
	Amount     float64   `json:"amount"`
	CurrencyID int64     `json:"currency_id" validate:"gt=0"`
}

func NewFinanceExecution(in FinanceExecutionInput) (*FinanceExecution, error) {
	verr := NewValidationError("finance execution")
	checkStruct(verr, in)
	if in.Date.IsZero() {
		verr.Add("date is required")
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		verr.Add("amount must be a finite number")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return &FinanceExecution{
		FinanceID:  in.FinanceID,
		ProjectID:  in.ProjectID,
		Date:       in.Date,
		Amount:     in.Amount,
		CurrencyID: in.CurrencyID,
	}, nil
}
