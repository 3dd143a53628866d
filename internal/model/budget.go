package model

import "time"

type BudgetStatus string

const (
	BudgetStatusWon  BudgetStatus = "won"
	BudgetStatusLost BudgetStatus = "lost"
)

func (s BudgetStatus) Valid() bool {
	return s == BudgetStatusWon || s == BudgetStatusLost
}

// FinalBudget records the outcome of a quote: who closed it, for how
// much, and the motive behind the result.
type FinalBudget struct {
	ID          string       `db:"ID" json:"id"`
	CreatedAt   time.Time    `db:"CreatedAt" json:"createdAt"`
	Name        string       `db:"Name" json:"name"`
	IsAdmin     bool         `db:"IsAdmin" json:"isAdmin"`
	Value       float64      `db:"Value" json:"value"`
	Motive      string       `db:"Motive" json:"motive"`
	Notes       string       `db:"Notes" json:"notes"`
	Status      BudgetStatus `db:"Status" json:"status"`
	ContactName string       `db:"ContactName" json:"contactName"`
}

type CreateFinalBudgetParams struct {
	Name        string       `json:"name"`
	IsAdmin     bool         `json:"isAdmin"`
	Value       float64      `json:"value"`
	Motive      string       `json:"motive"`
	Notes       string       `json:"notes"`
	Status      BudgetStatus `json:"status"`
	ContactName string       `json:"contactName"`
}

type StatusStats struct {
	Count int     `db:"Count" json:"count"`
	Value float64 `db:"Value" json:"value"`
}

type MotiveStats struct {
	Motive string  `db:"Motive" json:"motive"`
	Count  int     `db:"Count" json:"count"`
	Value  float64 `db:"Value" json:"value"`
}

type BudgetStats struct {
	Total    int           `json:"total"`
	Won      StatusStats   `json:"won"`
	Lost     StatusStats   `json:"lost"`
	ByMotive []MotiveStats `json:"byMotive"`
}
