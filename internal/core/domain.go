// Package core defines the financial record types shared with the host
// environment.
//
// Records are plain values: constructors copy their arguments without any
// range or consistency checks, and nothing ties an Account's balance to the
// records it holds.
package core

type (
	Date struct {
		Day   uint8  `json:"day"`
		Month uint8  `json:"month"`
		Year  uint16 `json:"year"`
	}

	Expense struct {
		ID          uint32  `json:"id"`
		Amount      float32 `json:"amount"`
		Category    string  `json:"category"`
		Date        Date    `json:"date"`
		Description *string `json:"description"`
	}

	// Income has the same shape as Expense.
	Income struct {
		ID          uint32  `json:"id"`
		Amount      float32 `json:"amount"`
		Category    string  `json:"category"`
		Date        Date    `json:"date"`
		Description *string `json:"description"`
	}

	CreditCard struct {
		CardNumber     string  `json:"card_number"`
		ExpirationDate Date    `json:"expiration_date"`
		CardholderName string  `json:"cardholder_name"`
		CVV            uint16  `json:"cvv"`
		Balance        float64 `json:"balance"`
		Limit          float64 `json:"limit"`
	}

	Investment struct {
		ID     uint32  `json:"id"`
		Type   string  `json:"type"` // stocks, bonds, real estate...
		Amount float64 `json:"amount"`
		Date   Date    `json:"date"`
	}

	Deposit struct {
		ID       uint32  `json:"id"`
		Type     string  `json:"type"`
		Amount   float64 `json:"amount"`
		Interest float32 `json:"interest"`
		Date     Date    `json:"date"`
		BankName string  `json:"bank_name"`
		IIK      string  `json:"iik"` // account identifier (IBAN)
		BIK      string  `json:"bik"` // bank identification code
	}

	Account struct {
		ID          uint32       `json:"id"`
		Type        string       `json:"type"`
		Balance     float64      `json:"balance"`
		Deposits    []Deposit    `json:"deposits"`
		Expenses    []Expense    `json:"expenses"`
		Incomes     []Income     `json:"incomes"`
		Investments []Investment `json:"investments"`
		CreditCards []CreditCard `json:"credit_cards"`
	}
)

// NewDate creates a Date from its parts. Values are not checked, so day 99 or
// month 13 are representable.
func NewDate(day, month uint8, year uint16) Date {
	return Date{Day: day, Month: month, Year: year}
}

// NewExpense creates an Expense from its fields. A nil description means the
// expense has none.
func NewExpense(id uint32, amount float32, category string, date Date, description *string) Expense {
	return Expense{
		ID:          id,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Description: description,
	}
}

// UpdateAmount overwrites the amount. Any float32 is accepted, including
// negative and non-finite values.
func (e *Expense) UpdateAmount(newAmount float32) {
	e.Amount = newAmount
}

// DescriptionText returns the description, or "" when there is none.
func (e Expense) DescriptionText() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}

// HasDescription reports whether the expense carries a description.
func (e Expense) HasDescription() bool {
	return e.Description != nil
}

// Describe returns a pointer to s for use as an optional description.
func Describe(s string) *string {
	return &s
}
