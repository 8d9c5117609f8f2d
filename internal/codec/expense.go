package codec

import (
	"sync"

	"finrec/internal/core"
)

var defaultCodec = sync.OnceValues(New)

// Default returns the process-wide codec. The embedded schema is part of the
// build, so a compile failure is a programming error and panics.
func Default() *Codec {
	c, err := defaultCodec()
	if err != nil {
		panic(err)
	}
	return c
}

// ExpenseToJSON encodes an expense in its documented wire form:
// {"id":..,"amount":..,"category":..,"date":{"day":..,"month":..,"year":..},"description":..|null}
func ExpenseToJSON(e core.Expense) (string, error) {
	return Default().Encode(e)
}

// ExpenseFromJSON decodes an expense. Malformed input returns an error
// wrapping ErrMalformed and a zero Expense.
func ExpenseFromJSON(text string) (core.Expense, error) {
	return Default().ExpenseFromJSON(text)
}

// MustExpenseToJSON is like ExpenseToJSON but panics on failure.
func MustExpenseToJSON(e core.Expense) string {
	s, err := ExpenseToJSON(e)
	if err != nil {
		panic(err)
	}
	return s
}

// MustExpenseFromJSON is like ExpenseFromJSON but panics on malformed input.
func MustExpenseFromJSON(text string) core.Expense {
	e, err := ExpenseFromJSON(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (c *Codec) ExpenseFromJSON(text string) (core.Expense, error) {
	return decode[core.Expense](c, KindExpense, text)
}

func (c *Codec) IncomeFromJSON(text string) (core.Income, error) {
	return decode[core.Income](c, KindIncome, text)
}

func (c *Codec) CreditCardFromJSON(text string) (core.CreditCard, error) {
	return decode[core.CreditCard](c, KindCreditCard, text)
}

func (c *Codec) InvestmentFromJSON(text string) (core.Investment, error) {
	return decode[core.Investment](c, KindInvestment, text)
}

func (c *Codec) DepositFromJSON(text string) (core.Deposit, error) {
	return decode[core.Deposit](c, KindDeposit, text)
}

func (c *Codec) AccountFromJSON(text string) (core.Account, error) {
	return decode[core.Account](c, KindAccount, text)
}

func (c *Codec) DateFromJSON(text string) (core.Date, error) {
	return decode[core.Date](c, KindDate, text)
}
