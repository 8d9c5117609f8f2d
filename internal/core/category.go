package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	AdditionalServices   ExpenseCategory = "additional_services"
	Food                 ExpenseCategory = "food"
	Shopping             ExpenseCategory = "shopping"
	Technology           ExpenseCategory = "technology"
	Games                ExpenseCategory = "games"
	Transport            ExpenseCategory = "transport"
	PersonalCare         ExpenseCategory = "personal_care"
	Streaming            ExpenseCategory = "streaming"
	Education            ExpenseCategory = "education"
	Communication        ExpenseCategory = "communication"
	Clothes              ExpenseCategory = "clothes"
	Hobbies              ExpenseCategory = "hobbies"
	AppleServices        ExpenseCategory = "apple_services"
	HealthcareFitness    ExpenseCategory = "healthcare_fitness"
	EntertainmentCulture ExpenseCategory = "entertainment_culture"
	Gifts                ExpenseCategory = "gifts"
)

const (
	Work            IncomeSource = "work"
	Stipendium      IncomeSource = "stipendium"
	Transfers       IncomeSource = "transfers"
	FromInvestition IncomeSource = "from_investition"
	SideHustle      IncomeSource = "side_hustle"
)

type (
	// ExpenseCategory is one of a closed set of expense labels.
	ExpenseCategory string

	// IncomeSource is one of a closed set of income labels.
	IncomeSource string
)

var (
	ErrUnknownCategory     = errors.New("unknown expense category")
	ErrUnknownIncomeSource = errors.New("unknown income source")
)

var expenseCategories = []ExpenseCategory{
	AdditionalServices,
	Food,
	Shopping,
	Technology,
	Games,
	Transport,
	PersonalCare,
	Streaming,
	Education,
	Communication,
	Clothes,
	Hobbies,
	AppleServices,
	HealthcareFitness,
	EntertainmentCulture,
	Gifts,
}

var incomeSources = []IncomeSource{
	Work,
	Stipendium,
	Transfers,
	FromInvestition,
	SideHustle,
}

// ExpenseCategories returns every expense category in declaration order.
func ExpenseCategories() []ExpenseCategory {
	return append([]ExpenseCategory(nil), expenseCategories...)
}

// IncomeSources returns every income source in declaration order.
func IncomeSources() []IncomeSource {
	return append([]IncomeSource(nil), incomeSources...)
}

// String implements fmt.Stringer
func (c ExpenseCategory) String() string {
	return string(c)
}

// IsValid returns true if c is one of the declared categories
func (c ExpenseCategory) IsValid() bool {
	for _, known := range expenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseExpenseCategory maps a label to its category. Matching ignores case
// and surrounding spaces.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// String implements fmt.Stringer
func (s IncomeSource) String() string {
	return string(s)
}

// IsValid returns true if s is one of the declared income sources
func (s IncomeSource) IsValid() bool {
	for _, known := range incomeSources {
		if s == known {
			return true
		}
	}
	return false
}

// ParseIncomeSource maps a label to its income source.
func ParseIncomeSource(s string) (IncomeSource, error) {
	src := IncomeSource(strings.ToLower(strings.TrimSpace(s)))
	if !src.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownIncomeSource, s)
	}
	return src, nil
}
