package bridge

import (
	"context"
	"encoding/json"

	"finrec/internal/codec"
	"finrec/internal/core"
	"finrec/internal/log"
)

// Operation names
const (
	OpDateNew             = "date.new"
	OpExpenseNew          = "expense.new"
	OpExpenseUpdateAmount = "expense.update_amount"
	OpExpenseToJSON       = "expense.to_json"
	OpExpenseFromJSON     = "expense.from_json"
	OpRecordEncode        = "record.encode"
	OpRecordDecode        = "record.decode"
	OpCategoryList        = "category.list"
	OpIncomeSourceList    = "income_source.list"
	OpBudgetLimit         = "budget.limit"
	OpBudgetLimits        = "budget.limits"
)

func (b *Bridge) register() {
	b.ops[OpDateNew] = b.dateNew
	b.ops[OpExpenseNew] = b.expenseNew
	b.ops[OpExpenseUpdateAmount] = b.expenseUpdateAmount
	b.ops[OpExpenseToJSON] = b.expenseToJSON
	b.ops[OpExpenseFromJSON] = b.expenseFromJSON
	b.ops[OpRecordEncode] = b.recordEncode
	b.ops[OpRecordDecode] = b.recordDecode
	b.ops[OpCategoryList] = b.categoryList
	b.ops[OpIncomeSourceList] = b.incomeSourceList
	b.ops[OpBudgetLimit] = b.budgetLimit
	b.ops[OpBudgetLimits] = b.budgetLimits
}

func (b *Bridge) dateNew(_ context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		Day   *uint8  `json:"day"`
		Month *uint8  `json:"month"`
		Year  *uint16 `json:"year"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	switch {
	case args.Day == nil:
		return nil, missing("day")
	case args.Month == nil:
		return nil, missing("month")
	case args.Year == nil:
		return nil, missing("year")
	}
	return core.NewDate(*args.Day, *args.Month, *args.Year), nil
}

func (b *Bridge) expenseNew(_ context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		ID          *uint32    `json:"id"`
		Amount      *float32   `json:"amount"`
		Category    *string    `json:"category"`
		Date        *core.Date `json:"date"`
		Description *string    `json:"description"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	switch {
	case args.ID == nil:
		return nil, missing("id")
	case args.Amount == nil:
		return nil, missing("amount")
	case args.Category == nil:
		return nil, missing("category")
	case args.Date == nil:
		return nil, missing("date")
	}
	return core.NewExpense(*args.ID, *args.Amount, *args.Category, *args.Date, args.Description), nil
}

func (b *Bridge) expenseUpdateAmount(_ context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		Expense   json.RawMessage `json:"expense"`
		NewAmount *float32        `json:"new_amount"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.NewAmount == nil {
		return nil, missing("new_amount")
	}
	e, err := b.expenseArg(args.Expense)
	if err != nil {
		return nil, err
	}
	e.UpdateAmount(*args.NewAmount)
	return e, nil
}

func (b *Bridge) expenseToJSON(_ context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		Expense json.RawMessage `json:"expense"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	e, err := b.expenseArg(args.Expense)
	if err != nil {
		return nil, err
	}
	return b.codec.Encode(e)
}

func (b *Bridge) expenseFromJSON(_ context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		JSONData *string `json:"json_data"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.JSONData == nil {
		return nil, missing("json_data")
	}
	return b.codec.ExpenseFromJSON(*args.JSONData)
}

func (b *Bridge) recordEncode(ctx context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		Kind  string          `json:"kind"`
		Value json.RawMessage `json:"value"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	kind, err := codec.ParseKind(args.Kind)
	if err != nil {
		return nil, err
	}
	if len(args.Value) == 0 {
		return nil, missing("value")
	}
	b.logger.DebugContext(ctx, "Encoding record", log.FieldRecordKind, kind)
	v, err := b.codec.Decode(kind, string(args.Value))
	if err != nil {
		return nil, err
	}
	return b.codec.Encode(v)
}

func (b *Bridge) recordDecode(ctx context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		Kind     string  `json:"kind"`
		JSONData *string `json:"json_data"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	kind, err := codec.ParseKind(args.Kind)
	if err != nil {
		return nil, err
	}
	if args.JSONData == nil {
		return nil, missing("json_data")
	}
	b.logger.DebugContext(ctx, "Decoding record", log.FieldRecordKind, kind)
	return b.codec.Decode(kind, *args.JSONData)
}

func (b *Bridge) categoryList(_ context.Context, raw json.RawMessage) (any, error) {
	if err := decodeArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	cats := core.ExpenseCategories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.String()
	}
	return out, nil
}

func (b *Bridge) incomeSourceList(_ context.Context, raw json.RawMessage) (any, error) {
	if err := decodeArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	srcs := core.IncomeSources()
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = s.String()
	}
	return out, nil
}

func (b *Bridge) budgetLimit(ctx context.Context, raw json.RawMessage) (any, error) {
	var args struct {
		Category *string `json:"category"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Category == nil {
		return nil, missing("category")
	}
	entry, err := b.limits.LimitFor(*args.Category)
	if err != nil {
		return nil, err
	}
	b.logger.DebugContext(ctx, "Budget limit looked up",
		log.FieldCategory, entry.Category,
		"configured", entry.Configured)
	return entry, nil
}

func (b *Bridge) budgetLimits(_ context.Context, raw json.RawMessage) (any, error) {
	if err := decodeArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return b.limits.Entries(), nil
}

// expenseArg decodes an Expense passed by value through the schema codec.
func (b *Bridge) expenseArg(raw json.RawMessage) (core.Expense, error) {
	if len(raw) == 0 {
		return core.Expense{}, missing("expense")
	}
	return b.codec.ExpenseFromJSON(string(raw))
}
