// Package codec converts records to and from their JSON text form.
//
// Decoding is schema driven: input is checked against an embedded JSON Schema
// before it is unmarshalled, so a decode either yields a complete record or an
// error wrapping ErrMalformed. Unknown fields are ignored.
package codec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/xeipuuv/gojsonschema"

	"finrec/internal/core"
)

//go:embed schemas/records.schema.json
var recordsSchema []byte

// strictJSON matches object keys exactly as the schema does, so a key that
// differs only in case stays an ignored unknown field.
var strictJSON = jsoniter.Config{CaseSensitive: true}.Froze()

const (
	KindDate       Kind = "date"
	KindExpense    Kind = "expense"
	KindIncome     Kind = "income"
	KindCreditCard Kind = "credit_card"
	KindInvestment Kind = "investment"
	KindDeposit    Kind = "deposit"
	KindAccount    Kind = "account"
)

// Kind names a record type on the wire.
type Kind string

var (
	ErrMalformed   = errors.New("malformed record")
	ErrUnencodable = errors.New("record cannot be encoded")
	ErrUnknownKind = errors.New("unknown record kind")
)

// ValidationError lists the schema violations found in a decoded document.
type ValidationError struct {
	Kind    Kind
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.Kind, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}

// Kinds returns every supported record kind.
func Kinds() []Kind {
	return []Kind{KindDate, KindExpense, KindIncome, KindCreditCard, KindInvestment, KindDeposit, KindAccount}
}

// ParseKind maps a wire name to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Codec holds one compiled schema per record kind. It is safe for concurrent
// use.
type Codec struct {
	schemas map[Kind]*gojsonschema.Schema
}

// New compiles the embedded record schemas.
func New() (*Codec, error) {
	var doc struct {
		Schema      string                    `json:"$schema"`
		Definitions map[string]map[string]any `json:"definitions"`
	}
	if err := json.Unmarshal(recordsSchema, &doc); err != nil {
		return nil, fmt.Errorf("parse records schema: %w", err)
	}

	c := &Codec{schemas: make(map[Kind]*gojsonschema.Schema, len(Kinds()))}
	for _, kind := range Kinds() {
		def, ok := doc.Definitions[string(kind)]
		if !ok {
			return nil, fmt.Errorf("records schema has no definition for %s", kind)
		}

		// Each root is the kind's own definition, carrying the shared
		// definitions so internal references resolve.
		root := make(map[string]any, len(def)+2)
		for k, v := range def {
			root[k] = v
		}
		root["$schema"] = doc.Schema
		root["definitions"] = doc.Definitions

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		c.schemas[kind] = schema
	}
	return c, nil
}

// Validate checks text against the schema of kind without decoding it.
func (c *Codec) Validate(kind Kind, text string) error {
	schema, ok := c.schemas[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		// Not JSON at all: truncated, empty, or garbage.
		return fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return &ValidationError{Kind: kind, Details: details}
	}
	return nil
}

// Decode parses text as a record of the given kind and returns the record
// value (core.Expense, core.Account, ...).
func (c *Codec) Decode(kind Kind, text string) (any, error) {
	switch kind {
	case KindDate:
		return decode[core.Date](c, kind, text)
	case KindExpense:
		return decode[core.Expense](c, kind, text)
	case KindIncome:
		return decode[core.Income](c, kind, text)
	case KindCreditCard:
		return decode[core.CreditCard](c, kind, text)
	case KindInvestment:
		return decode[core.Investment](c, kind, text)
	case KindDeposit:
		return decode[core.Deposit](c, kind, text)
	case KindAccount:
		return decode[core.Account](c, kind, text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decode[T any](c *Codec, kind Kind, text string) (T, error) {
	var zero T
	if err := c.Validate(kind, text); err != nil {
		return zero, err
	}

	var v T
	if err := strictJSON.UnmarshalFromString(text, &v); err != nil {
		// The schema passed but the value does not fit the Go field,
		// e.g. 1.5 for an integer id or an amount beyond float32.
		return zero, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	return v, nil
}

// Encode renders a record as JSON text. Non-finite floats and strings that
// are not valid UTF-8 have no lossless JSON form and fail with ErrUnencodable.
func (c *Codec) Encode(v any) (string, error) {
	kind, ok := KindOf(v)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnknownKind, v)
	}
	if hasInvalidUTF8(reflect.ValueOf(v)) {
		return "", fmt.Errorf("%w: %s: string is not valid UTF-8", ErrUnencodable, kind)
	}

	b, err := json.Marshal(v)
	if err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			return "", fmt.Errorf("%w: %s: %s", ErrUnencodable, kind, unsupported.Str)
		}
		return "", fmt.Errorf("encode %s: %w", kind, err)
	}
	return string(b), nil
}

// KindOf reports the record kind of v. Pointers to records are accepted.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case core.Date, *core.Date:
		return KindDate, true
	case core.Expense, *core.Expense:
		return KindExpense, true
	case core.Income, *core.Income:
		return KindIncome, true
	case core.CreditCard, *core.CreditCard:
		return KindCreditCard, true
	case core.Investment, *core.Investment:
		return KindInvestment, true
	case core.Deposit, *core.Deposit:
		return KindDeposit, true
	case core.Account, *core.Account:
		return KindAccount, true
	default:
		return "", false
	}
}

// hasInvalidUTF8 reports whether any string reachable from v is not valid
// UTF-8. encoding/json would silently replace those bytes with U+FFFD.
func hasInvalidUTF8(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return !utf8.ValidString(v.String())
	case reflect.Pointer:
		return !v.IsNil() && hasInvalidUTF8(v.Elem())
	case reflect.Struct:
		for i := range v.NumField() {
			if hasInvalidUTF8(v.Field(i)) {
				return true
			}
		}
	case reflect.Slice:
		for i := range v.Len() {
			if hasInvalidUTF8(v.Index(i)) {
				return true
			}
		}
	}
	return false
}
