// Package bridge exposes the record constructors, the amount mutator and the
// codecs to a host environment as individually named operations.
//
// A host sends a Request envelope naming an operation and carrying its
// arguments as a JSON object; records travel as plain JSON values in both
// directions. Transports (HTTP, AMQP) only move envelopes; all marshalling
// happens here.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"finrec/internal/budget"
	"finrec/internal/codec"
	"finrec/internal/log"
)

// Error codes carried in Response.Error.Code
const (
	CodeUnknownOperation = "unknown_operation"
	CodeInvalidArguments = "invalid_arguments"
	CodeMalformedInput   = "malformed_input"
	CodeUnencodable      = "unencodable"
	CodeUnknownCategory  = "unknown_category"
	CodeInternal         = "internal"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrInvalidEnvelope  = errors.New("invalid request envelope")
)

type (
	Request struct {
		ID   string          `json:"id"`
		Op   string          `json:"op"`
		Args json.RawMessage `json:"args,omitempty"`
	}

	Response struct {
		ID     string `json:"id"`
		Result any    `json:"result"`
		Error  *Error `json:"error"`
	}

	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	// Handler runs one operation against its raw arguments.
	Handler func(ctx context.Context, args json.RawMessage) (any, error)
)

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Bridge dispatches requests to registered operations. It holds no mutable
// state after New returns and is safe for concurrent use.
type Bridge struct {
	codec  *codec.Codec
	limits *budget.Limits
	logger *log.Logger
	ops    map[string]Handler
}

// New creates a bridge with every operation registered. A nil logger falls
// back to the default slog logger.
func New(c *codec.Codec, limits *budget.Limits, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if limits == nil {
		limits = budget.DefaultLimits()
	}
	b := &Bridge{
		codec:  c,
		limits: limits,
		logger: logger.WithComponent(log.ComponentBridge),
		ops:    make(map[string]Handler),
	}
	b.register()
	return b
}

// Operations returns the registered operation names, sorted.
func (b *Bridge) Operations() []string {
	names := make([]string, 0, len(b.ops))
	for name := range b.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeRequest parses an envelope. A missing id is replaced with a fresh
// UUID so every response can be correlated.
func DecodeRequest(body []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if req.Op == "" {
		return Request{}, fmt.Errorf("%w: op is required", ErrInvalidEnvelope)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req, nil
}

// Call runs the operation named in req and wraps the outcome in a Response.
func (b *Bridge) Call(ctx context.Context, req Request) Response {
	start := time.Now()
	resp := Response{ID: req.ID}

	handler, ok := b.ops[req.Op]
	if !ok {
		resp.Error = toError(fmt.Errorf("%w: %q", ErrUnknownOperation, req.Op))
		b.logger.WarnContext(ctx, "Bridge call rejected",
			log.FieldRequestID, req.ID,
			log.FieldOperation, req.Op,
			log.FieldErrorCode, resp.Error.Code)
		return resp
	}

	result, err := handler(ctx, req.Args)
	if err != nil {
		resp.Error = toError(err)
		b.logger.WarnContext(ctx, "Bridge call failed",
			log.FieldRequestID, req.ID,
			log.FieldOperation, req.Op,
			log.FieldErrorCode, resp.Error.Code,
			log.FieldError, err)
		return resp
	}

	resp.Result = result
	b.logger.DebugContext(ctx, "Bridge call completed",
		log.FieldRequestID, req.ID,
		log.FieldOperation, req.Op,
		log.FieldDuration, time.Since(start).Milliseconds())
	return resp
}

// ErrorCode maps an operation error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownOperation):
		return CodeUnknownOperation
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, ErrInvalidEnvelope), errors.Is(err, codec.ErrUnknownKind):
		return CodeInvalidArguments
	case errors.Is(err, codec.ErrMalformed):
		return CodeMalformedInput
	case errors.Is(err, codec.ErrUnencodable):
		return CodeUnencodable
	case errors.Is(err, budget.ErrUnknownCategory):
		return CodeUnknownCategory
	default:
		return CodeInternal
	}
}

func toError(err error) *Error {
	return &Error{Code: ErrorCode(err), Message: err.Error()}
}

// decodeArgs strictly unmarshals an argument object into dst. Absent args
// decode as an empty object.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func missing(name string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidArguments, name)
}
