package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldErrorCode   = "error_code"
	FieldOperation   = "operation"
	FieldTransport   = "transport"
	FieldRecordKind  = "record_kind"
	FieldCategory    = "category"
	FieldQueue       = "queue"
	FieldExchange    = "exchange"
	FieldCorrelation = "correlation_id"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentAMQP   = "amqp"
	ComponentBridge = "bridge"
	ComponentCodec  = "codec"
	ComponentBudget = "budget"
	ComponentConfig = "config"
)

// Transports the bridge is served over
const (
	TransportHTTP = "http"
	TransportAMQP = "amqp"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransport adds transport field
func (f LogFields) WithTransport(transport string) LogFields {
	f[FieldTransport] = transport
	return f
}

// WithCorrelationID adds the AMQP correlation id, when set
func (f LogFields) WithCorrelationID(id string) LogFields {
	if id != "" {
		f[FieldCorrelation] = id
	}
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, clientIP string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldClientIP] = clientIP
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
