package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finrec/internal/bridge"
	"finrec/internal/budget"
	"finrec/internal/codec"
	"finrec/internal/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := codec.New()
	require.NoError(t, err)
	logger := log.New(log.Config{Output: &bytes.Buffer{}, Component: log.ComponentApp})
	return NewServer(":0", gin.TestMode, bridge.New(c, budget.DefaultLimits(), logger), logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCallStatusCodes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"id":"1","op":"date.new","args":{"day":1,"month":2,"year":2024}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown operation",
			body:       `{"id":"2","op":"expense.delete"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   bridge.CodeUnknownOperation,
		},
		{
			name:       "malformed expense",
			body:       `{"id":"3","op":"expense.from_json","args":{"json_data":"{\"id\": 1}"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   bridge.CodeMalformedInput,
		},
		{
			name:       "bad arguments",
			body:       `{"id":"4","op":"date.new","args":{"day":"one"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   bridge.CodeInvalidArguments,
		},
		{
			name:       "unparsable envelope",
			body:       `{"op":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   bridge.CodeInvalidArguments,
		},
		{
			name:       "envelope without op",
			body:       `{"id":"5"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   bridge.CodeInvalidArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/call", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeResponse(t, rec)
			if tt.wantCode == "" {
				assert.Equal(t, "null", string(resp["error"]))
				return
			}
			var e bridge.Error
			require.NoError(t, json.Unmarshal(resp["error"], &e))
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
}

func TestCallExpenseRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/call",
		`{"id":"a","op":"expense.to_json","args":{"expense":{"id":2,"amount":10,"category":"transport","date":{"day":1,"month":1,"year":2024},"description":null}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var encoded struct {
		ID     string `json:"id"`
		Result string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &encoded))
	assert.Equal(t, "a", encoded.ID)
	assert.Contains(t, encoded.Result, `"description":null`)

	args, err := json.Marshal(map[string]any{
		"id":   "b",
		"op":   "expense.from_json",
		"args": map[string]string{"json_data": encoded.Result},
	})
	require.NoError(t, err)

	rec = do(t, s, http.MethodPost, "/api/v1/call", string(args))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.JSONEq(t, `{"id":2,"amount":10,"category":"transport","date":{"day":1,"month":1,"year":2024},"description":null}`, string(resp["result"]))
}

func TestOperationsAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/operations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ops struct {
		Operations []string `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ops))
	assert.Contains(t, ops.Operations, bridge.OpExpenseFromJSON)

	rec = do(t, s, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())
}

func TestMiddlewareHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/health", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", rec.Header().Get(requestIDHeader))

	rec = do(t, s, http.MethodOptions, "/api/v1/call", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCallRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t)

	padding := strings.Repeat(" ", maxBodyBytes)
	rec := do(t, s, http.MethodPost, "/api/v1/call", `{"id":"big","op":"category.list"}`+padding)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var e bridge.Error
	require.NoError(t, json.Unmarshal(decodeResponse(t, rec)["error"], &e))
	assert.Equal(t, bridge.CodeInvalidArguments, e.Code)
	assert.Contains(t, e.Message, "exceeds")

	rec = do(t, s, http.MethodPost, "/api/v1/call", `{"id":"ok","op":"category.list"}`+strings.Repeat(" ", 1024))
	assert.Equal(t, http.StatusOK, rec.Code)
}
