package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"finrec/internal/bridge"
	"finrec/internal/log"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	bridge *bridge.Bridge
}

// call runs one bridge envelope.
// POST /api/v1/call
func (h *handlers) call(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, bridge.Response{
				Error: &bridge.Error{
					Code:    bridge.CodeInvalidArguments,
					Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, bridge.Response{
			Error: &bridge.Error{Code: bridge.CodeInvalidArguments, Message: "read body: " + err.Error()},
		})
		return
	}

	req, err := bridge.DecodeRequest(body)
	if err != nil {
		log.FromContext(c.Request.Context()).Warn("Rejected request envelope", log.FieldError, err)
		c.JSON(http.StatusBadRequest, bridge.Response{
			Error: &bridge.Error{Code: bridge.ErrorCode(err), Message: err.Error()},
		})
		return
	}

	resp := h.bridge.Call(c.Request.Context(), req)
	c.JSON(statusFor(resp), resp)
}

// operations lists the callable operation names.
// GET /api/v1/operations
func (h *handlers) operations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"operations": h.bridge.Operations()})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func statusFor(resp bridge.Response) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	switch resp.Error.Code {
	case bridge.CodeUnknownOperation:
		return http.StatusNotFound
	case bridge.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
