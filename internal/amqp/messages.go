package amqp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finrec/internal/bridge"
)

// handle runs one request body through the bridge and returns the encoded
// response. An error means the body is not an envelope at all and no reply
// can be built.
func handle(ctx context.Context, b *bridge.Bridge, body []byte) ([]byte, error) {
	req, err := bridge.DecodeRequest(body)
	if err != nil {
		return nil, err
	}

	resp := b.Call(ctx, req)
	out, err := json.Marshal(resp)
	if err != nil {
		out, err = json.Marshal(bridge.Response{
			ID:    req.ID,
			Error: &bridge.Error{Code: bridge.CodeInternal, Message: "marshal response: " + err.Error()},
		})
	}
	return out, err
}

// newReply builds the reply publishing for a request delivery.
func newReply(d amqp091.Delivery, body []byte) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:   "application/json",
		CorrelationId: d.CorrelationId,
		Timestamp:     time.Now(),
		Body:          body,
	}
}
