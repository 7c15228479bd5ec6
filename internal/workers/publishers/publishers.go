package publishers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	MinRetryInterval = 500 * time.Millisecond
	MaxRetryTimes    = 5
)

type Publisher struct {
	Conn   *nats.Conn
	Js     nats.JetStreamContext
	Tracer trace.Tracer
}

// PublishNATSMessage marshals payload to JSON and publishes it to subject,
// propagating the current trace context through the message headers. Failed
// publishes are retried with exponential backoff.
func (p Publisher) PublishNATSMessage(ctx context.Context, subject string,
	payload any, attrs ...attribute.KeyValue) error {
	attrs = append(attrs, attribute.String("subject", subject))
	ctx, span := p.Tracer.Start(ctx, "Publisher.PublishNATSMessage",
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	headers := nats.Header{}
	otel.GetTextMapPropagator().
		Inject(ctx, propagation.HeaderCarrier(headers))

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  headers,
	}

	// Retry publishing the message with exponential backoff.
	for retry := 0; ; retry++ {
		if err = p.Conn.PublishMsg(msg); err == nil {
			return nil
		}
		if retry >= MaxRetryTimes {
			break
		}
		time.Sleep(MinRetryInterval << time.Duration(retry))
	}
	span.RecordError(err)
	return err
}
