package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/messaging"
	ordersvc "github.com/Additional-Code/bistro/internal/service/order"
	"github.com/Additional-Code/bistro/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/bistro/worker/order")

// Module registers order-event worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventHandler consumes lifecycle events off the bus. Today it logs
// each transition; notification delivery hangs off this handler so a send
// failure can never affect the order path.
func NewOrderEventHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		fields := []zap.Field{
			zap.String("event", event.Event),
			zap.Int64("id", event.ID),
			zap.String("type", event.OrderType),
			zap.String("status", event.Status),
			zap.String("payment", event.PaymentStatus),
			zap.Int64("total", event.TotalAmount),
		}
		if event.TableNumber != nil {
			fields = append(fields, zap.Int("table", *event.TableNumber))
		}
		logger.Info("order event processed", fields...)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
