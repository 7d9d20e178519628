package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
)

// RequestIDBaggageKey carries the inbound request id to downstream spans.
const RequestIDBaggageKey = "propertydesk.request_id"

func installPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// extractRequest continues the caller's trace, if the request carries one.
func extractRequest(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

// withRequestID adds the request id to whatever baggage the caller sent.
// Ids that are not valid baggage values are left out.
func withRequestID(ctx context.Context, requestID string) context.Context {
	member, err := baggage.NewMember(RequestIDBaggageKey, requestID)
	if err != nil {
		return ctx
	}
	bag, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}
