package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled is a no-op", func(t *testing.T) {
		shutdown, err := Setup(ctx, Config{Enabled: false})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := shutdown(ctx); err != nil {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	})

	t.Run("enabled exports spans", func(t *testing.T) {
		var buf bytes.Buffer
		shutdown, err := Setup(ctx, Config{Enabled: true, ServiceName: "taxonomy-test", Output: &buf})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, span := otel.Tracer("test").Start(ctx, "hierarchy.Refresh")
		span.End()

		if err := shutdown(ctx); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
		if !strings.Contains(buf.String(), "hierarchy.Refresh") {
			t.Errorf("expected exported span, got %q", buf.String())
		}
	})
}
