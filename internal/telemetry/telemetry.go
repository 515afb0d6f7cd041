package telemetry

import (
	"context"
	"log"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "georisk-api"

// Init installs the global tracer provider. Spans are exported to stdout
// only when OTEL_TRACES_STDOUT is set; otherwise they are recorded and
// dropped. The returned func flushes and stops the provider.
func Init() func(context.Context) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	}

	if os.Getenv("OTEL_TRACES_STDOUT") != "" {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Printf("[telemetry] WARNING: stdout trace exporter unavailable: %v", err)
		} else {
			opts = append(opts, sdktrace.WithBatcher(exp))
			log.Println("[telemetry] Exporting traces to stdout")
		}
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
