package observability

import (
	"context"
	"testing"
)

func TestTracingConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("STATION_TRACING_ENABLED", "")
	t.Setenv("STATION_TRACING_EXPORTER", "")
	t.Setenv("STATION_TRACING_SERVICE_NAME", "")
	t.Setenv("STATION_TRACING_SAMPLE_RATIO", "")

	cfg := TracingConfigFromEnv()
	if cfg.Enabled {
		t.Error("tracing enabled by default, want disabled")
	}
	if cfg.Exporter != "stdout" {
		t.Errorf("default exporter = %q, want stdout", cfg.Exporter)
	}
	if cfg.ServiceName != "ground-station" {
		t.Errorf("default service name = %q, want ground-station", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1.0 {
		t.Errorf("default sample ratio = %v, want 1.0", cfg.SampleRatio)
	}
}

func TestInitTracingDisabledUsesNoopProvider(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown returned error: %v", err)
	}
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{
		Enabled:  true,
		Exporter: "carrier-pigeon",
	}, nil)
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}
