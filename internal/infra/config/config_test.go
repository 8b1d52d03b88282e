package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "STORAGE", "MONGO_URI", "KAFKA_BROKERS", "IDEMP_TTL", "RETRY_BACKOFF", "CURRENCY", "REFUND_PARTIAL_PERCENT", "USER_CACHE_TTL", "USER_CACHE_SIZE", "RECEIPTS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "dev" || cfg.HTTPAddr != ":8080" || cfg.Storage != StorageMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.IdempotencyTTL != 168*time.Hour || cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected durations: %v %v", cfg.IdempotencyTTL, cfg.OutboxPollInterval)
	}
	if len(cfg.RetryBackoff) != 3 || cfg.RetryBackoff[2] != 30*time.Second {
		t.Fatalf("unexpected retry backoff: %v", cfg.RetryBackoff)
	}
	if cfg.Currency != "USD" || cfg.RefundPartialPercent != 50 || cfg.UserCacheSize != 1000 {
		t.Fatalf("unexpected domain defaults: %+v", cfg)
	}
	if cfg.ReceiptsEnabled {
		t.Fatalf("expected receipts disabled by default")
	}
}

func TestLoadMongoRequiresConnections(t *testing.T) {
	t.Setenv("STORAGE", "mongo")
	t.Setenv("MONGO_URI", "")
	t.Setenv("KAFKA_BROKERS", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MONGO_URI") {
		t.Fatalf("expected MONGO_URI error, got %v", err)
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "KAFKA_BROKERS") {
		t.Fatalf("expected KAFKA_BROKERS error, got %v", err)
	}

	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("expected trimmed brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "partial percent too high", key: "REFUND_PARTIAL_PERCENT", value: "100"},
		{name: "partial percent zero", key: "REFUND_PARTIAL_PERCENT", value: "0"},
		{name: "partial percent not a number", key: "REFUND_PARTIAL_PERCENT", value: "half"},
		{name: "bad duration", key: "IDEMP_TTL", value: "soon"},
		{name: "bad backoff", key: "RETRY_BACKOFF", value: "1s,later"},
		{name: "bad storage", key: "STORAGE", value: "postgres"},
		{name: "bad currency", key: "CURRENCY", value: "DOLLAR"},
		{name: "bad bool", key: "RECEIPTS_ENABLED", value: "maybe"},
		{name: "negative cache size", key: "USER_CACHE_SIZE", value: "-1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("STORAGE", "")
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoadPartialPercentOverride(t *testing.T) {
	t.Setenv("STORAGE", "")
	t.Setenv("REFUND_PARTIAL_PERCENT", "30")
	t.Setenv("CURRENCY", "eur")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefundPartialPercent != 30 || cfg.Currency != "EUR" {
		t.Fatalf("expected 30%% EUR, got %d %s", cfg.RefundPartialPercent, cfg.Currency)
	}
}
