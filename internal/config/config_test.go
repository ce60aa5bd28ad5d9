package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}

	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestValidate_MaxKBelowDefaultK(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Recommend: RecommendConfig{DefaultK: 10, MaxK: 5, ExplainLimit: 3},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for max_k below default_k")
	}

	expected := "recommend.max_k (5) must not be below recommend.default_k (10)"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ExplainLimitAboveMaxK(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Recommend: RecommendConfig{DefaultK: 5, MaxK: 10, ExplainLimit: 12},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for explain_limit above max_k")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 45 {
		t.Errorf("expected WriteTimeoutSec=45, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Catalog.Path == "" {
		t.Error("expected a default catalog path")
	}
	if cfg.Recommend.DefaultK != 8 {
		t.Errorf("expected DefaultK=8, got %d", cfg.Recommend.DefaultK)
	}
	if cfg.Recommend.MaxK != 10 {
		t.Errorf("expected MaxK=10, got %d", cfg.Recommend.MaxK)
	}
	if cfg.Recommend.ExplainLimit != 5 {
		t.Errorf("expected ExplainLimit=5, got %d", cfg.Recommend.ExplainLimit)
	}
	if cfg.LLM.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("expected OpenAI base URL, got %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected Model=gpt-4o-mini, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSec != 30 {
		t.Errorf("expected TimeoutSec=30, got %d", cfg.LLM.TimeoutSec)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		Catalog:   CatalogConfig{Path: "/srv/perfumes.csv"},
		Recommend: RecommendConfig{DefaultK: 6, MaxK: 12, ExplainLimit: 4},
		LLM:       LLMConfig{Model: "gpt-4o", TimeoutSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Catalog.Path != "/srv/perfumes.csv" {
		t.Errorf("expected catalog path to survive, got %q", cfg.Catalog.Path)
	}
	if cfg.Recommend.MaxK != 12 {
		t.Errorf("expected MaxK=12, got %d", cfg.Recommend.MaxK)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected Model=gpt-4o, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSec != 60 {
		t.Errorf("expected TimeoutSec=60, got %d", cfg.LLM.TimeoutSec)
	}
}

func TestCacheConfig_Enabled(t *testing.T) {
	if (CacheConfig{}).Enabled() {
		t.Error("empty addrs must disable the cache")
	}
	if !(CacheConfig{Addrs: []string{"localhost:6379"}}).Enabled() {
		t.Error("configured addrs must enable the cache")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FRAGREC_TEST_KEY", "sk-test")

	got := string(expandEnvVars([]byte("api_key: ${FRAGREC_TEST_KEY}\nbase_url: ${FRAGREC_TEST_URL:-https://fallback}\nmodel: ${FRAGREC_TEST_UNSET}")))
	want := "api_key: sk-test\nbase_url: https://fallback\nmodel: "
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}
