package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 30, cfg.Business.SettlementCycleDays)
	assert.Equal(t, 12, cfg.Business.MaxScenarioInstallments)
	assert.True(t, cfg.GetAnticipationMultiplier("CREDIT_CARD").Equal(decimal.RequireFromString("1.5")))
	assert.True(t, cfg.GetAnticipationMultiplier("boleto").Equal(decimal.RequireFromString("0.1")))
	assert.True(t, cfg.GetAnticipationMultiplier("PIX").IsZero())
	assert.True(t, cfg.GetMaterialityPercent().Equal(decimal.NewFromInt(5)))
	assert.True(t, cfg.GetDefaultCostPercent().Equal(decimal.NewFromInt(20)))
	assert.True(t, cfg.GetDefaultTaxPercent().IsZero())
	assert.Equal(t, 800*time.Millisecond, cfg.GetFeeLookupTimeout())
	assert.Equal(t, 10*time.Minute, cfg.GetFeeCacheTTL())
	assert.Equal(t, 15*time.Minute, cfg.GetSchedulerInterval())
	assert.Equal(t, 5*time.Second, cfg.GetHealthTimeout())
	assert.Equal(t, []string{"*"}, cfg.GetCORSAllowedOrigins())
	assert.Equal(t, 10*time.Minute, cfg.GetRateLimitIdleTTL())
	assert.False(t, cfg.HTTP.TrustProxyHeaders)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"ENV":                  "production",
		"REDIS_URL":            "cache:6380",
		"CORS_ALLOWED_ORIGINS": "https://app.clinic.example, https://admin.clinic.example",
		"DEFAULT_TAX_PERCENT":  "11.33",
		"TRUST_PROXY_HEADERS":  true,
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, []string{"https://app.clinic.example", "https://admin.clinic.example"}, cfg.GetCORSAllowedOrigins())
	assert.True(t, cfg.GetDefaultTaxPercent().Equal(decimal.RequireFromString("11.33")))
	assert.True(t, cfg.HTTP.TrustProxyHeaders)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		errMsg    string
	}{
		{"missing port", map[string]interface{}{"SERVER_PORT": ""}, "SERVER_PORT"},
		{"missing database", map[string]interface{}{"DATABASE_URL": ""}, "DATABASE_URL"},
		{"bad multiplier", map[string]interface{}{"ANTICIPATION_MULTIPLIER_CREDIT_CARD": "one and a half"}, "ANTICIPATION_MULTIPLIER_CREDIT_CARD"},
		{"negative cost percent", map[string]interface{}{"DEFAULT_COST_PERCENT": "-1"}, "DEFAULT_COST_PERCENT"},
		{"zero cycle", map[string]interface{}{"SETTLEMENT_CYCLE_DAYS": 0}, "SETTLEMENT_CYCLE_DAYS"},
		{"zero scenarios", map[string]interface{}{"MAX_SCENARIO_INSTALLMENTS": 0}, "MAX_SCENARIO_INSTALLMENTS"},
		{"too many scenarios", map[string]interface{}{"MAX_SCENARIO_INSTALLMENTS": 18}, "MAX_SCENARIO_INSTALLMENTS must be between 1 and 12"},
		{"bad timeout", map[string]interface{}{"FEE_LOOKUP_TIMEOUT": "soon"}, "FEE_LOOKUP_TIMEOUT"},
		{"zero rate limit", map[string]interface{}{"RATE_LIMIT_RPS": 0}, "RATE_LIMIT_RPS"},
		{"bad idle ttl", map[string]interface{}{"RATE_LIMIT_IDLE_TTL": "forever"}, "RATE_LIMIT_IDLE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCENARIO_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Business.ScenarioConcurrency)
}
