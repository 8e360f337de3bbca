package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := fromEnv(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceCSV, cfg.OrdersSource)
	assert.Equal(t, "all_data.csv", cfg.DatasetPath)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.ClickHouse.Enabled())
}

func TestFromEnv_ClickHouse(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ORDERS_SOURCE", "ClickHouse")
	t.Setenv("CLICKHOUSE_HOST", "ch.local")
	t.Setenv("CLICKHOUSE_NATIVE_PORT", "9000")
	t.Setenv("CLICKHOUSE_DB_NAME", "sales")

	cfg, err := fromEnv(viper.New())
	require.NoError(t, err)
	assert.Equal(t, SourceClickHouse, cfg.OrdersSource)
	assert.Equal(t, 9000, cfg.ClickHouse.NativePort)
	assert.True(t, cfg.ClickHouse.Enabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"no jwt secret", map[string]string{}, "JWT_SECRET_KEY"},
		{"unknown source", map[string]string{"JWT_SECRET_KEY": "s", "ORDERS_SOURCE": "excel"}, "unknown ORDERS_SOURCE"},
		{"mysql without dsn", map[string]string{"JWT_SECRET_KEY": "s", "ORDERS_SOURCE": "mysql"}, "MYSQL_DSN"},
		{"clickhouse without host", map[string]string{"JWT_SECRET_KEY": "s", "ORDERS_SOURCE": "clickhouse"}, "CLICKHOUSE_HOST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := fromEnv(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
