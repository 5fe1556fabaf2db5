package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.Payroll.SameDayBonus.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.Payroll.NightStayBonus.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 20*time.Hour, cfg.Duty.AutoCloseAfter)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("PAYROLL_SAME_DAY_BONUS", "150")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Payroll.SameDayBonus.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing db password", map[string]string{"JWT_SECRET_KEY": "x"}},
		{"missing jwt secret", map[string]string{"DB_PASSWORD": "x"}},
		{"bad port", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "APP_PORT": "abc"}},
		{"bad bonus", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "PAYROLL_NIGHT_STAY_BONUS": "lots"}},
		{"bad timezone", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "APP_TIMEZONE": "Mars/Olympus"}},
		{"negative bonus", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "PAYROLL_SAME_DAY_BONUS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_PASSWORD", "")
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "fleet", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5433/fleet?sslmode=disable", cfg.DatabaseURL())
}
