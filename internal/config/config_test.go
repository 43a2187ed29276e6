package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 1, cfg.Pagination.DefaultPage)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, FilterModeOverride, cfg.Dashboard.FilterMode)
	assert.Equal(t, time.UTC.String(), cfg.Dashboard.Location.String())
	assert.Equal(t, 15*time.Minute, cfg.Ban.Duration)
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.ConnMaxLifetime)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "25")
	t.Setenv("DASHBOARD_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("DASHBOARD_FILTER_MODE", "intersect")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 25, cfg.Pagination.DefaultLimit)
	assert.Equal(t, FilterModeIntersect, cfg.Dashboard.FilterMode)
	assert.Equal(t, "America/Sao_Paulo", cfg.Dashboard.Location.String())
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"STORE_DRIVER": "sqlite"},
			wantErr: "unknown STORE_DRIVER",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": ""},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "non-positive default limit",
			env:     map[string]string{"STORE_DRIVER": "memory", "PAGINATION_DEFAULT_LIMIT": "0"},
			wantErr: "PAGINATION_DEFAULT_LIMIT",
		},
		{
			name:    "unknown filter mode",
			env:     map[string]string{"STORE_DRIVER": "memory", "DASHBOARD_FILTER_MODE": "union"},
			wantErr: "unknown DASHBOARD_FILTER_MODE",
		},
		{
			name:    "bad timezone",
			env:     map[string]string{"STORE_DRIVER": "memory", "DASHBOARD_TIMEZONE": "Mars/Olympus"},
			wantErr: "invalid DASHBOARD_TIMEZONE",
		},
		{
			name:    "process local timezone",
			env:     map[string]string{"STORE_DRIVER": "memory", "DASHBOARD_TIMEZONE": "Local"},
			wantErr: "instead of Local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
