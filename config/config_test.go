package config_test

import (
	"os"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/config"
)

func TestConfig_CacheTTL(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  int
	}{
		{name: "unset expires after five minutes", want: 300},
		{name: "explicit ttl", value: strPtr("30"), want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CACHE_TTL", "")

			if tt.value == nil {
				require.NoError(t, os.Unsetenv("CACHE_TTL"))
			} else {
				t.Setenv("CACHE_TTL", *tt.value)
			}

			var cfg config.Config
			require.NoError(t, envconfig.Process("", &cfg))
			assert.Equal(t, tt.want, cfg.Cache.TTL)
		})
	}
}

func strPtr(s string) *string {
	return &s
}
