package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedcfg "github.com/leapstack-labs/leapfluff/internal/config"
	"github.com/leapstack-labs/leapfluff/internal/testutil"
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/sqlite"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), sharedcfg.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.StringP("dialect", "d", "", "dialect")
	flags.String("format", "", "output format")
	flags.Bool("no-cache", false, "disable the cache")
	flags.String("cache-path", "", "cache path")
	flags.Int("lru-size", 0, "lru size")
	flags.StringToString("indent", nil, "indentation")
	flags.StringSlice("rules", nil, "rules")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfigFile(t, "")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, sharedcfg.DefaultDialect, cfg.Dialect)
	assert.Equal(t, sharedcfg.DefaultOutput, cfg.Output)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), sharedcfg.DefaultCachePath), cfg.Cache.Path,
		"cache path resolves against the project root")
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfigFile(t, "dialect: ansi\noutput: yaml\n")
	t.Setenv("LEAPFLUFF_DIALECT", "ansi")
	t.Setenv("LEAPFLUFF_OUTPUT", "json")

	flags := testFlags()
	require.NoError(t, flags.Set("dialect", "sqlite"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Dialect, "flag value should override config file and env var")
	assert.Equal(t, "json", cfg.Output, "env var should be used when flag is not set")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfigFile(t, "output: yaml\nserver:\n  lru_size: 5\n")
	t.Setenv("LEAPFLUFF_OUTPUT", "json")
	t.Setenv("LEAPFLUFF_SERVER__LRU_SIZE", "99")
	t.Setenv("LEAPFLUFF_INDENTATION__INDENTED_JOINS", "true")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 99, cfg.Server.LRUSize)
	indent, err := cfg.IndentConfig()
	require.NoError(t, err)
	assert.True(t, indent["indented_joins"])
}

func TestLoadConfig_MappedFlags(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfigFile(t, "")

	flags := testFlags()
	require.NoError(t, flags.Set("format", "json"))
	require.NoError(t, flags.Set("no-cache", "true"))
	require.NoError(t, flags.Set("lru-size", "7"))
	require.NoError(t, flags.Set("indent", "indented_ctes=true"))
	require.NoError(t, flags.Set("rules", "CP01,CV01"))
	require.NoError(t, flags.Set("config", cfgPath))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 7, cfg.Server.LRUSize)
	assert.Equal(t, []string{"CP01", "CV01"}, cfg.Lint.Rules)

	indent, err := cfg.IndentConfig()
	require.NoError(t, err)
	assert.True(t, indent["indented_ctes"])
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown dialect", body: "dialect: klingon\n", wantErr: "unknown dialect"},
		{name: "unknown output", body: "output: xml\n", wantErr: "unknown output format"},
		{name: "malformed yaml", body: "dialect: [\n", wantErr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfigFile(t, tt.body), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx), "discard fallback")
	assert.Equal(t, sharedcfg.DefaultDialect, GetConfig(ctx).Dialect)

	logger := testutil.NewTestLogger(t)
	cfg := &Config{Dialect: "ansi"}
	ctx = WithConfig(WithLogger(ctx, logger), cfg)

	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, cfg, GetConfig(ctx))
}
