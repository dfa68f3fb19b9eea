package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches into a fresh directory with a configs/ subdirectory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalWD) })
	require.NoError(t, os.Chdir(dir))
	return dir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	dir := chdirTemp(t)

	envContent := "APP_NAME=ledger-test\nSERVER_PORT=9090\nLOG_LEVEL=debug\n" +
		"ENGINE_INITIAL_CASH=1000.50\nENGINE_SEED_DEMO_DATA=false\nMIRROR_ENABLED=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test_happy.env"), []byte(envContent), 0o644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "ledger-test", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, decimal.RequireFromString("1000.5").Equal(cfg.Engine.InitialCash))
	assert.False(t, cfg.Engine.SeedDemoData)
	assert.True(t, cfg.Mirror.Enabled)

	// Defaults fill the rest
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "user1", cfg.Engine.UserID)
	assert.True(t, decimal.RequireFromString("12234").Equal(cfg.Engine.InitialInvestments))
	assert.Equal(t, 12, cfg.Engine.InitialActivePositions)
	assert.Equal(t, "ledger_transaction_events", cfg.Kafka.EventsTopic)
	assert.Equal(t, 4, cfg.Mirror.WorkerPoolSize)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, "ledger-test", cfgWithName.Application.Name)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "override.env"), []byte("SERVER_PORT=9090\n"), 0o644))
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadConfig("override")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Engine.SeedDemoData)
	assert.False(t, cfg.Mirror.Enabled)
}

func TestLoadConfig_InvalidDecimal(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENGINE_INITIAL_CASH", "lots")

	cfg, err := LoadConfig("missing")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "ENGINE_INITIAL_CASH must be a decimal number")
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	cfg, err := buildConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr []string
	}{
		{
			name:   "DefaultsAreValid",
			mutate: func(c *Config) {},
		},
		{
			name: "ServerAndEngineProblems",
			mutate: func(c *Config) {
				c.Server.Port = 0
				c.Engine.UserID = " "
				c.Engine.Currency = "DOLLAR"
				c.Engine.InitialCash = decimal.NewFromInt(-1)
			},
			expectedErr: []string{
				"SERVER_PORT must be greater than 0",
				"ENGINE_USER_ID is required",
				"ENGINE_CURRENCY must be a 3-letter code",
				"ENGINE_INITIAL_CASH must not be negative",
			},
		},
		{
			name: "InfrastructureProblems",
			mutate: func(c *Config) {
				c.Kafka.EventsTopic = ""
				c.Postgres.URL = ""
				c.MongoDB.Database = ""
				c.Outbox.BatchSize = 0
				c.Mirror.WorkerPoolSize = 0
			},
			expectedErr: []string{
				"KAFKA_EVENTS_TOPIC is required",
				"POSTGRES_URL is required",
				"MONGO_DATABASE is required",
				"OUTBOX_BATCH_SIZE must be greater than 0",
				"MIRROR_WORKER_POOL_SIZE must be greater than 0",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tc.mutate(cfg)

			err := cfg.validate()
			if len(tc.expectedErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tc.expectedErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}
