package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.HTTPPort)
	assert.Equal(t, "sqlite://app.db", cfg.DatabaseURL)
	assert.Equal(t, "generated_images", cfg.GeneratedFilesFolder)
	assert.Equal(t, 15*time.Second, cfg.SchedulerTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.SchedulerConfigured())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadLegacyAliases(t *testing.T) {
	tests := []struct {
		name            string
		env             map[string]string
		expectScheduler string
		expectCallback  string
	}{
		{
			name:            "legacy names are used when current ones are absent",
			env:             map[string]string{"A1111_SCHEDULER_URL": "http://sched:7860/", "FLASK_CALLBACK_BASE_URL": "http://console:5001/"},
			expectScheduler: "http://sched:7860",
			expectCallback:  "http://console:5001",
		},
		{
			name: "current names win over legacy names",
			env: map[string]string{
				"SCHEDULER_URL":           "http://new-sched",
				"A1111_SCHEDULER_URL":     "http://old-sched",
				"CALLBACK_BASE_URL":       "http://new-console",
				"FLASK_CALLBACK_BASE_URL": "http://old-console",
			},
			expectScheduler: "http://new-sched",
			expectCallback:  "http://new-console",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expectScheduler, cfg.SchedulerURL)
			assert.Equal(t, tt.expectCallback, cfg.CallbackBaseURL)
			assert.True(t, cfg.SchedulerConfigured())
		})
	}
}

func TestLoadRejectsEmptyFilesFolder(t *testing.T) {
	t.Setenv("GENERATED_FILES_FOLDER", "  ")
	_, err := Load()
	assert.Error(t, err)
}

func TestS3EnabledNeedsBothKeys(t *testing.T) {
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.S3Enabled())

	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.S3Enabled())
}
