package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/healthcard/orientation/internal/config"
	"github.com/healthcard/orientation/internal/testutil"
)

type TestCase struct {
	Want       *config.Config
	Name       string
	GoldenFile string
	Snapshot   []byte `json:"-"`
}

func (t TestCase) Output() (out []byte, name string) {
	return t.Snapshot, t.GoldenFile
}

// defaultConfig returns a new Config instance with default values.
func defaultConfig() *config.Config {
	return &config.Config{
		Refresh: config.RefreshConfig{
			Interval: 10 * time.Second,
		},
		Dashboard: config.DashboardConfig{
			MaxUpcoming: 5,
		},
		Authority: config.AuthorityConfig{
			Timeout: 10 * time.Second,
		},
		Clock: config.ClockConfig{
			AllowUnverified: true,
		},
		Store: config.StoreConfig{
			Driver: "bolt",
		},
		History: config.HistoryConfig{
			Limit: 200,
		},
		Display: config.DisplayConfig{
			DarkTheme: true,
		},
		Notifications: config.NotificationConfig{
			Enabled: true,
		},
	}
}

func TestViperWriteConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	tc := TestCase{
		Name:       "write default config to file",
		GoldenFile: "defaults",
		Want:       defaultConfig(),
	}

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	if err != nil {
		t.Fatal(err)
	}

	tc.Snapshot, err = os.ReadFile(configPath)
	if err != nil {
		t.Fatal("failed to read config", err)
	}

	testutil.CompareGoldenFile(t, tc)

	assert.Equal(t, tc.Want, cfg)
}

func TestViperReadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	err := testutil.CopyFile("testdata/modified_config.golden", configPath)
	if err != nil {
		t.Fatal(err)
	}

	tc := TestCase{
		Name: "read a modified config file",
		Want: &config.Config{
			Refresh: config.RefreshConfig{
				Interval: 30 * time.Second,
			},
			Dashboard: config.DashboardConfig{
				MaxUpcoming: 8,
			},
			Authority: config.AuthorityConfig{
				URL:     "https://time.example.com",
				Timeout: 3 * time.Second,
			},
			Clock: config.ClockConfig{
				AllowUnverified: false,
			},
			Store: config.StoreConfig{
				Driver: "sqlite",
				Path:   "/var/lib/orient/orient.sqlite",
			},
			History: config.HistoryConfig{
				Limit: 50,
			},
			Display: config.DisplayConfig{
				TwentyFourHour: true,
				DarkTheme:      false,
			},
			Notifications: config.NotificationConfig{
				Enabled: false,
			},
			Settings: config.SettingsConfig{
				Cmd: `notify-send "session changed"`,
			},
		},
	}

	cfg, err := config.New(
		config.WithViperConfig(configPath),
	)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, tc.Want, cfg)
}

func TestViperInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")

	err := testutil.CopyFile("testdata/invalid_config.golden", configPath)
	if err != nil {
		t.Fatal(err)
	}

	_, err = config.New(
		config.WithViperConfig(configPath),
	)

	assert.ErrorContains(t, err, "refresh interval must be between")
}
