package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"DBPath", cfg.DBPath, "parva.db"},
		{"ListenAddr", cfg.ListenAddr, "127.0.0.1:50061"},
		{"BSTable", cfg.BSTable, ""},
		{"BoundaryThreshold", cfg.BoundaryThreshold, 0.01},
		{"OracleAddr", cfg.Oracle.Addr, ""},
		{"OracleTimeout", cfg.Oracle.Timeout, 5 * time.Second},
		{"MaxIterations", cfg.Search.MaxIterations, 64},
		{"Precision", cfg.Search.Precision, 30 * time.Second},
		{"Latitude", cfg.Location.Latitude, 27.7172},
		{"Longitude", cfg.Location.Longitude, 85.3240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "db_path",
			envKey: "PARVA_DB_PATH",
			envVal: "/var/lib/parva.db",
			field:  func(c Config) any { return c.DBPath },
			want:   "/var/lib/parva.db",
		},
		{
			name:   "boundary_threshold",
			envKey: "PARVA_BOUNDARY_THRESHOLD",
			envVal: "0.05",
			field:  func(c Config) any { return c.BoundaryThreshold },
			want:   0.05,
		},
		{
			name:   "oracle.addr",
			envKey: "PARVA_ORACLE_ADDR",
			envVal: "ephemeris:50051",
			field:  func(c Config) any { return c.Oracle.Addr },
			want:   "ephemeris:50051",
		},
		{
			name:   "oracle.timeout",
			envKey: "PARVA_ORACLE_TIMEOUT",
			envVal: "250ms",
			field:  func(c Config) any { return c.Oracle.Timeout },
			want:   250 * time.Millisecond,
		},
		{
			name:   "search.max_iterations",
			envKey: "PARVA_SEARCH_MAX_ITERATIONS",
			envVal: "80",
			field:  func(c Config) any { return c.Search.MaxIterations },
			want:   80,
		},
		{
			name:   "bs_table",
			envKey: "PARVA_BS_TABLE",
			envVal: "/etc/parva/bs.toml",
			field:  func(c Config) any { return c.BSTable },
			want:   "/etc/parva/bs.toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so PARVA_* env vars map to config keys.
			viper.SetEnvPrefix("PARVA")
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".parva.yaml")
	data := "db_path: cache.db\nsearch:\n  precision: 10s\noracle:\n  addr: localhost:50051\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DBPath != "cache.db" || cfg.Search.Precision != 10*time.Second || cfg.Oracle.Addr != "localhost:50051" {
		t.Errorf("config file values not applied: %+v", cfg)
	}
	if cfg.Search.MaxIterations != 64 {
		t.Errorf("expected default max_iterations to survive, got %d", cfg.Search.MaxIterations)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{"boundary_threshold", 0.5},
		{"boundary_threshold", -0.1},
		{"search.max_iterations", 0},
		{"search.precision", "0s"},
		{"oracle.timeout", "-1s"},
		{"location.latitude", 91.0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%v", tt.key, tt.val)
			}
		})
	}
}

func TestPanchanga(t *testing.T) {
	resetViper()
	viper.Set("boundary_threshold", 0.02)
	viper.Set("search.precision", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	pc := cfg.Panchanga()
	if pc.Uncertainty.BoundaryThreshold != 0.02 {
		t.Errorf("threshold = %v, want 0.02", pc.Uncertainty.BoundaryThreshold)
	}
	if pc.Search.Precision != 15*time.Second || pc.Search.MaxIterations != 64 {
		t.Errorf("unexpected search config %+v", pc.Search)
	}
	if pc.Location.Zone == nil || pc.Location.Latitude != 27.7172 {
		t.Errorf("unexpected location %+v", pc.Location)
	}
	if len(pc.Uncertainty.Levels) != 4 {
		t.Errorf("expected stock calibration levels, got %d", len(pc.Uncertainty.Levels))
	}
}
