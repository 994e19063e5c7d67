package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"media-picker/internal/logging"
	"media-picker/internal/sampler"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// Config holds all CLI configuration
type Config struct {
	AssetDir    string
	OutputDir   string
	SessionDB   string // empty disables persistent sessions
	SessionFile string // optional crop-session JSON to replay

	PreferredSize int
	Ratios        []float64
	Format        sampler.Format
	Quality       int
	SkipCrop      bool
	UseVips       bool

	MetricsEnabled bool
	MetricsPort    string

	// Derived
	SessionsEnabled bool
}

// DefaultRatios is the aspect-ratio cycle offered when CROP_RATIOS is
// unset: square, portrait 4:5, landscape 1.91:1.
var DefaultRatios = []float64{1.0, 0.8, 1.91}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	logging.Info("media-picker %s (%s, built %s, %s)", Version, Commit, BuildTime, GoVersion)
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	assetDir := getEnv("ASSET_DIR", ".")
	outputDir := getEnv("OUTPUT_DIR", "./export")
	sessionDB := getEnv("SESSION_DB", "")
	sessionFile := getEnv("SESSION_FILE", "")
	preferredSize := getEnvInt("PREFERRED_SIZE", 1080)
	ratiosStr := getEnv("CROP_RATIOS", "")
	format := getEnv("OUTPUT_FORMAT", "jpeg")
	quality := getEnvInt("OUTPUT_QUALITY", 85)
	skipCrop := getEnvBool("SKIP_CROP", false)
	useVips := getEnvBool("USE_VIPS", false)
	metricsEnabled := getEnvBool("METRICS_ENABLED", false)
	metricsPort := getEnv("METRICS_PORT", "9090")

	logging.Info("  ASSET_DIR:       %s", assetDir)
	logging.Info("  OUTPUT_DIR:      %s", outputDir)
	logging.Info("  SESSION_DB:      %s", orNone(sessionDB))
	logging.Info("  SESSION_FILE:    %s", orNone(sessionFile))
	logging.Info("  PREFERRED_SIZE:  %d", preferredSize)
	logging.Info("  OUTPUT_FORMAT:   %s", format)
	logging.Info("  SKIP_CROP:       %v", skipCrop)
	logging.Info("  USE_VIPS:        %v", useVips)
	logging.Info("  METRICS_ENABLED: %v", metricsEnabled)
	logging.Info("  LOG_LEVEL:       %s", logging.GetLevel())

	ratios, err := ParseRatios(ratiosStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CROP_RATIOS: %w", err)
	}

	if preferredSize < 1 {
		return nil, fmt.Errorf("PREFERRED_SIZE must be positive, got %d", preferredSize)
	}

	assetDir, err = filepath.Abs(assetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset directory: %w", err)
	}
	if info, err := os.Stat(assetDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("asset directory not accessible: %s", assetDir)
	}

	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := ensureWritableDir(outputDir); err != nil {
		return nil, fmt.Errorf("output directory error: %w", err)
	}

	config := &Config{
		AssetDir:       assetDir,
		OutputDir:      outputDir,
		SessionDB:      sessionDB,
		SessionFile:    sessionFile,
		PreferredSize:  preferredSize,
		Ratios:         ratios,
		Format:         sampler.Format(format),
		Quality:        quality,
		SkipCrop:       skipCrop,
		UseVips:        useVips,
		MetricsEnabled: metricsEnabled,
		MetricsPort:    metricsPort,
	}

	// Persistent sessions are optional; a bad path degrades with a warning.
	if sessionDB != "" {
		if err := ensureWritableDir(filepath.Dir(sessionDB)); err != nil {
			logging.Warn("  Session database directory not writable: %v", err)
			logging.Warn("  Persistent sessions will be disabled")
		} else {
			config.SessionsEnabled = true
		}
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Sessions: %s", enabledString(config.SessionsEnabled))
	logging.Info("    Metrics:  %s", enabledString(config.MetricsEnabled))

	return config, nil
}

// ParseRatios parses a comma-separated ratio list like "1.0,0.8,1.91".
// Fractions in w:h form are also accepted ("4:5"). An empty input
// yields DefaultRatios.
func ParseRatios(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return append([]float64(nil), DefaultRatios...), nil
	}

	parts := strings.Split(s, ",")
	ratios := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if w, h, ok := strings.Cut(part, ":"); ok {
			wf, err1 := strconv.ParseFloat(strings.TrimSpace(w), 64)
			hf, err2 := strconv.ParseFloat(strings.TrimSpace(h), 64)
			if err1 != nil || err2 != nil || hf == 0 {
				return nil, fmt.Errorf("bad ratio %q", part)
			}
			ratios = append(ratios, wf/hf)
			continue
		}
		r, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ratio %q", part)
		}
		ratios = append(ratios, r)
	}
	return ratios, nil
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("  Invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}

func ensureWritableDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return fmt.Errorf("directory %s is not writable: %w", path, err)
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove test file %s: %v", testFile, err)
	}
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
