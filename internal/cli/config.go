package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/boards/internal/paths"
	"github.com/mesh-intelligence/boards/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyBoard    = "board"
	cfgKeyLogLevel = "log_level"

	envPrefix       = "BOARDS"
	defaultLogLevel = "warn"
)

// defaultConfig is written to config.yaml on first run.
var defaultConfig = types.Config{
	Backend: types.BackendFile,
	Board:   types.BoardTasks,
}

// loadConfig reads config.yaml from configDir with Viper, creating the
// directory and a default file on first run. Backend, board and log level
// may be overridden by BOARDS_BACKEND, BOARDS_BOARD and BOARDS_LOG_LEVEL.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultConfig.Backend)
	v.SetDefault(cfgKeyBoard, defaultConfig.Board)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetEnvPrefix(envPrefix)
	// data_dir is left to paths.ResolveDataDir, which ranks config.yaml
	// above BOARDS_DATA_DIR.
	for _, key := range []string{cfgKeyBackend, cfgKeyBoard, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&defaultConfig)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# boards configuration\n# backend: file | sqlite | memory; board: tasks | shapes\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// resolveConfig merges flags, environment and config.yaml into a validated
// Config. Directory and file failures are system errors; an invalid
// backend or board is a user error.
func resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, systemErr("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, systemErr("%w", err)
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, systemErr("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:  strings.ToLower(v.GetString(cfgKeyBackend)),
		DataDir:  dataDir,
		Board:    strings.ToLower(v.GetString(cfgKeyBoard)),
		LogLevel: v.GetString(cfgKeyLogLevel),
	}
	if flags.board != "" {
		cfg.Board = flags.board
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a production zap logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
