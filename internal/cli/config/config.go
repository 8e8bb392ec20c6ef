// --- START OF FINAL REVISED FILE internal/cli/config/config.go ---
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stackvity/keymap-converter/pkg/converter"
	"github.com/stackvity/keymap-converter/pkg/converter/cache"
	"github.com/stackvity/keymap-converter/pkg/converter/encoding"
	tmplhelper "github.com/stackvity/keymap-converter/pkg/converter/template"
)

const (
	EnvPrefix         = "KEYMAPCONVERTER"
	DefaultConfigName = "keymap-converter"
)

// WatchConfig holds watch mode settings as read from the config file.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"`
}

// Config is the fully resolved CLI configuration: the library Options plus
// everything the CLI needs to locate, unpack and track Oryx downloads.
type Config struct {
	converter.Options `mapstructure:",squash"`

	// --- Download Handling ---
	ImportDir     string `mapstructure:"importDir"`     // directory the Oryx .zip files are downloaded to
	ArchivePath   string `mapstructure:"-"`             // explicit archive (--archive); skips the locator
	ArchivePrefix string `mapstructure:"archivePrefix"` // file name prefix of the Oryx download
	SourcePrefix  string `mapstructure:"sourcePrefix"`  // entry prefix of the source files inside the archive

	// --- Behavior & Control ---
	Force bool `mapstructure:"force"` // convert even when the archive is already in the index

	// --- Caching ---
	CacheEnabled  bool   `mapstructure:"cache"`
	CacheFormat   string `mapstructure:"cacheFormat"`
	CacheFilePath string `mapstructure:"-"` // derived: <importDir>/.keymapconverter.cache

	// --- Watch Mode ---
	WatchMode     bool          `mapstructure:"-"` // --watch
	Watch         WatchConfig   `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"-"` // parsed from Watch.Debounce
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"import-dir":       "importDir",
	"export-dir":       "exportDir",
	"archive-prefix":   "archivePrefix",
	"source-prefix":    "sourcePrefix",
	"strict":           "strict",
	"force":            "force",
	"verbose":          "verbose",
	"output-format":    "outputFormat",
	"template":         "templateFile",
	"default-encoding": "defaultEncoding",
	"watch-debounce":   "watch.debounce",
	"compile":          "toolchain.compile.enabled",
	"flash":            "toolchain.flash.enabled",
	"commit":           "git.commit",
	"commit-message":   "git.message",
	"command-timeout":  "toolchain.timeout",
}

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged configuration, derives absolute
// paths and durations, loads the catalog template and sets up the logger.
func LoadAndValidate(cfgFile, profileName, appVersion string, verbose bool, flags *pflag.FlagSet) (Config, *slog.Logger, error) {
	var cfg Config
	v := viper.New()

	// Temporary logger for errors before the final level is known.
	tempLogHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	tempLogger := slog.New(tempLogHandler)

	home, err := os.UserHomeDir()
	if err != nil {
		tempLogger.Error("Failed to get user home directory", slog.Any("error", err))
		return cfg, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
	}
	setDefaults(v, home)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return cfg, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		cfg.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", cfg.ConfigFilePath))
	}

	// --- Apply Profile ---
	if profileName != "" {
		profileKey := "profiles." + profileName
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("profile '%s' not found in config file '%s'", profileName, configPath)
			tempLogger.Error(err.Error())
			return cfg, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return cfg, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", name))
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			tempLogger.Error("Error binding flag", slog.String("flag", name), slog.Any("error", err))
			return cfg, tempLogger, fmt.Errorf("error binding flag '--%s': %w", name, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return cfg, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	cfg.AppVersion = appVersion
	cfg.ProfileName = profileName
	if cfg.ConfigFilePath == "" {
		cfg.ConfigFilePath = v.ConfigFileUsed()
	}

	// --- Flags That Do Not Map To A Single Key ---
	if flags.Changed("source") {
		cfg.SourceDir, _ = flags.GetString("source")
	}
	if flags.Changed("archive") {
		cfg.ArchivePath, _ = flags.GetString("archive")
	}
	if flags.Changed("watch") {
		cfg.WatchMode, _ = flags.GetBool("watch")
	}
	if verbose {
		cfg.Verbose = true
	}
	if flags.Changed("no-tui") {
		if noTui, _ := flags.GetBool("no-tui"); noTui {
			cfg.TuiEnabled = false
		}
	}
	if flags.Changed("no-cache") {
		if noCache, _ := flags.GetBool("no-cache"); noCache {
			cfg.CacheEnabled = false
		}
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	cfg.Logger = logHandler

	// --- Load Custom or Default Template ---
	if err := loadTemplate(&cfg, logger); err != nil {
		return cfg, logger, err
	}

	// --- Durations ---
	debounce, err := parseDuration(cfg.Watch.Debounce, converter.DefaultWatchDebounceDuration, flags.Changed("watch-debounce"), "watch.debounce", logger)
	if err != nil {
		return cfg, logger, err
	}
	cfg.WatchDebounce = debounce
	timeout, err := parseDuration(cfg.Toolchain.Timeout, converter.DefaultCommandTimeout, flags.Changed("command-timeout"), "toolchain.timeout", logger)
	if err != nil {
		return cfg, logger, err
	}
	cfg.CommandTimeout = timeout

	if err := validateAndDerive(&cfg, logger); err != nil {
		return cfg, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", cfg.ConfigFilePath),
		slog.String("profile", cfg.ProfileName),
		slog.Bool("verbose", cfg.Verbose),
		slog.String("logLevel", logLevel.String()),
	)
	return cfg, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper, home string) {
	// --- Behavior & Control ---
	v.SetDefault("strict", converter.DefaultStrict)
	v.SetDefault("force", converter.DefaultForce)
	v.SetDefault("verbose", converter.DefaultVerbose)
	v.SetDefault("tuiEnabled", converter.DefaultTuiEnabled)

	// --- Download Handling ---
	v.SetDefault("importDir", filepath.Join(home, "Downloads"))
	v.SetDefault("exportDir", "")
	v.SetDefault("archivePrefix", converter.DefaultArchivePrefix)
	v.SetDefault("sourcePrefix", converter.DefaultSourcePrefix)

	// --- Caching ---
	v.SetDefault("cache", converter.DefaultCacheEnabled)
	v.SetDefault("cacheFormat", cache.DefaultCacheFormat)

	// --- Input & Output ---
	v.SetDefault("defaultEncoding", converter.DefaultEncoding)
	v.SetDefault("templateFile", "")
	v.SetDefault("outputFormat", string(converter.DefaultOutputFormat))

	// --- Workflow Features ---
	v.SetDefault("watch.debounce", converter.DefaultWatchDebounceString)
	v.SetDefault("toolchain.timeout", converter.DefaultCommandTimeout.String())
	v.SetDefault("toolchain.compile.name", "qmk compile")
	v.SetDefault("toolchain.compile.enabled", false)
	v.SetDefault("toolchain.compile.command", []string{"qmk", "compile", "-kb", "moonlander", "-km", "chrispetkau"})
	v.SetDefault("toolchain.flash.name", "wally-cli")
	v.SetDefault("toolchain.flash.enabled", false)
	v.SetDefault("toolchain.flash.command", []string{"wally-cli", "moonlander_chrispetkau.bin"})
	v.SetDefault("git.commit", false)
	v.SetDefault("git.repo", "")
	v.SetDefault("git.message", converter.DefaultCommitMessage)
}

// loadTemplate parses the configured catalog template, or the embedded one.
func loadTemplate(cfg *Config, logger *slog.Logger) error {
	if cfg.TemplatePath == "" {
		defaultTmpl, err := tmplhelper.LoadDefaultTemplate()
		if err != nil {
			logger.Error("Critical: Failed to load embedded default template", slog.String("error", err.Error()))
			return fmt.Errorf("critical internal error: failed to load default template: %w", err)
		}
		cfg.Template = defaultTmpl
		logger.Debug("Using embedded default template")
		return nil
	}

	absTplPath, err := filepath.Abs(cfg.TemplatePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve template path '%s': %w", converter.ErrConfigValidation, cfg.TemplatePath, err)
	}
	cfg.TemplatePath = absTplPath
	info, err := os.Stat(cfg.TemplatePath)
	if err != nil {
		err = fmt.Errorf("%w: template file '%s' does not exist or cannot be accessed: %w", converter.ErrConfigValidation, cfg.TemplatePath, err)
		logger.Error(err.Error())
		return err
	}
	if info.IsDir() {
		err = fmt.Errorf("%w: template path '%s' is a directory, not a file", converter.ErrConfigValidation, cfg.TemplatePath)
		logger.Error(err.Error())
		return err
	}
	content, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		err = fmt.Errorf("%w: failed to read custom template file '%s': %w", converter.ErrConfigValidation, cfg.TemplatePath, err)
		logger.Error(err.Error())
		return err
	}
	customTmpl, err := template.New(filepath.Base(cfg.TemplatePath)).Parse(string(content))
	if err != nil {
		err = fmt.Errorf("%w: failed to parse template '%s': %w", converter.ErrConfigValidation, cfg.TemplatePath, err)
		logger.Error(err.Error())
		return err
	}
	cfg.Template = customTmpl
	logger.Debug("Loaded custom template", slog.String("path", cfg.TemplatePath))
	return nil
}

// parseDuration parses a duration from config. An unparsable value from a
// file or the defaults falls back to def with a warning; one given on the
// command line is an error.
func parseDuration(value string, def time.Duration, fromFlag bool, key string, logger *slog.Logger) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		if fromFlag {
			err = fmt.Errorf("%w: invalid duration '%s' for key '%s': %w", converter.ErrConfigValidation, value, key, err)
			logger.Error(err.Error(), slog.String("key", key), slog.String("value", value))
			return 0, err
		}
		logger.Warn("Could not parse duration, using default",
			slog.String("key", key),
			slog.String("value", value),
			slog.Duration("default", def),
			slog.String("error", err.Error()))
		return def, nil
	}
	if d < 0 {
		err = fmt.Errorf("%w: invalid negative duration '%s' for key '%s'", converter.ErrConfigValidation, value, key)
		logger.Error(err.Error(), slog.String("key", key), slog.String("value", value))
		return 0, err
	}
	return d, nil
}

// isValidEnumValue checks if a given string value is present in a slice of allowed enum values.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateAndDerive performs semantic validation on the populated Config and
// resolves paths. Errors wrap converter.ErrConfigValidation.
func validateAndDerive(cfg *Config, logger *slog.Logger) error {
	// === Export Directory ===
	if cfg.ExportDir == "" {
		err := fmt.Errorf("%w: export directory is required (-o, --export-dir or 'exportDir')", converter.ErrConfigValidation)
		logger.Error(err.Error(), slog.String("key", "exportDir"))
		return err
	}
	absExport, err := filepath.Abs(cfg.ExportDir)
	if err != nil {
		err = fmt.Errorf("%w: cannot resolve export directory '%s': %w", converter.ErrConfigValidation, cfg.ExportDir, err)
		logger.Error(err.Error(), slog.String("key", "exportDir"))
		return err
	}
	cfg.ExportDir = absExport

	// === Input: extracted sources, an explicit archive, or the import directory ===
	switch {
	case cfg.SourceDir != "":
		abs, err := requireDir(cfg.SourceDir, "source directory")
		if err != nil {
			logger.Error(err.Error(), slog.String("key", "source"))
			return err
		}
		cfg.SourceDir = abs
	case cfg.ArchivePath != "":
		abs, err := filepath.Abs(cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("%w: cannot resolve archive path '%s': %w", converter.ErrConfigValidation, cfg.ArchivePath, err)
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			err = fmt.Errorf("%w: archive '%s' is not a readable file", converter.ErrConfigValidation, abs)
			logger.Error(err.Error(), slog.String("key", "archive"))
			return err
		}
		cfg.ArchivePath = abs
	default:
		abs, err := requireDir(cfg.ImportDir, "import directory")
		if err != nil {
			logger.Error(err.Error(), slog.String("key", "importDir"))
			return err
		}
		cfg.ImportDir = abs
		if cfg.ArchivePrefix == "" {
			err := fmt.Errorf("%w: archivePrefix must not be empty", converter.ErrConfigValidation)
			logger.Error(err.Error(), slog.String("key", "archivePrefix"))
			return err
		}
	}
	if cfg.SourceDir == "" && cfg.SourcePrefix == "" {
		err := fmt.Errorf("%w: sourcePrefix must not be empty", converter.ErrConfigValidation)
		logger.Error(err.Error(), slog.String("key", "sourcePrefix"))
		return err
	}
	if cfg.WatchMode && (cfg.SourceDir != "" || cfg.ArchivePath != "") {
		err := fmt.Errorf("%w: --watch watches the import directory and cannot be combined with --source or --archive", converter.ErrConfigValidation)
		logger.Error(err.Error())
		return err
	}

	// === Enum String Validations ===
	allowedOutputFormat := []converter.OutputFormat{converter.OutputFormatText, converter.OutputFormatJSON, converter.OutputFormatYAML}
	if !isValidEnumValue(cfg.OutputFormat, allowedOutputFormat) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v", converter.ErrConfigValidation, cfg.OutputFormat, allowedOutputFormat)
		logger.Error(err.Error(), slog.String("key", "outputFormat"), slog.String("value", string(cfg.OutputFormat)))
		return err
	}
	if cfg.DefaultEncoding != "" {
		if _, err := encoding.NewGoCharsetEncodingHandler(cfg.DefaultEncoding); err != nil {
			err = fmt.Errorf("%w: invalid value '%s' for key 'defaultEncoding': %w", converter.ErrConfigValidation, cfg.DefaultEncoding, err)
			logger.Error(err.Error(), slog.String("key", "defaultEncoding"))
			return err
		}
	}

	// === Toolchain ===
	for _, c := range []struct {
		key string
		len int
		on  bool
	}{
		{"toolchain.compile.command", len(cfg.Toolchain.Compile.Command), cfg.Toolchain.Compile.Enabled},
		{"toolchain.flash.command", len(cfg.Toolchain.Flash.Command), cfg.Toolchain.Flash.Enabled},
	} {
		if c.on && c.len == 0 {
			err := fmt.Errorf("%w: '%s' must not be empty when the step is enabled", converter.ErrConfigValidation, c.key)
			logger.Error(err.Error(), slog.String("key", c.key))
			return err
		}
	}
	if cfg.Git.Repo != "" {
		abs, err := filepath.Abs(cfg.Git.Repo)
		if err != nil {
			return fmt.Errorf("%w: cannot resolve git.repo '%s': %w", converter.ErrConfigValidation, cfg.Git.Repo, err)
		}
		cfg.Git.Repo = abs
	}

	// === Derived ===
	if cfg.CacheFilePath == "" {
		switch {
		case cfg.ArchivePath != "":
			cfg.CacheFilePath = filepath.Join(filepath.Dir(cfg.ArchivePath), cache.CacheFileName)
		case cfg.SourceDir == "":
			cfg.CacheFilePath = filepath.Join(cfg.ImportDir, cache.CacheFileName)
		}
	}
	if cfg.Verbose || cfg.WatchMode {
		if cfg.TuiEnabled {
			logger.Debug("Verbose or watch mode enabled, TUI disabled")
		}
		cfg.TuiEnabled = false
	}

	logger.Debug("Final derived settings validated",
		slog.String("exportDir", cfg.ExportDir),
		slog.String("importDir", cfg.ImportDir),
		slog.String("sourceDir", cfg.SourceDir),
		slog.String("archive", cfg.ArchivePath),
		slog.String("cacheFilePath", cfg.CacheFilePath),
		slog.Duration("watchDebounce", cfg.WatchDebounce),
		slog.Duration("commandTimeout", cfg.CommandTimeout),
		slog.Bool("tuiEnabledEffective", cfg.TuiEnabled),
	)
	return nil
}

// requireDir resolves path and checks that it is an existing directory.
func requireDir(path, what string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %s '%s': %w", converter.ErrConfigValidation, what, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s '%s' does not exist", converter.ErrConfigValidation, what, abs)
		}
		return "", fmt.Errorf("%w: cannot access %s '%s': %w", converter.ErrConfigValidation, what, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s '%s' is not a directory", converter.ErrConfigValidation, what, abs)
	}
	return abs, nil
}

// --- END OF FINAL REVISED FILE internal/cli/config/config.go ---
