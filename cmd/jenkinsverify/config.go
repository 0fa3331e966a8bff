package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/jenkins"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/util"
	"gopkg.in/yaml.v3"
)

// JenkinsConfig targets the controller under test.
type JenkinsConfig struct {
	// URL used in crumb mode; TokenURL in token mode. Either may be
	// overridden by the --url flag which then applies to both modes.
	URL      string `mapstructure:"url" yaml:"url"`
	TokenURL string `mapstructure:"token_url" yaml:"token_url"`
	Username string `mapstructure:"username" yaml:"username"`
	Auth     string `mapstructure:"auth" yaml:"auth"`
}

// EnvFileConfig locates the credentials file and names the keys to read.
type EnvFileConfig struct {
	File        string `mapstructure:"file" yaml:"file"`
	PasswordKey string `mapstructure:"password_key" yaml:"password_key"`
	TokenKey    string `mapstructure:"token_key" yaml:"token_key"`
}

// ClientConfig carries explicit TLS options.
type ClientConfig struct {
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
}

// WaitConfig parameterizes the readiness poll.
type WaitConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	Method   string `mapstructure:"method" yaml:"method"`
	Status   int    `mapstructure:"status" yaml:"status"`
	Timeout  string `mapstructure:"timeout" yaml:"timeout"`
	Interval string `mapstructure:"interval" yaml:"interval"`
}

// LoggingConfig controls log output shape.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
}

// ConfigDoc is the optional YAML config file shape.
type ConfigDoc struct {
	Jenkins JenkinsConfig `mapstructure:"jenkins" yaml:"jenkins"`
	Env     EnvFileConfig `mapstructure:"env" yaml:"env"`
	Client  ClientConfig  `mapstructure:"client" yaml:"client"`
	Wait    WaitConfig    `mapstructure:"wait" yaml:"wait"`
	Store   store.Config  `mapstructure:"store" yaml:"store"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Load reads a YAML config file into the document.
func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	if info, statErr := os.Stat(clean); statErr != nil || !info.Mode().IsRegular() {
		if statErr != nil {
			return statErr
		}
		return fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user/CI; cleaned and validated above
	f, err := os.Open(clean)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	return dec.Decode(c)
}

// BaseURL resolves the target base URL for the given auth mode.
func (c *ConfigDoc) BaseURL(mode jenkins.AuthMode) string {
	if mode == jenkins.AuthToken {
		if u, ok := util.Trimmed(c.Jenkins.TokenURL); ok {
			return u
		}
		return constants.DefaultTokenBaseURL
	}
	if u, ok := util.Trimmed(c.Jenkins.URL); ok {
		return u
	}
	return constants.DefaultCrumbBaseURL
}

// EnvFile resolves the credentials file path, defaulting to ./jenkins.env.
func (c *ConfigDoc) EnvFile() string {
	return util.OrDefault(c.Env.File, constants.DefaultEnvFile)
}

// SecretKey names the env-file key holding the secret for the given mode.
func (c *ConfigDoc) SecretKey(mode jenkins.AuthMode) string {
	if mode == jenkins.AuthToken {
		return util.OrDefault(c.Env.TokenKey, constants.APITokenEnvKey)
	}
	return util.OrDefault(c.Env.PasswordKey, constants.PasswordEnvKey)
}

// Username resolves the account name, defaulting to the fixed admin account.
func (c *ConfigDoc) Username() string {
	return util.OrDefault(c.Jenkins.Username, constants.DefaultUsername)
}

func (c *ConfigDoc) parseLogLevel() (common.LogLevel, error) {
	level := util.Normalize(c.Logging.Level)
	switch level {
	case "error":
		return common.LogLevelError, nil
	case "warn", "warning":
		return common.LogLevelWarn, nil
	case "info", "":
		return common.LogLevelInfo, nil
	case "debug":
		return common.LogLevelDebug, nil
	default:
		return common.LogLevelInfo, fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", c.Logging.Level)
	}
}

// SetupLogging configures the global logger based on config settings
func (c *ConfigDoc) SetupLogging() error {
	level, err := c.parseLogLevel()
	if err != nil {
		return err
	}

	var logger *common.Logger
	format := util.Normalize(c.Logging.Format)
	switch format {
	case "json":
		logger = common.NewJSONLogger(level)
	case "color", "colour":
		logger = common.NewColorLogger(level)
	case "text", "":
		logger = common.NewLogger(level)
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json, color)", c.Logging.Format)
	}

	maskingEnabled := true
	if c.Logging.MaskSensitive != nil {
		maskingEnabled = *c.Logging.MaskSensitive
	}
	logger.EnableMasking(maskingEnabled)

	common.SetDefaultLogger(logger)

	logger.Debug("logging configured",
		"level", util.OrDefault(util.Normalize(c.Logging.Level), "info"),
		"format", util.OrDefault(format, "text"),
		"mask_sensitive", maskingEnabled)

	return nil
}
