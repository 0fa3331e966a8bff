package jenkinsverify

import (
	"context"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/envfile"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/httpc"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/jenkins"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store"
)

// Re-export commonly used types for public API

// AuthMode selects how the probe authenticates.
type AuthMode = jenkins.AuthMode

const (
	AuthCrumb = jenkins.AuthCrumb
	AuthToken = jenkins.AuthToken
)

// Client issues authenticated requests against one Jenkins controller.
type Client = jenkins.Client

// Result is the outcome of one script probe.
type Result = jenkins.Result

// Crumb is a CSRF token pair issued by the controller.
type Crumb = jenkins.Crumb

// EnvMap holds key/value pairs loaded from a credentials file.
type EnvMap = envfile.Map

// ParseAuthMode maps a mode string to an AuthMode; empty means crumb.
func ParseAuthMode(s string) (AuthMode, error) { return jenkins.ParseAuthMode(s) }

// LoadEnvFile parses a dotenv-style credentials file.
func LoadEnvFile(path string) (EnvMap, error) { return envfile.Load(path) }

// NewClient builds a verifier client. Pass insecure=true to skip certificate
// verification against self-signed lab controllers.
func NewClient(baseURL, username, secret string, mode AuthMode, insecure bool) *Client {
	return jenkins.New(baseURL, username, secret, mode, httpc.FromOptions(insecure, "", ""))
}

// Verify runs the whole probe in one call: credentials file in, Result out.
func Verify(ctx context.Context, baseURL, username, envPath string, mode AuthMode, insecure bool) (*Result, error) {
	envMap, err := LoadEnvFile(envPath)
	if err != nil {
		return nil, err
	}
	key := constants.PasswordEnvKey
	if mode == AuthToken {
		key = constants.APITokenEnvKey
	}
	secret, ok := envMap.Lookup(key)
	if !ok {
		return nil, &MissingSecretError{Path: envPath, Key: key}
	}
	return NewClient(baseURL, username, secret, mode, insecure).Verify(ctx)
}

// MissingSecretError reports a credentials file that lacks the expected key.
type MissingSecretError struct {
	Path string
	Key  string
}

func (e *MissingSecretError) Error() string {
	return "secret key " + e.Key + " not found in " + e.Path
}

// ProbeScript is the Groovy snippet the verifier executes by default.
const ProbeScript = constants.ProbeScript

// Store persists verification run history.
type Store = store.Store

// StoreConfig selects and parameterizes the history backend.
type StoreConfig = store.Config

// Run is one recorded verification attempt.
type Run = store.Run

// OpenStore connects the configured history backend.
func OpenStore(cfg StoreConfig) (*Store, error) { return store.Open(cfg) }

// Logger is the structured logger used across the module.
type Logger = common.Logger

type LogLevel = common.LogLevel

const (
	LogLevelError = common.LogLevelError
	LogLevelWarn  = common.LogLevelWarn
	LogLevelInfo  = common.LogLevelInfo
	LogLevelDebug = common.LogLevelDebug
)

// SetDefaultLogger replaces the package-wide logger for library users.
func SetDefaultLogger(l *Logger) { common.SetDefaultLogger(l) }

// NewLogger returns a text logger with sensitive-value masking enabled.
func NewLogger(level LogLevel) *Logger { return common.NewLogger(level) }

// NewColorLogger returns a terminal color logger with masking enabled.
func NewColorLogger(level LogLevel) *Logger { return common.NewColorLogger(level) }
