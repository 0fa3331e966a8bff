package constants

import (
	"net/http"
	"time"
)

// Jenkins endpoint constants
const (
	// Default base URLs for the two provisioning layouts: the crumb-based
	// check talks to the short hostname, the token-based check to the
	// cluster-local FQDN.
	DefaultCrumbBaseURL = "https://jenkins:10400"
	DefaultTokenBaseURL = "https://jenkins.cicd.local:10400"

	DefaultUsername = "admin"

	CrumbIssuerPath = "/crumbIssuer/api/json"
	ScriptTextPath  = "/scriptText"
	APIJSONPath     = "/api/json"

	// ProbeScript is the fixed Groovy expression executed through the
	// script console. Reading the system message is side-effect free and
	// proves both the connection path and the credential.
	ProbeScript = "return jenkins.model.Jenkins.get().getSystemMessage()"
)

// Environment file constants
const (
	DefaultEnvFile = "jenkins.env"
	PasswordEnvKey = "JENKINS_ADMIN_PASSWORD"
	APITokenEnvKey = "JENKINS_API_TOKEN"
)

// Database constants
const (
	// PostgreSQL defaults
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"

	// Default table name for recorded verification runs
	DefaultRunsTable = "verification_runs"
	RunsTableSuffix  = "_verification_runs"

	// Default SQLite database filename
	DefaultSQLiteFile = "jenkinsverify.db"

	// Stored response bodies are truncated to keep history rows small.
	MaxStoredBodyBytes = 4096
)

// Wait configuration constants
const (
	DefaultWaitTimeout  = 60 * time.Second
	DefaultWaitInterval = 2 * time.Second
	DefaultWaitStatus   = http.StatusOK
	DefaultWaitMethod   = "GET"
)
