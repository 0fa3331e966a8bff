package main

import (
	"context"
	"fmt"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/envfile"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/httpc"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/jenkins"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/util"
	"github.com/spf13/viper"
)

// loadConfigDoc reads the optional config file named by the --config flag.
func loadConfigDoc() (*ConfigDoc, error) {
	doc := &ConfigDoc{}
	if cfgPath, ok := util.Trimmed(viper.GetString("config")); ok {
		if err := doc.Load(cfgPath); err != nil {
			return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
		}
	}
	return doc, nil
}

// firstNonEmpty returns the first trimmed non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if t, ok := util.Trimmed(v); ok {
			return t
		}
	}
	return ""
}

// runVerification is the whole check: resolve configuration, load the
// credentials file, then issue the authenticated probe. Missing config exits
// 1 before any network call. A failed probe is logged but still exits 0,
// since the tool reports rather than gates.
func runVerification(ctx context.Context) error {
	doc, err := loadConfigDoc()
	if err != nil {
		return err
	}
	if err := doc.SetupLogging(); err != nil {
		return err
	}
	logger := common.GetLogger().WithComponent("verify")

	v := viper.GetViper()
	mode, err := jenkins.ParseAuthMode(firstNonEmpty(v.GetString("auth"), doc.Jenkins.Auth))
	if err != nil {
		return err
	}

	baseURL := firstNonEmpty(v.GetString("url"), doc.BaseURL(mode))
	username := firstNonEmpty(v.GetString("user"), doc.Username())
	envPath := firstNonEmpty(v.GetString("env_file"), doc.EnvFile())

	logger.Info("loading environment", "path", envPath)
	envMap, err := envfile.Load(envPath)
	if err != nil {
		logger.Error("environment file not found", "path", envPath, "error", err)
		logger.Error("run '01-setup-jenkins.sh' first")
		exitHandler.Exit(1)
		return nil
	}

	secretKey := doc.SecretKey(mode)
	secret, ok := envMap.Lookup(secretKey)
	if !ok {
		logger.Error("required secret not found in environment file", "path", envPath, "key", secretKey)
		exitHandler.Exit(1)
		return nil
	}

	insecure := v.GetBool("insecure") || doc.Client.Insecure
	hc := httpc.FromOptions(insecure, doc.Client.MinTLSVersion, doc.Client.MaxTLSVersion)
	client := jenkins.New(baseURL, username, secret, mode, hc)

	var st *store.Store
	if doc.Store.Configured() {
		var stErr error
		st, stErr = store.Open(doc.Store)
		if stErr != nil {
			// History is best-effort; a broken store must not block the check.
			logger.Warn("verification history store unavailable", "error", stErr)
		}
	}
	defer func() { _ = st.Close() }()

	if version, nodeMode, pErr := client.Ping(ctx); pErr == nil {
		logger.Debug("controller reachable", "version", version, "node_mode", nodeMode)
	}

	res, err := client.Verify(ctx)
	if err != nil {
		logger.Error("verification aborted", "error", err)
		_ = st.RecordRun(baseURL, string(mode), 0, err.Error(), false)
		return nil
	}

	_ = st.RecordRun(baseURL, string(mode), res.StatusCode, res.Body, res.Verified)

	if res.Verified {
		logger.Info("Jenkins verification complete", "result", "success")
	} else {
		logger.Error("Jenkins verification complete", "result", "failed", "status", res.StatusCode)
	}
	return nil
}
