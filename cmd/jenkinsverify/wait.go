package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/httpc"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/jenkins"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Poll Jenkins until it answers, for use right after provisioning",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWait(context.Background())
	},
}

// waitParams holds the parsed and normalized parameters for waiting
type waitParams struct {
	url      string
	method   string
	expected int
	timeout  time.Duration
	interval time.Duration
}

// parseWaitConfig normalizes wait settings with defaults. The login page is
// the probe target by default: it answers without authentication as soon as
// the controller is up.
func parseWaitConfig(wc WaitConfig, baseURL string) waitParams {
	url := strings.TrimSpace(wc.URL)
	if url == "" {
		url = baseURL + "/login"
	}

	method := strings.ToUpper(strings.TrimSpace(wc.Method))
	if method == "" {
		method = constants.DefaultWaitMethod
	}

	expected := wc.Status
	if expected == 0 {
		expected = constants.DefaultWaitStatus
	}

	timeout := constants.DefaultWaitTimeout
	if s := strings.TrimSpace(wc.Timeout); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			timeout = d
		}
	}

	interval := constants.DefaultWaitInterval
	if s := strings.TrimSpace(wc.Interval); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			interval = d
		}
	}

	return waitParams{
		url:      url,
		method:   method,
		expected: expected,
		timeout:  timeout,
		interval: interval,
	}
}

// performHTTPRequest executes one poll with the specified method
func performHTTPRequest(ctx context.Context, hc *httpc.Httpc, method, url string) (int, error) {
	req := hc.New().R().SetContext(ctx)

	var status int
	var err error

	switch method {
	case "HEAD":
		resp, e := req.Head(url)
		err = e
		if resp != nil {
			status = resp.StatusCode()
		}
	default:
		resp, e := req.Get(url)
		err = e
		if resp != nil {
			status = resp.StatusCode()
		}
	}

	return status, err
}

// performPolling repeatedly polls the endpoint until success or timeout
func performPolling(ctx context.Context, hc *httpc.Httpc, params waitParams) error {
	logger := common.GetLogger().WithComponent("wait").WithRequest(params.method, params.url)
	deadline := time.Now().Add(params.timeout)
	var lastStatus int

	for {
		status, err := performHTTPRequest(ctx, hc, params.method, params.url)

		if err == nil && status == params.expected {
			logger.Info("endpoint ready", "status", status)
			return nil
		}

		lastStatus = status
		if time.Now().After(deadline) {
			return fmt.Errorf("wait: timeout waiting for %s to return %d (last=%d)",
				params.url, params.expected, lastStatus)
		}

		logger.Debug("endpoint not ready yet", "status", status, "error", err)
		time.Sleep(params.interval)
	}
}

// runWait polls an HTTP endpoint until it returns the expected status or the
// timeout elapses. Unlike verify, a timeout here is a hard failure: the whole
// point of the command is gating the next provisioning step.
func runWait(ctx context.Context) error {
	doc, err := loadConfigDoc()
	if err != nil {
		return err
	}
	if err := doc.SetupLogging(); err != nil {
		return err
	}

	v := viper.GetViper()
	mode, err := jenkins.ParseAuthMode(firstNonEmpty(v.GetString("auth"), doc.Jenkins.Auth))
	if err != nil {
		return err
	}
	baseURL := firstNonEmpty(v.GetString("url"), doc.BaseURL(mode))

	wc := doc.Wait
	if u, ok := util.Trimmed(v.GetString("wait_url")); ok {
		wc.URL = u
	}
	if d := v.GetDuration("wait_timeout"); d > 0 {
		wc.Timeout = d.String()
	}
	if d := v.GetDuration("wait_interval"); d > 0 {
		wc.Interval = d.String()
	}

	params := parseWaitConfig(wc, baseURL)

	insecure := v.GetBool("insecure") || doc.Client.Insecure
	hc := httpc.FromOptions(insecure, doc.Client.MinTLSVersion, doc.Client.MaxTLSVersion)

	return performPolling(ctx, hc, params)
}
