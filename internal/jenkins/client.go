// Package jenkins implements the authenticated round trips against a Jenkins
// controller that prove a provisioned instance is reachable and its admin
// credential works: an optional CSRF crumb fetch followed by one Groovy
// probe through the script console.
package jenkins

import (
	"context"
	"fmt"
	"strings"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/auth"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/httpc"
	"github.com/tidwall/gjson"
)

// AuthMode selects how the verification authenticates.
type AuthMode string

const (
	// AuthCrumb authenticates with the admin password and a CSRF crumb
	// fetched from the crumb issuer, as a browser session would.
	AuthCrumb AuthMode = "crumb"
	// AuthToken authenticates with a static API token in a Basic header.
	// Token requests are exempt from crumb checks.
	AuthToken AuthMode = "token"
)

// ParseAuthMode normalizes a mode string. Empty defaults to crumb.
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AuthCrumb):
		return AuthCrumb, nil
	case string(AuthToken):
		return AuthToken, nil
	default:
		return "", fmt.Errorf("jenkins: unknown auth mode %q (valid: crumb, token)", s)
	}
}

// Crumb is the short-lived CSRF token pair issued by Jenkins. RequestField is
// the header name the value must travel in (typically "Jenkins-Crumb").
type Crumb struct {
	RequestField string
	Value        string
}

// Result is the outcome of one script probe. Body is captured exactly once
// from the response; all reporting branches reuse it.
type Result struct {
	StatusCode int
	Body       string
	Verified   bool
}

// Client issues the verification calls. All fields are explicit; there is no
// process-wide client or credential state.
type Client struct {
	BaseURL  string
	Username string
	Secret   string
	Mode     AuthMode
	Httpc    *httpc.Httpc

	logger *common.Logger
}

// New returns a Client for the given target. A nil hc uses default TLS
// settings (system trust store).
func New(baseURL, username, secret string, mode AuthMode, hc *httpc.Httpc) *Client {
	if hc == nil {
		hc = &httpc.Httpc{}
	}
	return &Client{
		BaseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Username: username,
		Secret:   secret,
		Mode:     mode,
		Httpc:    hc,
		logger:   common.GetLogger().WithComponent("jenkins").WithAuthMode(string(mode)),
	}
}

func (c *Client) log() *common.Logger {
	if c.logger == nil {
		c.logger = common.GetLogger().WithComponent("jenkins").WithAuthMode(string(c.Mode))
	}
	return c.logger
}

// connectHint wraps a transport-level error with the usual cause on a fresh
// host: the jenkins hostname not resolving yet.
func (c *Client) connectHint(op string, err error) error {
	return fmt.Errorf("jenkins: %s against %s failed (does the jenkins hostname resolve? check /etc/hosts or DNS): %w",
		op, c.BaseURL, err)
}

// FetchCrumb retrieves a CSRF crumb from the crumb issuer. Non-200 responses
// and connection errors are terminal; there is no retry.
func (c *Client) FetchCrumb(ctx context.Context) (*Crumb, error) {
	header, err := auth.HeaderValue(c.Username, c.Secret)
	if err != nil {
		return nil, err
	}

	url := c.BaseURL + constants.CrumbIssuerPath
	c.log().Debug("fetching CSRF crumb", "url", url)

	resp, err := c.Httpc.New().R().
		SetContext(ctx).
		SetHeader("Authorization", header).
		Get(url)
	if err != nil {
		return nil, c.connectHint("crumb request", err)
	}

	body := resp.String()
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("jenkins: crumb issuer returned status %d: %s", resp.StatusCode(), body)
	}

	parsed := gjson.Parse(body)
	crumb := parsed.Get("crumb").String()
	field := parsed.Get("crumbRequestField").String()
	if crumb == "" || field == "" {
		return nil, fmt.Errorf("jenkins: crumb issuer response missing crumb or crumbRequestField: %s", body)
	}

	c.log().Debug("crumb acquired", "crumb_field", field, "crumb", crumb)
	return &Crumb{RequestField: field, Value: crumb}, nil
}

// RunScript POSTs a Groovy script to the script console with the body
// form-encoded as script=<groovy>. crumb may be nil (token mode). A non-200
// status is reported in the Result, not as an error; only transport failures
// return an error.
func (c *Client) RunScript(ctx context.Context, script string, crumb *Crumb) (*Result, error) {
	header, err := auth.HeaderValue(c.Username, c.Secret)
	if err != nil {
		return nil, err
	}

	url := c.BaseURL + constants.ScriptTextPath
	req := c.Httpc.New().R().
		SetContext(ctx).
		SetHeader("Authorization", header).
		SetFormData(map[string]string{"script": script})
	if crumb != nil {
		req.SetHeader(crumb.RequestField, crumb.Value)
	}

	resp, err := req.Post(url)
	if err != nil {
		return nil, c.connectHint("script call", err)
	}

	body := resp.String()
	return &Result{
		StatusCode: resp.StatusCode(),
		Body:       body,
		Verified:   resp.StatusCode() == 200,
	}, nil
}

// Ping issues an authenticated GET against /api/json and returns the
// controller version from the X-Jenkins header and the reported node mode.
// It is a read-only reachability probe; callers may treat failures as
// non-fatal.
func (c *Client) Ping(ctx context.Context) (version, mode string, err error) {
	header, aErr := auth.HeaderValue(c.Username, c.Secret)
	if aErr != nil {
		return "", "", aErr
	}

	resp, err := c.Httpc.New().R().
		SetContext(ctx).
		SetHeader("Authorization", header).
		Get(c.BaseURL + constants.APIJSONPath)
	if err != nil {
		return "", "", c.connectHint("ping", err)
	}

	body := resp.String()
	if resp.StatusCode() != 200 {
		return "", "", fmt.Errorf("jenkins: ping returned status %d: %s", resp.StatusCode(), body)
	}

	version = resp.Header().Get("X-Jenkins")
	mode = gjson.Parse(body).Get("mode").String()
	return version, mode, nil
}

// Verify performs the end-to-end check: in crumb mode it first fetches a
// crumb (failure short-circuits; the POST is never attempted), then executes
// the fixed probe script. The returned Result reports whether the probe came
// back 200; a nil error with Verified=false means the call completed but the
// server rejected it.
func (c *Client) Verify(ctx context.Context) (*Result, error) {
	logger := c.log()
	logger.Info("starting verification", "url", c.BaseURL, "user", c.Username)

	var crumb *Crumb
	if c.Mode == AuthCrumb {
		var err error
		crumb, err = c.FetchCrumb(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("CSRF crumb acquired", "crumb_field", crumb.RequestField)
	}

	logger.Info("attempting authenticated API call", "script", "system message probe")
	res, err := c.RunScript(ctx, constants.ProbeScript, crumb)
	if err != nil {
		return nil, err
	}

	if res.Verified {
		logger.Info("verification success", "status", res.StatusCode, "output", strings.TrimSpace(res.Body))
	} else {
		logger.Error("verification failed", "status", res.StatusCode, "body", res.Body)
	}
	return res, nil
}
