// Package auth builds the Authorization header values used against Jenkins.
// Both the admin password and a long-lived API token travel as HTTP Basic
// credentials; the token variant is additionally exempt from Jenkins's CSRF
// crumb checks.
package auth

import (
	"encoding/base64"
	"errors"
	"strings"
)

// HeaderValue returns a Basic auth header value constructed from the username
// and secret. The secret may be the account password or an API token.
func HeaderValue(username, secret string) (string, error) {
	u := strings.TrimSpace(username)
	s := strings.TrimSpace(secret)
	if u == "" || s == "" {
		return "", errors.New("auth: username and secret are required")
	}
	cred := base64.StdEncoding.EncodeToString([]byte(u + ":" + s))
	return "Basic " + cred, nil
}
