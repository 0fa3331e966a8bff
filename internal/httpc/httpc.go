package httpc

import (
	"crypto/tls"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Httpc builds resty clients with a fixed TLS posture. A nil TlsConfig means
// the resty/net defaults apply: the host's trust store validates the peer.
type Httpc struct {
	TlsConfig *tls.Config
}

// New returns a resty.Client configured according to the receiver's TLS settings.
// Defaults: MinVersion TLS1.2 when MinVersion is zero.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	c.SetTLSClientConfig(cfg)
	return c
}

// FromOptions builds an Httpc from explicit client options. Version strings
// that do not parse leave the corresponding bound unset.
func FromOptions(insecure bool, minVersion, maxVersion string) *Httpc {
	cfg := &tls.Config{
		MinVersion: ParseTLSVersion(minVersion),
		MaxVersion: ParseTLSVersion(maxVersion),
	}
	if insecure {
		// #nosec G402 -- opt-in for environments where the local CA is not installed yet
		cfg.InsecureSkipVerify = true
	}
	return &Httpc{TlsConfig: cfg}
}

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls
// constant. Supports various formats: "1.2", "12", "tls1.2", "tls12", etc.
// Returns 0 if the version string is not recognized.
func ParseTLSVersion(version string) uint16 {
	switch strings.TrimSpace(strings.ToLower(version)) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}
