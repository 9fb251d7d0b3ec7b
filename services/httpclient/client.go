package httpclient

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"

	"github.com/edusoma/portal/core"
)

// NewOutbound returns the HTTP client used for every call to the external
// identity and school backends.
//
// Outside DEV/TEST the client is wrapped with safeurl, which blocks requests
// resolving to private, loopback, link-local or metadata IP ranges and
// validates the resolved IP at dial time (DNS rebinding). Local environments
// talk to backends on loopback, so they get a plain client.
func NewOutbound(timeout time.Duration) *http.Client {
	if core.Conf.Debug || core.Conf.TestMode {
		return &http.Client{Timeout: timeout}
	}

	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}
