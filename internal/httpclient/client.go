package httpclient

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/longkey1/agrochat/internal/version"
)

type userAgentTransport struct {
	agent string
	rt    http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Set("User-Agent", u.agent)
	return u.rt.RoundTrip(r2)
}

// UserAgent is the value sent with every request to the backend.
func UserAgent() string {
	return fmt.Sprintf("Agrochat/%s (%s; %s)", version.Version, runtime.GOOS, runtime.GOARCH)
}

// New returns an http.Client tagging requests with the agrochat user agent.
// A zero timeout leaves requests unbounded.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			agent: UserAgent(),
			rt:    http.DefaultTransport,
		},
	}
}
