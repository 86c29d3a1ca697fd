package gateway

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lenditapp/lendit-backend/api/responses"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/logger"
)

// hopHeaders are connection-scoped and must not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards validated requests to the core server, preserving the
// upstream status code and body verbatim.
type Proxy struct {
	target *url.URL
	client *http.Client
	logg   *logger.Logger
}

// NewProxy builds a forwarding proxy against the core server URL.
func NewProxy(serverURL string, timeout time.Duration, logg *logger.Logger) (*Proxy, error) {
	target, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("server url must be absolute, got %q", serverURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Proxy{
		target: target,
		client: &http.Client{Timeout: timeout},
		logg:   logg,
	}, nil
}

// Forward relays the request to the core server. The body is streamed as-is;
// validation happens before this point.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	out := *p.target
	out.Path = r.URL.Path
	out.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(ctx, r.Method, out.String(), r.Body)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request"))
		return
	}
	req.Header = r.Header.Clone()
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		responses.WriteError(ctx, p.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "core server unreachable"))
		return
	}
	defer resp.Body.Close()

	header := w.Header()
	for key, values := range resp.Header {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil && p.logg != nil {
		p.logg.Error(ctx, "proxy.copy_body", err)
	}
}
