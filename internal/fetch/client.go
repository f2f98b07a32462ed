// Package fetch retrieves the inputs of a conversion: the manifest, the app
// sources with its pinned Flutter checkout, the pub cache and downloads.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/git-lfs/go-netrc/netrc"
	"github.com/go-resty/resty/v2"
	"go.trai.ch/zerr"
)

// ErrFetchFailed is returned when a download answers with a non-200 status.
var ErrFetchFailed = zerr.New("fetch failed")

// Client downloads files over HTTP. Hosts listed in ~/.netrc are accessed
// with the credentials found there. Requests are not retried.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client, reading ~/.netrc when present.
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	netrcFile, err := netrc.ParseFile(filepath.Join(home, ".netrc"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("parsing netrc: %w", err)
	}
	if netrcFile == nil {
		netrcFile = &netrc.Netrc{}
	}

	return NewClientWithNetrc(netrcFile), nil
}

// NewClientWithNetrc creates a Client using the given credentials.
func NewClientWithNetrc(n *netrc.Netrc) *Client {
	r := resty.New()
	r.SetTransport(&authTransport{base: http.DefaultTransport, netrc: n})
	return &Client{http: r}
}

// Download fetches url into the file dst.
func (c *Client) Download(ctx context.Context, url, dst string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(dst).
		Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode() != http.StatusOK {
		os.Remove(dst)
		return zerr.With(zerr.Wrap(ErrFetchFailed, "unexpected status "+resp.Status()), "url", url)
	}

	return nil
}

// authTransport adds basic auth to requests for hosts found in netrc.
type authTransport struct {
	base  http.RoundTripper
	netrc *netrc.Netrc
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if machine := t.netrc.FindMachine(req.URL.Hostname(), ""); machine != nil && machine.Name != "" {
		req = req.Clone(req.Context())
		req.SetBasicAuth(machine.Login, machine.Password)
	}
	return t.base.RoundTrip(req)
}
