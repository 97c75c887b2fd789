// Package sync implements the UPM HTTP(S) synchronization client: download,
// upload (with revision-conflict detection), and delete against a remote
// repository, all authenticated with HTTP Basic auth.
package sync

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	tupmerrors "tupm/internal/errors"
)

// Transport is the small capability the sync protocol logic needs from an
// HTTP client: a GET and a multipart POST, each returning the response
// body and status code. Production wires this to restyTransport; tests can
// substitute a fake.
type Transport interface {
	Get(ctx context.Context, target string, user, password string) ([]byte, int, error)
	PostMultipart(ctx context.Context, target string, fields map[string]string, fileField, fileName string, fileBytes []byte, user, password string) ([]byte, int, error)
}

// restyTransport is the production Transport, backed by go-resty/resty.
type restyTransport struct {
	client *resty.Client
}

// NewRestyTransport builds a Transport with the given overall request
// timeout and a redirect policy restricted to the same scheme and host as
// the original request.
func NewRestyTransport(timeout time.Duration) Transport {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(sameSchemeHostRedirectPolicy))
	return &restyTransport{client: client}
}

func sameSchemeHostRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) == 0 {
		return nil
	}
	origin := via[0].URL
	if req.URL.Scheme != origin.Scheme || req.URL.Host != origin.Host {
		return http.ErrUseLastResponse
	}
	return nil
}

func (t *restyTransport) Get(ctx context.Context, target string, user, password string) ([]byte, int, error) {
	req := t.client.R().SetContext(ctx)
	if user != "" || password != "" {
		req = req.SetBasicAuth(user, password)
	}

	resp, err := req.Get(target)
	if err != nil {
		return nil, 0, classifyNetworkError(err)
	}
	return resp.Body(), resp.StatusCode(), nil
}

func (t *restyTransport) PostMultipart(ctx context.Context, target string, fields map[string]string, fileField, fileName string, fileBytes []byte, user, password string) ([]byte, int, error) {
	req := t.client.R().
		SetContext(ctx).
		SetFormData(fields).
		SetFileReader(fileField, fileName, bytes.NewReader(fileBytes))
	if user != "" || password != "" {
		req = req.SetBasicAuth(user, password)
	}

	resp, err := req.Post(target)
	if err != nil {
		return nil, 0, classifyNetworkError(err)
	}
	return resp.Body(), resp.StatusCode(), nil
}

func classifyNetworkError(err error) error {
	var urlErr *url.Error
	if ok := tupmerrors.As(err, &urlErr); ok {
		if urlErr.Timeout() {
			return tupmerrors.NewNetworkError(tupmerrors.NetworkTimeout, err)
		}
	}
	return tupmerrors.NewNetworkError(tupmerrors.NetworkConnect, err)
}
