package sync

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tupmerrors "tupm/internal/errors"
	"tupm/internal/log"
)

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Timeout bounds each HTTP request a sync operation makes; Upload makes
	// two requests (revision probe, then POST), each under its own bound.
	// Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client speaks the UPM HTTP sync protocol against a remote repository.
type Client struct {
	transport Transport
}

// NewClient builds a Client backed by a resty-based Transport.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{transport: NewRestyTransport(timeout)}
}

// NewClientWithTransport builds a Client over an arbitrary Transport, for
// testing against a fake.
func NewClientWithTransport(t Transport) *Client {
	return &Client{transport: t}
}

func joinURL(base, suffix string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(suffix, "/")
}

// Download fetches the raw container bytes for dbName from baseURL. It
// does not require the UPM passphrase; the caller feeds the result to the
// container codec.
func (c *Client) Download(ctx context.Context, baseURL, dbName, user, password string) ([]byte, error) {
	target := joinURL(baseURL, dbName+".db")

	body, status, err := c.transport.Get(ctx, target, user, password)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		log.Warn("sync download failed", log.String("db", dbName), log.Int("status", status))
		return nil, tupmerrors.NewHTTPStatusError(status)
	}

	log.Debug("sync download succeeded", log.String("db", dbName), log.Int("bytes", len(body)))
	return body, nil
}

// probeRevision fetches the remote repository's current revision for
// dbName.
func (c *Client) probeRevision(ctx context.Context, baseURL, dbName, user, password string) (int, error) {
	target := joinURL(baseURL, "getdbrevision.php") + "?db=" + dbName

	body, status, err := c.transport.Get(ctx, target, user, password)
	if err != nil {
		return 0, err
	}
	if status < 200 || status >= 300 {
		return 0, tupmerrors.NewHTTPStatusError(status)
	}

	revision, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, tupmerrors.NewNetworkError(tupmerrors.NetworkUnknown, fmt.Errorf("unexpected revision response %q: %w", body, err))
	}
	return revision, nil
}

// Upload probes the remote revision and, if it is not newer than
// localRevision, POSTs containerBytes. If the remote revision is strictly
// greater than localRevision, it returns RemoteNewerError without issuing
// the upload.
func (c *Client) Upload(ctx context.Context, baseURL, dbName, user, password string, localRevision int, containerBytes []byte) error {
	remoteRevision, err := c.probeRevision(ctx, baseURL, dbName, user, password)
	if err != nil {
		return err
	}
	if remoteRevision > localRevision {
		log.Warn("sync upload refused: remote is newer", log.String("db", dbName), log.Int("remote", remoteRevision), log.Int("local", localRevision))
		return tupmerrors.NewRemoteNewerError(remoteRevision, localRevision)
	}

	target := joinURL(baseURL, "upload.php")
	fields := map[string]string{"db": dbName}

	body, status, err := c.transport.PostMultipart(ctx, target, fields, "userfile", dbName+".db", containerBytes, user, password)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return tupmerrors.NewHTTPStatusError(status)
	}

	response := strings.TrimSpace(string(body))
	if !strings.HasPrefix(response, "OK") {
		log.Warn("sync upload rejected by server", log.String("db", dbName), log.String("response", response))
		return tupmerrors.NewUploadRejectedError(response)
	}

	log.Debug("sync upload succeeded", log.String("db", dbName), log.Int("revision", localRevision))
	return nil
}

// Delete removes dbName from the remote repository.
func (c *Client) Delete(ctx context.Context, baseURL, dbName, user, password string) error {
	target := joinURL(baseURL, "deletedb.php") + "?db=" + dbName

	body, status, err := c.transport.Get(ctx, target, user, password)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return tupmerrors.NewHTTPStatusError(status)
	}

	response := strings.TrimSpace(string(body))
	if !strings.HasPrefix(response, "OK") {
		return tupmerrors.NewUploadRejectedError(response)
	}

	log.Debug("sync delete succeeded", log.String("db", dbName))
	return nil
}
