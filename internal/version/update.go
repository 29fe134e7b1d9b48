package version

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	hashiVersion "github.com/hashicorp/go-version"
)

// latestReleaseURL serves a single line holding the newest published vercheck version.
var latestReleaseURL = "https://toolbox-data.anchore.io/vercheck/releases/latest/VERSION"

// at most this many bytes of the release document are read
const maxReleaseBody = 1024

// ErrNoBuildVersion is returned when the running binary was built without version information; dev builds never
// see update notices.
var ErrNoBuildVersion = errors.New("no version provided at build time")

// NewerRelease returns the latest published release when it is newer than the running build, or "" when the
// build is already current.
func NewerRelease(ctx context.Context, running Version) (string, error) {
	if !running.Provided() {
		return "", ErrNoBuildVersion
	}

	current, err := hashiVersion.NewVersion(running.Version)
	if err != nil {
		return "", fmt.Errorf("unable to parse running version %q: %w", running.Version, err)
	}

	latest, err := latestRelease(ctx)
	if err != nil {
		return "", err
	}

	if !latest.GreaterThan(current) {
		return "", nil
	}
	return latest.String(), nil
}

func latestRelease(ctx context.Context) (*hashiVersion.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := cleanhttp.DefaultClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching latest release: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReleaseBody))
	if err != nil {
		return nil, fmt.Errorf("unable to read latest release: %w", err)
	}

	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return nil, errors.New("latest release is empty")
	}
	latest, err := hashiVersion.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse latest release %q: %w", raw, err)
	}
	return latest, nil
}
