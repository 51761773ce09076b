package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// CacheTTL is how long a downloaded file stays fresh.
const CacheTTL = 24 * time.Hour

func timestampPath(path string) string {
	return path + ".timestamp"
}

// IsFresh reports whether path exists and its timestamp file is younger
// than maxAge at now.
func IsFresh(path string, maxAge time.Duration, now time.Time) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}

	data, err := os.ReadFile(timestampPath(path))
	if err != nil {
		return false
	}

	ts, err := time.Parse(time.RFC3339, string(data))
	if err != nil {
		return false
	}

	return now.Sub(ts) < maxAge
}

// Fetch downloads url to path unless a fresh copy is already cached. It
// reports whether a download happened.
func Fetch(ctx context.Context, client *http.Client, url, path string, log zerolog.Logger) (bool, error) {
	if IsFresh(path, CacheTTL, time.Now()) {
		log.Info().Str("file", path).Msg("using cached data")
		return false, nil
	}

	log.Info().Str("url", url).Msg("cached data is missing or outdated, fetching")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errors.Wrap(err, "build request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, errors.Errorf("fetch %s: %s", url, resp.Status)
	}

	tmp := path + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return false, errors.Wrap(err, "create cache file")
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return false, errors.Wrapf(err, "download %s", url)
	}
	if err := file.Close(); err != nil {
		return false, errors.Wrap(err, "write cache file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, errors.Wrap(err, "replace cache file")
	}

	if err := os.WriteFile(timestampPath(path), []byte(time.Now().UTC().Format(time.RFC3339)), 0644); err != nil {
		return true, errors.Wrap(err, "write timestamp")
	}
	log.Info().Str("file", path).Msg("data updated")
	return true, nil
}
