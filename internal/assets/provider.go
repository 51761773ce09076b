package assets

import (
	"io"
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

var ErrAssetNotFound = errors.New("asset not found")

// Provider hands out the raw bytes of named assets.
type Provider interface {
	Open(name string) (io.ReadCloser, error)
}

// FSProvider serves assets from a file system, such as an embed.FS or a
// resource directory.
type FSProvider struct {
	FS fs.FS
}

// Dir returns a Provider rooted at a directory on disk.
func Dir(path string) FSProvider {
	return FSProvider{FS: os.DirFS(path)}
}

func (p FSProvider) Open(name string) (io.ReadCloser, error) {
	f, err := p.FS.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(ErrAssetNotFound, name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open asset %s", name)
	}
	return f, nil
}

// ReadAll reads a whole asset.
func ReadAll(p Provider, name string) ([]byte, error) {
	rc, err := p.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read asset %s", name)
	}
	return data, nil
}
