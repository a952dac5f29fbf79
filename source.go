package phenocompare

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
)

var errNoStorageClient = errors.New("a Google Storage client is required for gs:// paths")

// OpenSource opens a local file or, given a storage client, a gs:// object, and
// transparently decompresses it if it carries a known compression signature.
// All failures are reported as *DataSourceError.
func OpenSource(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	var (
		raw io.ReadCloser
		err error
	)

	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, &DataSourceError{Source: path, Err: errNoStorageClient}
		}
		raw, err = openGoogleStorage(ctx, path, client)
	} else {
		raw, err = os.Open(ExpandHome(path))
	}
	if err != nil {
		return nil, &DataSourceError{Source: path, Err: err}
	}

	rc, _, err := MaybeDecompress(raw)
	if err != nil {
		raw.Close()
		return nil, &DataSourceError{Source: path, Err: err}
	}

	return rc, nil
}

// ListSource returns the paths of the regular, non-hidden files directly inside
// dir, sorted ascending. dir may be a local directory or a gs:// prefix.
func ListSource(ctx context.Context, dir string, client *storage.Client) ([]string, error) {
	if IsGoogleStoragePath(dir) {
		if client == nil {
			return nil, &DataSourceError{Source: dir, Err: errNoStorageClient}
		}
		out, err := listGoogleStorage(ctx, dir, client)
		if err != nil {
			return nil, &DataSourceError{Source: dir, Err: err}
		}
		return out, nil
	}

	dir = ExpandHome(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DataSourceError{Source: dir, Err: err}
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(out)

	return out, nil
}

// BaseName strips the directory and every extension from a local or gs://
// path: /data/P001.hpo.tsv.gz becomes P001.
func BaseName(path string) string {
	base := path[strings.LastIndex(path, "/")+1:]
	base = filepath.Base(base)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}

	return base
}
