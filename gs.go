package phenocompare

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// IsGoogleStoragePath reports whether path names a Google Storage object or
// prefix, e.g. gs://bucket/hpo/hp.obo
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

// SplitGoogleStoragePath detects the bucket and the path to the actual file.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

func openGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	bucketName, pathName, err := SplitGoogleStoragePath(path)
	if err != nil {
		return nil, err
	}

	// Open the bucket with default credentials
	handle := client.Bucket(bucketName).Object(pathName)

	return handle.NewReader(ctx)
}

// listGoogleStorage lists the objects directly below the prefix. Objects in
// nested "subdirectories" are not included, matching the local directory
// listing.
func listGoogleStorage(ctx context.Context, path string, client *storage.Client) ([]string, error) {
	bucketName, prefix, err := SplitGoogleStoragePath(path)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	it := client.Bucket(bucketName).Objects(ctx, &storage.Query{
		Prefix:    prefix,
		Delimiter: "/",
	})

	out := make([]string, 0)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, err
		}

		// Synthetic prefixes represent subdirectories
		if attrs.Name == "" || strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		base := attrs.Name[strings.LastIndex(attrs.Name, "/")+1:]
		if strings.HasPrefix(base, ".") {
			continue
		}

		out = append(out, "gs://"+bucketName+"/"+attrs.Name)
	}

	sort.Strings(out)

	return out, nil
}
