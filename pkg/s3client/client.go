// Package s3client is the narrow S3 surface used to read a published build
// baseline and to publish a new build.
package s3client

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ItemMetadata describes an object below a listed prefix. Path is relative
// to that prefix.
type ItemMetadata struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Checksum string
}

type ObjectInfo struct {
	Size     int64
	Checksum string
}

type ListObjectsRequest struct {
	Bucket string
	Prefix string
}

type HeadObjectRequest struct {
	Bucket string
	Key    string
}

type GetObjectRequest struct {
	Bucket string
	Key    string
}

// PutObjectRequest uploads Body. Body is rewound before every attempt so
// transient failures can be retried.
type PutObjectRequest struct {
	Bucket       string
	Key          string
	Body         io.ReadSeeker
	Size         int64
	Checksum     string
	ContentType  string
	CacheControl string
}

type DeleteObjectRequest struct {
	Bucket string
	Key    string
}

type Client interface {
	ListObjects(ctx context.Context, req *ListObjectsRequest) ([]ItemMetadata, error)
	HeadObject(ctx context.Context, req *HeadObjectRequest) (*ObjectInfo, error)
	GetObject(ctx context.Context, req *GetObjectRequest) (io.ReadCloser, error)
	PutObject(ctx context.Context, req *PutObjectRequest) error
	DeleteObject(ctx context.Context, req *DeleteObjectRequest) error
}

// ParseS3URI splits s3://bucket/prefix into its bucket and a cleaned prefix
// without leading or trailing slashes
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URI %q: must start with s3://", uri)
	}

	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)

	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: bucket name cannot be empty", uri)
	}

	if len(parts) > 1 {
		prefix = strings.Trim(path.Clean("/"+parts[1]), "/")
	}

	return bucket, prefix, nil
}

// JoinKey joins a prefix and a slash-separated relative path into an object key
func JoinKey(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return prefix + "/" + rel
}

func trimS3KeyPrefix(key, prefix string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}
