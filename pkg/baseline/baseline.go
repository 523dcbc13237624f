// Package baseline builds the previous-size map from a build published to S3
// instead of from the local output directory.
package baseline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yuya-takeyama/buildsize/internal/compress"
	"github.com/yuya-takeyama/buildsize/internal/walker"
	"github.com/yuya-takeyama/buildsize/pkg/s3client"
	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

// Loader reads published assets through an S3 client
type Loader struct {
	client s3client.Client
}

func NewLoader(client s3client.Client) *Loader {
	return &Loader{client: client}
}

// Load downloads every .js and .css object under s3URI and returns their
// compressed sizes keyed like a local snapshot. An empty prefix yields an
// empty map.
func (l *Loader) Load(ctx context.Context, s3URI string, opts sizediff.Options) (sizediff.SizeMap, error) {
	bucket, prefix, err := s3client.ParseS3URI(s3URI)
	if err != nil {
		return nil, err
	}

	objects, err := l.client.ListObjects(ctx, &s3client.ListObjectsRequest{
		Bucket: bucket,
		Prefix: prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list baseline objects: %w", err)
	}

	var rels []string
	for _, obj := range objects {
		if sizediff.IsMeasured(obj.Path) && !walker.IsExcluded(obj.Path, opts.Excludes) {
			rels = append(rels, obj.Path)
		}
	}
	keys := sizediff.AssetKeys(rels)

	sizes := make(sizediff.SizeMap, len(rels))
	for _, rel := range rels {
		size, err := l.measure(ctx, bucket, s3client.JoinKey(prefix, rel), opts.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("measure %s: %w", rel, err)
		}
		sizes[keys[rel]] = size
	}

	log.Debug().Str("uri", s3URI).Int("assets", len(sizes)).Msg("Baseline loaded")
	return sizes, nil
}

func (l *Loader) measure(ctx context.Context, bucket, key string, algo compress.Algorithm) (int64, error) {
	body, err := l.client.GetObject(ctx, &s3client.GetObjectRequest{
		Bucket: bucket,
		Key:    key,
	})
	if err != nil {
		return 0, err
	}
	defer body.Close()

	return compress.Size(body, algo)
}
