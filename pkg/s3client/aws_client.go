package s3client

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// LoadAWSConfig loads the default AWS configuration with an optional shared
// config profile and region
func LoadAWSConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	var configOpts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		configOpts = append(configOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// AWSClient implements Client on top of the AWS SDK with retries for
// transient failures
type AWSClient struct {
	client   *s3.Client
	uploader *manager.Uploader
	retry    retryPolicy
}

func NewAWSClient(cfg aws.Config) *AWSClient {
	client := s3.NewFromConfig(cfg)
	return &AWSClient{
		client:   client,
		uploader: manager.NewUploader(client),
		retry:    defaultRetryPolicy(),
	}
}

func (c *AWSClient) ListObjects(ctx context.Context, req *ListObjectsRequest) ([]ItemMetadata, error) {
	var items []ItemMetadata

	listPrefix := req.Prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(req.Bucket),
		Prefix: aws.String(listPrefix),
	})

	for paginator.HasMorePages() {
		page, err := withRetry(ctx, c.retry, func() (*s3.ListObjectsV2Output, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || obj.Size == nil {
				continue
			}

			key := trimS3KeyPrefix(*obj.Key, req.Prefix)
			if key == "" {
				continue
			}

			items = append(items, ItemMetadata{
				Path:    key,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}

	return items, nil
}

func (c *AWSClient) HeadObject(ctx context.Context, req *HeadObjectRequest) (*ObjectInfo, error) {
	resp, err := withRetry(ctx, c.retry, func() (*s3.HeadObjectOutput, error) {
		return c.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket:       aws.String(req.Bucket),
			Key:          aws.String(req.Key),
			ChecksumMode: types.ChecksumModeEnabled,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to head object: %w", err)
	}

	info := &ObjectInfo{
		Size: aws.ToInt64(resp.ContentLength),
	}

	if resp.ChecksumCRC64NVME != nil {
		info.Checksum = *resp.ChecksumCRC64NVME
	}

	return info, nil
}

func (c *AWSClient) GetObject(ctx context.Context, req *GetObjectRequest) (io.ReadCloser, error) {
	resp, err := withRetry(ctx, c.retry, func() (*s3.GetObjectOutput, error) {
		return c.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(req.Bucket),
			Key:    aws.String(req.Key),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return resp.Body, nil
}

func (c *AWSClient) PutObject(ctx context.Context, req *PutObjectRequest) error {
	input := &s3.PutObjectInput{
		Bucket:            aws.String(req.Bucket),
		Key:               aws.String(req.Key),
		Body:              req.Body,
		ChecksumAlgorithm: types.ChecksumAlgorithmCrc64nvme,
	}

	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}
	if req.CacheControl != "" {
		input.CacheControl = aws.String(req.CacheControl)
	}

	_, err := withRetry(ctx, c.retry, func() (*manager.UploadOutput, error) {
		if _, err := req.Body.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind body: %w", err)
		}
		return c.uploader.Upload(ctx, input)
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	return nil
}

func (c *AWSClient) DeleteObject(ctx context.Context, req *DeleteObjectRequest) error {
	_, err := withRetry(ctx, c.retry, func() (*s3.DeleteObjectOutput, error) {
		return c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(req.Bucket),
			Key:    aws.String(req.Key),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
