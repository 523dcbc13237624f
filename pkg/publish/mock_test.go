package publish

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/yuya-takeyama/buildsize/pkg/s3client"
)

// mockS3Client is a mock implementation of s3client.Client for testing
type mockS3Client struct {
	listObjectsFunc  func(ctx context.Context, req *s3client.ListObjectsRequest) ([]s3client.ItemMetadata, error)
	headObjectFunc   func(ctx context.Context, req *s3client.HeadObjectRequest) (*s3client.ObjectInfo, error)
	getObjectFunc    func(ctx context.Context, req *s3client.GetObjectRequest) (io.ReadCloser, error)
	putObjectFunc    func(ctx context.Context, req *s3client.PutObjectRequest) error
	deleteObjectFunc func(ctx context.Context, req *s3client.DeleteObjectRequest) error
}

func (m *mockS3Client) ListObjects(ctx context.Context, req *s3client.ListObjectsRequest) ([]s3client.ItemMetadata, error) {
	if m.listObjectsFunc != nil {
		return m.listObjectsFunc(ctx, req)
	}
	return nil, fmt.Errorf("ListObjects not implemented")
}

func (m *mockS3Client) HeadObject(ctx context.Context, req *s3client.HeadObjectRequest) (*s3client.ObjectInfo, error) {
	if m.headObjectFunc != nil {
		return m.headObjectFunc(ctx, req)
	}
	return nil, fmt.Errorf("HeadObject not implemented")
}

func (m *mockS3Client) GetObject(ctx context.Context, req *s3client.GetObjectRequest) (io.ReadCloser, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, req)
	}
	return nil, fmt.Errorf("GetObject not implemented")
}

func (m *mockS3Client) PutObject(ctx context.Context, req *s3client.PutObjectRequest) error {
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, req)
	}
	return fmt.Errorf("PutObject not implemented")
}

func (m *mockS3Client) DeleteObject(ctx context.Context, req *s3client.DeleteObjectRequest) error {
	if m.deleteObjectFunc != nil {
		return m.deleteObjectFunc(ctx, req)
	}
	return fmt.Errorf("DeleteObject not implemented")
}

// mockLogger records ItemProcessed calls
type mockLogger struct {
	mu    sync.Mutex
	items map[string]string
}

func (m *mockLogger) PhaseStart(phase string, totalItems int) {}

func (m *mockLogger) ItemProcessed(phase string, item string, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[string]string{}
	}
	m.items[phase+":"+item] = action
}

func (m *mockLogger) PhaseComplete(phase string, processedItems int) {}
