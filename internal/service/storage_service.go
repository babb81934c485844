package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"course_edu_backend/internal/config"
	"course_edu_backend/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error)
	// Download 读取对象内容，调用方负责 Close
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// DeleteDirectory 删除指定前缀下的全部对象（HLS 切片目录）
	DeleteDirectory(ctx context.Context, prefix string) error
	// PresignUpload 生成客户端直传地址，不支持时返回错误
	PresignUpload(ctx context.Context, key string, expire time.Duration) (string, error)
	GetURL(key string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	if localPath == dst {
		return p.GetURL(key), nil
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *LocalStorageProvider) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.Config.LocalPath, key))
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, key))
}

func (p *LocalStorageProvider) DeleteDirectory(ctx context.Context, prefix string) error {
	dir := filepath.Join(p.Config.LocalPath, strings.TrimSuffix(prefix, "/"))
	return os.RemoveAll(dir)
}

func (p *LocalStorageProvider) PresignUpload(ctx context.Context, key string, expire time.Duration) (string, error) {
	return "", fmt.Errorf("local storage does not support presigned upload")
}

func (p *LocalStorageProvider) GetURL(key string) string {
	return "/uploads/" + key
}

// MinioStorageProvider MinIO 存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Config.MinioBucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioStorageProvider) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return p.Client.GetObject(ctx, p.Config.MinioBucket, key, minio.GetObjectOptions{})
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, key, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) DeleteDirectory(ctx context.Context, prefix string) error {
	objects := p.Client.ListObjects(ctx, p.Config.MinioBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return object.Err
		}
		if err := p.Client.RemoveObject(ctx, p.Config.MinioBucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (p *MinioStorageProvider) PresignUpload(ctx context.Context, key string, expire time.Duration) (string, error) {
	u, err := p.Client.PresignedPutObject(ctx, p.Config.MinioBucket, key, expire)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (p *MinioStorageProvider) GetURL(key string) string {
	return "/" + p.Config.MinioBucket + "/" + key
}

// OSSStorageProvider 阿里云 OSS 存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(key, reader); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObjectFromFile(key, localPath); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *OSSStorageProvider) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return nil, err
	}
	return bucket.GetObject(key)
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(key)
}

func (p *OSSStorageProvider) DeleteDirectory(ctx context.Context, prefix string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	marker := ""
	for {
		lsRes, err := bucket.ListObjects(oss.Prefix(prefix), oss.Marker(marker))
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(lsRes.Objects))
		for _, object := range lsRes.Objects {
			keys = append(keys, object.Key)
		}
		if len(keys) > 0 {
			if _, err := bucket.DeleteObjects(keys); err != nil {
				return err
			}
		}
		if !lsRes.IsTruncated {
			return nil
		}
		marker = lsRes.NextMarker
	}
}

func (p *OSSStorageProvider) PresignUpload(ctx context.Context, key string, expire time.Duration) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}
	return bucket.SignURL(key, oss.HTTPMethod(http.MethodPut), int64(expire.Seconds()))
}

func (p *OSSStorageProvider) GetURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, key)
}

// StorageService 存储服务
type StorageService struct {
	Provider StorageProvider
	cfg      *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	case util.StorageOSS:
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider, cfg: cfg}
}

func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, key, reader, size, contentType)
}

func (s *StorageService) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	return s.Provider.UploadFile(ctx, key, localPath, contentType)
}

func (s *StorageService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.Provider.Download(ctx, key)
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	return s.Provider.Delete(ctx, key)
}

func (s *StorageService) DeleteDirectory(ctx context.Context, prefix string) error {
	return s.Provider.DeleteDirectory(ctx, prefix)
}

func (s *StorageService) PresignUpload(ctx context.Context, key string) (string, error) {
	expire := time.Duration(s.cfg.Storage.PresignExpireMinutes) * time.Minute
	return s.Provider.PresignUpload(ctx, key, expire)
}

func (s *StorageService) GetURL(key string) string {
	return s.Provider.GetURL(key)
}
