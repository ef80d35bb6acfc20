// Package s3 处理对象存储操作.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/cloudspace/pkg/configs"
	nlog "github.com/yeisme/cloudspace/pkg/log"
)

// Client 包装 MinIO 客户端.
type Client struct {
	*minio.Client

	bucket string
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint

	useSSL := cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("cloudspace", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{Client: cli, bucket: cfg.BucketName}, nil
}

// Bucket 返回客户端绑定的 bucket 名称.
func (c *Client) Bucket() string {
	return c.bucket
}

// ObjectURL 返回对象的固定寻址 URL.仅供展示参考，
// 实际下载走预签名链接.
func (c *Client) ObjectURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", c.EndpointURL(), c.bucket, objectKey)
}

// PresignUpload 签发对象的预签名 PUT 链接.
func (c *Client) PresignUpload(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	u, err := c.PresignedPutObject(ctx, c.bucket, objectKey, ttl)
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", objectKey, err)
	}

	return u.String(), nil
}

// PresignDownload 签发对象的预签名 GET 链接，附带下载文件名.
func (c *Client) PresignDownload(ctx context.Context, objectKey, fileName string, ttl time.Duration) (string, error) {
	params := make(url.Values)
	if fileName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}

	u, err := c.PresignedGetObject(ctx, c.bucket, objectKey, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", objectKey, err)
	}

	return u.String(), nil
}

// ObjectStat 对象存储侧的事实信息.
type ObjectStat struct {
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// StatHead 查询对象是否存在及其元信息.对象不存在时返回 (nil, nil).
func (c *Client) StatHead(ctx context.Context, objectKey string) (*ObjectStat, error) {
	info, err := c.StatObject(ctx, c.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return nil, nil
		}

		return nil, fmt.Errorf("stat object %s: %w", objectKey, err)
	}

	return &ObjectStat{
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// Remove 删除对象.对象不存在视为成功（删除幂等）.
func (c *Client) Remove(ctx context.Context, objectKey string) error {
	err := c.RemoveObject(ctx, c.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return nil
		}

		return fmt.Errorf("remove object %s: %w", objectKey, err)
	}

	return nil
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}
