// Package service 实现文件生命周期的业务逻辑.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/yeisme/cloudspace/pkg/cache"
	"github.com/yeisme/cloudspace/pkg/configs"
	ctxPkg "github.com/yeisme/cloudspace/pkg/context"
	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/storage/mq"
	"github.com/yeisme/cloudspace/pkg/internal/storage/s3"
)

// 业务错误，handler 层据此映射 HTTP 状态码.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotUploaded   = errors.New("object not found in storage, upload not completed")
	ErrNotTrashed    = errors.New("file is not in trash")
	ErrInvalidName   = errors.New("invalid file name")
)

// ObjectStore 抽象对象存储操作，*s3.Client 是生产实现.
type ObjectStore interface {
	Bucket() string
	ObjectURL(objectKey string) string
	PresignUpload(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, objectKey, fileName string, ttl time.Duration) (string, error)
	StatHead(ctx context.Context, objectKey string) (*s3.ObjectStat, error)
	Remove(ctx context.Context, objectKey string) error
}

// FileService 文件生命周期服务.
type FileService struct {
	store ObjectStore
	db    *gorm.DB
	mq    *mq.Client
	cache *cache.Cache
	cfg   configs.StorageConfig
}

// NewFileService 从请求上下文装配服务依赖.
func NewFileService(c context.Context) *FileService {
	fs := &FileService{
		db:  ctxPkg.GetDBClient(c).GetDB(),
		mq:  ctxPkg.GetMQClient(c),
		cfg: configs.GetConfig().Storage,
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		fs.store = s3c
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		fs.cache = cache.NewCache(kvc.KVStore)
	}

	return fs
}

// newFileID 生成新的文件标识（ULID，时间有序）.
func newFileID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// buildObjectKey 构建对象存储路径：{owner}/{fileId}-{fileName}.
// fileId 前缀保证同名文件互不覆盖，owner 前缀天然隔离租户.
func buildObjectKey(owner, fileID, fileName string) string {
	return fmt.Sprintf("%s/%s-%s", owner, fileID, fileName)
}

// findOwned 按 owner+fileID 查找记录，包含回收站中的记录.
func (fs *FileService) findOwned(ctx context.Context, owner, fileID string) (*model.Files, error) {
	var f model.Files

	err := fs.db.WithContext(ctx).Unscoped().
		Where("owner = ? AND file_id = ?", owner, fileID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}

		return nil, err
	}

	return &f, nil
}

// invalidateUsage 用量缓存失效，写操作成功后调用.
func (fs *FileService) invalidateUsage(ctx context.Context, owner string) {
	if fs.cache == nil {
		return
	}

	_ = fs.cache.Delete(ctx, usageCacheKey(owner))
}
