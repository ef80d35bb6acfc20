package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/yeisme/cloudspace/pkg/configs"
	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/storage/s3"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

var errTestBlob = errors.New("blob store unavailable")

// fakeStore 内存对象存储，实现 ObjectStore.
type fakeStore struct {
	objects map[string]s3.ObjectStat
	removed []string

	presignErr error
	statErr    error
	removeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]s3.ObjectStat)}
}

func (f *fakeStore) put(key string, size int64, contentType string) {
	f.objects[key] = s3.ObjectStat{
		Size:         size,
		ETag:         fmt.Sprintf("etag-%d", size),
		ContentType:  contentType,
		LastModified: time.Now(),
	}
}

func (f *fakeStore) Bucket() string { return "test-bucket" }

func (f *fakeStore) ObjectURL(objectKey string) string {
	return "http://s3.test/test-bucket/" + objectKey
}

func (f *fakeStore) PresignUpload(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}

	return "http://s3.test/put/" + objectKey, nil
}

func (f *fakeStore) PresignDownload(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}

	return "http://s3.test/get/" + objectKey, nil
}

func (f *fakeStore) StatHead(_ context.Context, objectKey string) (*s3.ObjectStat, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}

	if st, ok := f.objects[objectKey]; ok {
		return &st, nil
	}

	return nil, nil
}

func (f *fakeStore) Remove(_ context.Context, objectKey string) error {
	if f.removeErr != nil {
		return f.removeErr
	}

	delete(f.objects, objectKey)
	f.removed = append(f.removed, objectKey)

	return nil
}

// newTestService 构造跑在内存 sqlite 上的服务实例.
func newTestService(t *testing.T) (*FileService, *fakeStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: glogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.Files{}, &model.Folders{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := newFakeStore()
	fs := &FileService{
		store: store,
		db:    db,
		cfg: configs.StorageConfig{
			QuotaBytes:         1 << 30, // 1 GiB
			PresignUploadTTL:   configs.DefaultPresignUploadTTL,
			PresignDownloadTTL: configs.DefaultPresignDownloadTTL,
			TrashRetentionDays: configs.DefaultTrashRetentionDays,
			PendingTTLHours:    configs.DefaultPendingTTLHours,
			PurgeRetryMinutes:  configs.DefaultPurgeRetryMinutes,
		},
	}

	return fs, store
}

// uploadActive 完整走一遍两阶段上传，返回激活文件的 fileID.
func uploadActive(t *testing.T, fs *FileService, store *fakeStore, owner, name string, size int64) string {
	t.Helper()

	ctx := context.Background()

	grant, err := fs.CreateUploadURL(ctx, owner, &types.UploadURLRequest{FileName: name, Size: size})
	if err != nil {
		t.Fatalf("create upload url for %s: %v", name, err)
	}

	store.put(grant.ObjectKey, size, "application/octet-stream")

	if _, err := fs.ConfirmUpload(ctx, owner, grant.FileID); err != nil {
		t.Fatalf("confirm upload for %s: %v", name, err)
	}

	return grant.FileID
}

// mustRecord 读取记录，包含回收站内与 purge_pending 的.
func mustRecord(t *testing.T, fs *FileService, owner, fileID string) *model.Files {
	t.Helper()

	var f model.Files

	err := fs.db.Unscoped().Where("owner = ? AND file_id = ?", owner, fileID).First(&f).Error
	if err != nil {
		t.Fatalf("load record %s: %v", fileID, err)
	}

	return &f
}

func recordCount(t *testing.T, fs *FileService, owner string) int64 {
	t.Helper()

	var n int64
	if err := fs.db.Unscoped().Model(&model.Files{}).Where("owner = ?", owner).Count(&n).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}

	return n
}
