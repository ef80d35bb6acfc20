package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

func TestPurgeRemovesBlobAndRecord(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "doc.txt", 100)
	rec := mustRecord(t, fs, "alice@example.com", fileID)

	if err := fs.Trash(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if err := fs.Purge(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if _, ok := store.objects[rec.ObjectKey]; ok {
		t.Error("blob still present after purge")
	}

	if n := recordCount(t, fs, "alice@example.com"); n != 0 {
		t.Errorf("records = %d, want 0", n)
	}

	if _, err := fs.ConfirmUpload(ctx, "alice@example.com", fileID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("purged file still addressable: %v", err)
	}
}

func TestPurgeActiveFileDirectly(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "doc.txt", 1)

	// 不经过回收站直接永久删除也允许
	if err := fs.Purge(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("purge active: %v", err)
	}

	if n := recordCount(t, fs, "alice@example.com"); n != 0 {
		t.Errorf("records = %d, want 0", n)
	}
}

func TestPurgeBlobFailureKeepsRecord(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "doc.txt", 100)

	store.removeErr = errors.New("s3 down")

	if err := fs.Purge(ctx, "alice@example.com", fileID); err == nil {
		t.Fatal("purge should surface blob failure")
	}

	// 记录保留在 purge_pending，不会出现"记录没了、对象还在"
	rec := mustRecord(t, fs, "alice@example.com", fileID)
	if rec.State != model.FileStatePurgePending {
		t.Fatalf("state = %s, want purge_pending", rec.State)
	}

	if rec.PurgeRequestedAt == nil {
		t.Error("purge_requested_at not set")
	}

	if !rec.Trashed() {
		t.Error("purge_pending record should carry the soft-delete mark")
	}
}

func TestPurgeSweepRetriesStuckRecords(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "doc.txt", 100)
	rec := mustRecord(t, fs, "alice@example.com", fileID)

	store.removeErr = errors.New("s3 down")
	_ = fs.Purge(ctx, "alice@example.com", fileID)

	// 存储恢复后清扫任务完成第二步
	store.removeErr = nil

	done, err := fs.PurgeSweep(ctx, -time.Minute)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if done != 1 {
		t.Fatalf("done = %d, want 1", done)
	}

	if _, ok := store.objects[rec.ObjectKey]; ok {
		t.Error("blob still present after sweep")
	}

	if n := recordCount(t, fs, "alice@example.com"); n != 0 {
		t.Errorf("records = %d, want 0", n)
	}
}

func TestPurgeSweepRespectsRetryWindow(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "doc.txt", 1)

	store.removeErr = errors.New("s3 down")
	_ = fs.Purge(ctx, "alice@example.com", fileID)
	store.removeErr = nil

	// 刚进入 purge_pending 的记录在重试窗口内不动
	done, err := fs.PurgeSweep(ctx, time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if done != 0 {
		t.Fatalf("done = %d, want 0", done)
	}
}

func TestEmptyTrash(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	keep := uploadActive(t, fs, store, "alice@example.com", "keep.txt", 1)
	a := uploadActive(t, fs, store, "alice@example.com", "a.txt", 1)
	b := uploadActive(t, fs, store, "alice@example.com", "b.txt", 1)
	other := uploadActive(t, fs, store, "bob@example.com", "bob.txt", 1)

	_ = keep

	for _, id := range []string{a, b} {
		if err := fs.Trash(ctx, "alice@example.com", id); err != nil {
			t.Fatalf("trash %s: %v", id, err)
		}
	}

	if err := fs.Trash(ctx, "bob@example.com", other); err != nil {
		t.Fatalf("trash bob: %v", err)
	}

	affected, err := fs.EmptyTrash(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("empty trash: %v", err)
	}

	if affected != 2 {
		t.Fatalf("affected = %d, want 2", affected)
	}

	// 常规文件与别人的回收站不受影响
	if n := recordCount(t, fs, "alice@example.com"); n != 1 {
		t.Errorf("alice records = %d, want 1", n)
	}

	if n := recordCount(t, fs, "bob@example.com"); n != 1 {
		t.Errorf("bob records = %d, want 1", n)
	}
}

func TestEmptyTrashPartialFailure(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	a := uploadActive(t, fs, store, "alice@example.com", "a.txt", 1)
	if err := fs.Trash(ctx, "alice@example.com", a); err != nil {
		t.Fatalf("trash: %v", err)
	}

	store.removeErr = errors.New("s3 down")

	affected, err := fs.EmptyTrash(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("empty trash returned error: %v", err)
	}

	if affected != 0 {
		t.Fatalf("affected = %d, want 0", affected)
	}

	// 失败的文件留在 purge_pending，等清扫任务收尾
	rec := mustRecord(t, fs, "alice@example.com", a)
	if rec.State != model.FileStatePurgePending {
		t.Fatalf("state = %s, want purge_pending", rec.State)
	}
}

func TestAutoCleanTrashHonorsRetention(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	expired := uploadActive(t, fs, store, "alice@example.com", "old.txt", 1)
	fresh := uploadActive(t, fs, store, "alice@example.com", "new.txt", 1)

	for _, id := range []string{expired, fresh} {
		if err := fs.Trash(ctx, "alice@example.com", id); err != nil {
			t.Fatalf("trash %s: %v", id, err)
		}
	}

	// 把一个文件的删除时间拨回保留期之外
	old := time.Now().Add(-40 * 24 * time.Hour)
	if err := fs.db.Model(&model.Files{}).Unscoped().
		Where("file_id = ?", expired).
		UpdateColumn("deleted_at", old).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	done, err := fs.AutoCleanTrash(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("auto clean: %v", err)
	}

	if done != 1 {
		t.Fatalf("done = %d, want 1", done)
	}

	if _, err := fs.findOwned(ctx, "alice@example.com", expired); !errors.Is(err, ErrFileNotFound) {
		t.Error("expired file survived auto clean")
	}

	if _, err := fs.findOwned(ctx, "alice@example.com", fresh); err != nil {
		t.Errorf("fresh trash file removed early: %v", err)
	}
}

func TestReapPendingUploads(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	// 过期的 pending：对象已写入但从未确认
	stale, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "stale.txt"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.put(stale.ObjectKey, 10, "")

	// 活跃文件不受回收影响
	activeID := uploadActive(t, fs, store, "alice@example.com", "live.txt", 1)

	done, err := fs.ReapPendingUploads(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}

	if done != 1 {
		t.Fatalf("done = %d, want 1", done)
	}

	// 对象与记录都被清掉，不留孤儿
	if _, ok := store.objects[stale.ObjectKey]; ok {
		t.Error("stale blob survived reap")
	}

	if _, err := fs.findOwned(ctx, "alice@example.com", stale.FileID); !errors.Is(err, ErrFileNotFound) {
		t.Error("stale record survived reap")
	}

	if _, err := fs.findOwned(ctx, "alice@example.com", activeID); err != nil {
		t.Errorf("active file reaped: %v", err)
	}
}

func TestReapPendingRespectsTTL(t *testing.T) {
	fs, _ := newTestService(t)
	ctx := context.Background()

	if _, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "young.txt"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := fs.ReapPendingUploads(ctx, time.Hour)
	if err != nil {
		t.Fatalf("reap: %v", err)
	}

	if done != 0 {
		t.Fatalf("done = %d, want 0: fresh pending must survive", done)
	}
}
