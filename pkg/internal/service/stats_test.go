package service

import (
	"context"
	"testing"

	"github.com/yeisme/cloudspace/pkg/internal/types"
)

func TestUsageCountsActiveBytes(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	uploadActive(t, fs, store, "alice@example.com", "a.txt", 100)
	uploadActive(t, fs, store, "alice@example.com", "b.txt", 200)

	u, err := fs.Usage(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if u.UsedBytes != 300 {
		t.Errorf("used = %d, want 300", u.UsedBytes)
	}

	if u.TrashBytes != 0 {
		t.Errorf("trash = %d, want 0", u.TrashBytes)
	}

	if u.FileCount != 2 {
		t.Errorf("count = %d, want 2", u.FileCount)
	}

	if u.QuotaBytes != fs.cfg.QuotaBytes {
		t.Errorf("quota = %d, want %d", u.QuotaBytes, fs.cfg.QuotaBytes)
	}

	wantPercent := float64(300) / float64(fs.cfg.QuotaBytes) * 100
	if u.PercentUsed != wantPercent {
		t.Errorf("percent = %v, want %v", u.PercentUsed, wantPercent)
	}
}

// 回收站文件不占 used，但占 trashBytes，且仍计入 fileCount：
// 它们还占着存储，计数口径与此保持一致.
func TestUsageTrashAccounting(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	uploadActive(t, fs, store, "alice@example.com", "keep.txt", 100)
	gone := uploadActive(t, fs, store, "alice@example.com", "gone.txt", 250)

	if err := fs.Trash(ctx, "alice@example.com", gone); err != nil {
		t.Fatalf("trash: %v", err)
	}

	u, err := fs.Usage(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if u.UsedBytes != 100 {
		t.Errorf("used = %d, want 100", u.UsedBytes)
	}

	if u.TrashBytes != 250 {
		t.Errorf("trash = %d, want 250", u.TrashBytes)
	}

	if u.FileCount != 2 {
		t.Errorf("count = %d, want 2 (trashed files still counted)", u.FileCount)
	}
}

// 字节守恒：trash 把字节从 used 挪到 trashBytes，restore 挪回来，
// purge 后两边都归零.
func TestUsageConservation(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "f.bin", 500)

	total := func() int64 {
		u, err := fs.Usage(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("usage: %v", err)
		}

		return u.UsedBytes + u.TrashBytes
	}

	if got := total(); got != 500 {
		t.Fatalf("total after upload = %d, want 500", got)
	}

	if err := fs.Trash(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if got := total(); got != 500 {
		t.Fatalf("total after trash = %d, want 500", got)
	}

	if err := fs.Restore(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if got := total(); got != 500 {
		t.Fatalf("total after restore = %d, want 500", got)
	}

	if err := fs.Purge(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if got := total(); got != 0 {
		t.Fatalf("total after purge = %d, want 0", got)
	}
}

func TestUsageExcludesPendingAndPurgePending(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	// pending 记录完全不计
	if _, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "p.txt", Size: 999}); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := fs.Usage(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if u.UsedBytes != 0 || u.FileCount != 0 {
		t.Fatalf("pending leaked into usage: %+v", u)
	}

	// 卡在 purge_pending 的记录同样不计
	fileID := uploadActive(t, fs, store, "alice@example.com", "x.txt", 100)
	store.removeErr = errTestBlob
	_ = fs.Purge(ctx, "alice@example.com", fileID)
	store.removeErr = nil

	u, err = fs.Usage(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if u.UsedBytes != 0 || u.TrashBytes != 0 || u.FileCount != 0 {
		t.Fatalf("purge_pending leaked into usage: %+v", u)
	}
}

func TestUsageOwnerIsolation(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	uploadActive(t, fs, store, "alice@example.com", "a.bin", 100)
	uploadActive(t, fs, store, "bob@example.com", "b.bin", 700)

	u, err := fs.Usage(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}

	if u.UsedBytes != 100 {
		t.Errorf("alice used = %d, want 100", u.UsedBytes)
	}
}
