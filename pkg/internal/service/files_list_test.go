package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

func TestListActiveSortedByName(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	uploadActive(t, fs, store, "alice@example.com", "banana.txt", 1)
	uploadActive(t, fs, store, "alice@example.com", "apple.txt", 1)
	uploadActive(t, fs, store, "alice@example.com", "cherry.txt", 1)

	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if list.Total != 3 {
		t.Fatalf("total = %d, want 3", list.Total)
	}

	want := []string{"apple.txt", "banana.txt", "cherry.txt"}
	for i, f := range list.Files {
		if f.Name != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestListRecentSortedByUpdate(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	oldID := uploadActive(t, fs, store, "alice@example.com", "old.txt", 1)
	newID := uploadActive(t, fs, store, "alice@example.com", "new.txt", 1)

	// 显式拉开 updated_at，避免同一毫秒内顺序不稳定
	past := time.Now().Add(-time.Hour)
	if err := fs.db.Model(&model.Files{}).Where("file_id = ?", oldID).
		UpdateColumn("updated_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{Recent: true})
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}

	if len(list.Files) != 2 || list.Files[0].ID != newID {
		t.Fatalf("recent order wrong: %+v", list.Files)
	}
}

func TestListTrashOnly(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	keep := uploadActive(t, fs, store, "alice@example.com", "keep.txt", 1)
	gone := uploadActive(t, fs, store, "alice@example.com", "gone.txt", 1)

	if err := fs.Trash(ctx, "alice@example.com", gone); err != nil {
		t.Fatalf("trash: %v", err)
	}

	active, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}

	if len(active.Files) != 1 || active.Files[0].ID != keep {
		t.Fatalf("active list wrong: %+v", active.Files)
	}

	trash, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{Trash: true})
	if err != nil {
		t.Fatalf("list trash: %v", err)
	}

	if len(trash.Files) != 1 || trash.Files[0].ID != gone {
		t.Fatalf("trash list wrong: %+v", trash.Files)
	}

	if !trash.Files[0].Trashed || trash.Files[0].TrashedAt == "" {
		t.Errorf("trash flags missing: %+v", trash.Files[0])
	}
}

func TestListOwnerIsolation(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	uploadActive(t, fs, store, "alice@example.com", "alice.txt", 1)
	uploadActive(t, fs, store, "bob@example.com", "bob.txt", 1)

	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list.Files) != 1 || list.Files[0].Name != "alice.txt" {
		t.Fatalf("owner isolation broken: %+v", list.Files)
	}
}

func TestListFolderFilter(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	grant, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "in.txt", Folder: "docs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.put(grant.ObjectKey, 1, "")

	if _, err := fs.ConfirmUpload(ctx, "alice@example.com", grant.FileID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	uploadActive(t, fs, store, "alice@example.com", "out.txt", 1)

	// 过滤参数同样会被规范化
	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{Folder: "/docs/"})
	if err != nil {
		t.Fatalf("list folder: %v", err)
	}

	if len(list.Files) != 1 || list.Files[0].Name != "in.txt" {
		t.Fatalf("folder filter wrong: %+v", list.Files)
	}
}

func TestListPagination(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	names := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}
	for _, n := range names {
		uploadActive(t, fs, store, "alice@example.com", n, 1)
	}

	page2, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}

	if page2.Total != 5 {
		t.Errorf("total = %d, want 5", page2.Total)
	}

	if len(page2.Files) != 2 || page2.Files[0].Name != "c.txt" || page2.Files[1].Name != "d.txt" {
		t.Fatalf("page 2 wrong: %+v", page2.Files)
	}
}

func TestListSkipsCorruptRows(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	uploadActive(t, fs, store, "alice@example.com", "good.txt", 1)

	// 行级损坏：对象键丢失，无法定位对象
	bad := model.Files{
		Owner:  "alice@example.com",
		FileID: "corrupt-row",
		State:  model.FileStateActive,
	}
	if err := fs.db.Create(&bad).Error; err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list.Files) != 1 || list.Files[0].Name != "good.txt" {
		t.Fatalf("corrupt row not skipped: %+v", list.Files)
	}

	if list.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", list.Skipped)
	}
}

func TestListDefaultsForMissingFields(t *testing.T) {
	fs, _ := newTestService(t)
	ctx := context.Background()

	// 字段级缺失：文件名丢了，但对象键还在，照常返回并补兜底值
	rec := model.Files{
		Owner:     "alice@example.com",
		FileID:    "half-corrupt",
		ObjectKey: "alice@example.com/half-corrupt-",
		Size:      -5,
		State:     model.FileStateActive,
	}
	if err := fs.db.Create(&rec).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list.Files) != 1 {
		t.Fatalf("files = %d, want 1", len(list.Files))
	}

	f := list.Files[0]
	if f.Name != types.DefaultFileName {
		t.Errorf("name = %q, want %q", f.Name, types.DefaultFileName)
	}

	if f.Size != 0 {
		t.Errorf("size = %d, want 0", f.Size)
	}

	if f.LastModified == "" {
		t.Error("lastModified empty, want RFC3339 fallback")
	}
}

func TestDownloadURLOnlyForActive(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "dl.txt", 1)

	resp, err := fs.DownloadURL(ctx, "alice@example.com", fileID)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}

	if resp.DownloadURL == "" || resp.FileName != "dl.txt" {
		t.Fatalf("bad response: %+v", resp)
	}

	if resp.ExpiresIn != fs.cfg.PresignDownloadTTL {
		t.Errorf("expiresIn = %d, want %d", resp.ExpiresIn, fs.cfg.PresignDownloadTTL)
	}

	// 回收站中的文件不可下载
	if err := fs.Trash(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if _, err := fs.DownloadURL(ctx, "alice@example.com", fileID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("trashed download: err = %v, want ErrFileNotFound", err)
	}
}
