package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

func TestCreateUploadURLRegistersPending(t *testing.T) {
	fs, _ := newTestService(t)
	ctx := context.Background()

	grant, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		Folder:      "/docs/",
	})
	if err != nil {
		t.Fatalf("create upload url: %v", err)
	}

	if grant.FileID == "" || grant.UploadURL == "" {
		t.Fatalf("incomplete grant: %+v", grant)
	}

	wantKey := "alice@example.com/" + grant.FileID + "-report.pdf"
	if grant.ObjectKey != wantKey {
		t.Errorf("object key = %q, want %q", grant.ObjectKey, wantKey)
	}

	if grant.ExpiresIn != fs.cfg.PresignUploadTTL {
		t.Errorf("expiresIn = %d, want %d", grant.ExpiresIn, fs.cfg.PresignUploadTTL)
	}

	rec := mustRecord(t, fs, "alice@example.com", grant.FileID)
	if rec.State != model.FileStatePending {
		t.Errorf("state = %s, want pending", rec.State)
	}

	if rec.Folder != "docs" {
		t.Errorf("folder = %q, want normalized %q", rec.Folder, "docs")
	}

	if rec.PublicURL != "http://s3.test/test-bucket/"+wantKey {
		t.Errorf("public url = %q", rec.PublicURL)
	}

	// pending 记录不出现在常规列表
	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list.Files) != 0 {
		t.Errorf("pending file leaked into list: %+v", list.Files)
	}
}

func TestCreateUploadURLRejectsBadNames(t *testing.T) {
	fs, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", "a/b.txt", `a\b.txt`} {
		_, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: name})
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("name %q: err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCreateUploadURLQuotaPrecheck(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fs.cfg.QuotaBytes = 1000
	uploadActive(t, fs, store, "alice@example.com", "big.bin", 900)

	// 超出配额的预估大小被拒绝
	_, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "more.bin", Size: 200})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}

	// 未声明大小时放行，以确认阶段的事实为准
	if _, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "unsized.bin"}); err != nil {
		t.Fatalf("unsized upload rejected: %v", err)
	}

	// 别的用户不受影响
	if _, err := fs.CreateUploadURL(ctx, "bob@example.com", &types.UploadURLRequest{FileName: "ok.bin", Size: 200}); err != nil {
		t.Fatalf("other owner rejected: %v", err)
	}
}

func TestConfirmUploadActivates(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	grant, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "photo.jpg", Size: 10})
	if err != nil {
		t.Fatalf("create upload url: %v", err)
	}

	// 对象真实大小与预估不同，以 HEAD 结果为准
	store.put(grant.ObjectKey, 2048, "image/jpeg")

	resp, err := fs.ConfirmUpload(ctx, "alice@example.com", grant.FileID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if resp.File.Size != 2048 {
		t.Errorf("size = %d, want 2048", resp.File.Size)
	}

	rec := mustRecord(t, fs, "alice@example.com", grant.FileID)
	if rec.State != model.FileStateActive {
		t.Errorf("state = %s, want active", rec.State)
	}

	if rec.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", rec.ContentType)
	}

	if !strings.HasPrefix(rec.ETag, "etag-") {
		t.Errorf("etag not recorded: %q", rec.ETag)
	}
}

func TestConfirmUploadWithoutObject(t *testing.T) {
	fs, _ := newTestService(t)
	ctx := context.Background()

	grant, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "ghost.txt"})
	if err != nil {
		t.Fatalf("create upload url: %v", err)
	}

	_, err = fs.ConfirmUpload(ctx, "alice@example.com", grant.FileID)
	if !errors.Is(err, ErrNotUploaded) {
		t.Fatalf("err = %v, want ErrNotUploaded", err)
	}

	// 记录保持 pending，等待重试或回收
	rec := mustRecord(t, fs, "alice@example.com", grant.FileID)
	if rec.State != model.FileStatePending {
		t.Errorf("state = %s, want pending", rec.State)
	}
}

func TestConfirmUploadIdempotent(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "twice.txt", 64)

	first, err := fs.ConfirmUpload(ctx, "alice@example.com", fileID)
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}

	second, err := fs.ConfirmUpload(ctx, "alice@example.com", fileID)
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}

	if first.File != second.File {
		t.Errorf("repeat confirm diverged: %+v vs %+v", first.File, second.File)
	}
}

func TestConfirmUploadUnknownFile(t *testing.T) {
	fs, _ := newTestService(t)

	_, err := fs.ConfirmUpload(context.Background(), "alice@example.com", "no-such-id")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestConfirmUploadWrongOwner(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	grant, err := fs.CreateUploadURL(ctx, "alice@example.com", &types.UploadURLRequest{FileName: "mine.txt"})
	if err != nil {
		t.Fatalf("create upload url: %v", err)
	}

	store.put(grant.ObjectKey, 1, "")

	if _, err := fs.ConfirmUpload(ctx, "bob@example.com", grant.FileID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("cross-owner confirm: err = %v, want ErrFileNotFound", err)
	}
}
