package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/cloudspace/pkg/internal/types"
)

func TestNormalizeFolderPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"docs", "docs"},
		{"/docs/", "docs"},
		{"docs//reports", "docs/reports"},
		{" /docs//2024/ ", "docs/2024"},
		{"a/b/c", "a/b/c"},
	}

	for _, c := range cases {
		if got := normalizeFolderPath(c.in); got != c.want {
			t.Errorf("normalizeFolderPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCreateFolderIdempotent(t *testing.T) {
	fs, _ := newTestService(t)
	ctx := context.Background()

	first, err := fs.CreateFolder(ctx, "alice@example.com", "/docs/reports/")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if first.Path != "docs/reports" {
		t.Errorf("path = %q, want docs/reports", first.Path)
	}

	second, err := fs.CreateFolder(ctx, "alice@example.com", "docs/reports")
	if err != nil {
		t.Fatalf("repeat create: %v", err)
	}

	if second.Message == "" {
		t.Error("repeat create should report existing folder")
	}
}

func TestCreateFolderEmptyPath(t *testing.T) {
	fs, _ := newTestService(t)

	if _, err := fs.CreateFolder(context.Background(), "alice@example.com", "  / "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
}

func TestRenameKeepsObjectKey(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "before.txt", 10)
	origKey := mustRecord(t, fs, "alice@example.com", fileID).ObjectKey

	d, err := fs.Rename(ctx, "alice@example.com", fileID, "after.txt")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}

	if d.Name != "after.txt" {
		t.Errorf("name = %q, want after.txt", d.Name)
	}

	rec := mustRecord(t, fs, "alice@example.com", fileID)
	if rec.FileName != "after.txt" {
		t.Errorf("stored name = %q, want after.txt", rec.FileName)
	}

	// 重命名是纯元数据操作，对象键不变
	if rec.ObjectKey != origKey {
		t.Errorf("object key changed: %q -> %q", origKey, rec.ObjectKey)
	}

	if _, ok := store.objects[origKey]; !ok {
		t.Error("blob moved on rename")
	}
}

func TestRenameValidation(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "f.txt", 1)

	for _, name := range []string{"", "a/b", `a\b`} {
		if _, err := fs.Rename(ctx, "alice@example.com", fileID, name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("rename to %q: err = %v, want ErrInvalidName", name, err)
		}
	}

	// 回收站中的文件不可重命名
	if err := fs.Trash(ctx, "alice@example.com", fileID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if _, err := fs.Rename(ctx, "alice@example.com", fileID, "new.txt"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("rename trashed: err = %v, want ErrFileNotFound", err)
	}
}

func TestRenamedFileListsUnderNewName(t *testing.T) {
	fs, store := newTestService(t)
	ctx := context.Background()

	fileID := uploadActive(t, fs, store, "alice@example.com", "zzz.txt", 1)

	if _, err := fs.Rename(ctx, "alice@example.com", fileID, "aaa.txt"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	list, err := fs.List(ctx, "alice@example.com", &types.ListFilesRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list.Files) != 1 || list.Files[0].Name != "aaa.txt" {
		t.Fatalf("renamed file not listed: %+v", list.Files)
	}
}
