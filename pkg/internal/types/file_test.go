package types_test

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/yeisme/cloudspace/pkg/internal/model"
	"github.com/yeisme/cloudspace/pkg/internal/types"
)

func TestDisplayFromModelComplete(t *testing.T) {
	created := time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)
	mod := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &model.Files{
		FileID:      "01JFILE",
		FileName:    "report.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		Folder:      "docs",
		PublicURL:   "http://s3.test/test-bucket/alice/01JFILE-report.pdf",
		CreatedAt:   created,
		UpdatedAt:   mod,
	}

	d := types.DisplayFromModel(f)

	if d.ID != "01JFILE" || d.Name != "report.pdf" || d.Size != 2048 {
		t.Fatalf("display = %+v", d)
	}

	if d.URL != f.PublicURL {
		t.Errorf("url = %q", d.URL)
	}

	if d.CreatedAt != "2025-05-30T09:00:00Z" {
		t.Errorf("createdAt = %q", d.CreatedAt)
	}

	if d.LastModified != "2025-06-01T12:00:00Z" {
		t.Errorf("lastModified = %q", d.LastModified)
	}

	if d.Trashed || d.TrashedAt != "" {
		t.Errorf("fresh file marked trashed: %+v", d)
	}
}

func TestDisplayFromModelDefaults(t *testing.T) {
	d := types.DisplayFromModel(&model.Files{Size: -1})

	if d.ID != types.DefaultFileID {
		t.Errorf("id = %q, want %q", d.ID, types.DefaultFileID)
	}

	if d.Name != types.DefaultFileName {
		t.Errorf("name = %q, want %q", d.Name, types.DefaultFileName)
	}

	if d.Size != 0 {
		t.Errorf("size = %d, want 0", d.Size)
	}

	if _, err := time.Parse(time.RFC3339, d.LastModified); err != nil {
		t.Errorf("lastModified %q not RFC3339: %v", d.LastModified, err)
	}

	if _, err := time.Parse(time.RFC3339, d.CreatedAt); err != nil {
		t.Errorf("createdAt %q not RFC3339: %v", d.CreatedAt, err)
	}
}

func TestFileDisplayWireKeys(t *testing.T) {
	d := types.FileDisplay{
		ID:        "01JFILE",
		Name:      "report.pdf",
		Size:      2048,
		URL:       "http://s3.test/test-bucket/alice/01JFILE-report.pdf",
		CreatedAt: "2025-05-30T09:00:00Z",
		Trashed:   true,
	}

	raw, err := sonic.Marshal(&d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := sonic.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"fileId", "fileName", "fileSize", "url", "createdAt", "isDeleted"} {
		if _, ok := m[key]; !ok {
			t.Errorf("key %q missing from wire shape: %s", key, raw)
		}
	}
}

func TestDisplayFromModelTrashed(t *testing.T) {
	at := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	f := &model.Files{
		FileID:    "01JTRASH",
		FileName:  "old.txt",
		UpdatedAt: at,
		DeletedAt: gorm.DeletedAt{Time: at, Valid: true},
	}

	d := types.DisplayFromModel(f)

	if !d.Trashed {
		t.Error("trashed flag not set")
	}

	if d.TrashedAt != "2025-06-02T08:30:00Z" {
		t.Errorf("trashedAt = %q", d.TrashedAt)
	}
}
