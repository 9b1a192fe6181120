package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nconklindev/ratoolkit/internal/logging"
)

func newTestService(t *testing.T, at time.Time) (*Service, *logging.Recorder, string) {
	t.Helper()
	rec := &logging.Recorder{}
	dir := filepath.Join(t.TempDir(), "backups")
	s := NewService(dir, "raBACKUP", logging.New(rec))
	s.now = func() time.Time { return at }
	return s, rec, dir
}

func TestName(t *testing.T) {
	s := NewService("b", "raBACKUP", logging.New(logging.Discard))
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name     string
		seq      int
		expected string
	}{
		{"First", 0, "raBACKUP-March-05-2024--14-07-09PM-Data.xlsx"},
		{"Collision", 2, "raBACKUP-March-05-2024--14-07-09PM-2-Data.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Name("/some/where/Data.xlsx", at, tt.seq)
			if got != tt.expected {
				t.Errorf("Name() = %s; want %s", got, tt.expected)
			}
		})
	}
}

func TestBackupFile_CopiesContent(t *testing.T) {
	s, rec, dir := newTestService(t, time.Now())

	src := filepath.Join(t.TempDir(), "Data.xlsx")
	content := []byte("spreadsheet bytes\x00\x01")
	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}

	dest, ok := s.BackupFile(src)
	if !ok {
		t.Fatal("BackupFile returned false")
	}
	if filepath.Dir(dest) != dir {
		t.Errorf("Backup placed in %s; want %s", filepath.Dir(dest), dir)
	}
	if !strings.HasSuffix(dest, "-Data.xlsx") || !strings.HasPrefix(filepath.Base(dest), "raBACKUP-") {
		t.Errorf("Unexpected backup name %s", filepath.Base(dest))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(entries))
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Error("Backup content differs from source")
	}
	if rec.Count(logging.LevelInfo) != 1 {
		t.Errorf("Expected 1 info entry, got %d", rec.Count(logging.LevelInfo))
	}
}

func TestBackupFile_MissingSource(t *testing.T) {
	s, rec, dir := newTestService(t, time.Now())

	dest, ok := s.BackupFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	if ok || dest != "" {
		t.Errorf("BackupFile() = %q, %v; want \"\", false", dest, ok)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Backup directory should not be created for a missing source")
	}
	if rec.Count(logging.LevelWarning) != 1 {
		t.Errorf("Expected 1 warning, got %d", rec.Count(logging.LevelWarning))
	}
}

func TestBackupFile_DirectoryIsNotAFile(t *testing.T) {
	s, _, _ := newTestService(t, time.Now())

	if _, ok := s.BackupFile(t.TempDir()); ok {
		t.Error("Backing up a directory should fail")
	}
}

func TestBackupFile_SameSecondCollision(t *testing.T) {
	at := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	s, _, dir := newTestService(t, at)

	src := filepath.Join(t.TempDir(), "out.html")
	if err := os.WriteFile(src, []byte("<table></table>"), 0644); err != nil {
		t.Fatal(err)
	}

	first, ok := s.BackupFile(src)
	if !ok {
		t.Fatal("first backup failed")
	}
	second, ok := s.BackupFile(src)
	if !ok {
		t.Fatal("second backup failed")
	}
	if first == second {
		t.Fatalf("Backups collided on %s", first)
	}
	if filepath.Base(second) != "raBACKUP-March-05-2024--09-00-00AM-1-out.html" {
		t.Errorf("Unexpected second backup name %s", filepath.Base(second))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("Expected 2 backups, got %d", len(entries))
	}
}

func TestBackupFile_UnwritableDir(t *testing.T) {
	rec := &logging.Recorder{}
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// The backup dir sits below a regular file, so MkdirAll fails.
	s := NewService(filepath.Join(blocker, "backups"), "raBACKUP", logging.New(rec))

	src := filepath.Join(t.TempDir(), "Data.xlsx")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.BackupFile(src); ok {
		t.Error("Expected backup to fail")
	}
	if rec.Count(logging.LevelError) != 1 {
		t.Errorf("Expected 1 error entry, got %d", rec.Count(logging.LevelError))
	}
}
