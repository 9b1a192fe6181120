package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout names backups to the second. Colons are not allowed in
// file names on every platform, so the time uses dashes.
const TimestampLayout = "January-02-2006--15-04-05PM"

type Service struct {
	dir    string
	prefix string
	log    *slog.Logger
	now    func() time.Time
}

func NewService(dir, prefix string, log *slog.Logger) *Service {
	return &Service{
		dir:    dir,
		prefix: prefix,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) Dir() string {
	return s.dir
}

// BackupFile copies path into the backup directory and returns the copy's
// location. A missing source is a warning, not an error; copy failures are
// logged and reported as false so callers can carry on without the backup.
func (s *Service) BackupFile(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		s.log.Warn(fmt.Sprintf("Cannot back up non existent file: %s. Ignoring...", path))
		return "", false
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.log.Error(fmt.Sprintf("Failed to create backup directory %s: %v", s.dir, err))
		return "", false
	}

	dest, err := s.copyFile(path)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to back up %s: %v", path, err))
		return "", false
	}

	s.log.Info(fmt.Sprintf("Backed up %s ---> %s", path, dest))
	return dest, true
}

// Name builds the backup file name for path taken at t, with seq > 0
// appended to disambiguate backups taken within the same second.
func (s *Service) Name(path string, t time.Time, seq int) string {
	stamp := t.Format(TimestampLayout)
	if seq > 0 {
		stamp = fmt.Sprintf("%s-%d", stamp, seq)
	}
	return fmt.Sprintf("%s-%s-%s", s.prefix, stamp, filepath.Base(path))
}

func (s *Service) copyFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	t := s.now()
	var dst *os.File
	var dest string
	for seq := 0; ; seq++ {
		dest = filepath.Join(s.dir, s.Name(path, t, seq))
		dst, err = os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dest)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}
