package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
)

const (
	backupPrefix     = "erpdesk-"
	backupSuffix     = ".db"
	backupTimeLayout = "20060102-150405"
)

// BackupFile describes one stored backup
type BackupFile struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService snapshots the database into a directory and prunes old copies
type BackupService struct {
	repo repository.MaintenanceRepository
	dir  string
	keep int
	now  func() time.Time
}

// NewBackupService creates a new backup service. keep <= 0 keeps every backup.
func NewBackupService(repo repository.MaintenanceRepository, dir string, keep int) *BackupService {
	return &BackupService{
		repo: repo,
		dir:  dir,
		keep: keep,
		now:  time.Now,
	}
}

// Run writes a new backup and prunes the oldest ones beyond the keep limit
func (s *BackupService) Run(ctx context.Context) (*BackupFile, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	name := backupPrefix + s.now().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("backup %s already exists", name)
	}

	if err := s.repo.BackupTo(ctx, path); err != nil {
		return nil, fmt.Errorf("backup database: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if err := s.prune(); err != nil {
		return nil, err
	}

	return &BackupFile{Name: name, Path: path, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List returns stored backups, newest first
func (s *BackupService) List() ([]BackupFile, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []BackupFile{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]BackupFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, BackupFile{
			Name:      name,
			Path:      filepath.Join(s.dir, name),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	// The timestamp in the name sorts lexically.
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

func (s *BackupService) prune() error {
	if s.keep <= 0 {
		return nil
	}
	files, err := s.List()
	if err != nil {
		return err
	}
	for _, f := range files[min(s.keep, len(files)):] {
		if err := os.Remove(f.Path); err != nil {
			return fmt.Errorf("prune backup %s: %w", f.Name, err)
		}
	}
	return nil
}
