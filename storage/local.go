package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore lưu file dưới một thư mục gốc trên disk.
// Reference là đường dẫn tương đối so với thư mục gốc.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("không tạo được thư mục upload: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) fullPath(ref string) (string, error) {
	// Chặn path traversal
	clean := filepath.Clean("/" + ref)
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("reference không hợp lệ: %q", ref)
	}
	return filepath.Join(s.baseDir, clean), nil
}

func (s *LocalStore) Save(data []byte, objectPath string, contentType string) (string, error) {
	full, err := s.fullPath(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *LocalStore) Read(ref string) ([]byte, error) {
	full, err := s.fullPath(ref)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (s *LocalStore) Delete(ref string) error {
	full, err := s.fullPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(ref string) string {
	return "/files/" + ref
}
