package utils

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// FileExt trả về phần mở rộng (không có dấu chấm, chữ thường).
func FileExt(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// UniqueFilename sinh tên file lưu trữ chống trùng: tên gốc đã slug hoá +
// timestamp + 8 ký tự hash của cả hai.
func UniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	name := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))

	ts := time.Now().UTC().Format("20060102_150405")
	sum := sha256.Sum256([]byte(name + ts))

	safe := slug.Make(name)
	if safe == "" {
		safe = "file"
	}
	return fmt.Sprintf("%s_%s_%x%s", safe, ts, sum[:4], ext)
}
