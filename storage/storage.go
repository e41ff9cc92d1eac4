package storage

// BlobStore trừu tượng hoá nơi lưu file upload (disk hoặc Supabase Storage).
// Reference trả về từ Save là chuỗi ổn định, lưu vào DB và dùng lại cho
// Read/Delete/URL.
type BlobStore interface {
	Save(data []byte, objectPath string, contentType string) (string, error)
	Read(ref string) ([]byte, error)
	Delete(ref string) error
	URL(ref string) string
}
