package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore lưu file trong một bucket Supabase Storage.
// Reference là object path trong bucket (vd "audio/<user>/<file>.mp3").
type SupabaseStore struct {
	client  *storage_go.Client
	baseURL string
	apiKey  string
	bucket  string
	http    *http.Client
}

func NewSupabaseStore(baseURL, apiKey, bucket string) *SupabaseStore {
	return &SupabaseStore{
		client:  storage_go.NewClient(baseURL+"/storage/v1", apiKey, nil),
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
		http:    &http.Client{},
	}
}

func (s *SupabaseStore) Save(data []byte, objectPath string, contentType string) (string, error) {
	options := storage_go.FileOptions{
		ContentType: &contentType,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewBuffer(data), options); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *SupabaseStore) Read(ref string) ([]byte, error) {
	resp, err := s.http.Get(s.URL(ref))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("đọc file Supabase thất bại: status=%d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Delete gọi thẳng API xoá object của Supabase Storage.
func (s *SupabaseStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, ref)
	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}
	// Supabase yêu cầu cả Authorization lẫn apikey header
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Supabase trả 200 hoặc 204 khi xoá thành công
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("xoá file Supabase thất bại: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func (s *SupabaseStore) URL(ref string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, ref)
}
