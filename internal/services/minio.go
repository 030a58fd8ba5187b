package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

// BlobStore stocke les images produit et renvoie une URL publique.
type BlobStore interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete accepte l'URL publique renvoyée par Upload ou la clé brute.
	Delete(ctx context.Context, urlOrKey string) error
}

type MinioBlobStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioBlobStore : publicURL est la base servie aux navigateurs
// (ex. http://localhost:9000), sans le nom du bucket.
func NewMinioBlobStore(client *minio.Client, bucket, publicURL string) *MinioBlobStore {
	return &MinioBlobStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *MinioBlobStore) prefix() string {
	return s.publicURL + "/" + s.bucket + "/"
}

func (s *MinioBlobStore) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload MinIO %s: %w", name, err)
	}
	log.Println("🖼️ Image envoyée sur MinIO :", name)
	return s.prefix() + name, nil
}

func (s *MinioBlobStore) Delete(ctx context.Context, urlOrKey string) error {
	key := s.objectKey(urlOrKey)
	if key == "" {
		return fmt.Errorf("suppression MinIO: clé vide pour %q", urlOrKey)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("suppression MinIO %s: %w", key, err)
	}
	log.Println("🗑️ Image supprimée de MinIO :", key)
	return nil
}

// objectKey retrouve la clé d'objet à partir d'une URL publique, même si la
// base publique a changé depuis l'upload.
func (s *MinioBlobStore) objectKey(urlOrKey string) string {
	if strings.HasPrefix(urlOrKey, s.prefix()) {
		return strings.TrimPrefix(urlOrKey, s.prefix())
	}
	u, err := url.Parse(urlOrKey)
	if err != nil || u.Scheme == "" {
		return strings.TrimPrefix(urlOrKey, "/")
	}
	return strings.TrimPrefix(strings.TrimPrefix(u.Path, "/"), s.bucket+"/")
}
