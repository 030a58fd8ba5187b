package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageType     = errors.New("image: unsupported file type")
	ErrImageTooLarge = errors.New("image: file too large")
	ErrImageUpload   = errors.New("image: upload failed")
)

// MaxImageSize vaut 4,5 Mo.
const MaxImageSize = 4_718_592

const imagePrefix = "products/"

var allowedImageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".webp": true,
	".png":  true,
}

// ImageFile est le fichier choisi dans le formulaire. Size est la taille
// annoncée par le client, Data peut être tronqué au-delà de MaxImageSize.
type ImageFile struct {
	Filename string
	Size     int64
	Data     []byte
}

// DeletionResult : une suppression best-effort réussit ou échoue, l'appelant
// journalise mais ne propage jamais l'échec.
type DeletionResult struct {
	Target string
	Err    error
}

func (r DeletionResult) Deleted() bool { return r.Err == nil }

func (r DeletionResult) Log(action string) {
	if r.Err != nil {
		log.Printf("⚠️ %s : image %s non supprimée (%v)", action, r.Target, r.Err)
		return
	}
	log.Printf("🗑️ %s : image %s supprimée", action, r.Target)
}

// ImageResolution est la référence finale à écrire dans le document.
// Superseded est l'ancienne image remplacée par un nouvel upload : elle n'est
// supprimée qu'une fois le document écrit.
type ImageResolution struct {
	URL        string
	Superseded string
	Cleared    *DeletionResult
}

type ImageManager struct {
	blobs BlobStore
	now   func() time.Time
}

func NewImageManager(blobs BlobStore, now func() time.Time) *ImageManager {
	if now == nil {
		now = time.Now
	}
	return &ImageManager{blobs: blobs, now: now}
}

// Validate vérifie extension et taille sans rien envoyer.
func (m *ImageManager) Validate(file *ImageFile) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrImageType, ext)
	}
	if file.Size > MaxImageSize || int64(len(file.Data)) > MaxImageSize {
		return fmt.Errorf("%w: %d octets", ErrImageTooLarge, max(file.Size, int64(len(file.Data))))
	}
	return nil
}

// Resolve applique, dans l'ordre : nouveau fichier, effacement demandé, conservation.
func (m *ImageManager) Resolve(ctx context.Context, file *ImageFile, current string, clear bool) (ImageResolution, error) {
	switch {
	case file != nil:
		if err := m.Validate(file); err != nil {
			return ImageResolution{}, err
		}
		url, err := m.upload(ctx, file)
		if err != nil {
			return ImageResolution{}, err
		}
		return ImageResolution{URL: url, Superseded: current}, nil

	case clear:
		if current == "" {
			return ImageResolution{}, nil
		}
		res := m.Release(ctx, current)
		if !res.Deleted() {
			// On garde le pointeur vers un blob toujours en ligne.
			return ImageResolution{URL: current, Cleared: &res}, nil
		}
		return ImageResolution{Cleared: &res}, nil

	default:
		return ImageResolution{URL: current}, nil
	}
}

func (m *ImageManager) upload(ctx context.Context, file *ImageFile) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s%d%s", imagePrefix, m.now().UnixMilli(), ext)
	contentType := mimetype.Detect(file.Data).String()

	url, err := m.blobs.Upload(ctx, name, file.Data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	return url, nil
}

// Release supprime un blob sans jamais faire échouer l'opération englobante.
func (m *ImageManager) Release(ctx context.Context, url string) DeletionResult {
	return DeletionResult{Target: url, Err: m.blobs.Delete(ctx, url)}
}
