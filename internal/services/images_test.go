package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestImageManager_Validate(t *testing.T) {
	m := NewImageManager(&mockBlobStore{}, nil)

	for _, name := range []string{"a.jpeg", "a.JPG", "a.webp", "a.Png"} {
		assert.NoError(t, m.Validate(&ImageFile{Filename: name, Size: 1}), name)
	}
	assert.ErrorIs(t, m.Validate(&ImageFile{Filename: "a.svg", Size: 1}), ErrImageType)
	assert.ErrorIs(t, m.Validate(&ImageFile{Filename: "a.png", Size: MaxImageSize + 1}), ErrImageTooLarge)
	assert.ErrorIs(t, m.Validate(&ImageFile{Filename: "a.png", Size: 1, Data: make([]byte, MaxImageSize+1)}), ErrImageTooLarge)
}

func TestImageManager_ResolvePreservesWhenNothingChanges(t *testing.T) {
	blobs := &mockBlobStore{}
	m := NewImageManager(blobs, nil)

	res, err := m.Resolve(context.Background(), nil, "http://blob/a.png", false)

	require.NoError(t, err)
	assert.Equal(t, ImageResolution{URL: "http://blob/a.png"}, res)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestImageManager_ResolveUploadDefersOldDeletion(t *testing.T) {
	blobs := &mockBlobStore{}
	at := time.UnixMilli(1700000000123)
	m := NewImageManager(blobs, func() time.Time { return at })
	blobs.On("Upload", mock.Anything, "products/1700000000123.jpg", mock.Anything, mock.Anything).
		Return("http://blob/products/1700000000123.jpg", nil).Once()

	res, err := m.Resolve(context.Background(), &ImageFile{Filename: "x.JPG", Size: 3, Data: []byte{1, 2, 3}}, "http://blob/old.png", false)

	require.NoError(t, err)
	assert.Equal(t, "http://blob/products/1700000000123.jpg", res.URL)
	assert.Equal(t, "http://blob/old.png", res.Superseded)
	blobs.AssertExpectations(t)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestImageManager_UploadErrorIsWrapped(t *testing.T) {
	blobs := &mockBlobStore{}
	m := NewImageManager(blobs, nil)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	_, err := m.Resolve(context.Background(), &ImageFile{Filename: "x.png", Size: 1, Data: []byte{1}}, "", false)

	assert.ErrorIs(t, err, ErrImageUpload)
}

func TestImageManager_Release(t *testing.T) {
	blobs := &mockBlobStore{}
	m := NewImageManager(blobs, nil)
	blobs.On("Delete", mock.Anything, "ok").Return(nil).Once()
	blobs.On("Delete", mock.Anything, "ko").Return(errors.New("nope")).Once()

	assert.True(t, m.Release(context.Background(), "ok").Deleted())
	failed := m.Release(context.Background(), "ko")
	assert.False(t, failed.Deleted())
	assert.Equal(t, "ko", failed.Target)
}
