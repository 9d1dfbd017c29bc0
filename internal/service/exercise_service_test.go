package service

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubStorage records object operations instead of talking to a bucket.
type stubStorage struct {
	uploadKeys []string
	deleted    []string
}

func (s *stubStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	s.uploadKeys = append(s.uploadKeys, objectKey)
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *stubStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + objectKey, nil
}

func (s *stubStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func newExerciseFixture(t *testing.T) (ExerciseService, *stubStorage, primitive.ObjectID) {
	t.Helper()
	repo := memory.NewExerciseRepository()
	store := &stubStorage{}
	svc := NewExerciseService(repo, store)

	exercise, err := svc.CreateExercise(context.Background(), ExerciseInput{Name: "Bench Press"})
	require.NoError(t, err)
	return svc, store, exercise.ID
}

func TestRequestImageUploadReplacesPreviousObject(t *testing.T) {
	ctx := context.Background()
	svc, store, exerciseID := newExerciseFixture(t)

	first, err := svc.RequestImageUpload(ctx, exerciseID, "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, first.UploadURL)
	assert.Empty(t, store.deleted)

	second, err := svc.RequestImageUpload(ctx, exerciseID, "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
	require.Len(t, store.deleted, 1, "the replaced object must be removed")
	assert.Equal(t, first.ObjectKey, store.deleted[0])

	url, err := svc.GetImageDownloadURL(ctx, exerciseID)
	require.NoError(t, err)
	assert.Contains(t, url, second.ObjectKey)
}

func TestDeleteExerciseRemovesStoredImage(t *testing.T) {
	ctx := context.Background()
	svc, store, exerciseID := newExerciseFixture(t)

	upload, err := svc.RequestImageUpload(ctx, exerciseID, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(ctx, exerciseID))
	require.Len(t, store.deleted, 1)
	assert.Equal(t, upload.ObjectKey, store.deleted[0])

	require.ErrorIs(t, svc.DeleteExercise(ctx, exerciseID), ErrExerciseNotFound)
}

func TestDeleteExerciseWithoutImageSkipsStorage(t *testing.T) {
	ctx := context.Background()
	svc, store, exerciseID := newExerciseFixture(t)

	require.NoError(t, svc.DeleteExercise(ctx, exerciseID))
	assert.Empty(t, store.deleted)
}

func TestImageUploadWithoutStorage(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewExerciseRepository()
	svc := NewExerciseService(repo, nil)

	exercise, err := svc.CreateExercise(ctx, ExerciseInput{Name: "Bench Press"})
	require.NoError(t, err)

	_, err = svc.RequestImageUpload(ctx, exercise.ID, "image/jpeg")
	require.ErrorIs(t, err, ErrStorageUnavailable)

	// No storage still allows deleting the row.
	require.NoError(t, svc.DeleteExercise(ctx, exercise.ID))
}

func TestGetImageDownloadURLFallsBackToPlainURL(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewExerciseRepository()
	svc := NewExerciseService(repo, nil)

	exercise, err := svc.CreateExercise(ctx, ExerciseInput{
		Name:     "Bench Press",
		ImageURL: "https://images.example.com/bench.jpg",
	})
	require.NoError(t, err)

	url, err := svc.GetImageDownloadURL(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/bench.jpg", url)
}
