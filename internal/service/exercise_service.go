package service

import (
	"context"
	"errors"
	"fmt"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"
	"fittrack/fitness-tracker/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// ExerciseInput carries the client-supplied catalog fields.
type ExerciseInput struct {
	Name         string
	Description  string
	MuscleGroups string
	Equipment    string
	ImageURL     string
	Difficulty   string
	Instructions string
}

// ExercisePatch carries a partial update; nil fields retain prior values.
type ExercisePatch struct {
	Name         *string
	Description  *string
	MuscleGroups *string
	Equipment    *string
	ImageURL     *string
	Difficulty   *string
	Instructions *string
}

// ImageUpload is the result of requesting a presigned image upload slot.
type ImageUpload struct {
	UploadURL string
	ObjectKey string
}

// ExerciseService manages the shared exercise catalog. Every authenticated
// user may manage it; there is deliberately no ownership check here.
type ExerciseService interface {
	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, patch ExercisePatch) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error

	// RequestImageUpload returns a presigned PUT URL for the exercise's image
	// and records the object key on the exercise.
	RequestImageUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*ImageUpload, error)
	// GetImageDownloadURL returns a presigned GET URL for a previously
	// uploaded image.
	GetImageDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // May be nil when S3 is not configured
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a new exercise to the shared catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:         input.Name,
		Description:  input.Description,
		MuscleGroups: input.MuscleGroups,
		Equipment:    input.Equipment,
		ImageURL:     input.ImageURL,
		Difficulty:   input.Difficulty,
		Instructions: input.Instructions,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises returns the full catalog in insertion order.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetAll(ctx)
}

// UpdateExercise applies a partial update; only the fields present in the
// patch are overwritten.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, patch ExercisePatch) (*domain.Exercise, error) {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, ErrValidationFailed
		}
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.MuscleGroups != nil {
		existing.MuscleGroups = *patch.MuscleGroups
	}
	if patch.Equipment != nil {
		existing.Equipment = *patch.Equipment
	}
	if patch.ImageURL != nil {
		existing.ImageURL = *patch.ImageURL
	}
	if patch.Difficulty != nil {
		existing.Difficulty = *patch.Difficulty
	}
	if patch.Instructions != nil {
		existing.Instructions = *patch.Instructions
	}

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise removes an exercise from the catalog, along with its stored
// image object if one was uploaded.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	// Best effort: the catalog row is already gone, an orphaned object is not
	// worth failing the request over.
	if exercise.ImageKey != "" && s.fileStorage != nil {
		_ = s.fileStorage.DeleteObject(ctx, exercise.ImageKey)
	}
	return nil
}

// RequestImageUpload generates a presigned PUT URL for the exercise image and
// stores the object key so the download side can presign it later.
func (s *exerciseService) RequestImageUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*ImageUpload, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageUnavailable
	}
	if contentType == "" {
		return nil, ErrValidationFailed
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	objectKey := fmt.Sprintf("exercises/%s/%s", exerciseID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	previousKey := exercise.ImageKey
	exercise.ImageKey = objectKey
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}

	// The replaced object is unreachable once the key is swapped; remove it
	// best effort.
	if previousKey != "" && previousKey != objectKey {
		_ = s.fileStorage.DeleteObject(ctx, previousKey)
	}

	return &ImageUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// GetImageDownloadURL presigns a GET for the exercise's stored image. Falls
// back to the plain ImageURL when no object was ever uploaded.
func (s *exerciseService) GetImageDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}

	if exercise.ImageKey == "" {
		if exercise.ImageURL != "" {
			return exercise.ImageURL, nil
		}
		return "", ErrExerciseNotFound
	}
	if s.fileStorage == nil {
		return "", ErrStorageUnavailable
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.ImageKey, storage.DefaultPresignedURLExpiry)
}
