package contract

import (
	"context"

	"edunotes-be/internal/entity"
	"edunotes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Counter increments are issued directly against the row so concurrent
	// bumps do not lose updates.
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementDownloads(ctx context.Context, id uuid.UUID) error

	// Suggestion sources: distinct stored facet values, case-insensitive
	// prefix matched, scoped by the parent facet where one applies.
	DistinctInstitutes(ctx context.Context, category, prefix string, limit int) ([]string, error)
	DistinctStates(ctx context.Context, category, prefix string, limit int) ([]string, error)
	DistinctDistricts(ctx context.Context, category, state, prefix string, limit int) ([]string, error)
	DistinctDepartments(ctx context.Context, institute, category string) ([]string, error)
}
