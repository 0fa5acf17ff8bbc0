package implementation

import (
	"context"
	"errors"

	"edunotes-be/internal/entity"
	"edunotes-be/internal/mapper"
	"edunotes-be/internal/model"
	"edunotes-be/internal/repository/contract"
	"edunotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Note{}, id).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteRepositoryImpl) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *NoteRepositoryImpl) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}

func (r *NoteRepositoryImpl) DistinctInstitutes(ctx context.Context, category, prefix string, limit int) ([]string, error) {
	return r.distinctColumn(ctx, "institute", category, prefix, limit, nil)
}

func (r *NoteRepositoryImpl) DistinctStates(ctx context.Context, category, prefix string, limit int) ([]string, error) {
	return r.distinctColumn(ctx, "state", category, prefix, limit, nil)
}

func (r *NoteRepositoryImpl) DistinctDistricts(ctx context.Context, category, state, prefix string, limit int) ([]string, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(state) = LOWER(?)", state)
	}
	return r.distinctColumn(ctx, "district", category, prefix, limit, scope)
}

func (r *NoteRepositoryImpl) distinctColumn(
	ctx context.Context,
	column, category, prefix string,
	limit int,
	scope func(*gorm.DB) *gorm.DB,
) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Distinct(column).
		Where("status = ?", string(entity.StatusApproved)).
		Where(column+" ILIKE ?", escapeLike(prefix)+"%").
		Where(column + " <> ''").
		Order(column).
		Limit(limit)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if scope != nil {
		query = scope(query)
	}

	var values []string
	if err := query.Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// DistinctDepartments flattens the departments jsonb arrays recorded for an
// institute+category pair. Departments are scoped per institute, not global.
func (r *NoteRepositoryImpl) DistinctDepartments(ctx context.Context, institute, category string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Select("DISTINCT jsonb_array_elements_text(departments) AS department").
		Where("LOWER(institute) = LOWER(?)", institute).
		Where("category = ?", category).
		Where("status = ?", string(entity.StatusApproved)).
		Where("deleted_at IS NULL").
		Order("department").
		Pluck("department", &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
