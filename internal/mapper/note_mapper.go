package mapper

import (
	"time"

	"edunotes-be/internal/entity"
	"edunotes-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:              n.Id,
		Subject:         n.Subject,
		Description:     n.Description,
		Category:        n.Category,
		Institute:       n.Institute,
		State:           n.State,
		District:        n.District,
		Departments:     []string(n.Departments),
		Stream:          n.Stream,
		Year:            n.Year,
		Semester:        n.Semester,
		ClassLevel:      n.ClassLevel,
		Tags:            []string(n.Tags),
		FileName:        n.FileName,
		FileSize:        n.FileSize,
		FileUrl:         n.FileUrl,
		Views:           n.Views,
		Downloads:       n.Downloads,
		Status:          entity.ModerationStatus(n.Status),
		RejectReason:    n.RejectReason,
		UploaderPhone:   n.UploaderPhone,
		UploaderConsent: n.UploaderConsent,
		UserId:          n.UserId,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:              n.Id,
		Subject:         n.Subject,
		Description:     n.Description,
		Category:        n.Category,
		Institute:       n.Institute,
		State:           n.State,
		District:        n.District,
		Departments:     datatypes.JSONSlice[string](n.Departments),
		Stream:          n.Stream,
		Year:            n.Year,
		Semester:        n.Semester,
		ClassLevel:      n.ClassLevel,
		Tags:            datatypes.JSONSlice[string](n.Tags),
		FileName:        n.FileName,
		FileSize:        n.FileSize,
		FileUrl:         n.FileUrl,
		Views:           n.Views,
		Downloads:       n.Downloads,
		Status:          string(n.Status),
		RejectReason:    n.RejectReason,
		UploaderPhone:   n.UploaderPhone,
		UploaderConsent: n.UploaderConsent,
		UserId:          n.UserId,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
