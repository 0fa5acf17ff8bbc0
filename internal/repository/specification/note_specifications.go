package specification

import (
	"fmt"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByInstitute matches the institute name case-insensitively. Institutes are
// free text typed by uploaders; casing is not reliable.
type ByInstitute struct {
	Institute string
}

func (s ByInstitute) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(institute) = LOWER(?)", s.Institute)
}

type ByState struct {
	State string
}

func (s ByState) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(state) = LOWER(?)", s.State)
}

type ByDistrict struct {
	District string
}

func (s ByDistrict) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(district) = LOWER(?)", s.District)
}

type ByYear struct {
	Year string
}

func (s ByYear) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("year = ?", s.Year)
}

type BySemester struct {
	Semester string
}

func (s BySemester) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("semester = ?", s.Semester)
}

type ByStream struct {
	Stream string
}

func (s ByStream) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stream = ?", s.Stream)
}

type ByClassLevel struct {
	ClassLevel string
}

func (s ByClassLevel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("class_level = ?", s.ClassLevel)
}

// HasDepartment matches notes whose departments jsonb array contains the
// given department.
type HasDepartment struct {
	Department string
}

func (s HasDepartment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("departments @> ?", fmt.Sprintf("[%q]", s.Department))
}

// SearchText is the free-text q parameter: case-insensitive substring match
// over subject, description and tags. Composes conjunctively with facet
// specifications.
type SearchText struct {
	Query string
}

func (s SearchText) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where(
		"subject ILIKE ? OR description ILIKE ? OR tags::text ILIKE ?",
		pattern, pattern, pattern,
	)
}
