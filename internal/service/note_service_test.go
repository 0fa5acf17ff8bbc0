package service

import (
	"context"
	"errors"
	"testing"

	"edunotes-be/internal/config"
	"edunotes-be/internal/dto"
	"edunotes-be/internal/pkg/serverutils"
	"edunotes-be/pkg/facet"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			Dir:          "./uploads",
			MaxSizeBytes: 25 * 1024 * 1024,
		},
		Reciprocity: config.ReciprocityConfig{
			Threshold:    2,
			CountPending: true,
		},
	}
}

func validUpload() *dto.UploadNoteRequest {
	return &dto.UploadNoteRequest{
		Category:        "engineering",
		Institute:       "IIT Madras",
		Subject:         "Signals and Systems",
		UploaderPhone:   "+91 98765 43210",
		UploaderConsent: true,
		FileName:        "signals.pdf",
		FileSize:        1024,
		ContentType:     "application/pdf",
	}
}

func TestUploadValidationRejectsBeforePersistence(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.UploadNoteRequest)
		wantMsg string
	}{
		{"unknown category", func(r *dto.UploadNoteRequest) { r.Category = "college" }, "unknown category"},
		{"bad content type", func(r *dto.UploadNoteRequest) { r.ContentType = "image/png" }, "PDF, DOC and DOCX"},
		{"oversize file", func(r *dto.UploadNoteRequest) { r.FileSize = 26 * 1024 * 1024 }, "25MB"},
		{"bad phone", func(r *dto.UploadNoteRequest) { r.UploaderPhone = "abc" }, "phone"},
		{"missing consent", func(r *dto.UploadNoteRequest) { r.UploaderConsent = false }, "consent"},
	}

	// nil repo and file store: a validation failure must return before
	// either is touched, or the test panics.
	svc := NewNoteService(nil, nil, nil, testConfig(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpload()
			tt.mutate(req)

			_, err := svc.Upload(context.Background(), uuid.New(), req, nil)
			require.Error(t, err)

			var apiErr *serverutils.ApiError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, fiber.StatusBadRequest, apiErr.Code)
			assert.Contains(t, apiErr.Message, tt.wantMsg)
		})
	}
}

func TestFacetSpecsIgnoreIllegalParams(t *testing.T) {
	query := &dto.ListNotesQuery{
		Institute:  "IIT Madras",
		Stream:     "MPC",      // not an engineering facet
		ClassLevel: "Class 10", // not an engineering facet
		Semester:   "3",
		Department: "CSE",
	}

	specs := facetSpecs(facet.CategoryEngineering, query)

	// institute, semester, department survive; stream and classLevel drop.
	assert.Len(t, specs, 3)
}

func TestSanitizeUploadFacetsPerCategory(t *testing.T) {
	req := validUpload()
	req.Category = "school"
	req.Departments = []string{"CSE"}
	req.Stream = "MPC"
	req.Year = "2nd Year"
	req.Semester = "3"
	req.ClassLevel = "Class 10"

	category, ok := facet.ParseCategory(req.Category)
	require.True(t, ok)
	sanitizeUploadFacets(category, req)

	assert.Nil(t, req.Departments)
	assert.Empty(t, req.Stream)
	assert.Empty(t, req.Year)
	assert.Empty(t, req.Semester)
	assert.Equal(t, "Class 10", req.ClassLevel)
}
