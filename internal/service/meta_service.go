package service

import (
	"context"

	"edunotes-be/internal/dto"

	gocache "github.com/patrickmn/go-cache"
)

const metaCacheKey = "notes:meta"

type IMetaService interface {
	GetMeta(ctx context.Context) (*dto.MetaResponse, error)
}

// metaService serves the static enumeration catalogs behind the browse
// filters and the upload form. The catalogs are compiled in; the cache
// exists so the response struct is built once per process lifetime.
type metaService struct {
	cache *gocache.Cache
}

func NewMetaService(cache *gocache.Cache) IMetaService {
	return &metaService{cache: cache}
}

func (ms *metaService) GetMeta(_ context.Context) (*dto.MetaResponse, error) {
	if cached, found := ms.cache.Get(metaCacheKey); found {
		if meta, ok := cached.(*dto.MetaResponse); ok {
			return meta, nil
		}
	}

	meta := &dto.MetaResponse{
		Years:   []string{"1st Year", "2nd Year", "3rd Year", "4th Year"},
		Streams: []string{"MPC", "BiPC", "MEC", "CEC", "HEC"},
		Classes: []string{"Class 6", "Class 7", "Class 8", "Class 9", "Class 10", "Class 11", "Class 12"},
		EngineeringDepartments: []string{
			"CSE", "ECE", "EEE", "MECH", "CIVIL", "IT", "AIML", "Data Science", "Chemical",
		},
		IntermediateDepartments: []string{"MPC", "BiPC", "MEC", "CEC", "HEC"},
		SchoolDepartments: []string{
			"Mathematics", "Science", "Social Studies", "English", "Telugu", "Hindi",
		},
	}

	ms.cache.Set(metaCacheKey, meta, gocache.NoExpiration)
	return meta, nil
}
