package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"edunotes-be/internal/dto"
	"edunotes-be/internal/pkg/logger"
	"edunotes-be/internal/repository/unitofwork"
	"edunotes-be/pkg/facet"

	"github.com/redis/go-redis/v9"
)

const (
	suggestionLimit    = 10
	suggestionCacheTTL = 5 * time.Minute
)

type ISuggestionService interface {
	SuggestInstitutes(ctx context.Context, category, prefix string) (*dto.InstitutesResponse, error)
	SuggestStates(ctx context.Context, category, prefix string) (*dto.StatesResponse, error)
	SuggestDistricts(ctx context.Context, category, state, prefix string) (*dto.DistrictsResponse, error)
	DepartmentsForInstitute(ctx context.Context, institute, category string) (*dto.DepartmentsResponse, error)
	InvalidateCategory(ctx context.Context, category string) error
}

// suggestionService answers prefix lookups against the distinct facet values
// actually stored on approved notes. Results sit in Redis for a short TTL;
// when Redis is down every lookup falls through to the database.
type suggestionService struct {
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewSuggestionService(
	uowFactory unitofwork.RepositoryFactory,
	rdb *redis.Client,
	logger logger.ILogger,
) ISuggestionService {
	return &suggestionService{
		uowFactory: uowFactory,
		rdb:        rdb,
		logger:     logger,
	}
}

func (ss *suggestionService) SuggestInstitutes(ctx context.Context, category, prefix string) (*dto.InstitutesResponse, error) {
	// Empty prefix never reaches the database.
	if strings.TrimSpace(prefix) == "" || !validCategory(category) {
		return &dto.InstitutesResponse{Institutes: []string{}}, nil
	}

	values, err := ss.cached(ctx, ss.cacheKey(facet.NameInstitute, category, "", prefix), func() ([]string, error) {
		uow := ss.uowFactory.NewUnitOfWork(ctx)
		return uow.NoteRepository().DistinctInstitutes(ctx, category, prefix, suggestionLimit)
	})
	if err != nil {
		return nil, err
	}
	return &dto.InstitutesResponse{Institutes: values}, nil
}

func (ss *suggestionService) SuggestStates(ctx context.Context, category, prefix string) (*dto.StatesResponse, error) {
	if strings.TrimSpace(prefix) == "" || !validCategory(category) {
		return &dto.StatesResponse{States: []string{}}, nil
	}

	values, err := ss.cached(ctx, ss.cacheKey(facet.NameState, category, "", prefix), func() ([]string, error) {
		uow := ss.uowFactory.NewUnitOfWork(ctx)
		return uow.NoteRepository().DistinctStates(ctx, category, prefix, suggestionLimit)
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatesResponse{States: values}, nil
}

func (ss *suggestionService) SuggestDistricts(ctx context.Context, category, state, prefix string) (*dto.DistrictsResponse, error) {
	// District depends on state: no parent, no lookup.
	if strings.TrimSpace(prefix) == "" || strings.TrimSpace(state) == "" || !validCategory(category) {
		return &dto.DistrictsResponse{Districts: []string{}}, nil
	}

	values, err := ss.cached(ctx, ss.cacheKey(facet.NameDistrict, category, state, prefix), func() ([]string, error) {
		uow := ss.uowFactory.NewUnitOfWork(ctx)
		return uow.NoteRepository().DistinctDistricts(ctx, category, state, prefix, suggestionLimit)
	})
	if err != nil {
		return nil, err
	}
	return &dto.DistrictsResponse{Districts: values}, nil
}

func (ss *suggestionService) DepartmentsForInstitute(ctx context.Context, institute, category string) (*dto.DepartmentsResponse, error) {
	if strings.TrimSpace(institute) == "" || !validCategory(category) {
		return &dto.DepartmentsResponse{Departments: []string{}}, nil
	}

	values, err := ss.cached(ctx, ss.cacheKey(facet.NameDepartment, category, institute, ""), func() ([]string, error) {
		uow := ss.uowFactory.NewUnitOfWork(ctx)
		return uow.NoteRepository().DistinctDepartments(ctx, institute, category)
	})
	if err != nil {
		return nil, err
	}
	return &dto.DepartmentsResponse{Departments: values}, nil
}

func (ss *suggestionService) InvalidateCategory(ctx context.Context, category string) error {
	if ss.rdb == nil {
		return nil
	}

	pattern := fmt.Sprintf("suggest:*:%s:*", strings.ToLower(category))
	iter := ss.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return ss.rdb.Del(ctx, keys...).Err()
}

func validCategory(category string) bool {
	_, ok := facet.ParseCategory(category)
	return ok
}

func (ss *suggestionService) cacheKey(name, category, parent, prefix string) string {
	return fmt.Sprintf("suggest:%s:%s:%s:%s",
		name,
		strings.ToLower(category),
		strings.ToLower(strings.TrimSpace(parent)),
		strings.ToLower(strings.TrimSpace(prefix)),
	)
}

// cached wraps a database lookup with the Redis read-through. Cache failures
// only get logged; the caller still receives fresh data.
func (ss *suggestionService) cached(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	if ss.rdb != nil {
		raw, err := ss.rdb.Get(ctx, key).Result()
		if err == nil {
			var values []string
			if err := json.Unmarshal([]byte(raw), &values); err == nil {
				return values, nil
			}
		} else if err != redis.Nil {
			ss.logger.Warn("suggestion", "redis read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	values, err := load()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}

	if ss.rdb != nil {
		if raw, err := json.Marshal(values); err == nil {
			if err := ss.rdb.Set(ctx, key, raw, suggestionCacheTTL).Err(); err != nil {
				ss.logger.Warn("suggestion", "redis write failed", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}
	return values, nil
}
