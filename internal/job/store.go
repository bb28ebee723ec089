package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nextjob/nextjob/internal/store"
)

const (
	jobKeyPrefix      = "job:"
	jobsByCreatedKey  = "jobs:created"
	employerKeyPrefix = "jobs:employer:"
	appliedKeyPrefix  = "jobs:applied:"
)

// Store keeps job documents plus the indexes used by the listing and
// per-user views: a creation-ordered ZSET and per-employer/per-candidate
// SETs.
type Store struct {
	rdb redis.UniversalClient
	now func() time.Time
}

// NewStore builds a job Store on the given Redis client.
func NewStore(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

func jobKey(id string) string { return jobKeyPrefix + id }

func employerKey(id string) string { return employerKeyPrefix + id }

func appliedKey(id string) string { return appliedKeyPrefix + id }

// Create persists the job document and its index entries.
func (s *Store) Create(ctx context.Context, j *Job) error {
	encoded, err := json.Marshal(j)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, jobKey(j.ID), encoded, 0)
		pipe.ZAdd(ctx, jobsByCreatedKey, redis.Z{
			Score:  float64(j.CreatedAt.UnixMilli()),
			Member: j.ID,
		})
		pipe.SAdd(ctx, employerKey(j.EmployerID), j.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// GetByID fetches a job document.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	data, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return &j, nil
}

// Save rewrites an existing document in place. Index entries are keyed by
// immutable fields (id, employer), so none of them move on update.
func (s *Store) Save(ctx context.Context, j *Job) error {
	encoded, err := json.Marshal(j)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, jobKey(j.ID), encoded, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Delete removes the document and every index entry pointing at it.
func (s *Store) Delete(ctx context.Context, j *Job) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, jobKey(j.ID))
		pipe.ZRem(ctx, jobsByCreatedKey, j.ID)
		pipe.SRem(ctx, employerKey(j.EmployerID), j.ID)
		for _, candidate := range j.AppliedCandidates {
			pipe.SRem(ctx, appliedKey(candidate), j.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// List returns every job, newest first.
func (s *Store) List(ctx context.Context) ([]*Job, error) {
	ids, err := s.rdb.ZRevRange(ctx, jobsByCreatedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return s.fetch(ctx, ids)
}

// ByEmployer returns the jobs posted by the given user, newest first.
func (s *Store) ByEmployer(ctx context.Context, employerID string) ([]*Job, error) {
	return s.fetchSet(ctx, employerKey(employerID))
}

// AppliedBy returns the jobs the given user applied to, newest first.
func (s *Store) AppliedBy(ctx context.Context, userID string) ([]*Job, error) {
	return s.fetchSet(ctx, appliedKey(userID))
}

// RecordApplication appends userID to the job's candidate list and indexes
// the application for the per-user view.
func (s *Store) RecordApplication(ctx context.Context, j *Job, userID string) error {
	j.AppliedCandidates = append(j.AppliedCandidates, userID)
	j.UpdatedAt = s.now().UTC()

	encoded, err := json.Marshal(j)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, jobKey(j.ID), encoded, 0)
		pipe.SAdd(ctx, appliedKey(userID), j.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) fetchSet(ctx context.Context, key string) ([]*Job, error) {
	ids, err := s.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	jobs, err := s.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (s *Store) fetch(ctx context.Context, ids []string) ([]*Job, error) {
	if len(ids) == 0 {
		return []*Job{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = jobKey(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	jobs := make([]*Job, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var j Job
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, nil
}

func sortNewestFirst(jobs []*Job) {
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
}
