package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nextjob/nextjob/internal/store"
)

// Input carries the validated fields of a create or update request.
type Input struct {
	Title          string
	Description    string
	Category       string
	WorkplaceType  WorkplaceType
	EmploymentType EmploymentType
	Skills         []string
	Salary         Salary
	Company        Company
}

// Service applies ownership rules on top of the Store and joins employer
// and applicant summaries from the credential store.
type Service struct {
	jobs  *Store
	users *store.UserStore
	now   func() time.Time
}

// NewService builds the job service.
func NewService(jobs *Store, users *store.UserStore) *Service {
	return &Service{jobs: jobs, users: users, now: time.Now}
}

// Create persists a new posting owned by employerID.
func (s *Service) Create(ctx context.Context, employerID string, in Input) (*Job, error) {
	now := s.now().UTC()
	j := &Job{
		ID:                uuid.NewString(),
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		WorkplaceType:     in.WorkplaceType,
		EmploymentType:    in.EmploymentType,
		Skills:            in.Skills,
		Salary:            in.Salary,
		Company:           in.Company,
		EmployerID:        employerID,
		AppliedCandidates: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Get returns a single posting with its employer summary.
func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.listing(ctx, j), nil
}

// Update rewrites a posting. A job that does not exist and a job owned by
// someone else fail identically with ErrJobNotFound.
func (s *Service) Update(ctx context.Context, id, employerID string, in Input) (*Job, error) {
	j, err := s.owned(ctx, id, employerID)
	if err != nil {
		return nil, err
	}

	j.Title = in.Title
	j.Description = in.Description
	j.Category = in.Category
	j.WorkplaceType = in.WorkplaceType
	j.EmploymentType = in.EmploymentType
	j.Skills = in.Skills
	j.Salary = in.Salary
	j.Company = in.Company
	j.UpdatedAt = s.now().UTC()

	if err := s.jobs.Save(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Delete removes a posting the caller owns.
func (s *Service) Delete(ctx context.Context, id, employerID string) (*Job, error) {
	j, err := s.owned(ctx, id, employerID)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Delete(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// List returns every posting, newest first, employer summaries joined.
func (s *Service) List(ctx context.Context) ([]*Listing, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.listings(ctx, jobs), nil
}

// ByEmployer returns the caller's own postings.
func (s *Service) ByEmployer(ctx context.Context, employerID string) ([]*Job, error) {
	return s.jobs.ByEmployer(ctx, employerID)
}

// AppliedBy returns the postings the caller applied to.
func (s *Service) AppliedBy(ctx context.Context, userID string) ([]*Listing, error) {
	jobs, err := s.jobs.AppliedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.listings(ctx, jobs), nil
}

// Apply records userID as a candidate on the posting, once.
func (s *Service) Apply(ctx context.Context, id, userID string) (*Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, candidate := range j.AppliedCandidates {
		if candidate == userID {
			return nil, ErrAlreadyApplied
		}
	}
	if err := s.jobs.RecordApplication(ctx, j, userID); err != nil {
		return nil, err
	}
	return j, nil
}

// Applicants returns the sanitized profiles of everyone who applied to a
// posting the caller owns.
func (s *Service) Applicants(ctx context.Context, id, employerID string) ([]*store.User, error) {
	j, err := s.owned(ctx, id, employerID)
	if err != nil {
		return nil, err
	}

	applicants := make([]*store.User, 0, len(j.AppliedCandidates))
	for _, candidateID := range j.AppliedCandidates {
		user, err := s.users.GetByID(ctx, candidateID)
		if errors.Is(err, store.ErrUserNotFound) {
			// Account deleted after applying; skip the dangling reference.
			continue
		}
		if err != nil {
			return nil, err
		}
		applicants = append(applicants, user)
	}
	return applicants, nil
}

func (s *Service) owned(ctx context.Context, id, employerID string) (*Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.EmployerID != employerID {
		return nil, ErrJobNotFound
	}
	return j, nil
}

func (s *Service) listing(ctx context.Context, j *Job) *Listing {
	l := &Listing{Job: j}
	if user, err := s.users.GetByID(ctx, j.EmployerID); err == nil {
		l.Employer = &Employer{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	}
	return l
}

func (s *Service) listings(ctx context.Context, jobs []*Job) []*Listing {
	out := make([]*Listing, len(jobs))
	for i, j := range jobs {
		out[i] = s.listing(ctx, j)
	}
	return out
}
