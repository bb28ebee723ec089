// Package job implements the job-posting collaborator surface. It consumes
// only the authenticated identity (id, role) from the auth subsystem and
// never calls into auth internals.
package job

import (
	"errors"
	"time"

	"github.com/nextjob/nextjob/internal/store"
)

var (
	// ErrJobNotFound covers both a missing job and a job the caller does
	// not own; mutating endpoints do not reveal which.
	ErrJobNotFound = errors.New("job: not found")
	// ErrAlreadyApplied reports a duplicate application by the same user.
	ErrAlreadyApplied = errors.New("job: already applied")
)

// WorkplaceType enumerates where the work happens.
type WorkplaceType string

const (
	Remote WorkplaceType = "REMOTE"
	Hybrid WorkplaceType = "HYBRID"
	Onsite WorkplaceType = "ONSITE"
)

// EmploymentType enumerates the engagement model.
type EmploymentType string

const (
	FullTime   EmploymentType = "FULL_TIME"
	PartTime   EmploymentType = "PART_TIME"
	Contract   EmploymentType = "CONTRACT"
	Internship EmploymentType = "INTERNSHIP"
	Freelance  EmploymentType = "FREELANCE"
)

// SalaryFrequency enumerates the pay period.
type SalaryFrequency string

const (
	Monthly SalaryFrequency = "MONTHLY"
	Yearly  SalaryFrequency = "YEARLY"
)

// Salary is the advertised compensation.
type Salary struct {
	Frequency SalaryFrequency `json:"frequency"`
	Amount    float64         `json:"amount"`
}

// Company describes the posting organization.
type Company struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Location string `json:"location"`
}

// Job is the persisted posting document.
type Job struct {
	ID                string         `json:"_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	WorkplaceType     WorkplaceType  `json:"workplaceType"`
	EmploymentType    EmploymentType `json:"employmentType"`
	Skills            []string       `json:"skills"`
	Salary            Salary         `json:"salary"`
	Company           Company        `json:"company"`
	EmployerID        string         `json:"employerId"`
	AppliedCandidates []string       `json:"appliedCandidates"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Employer is the sanitized posting-owner summary joined into listings.
type Employer struct {
	ID    string     `json:"_id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  store.Role `json:"role"`
}

// Listing is a job with its employer summary resolved.
type Listing struct {
	*Job
	Employer *Employer `json:"employer,omitempty"`
}
