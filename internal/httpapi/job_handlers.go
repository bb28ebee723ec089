package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextjob/nextjob/internal/job"
)

type salaryRequest struct {
	Frequency job.SalaryFrequency `json:"frequency" binding:"required,oneof=MONTHLY YEARLY"`
	Amount    float64             `json:"amount" binding:"required,gt=0"`
}

type companyRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Logo     string `json:"logo" binding:"required,url"`
	Location string `json:"location" binding:"required,min=2"`
}

type jobRequest struct {
	Title          string             `json:"title" binding:"required,min=3"`
	Description    string             `json:"description" binding:"required,min=10"`
	Category       string             `json:"category" binding:"required,min=3"`
	WorkplaceType  job.WorkplaceType  `json:"workplaceType" binding:"required,oneof=REMOTE HYBRID ONSITE"`
	EmploymentType job.EmploymentType `json:"employmentType" binding:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP FREELANCE"`
	Skills         []string           `json:"skills" binding:"required,min=1,dive,required"`
	Salary         salaryRequest      `json:"salary" binding:"required"`
	Company        companyRequest     `json:"company" binding:"required"`
}

func (r jobRequest) input() job.Input {
	return job.Input{
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		WorkplaceType:  r.WorkplaceType,
		EmploymentType: r.EmploymentType,
		Skills:         r.Skills,
		Salary:         job.Salary{Frequency: r.Salary.Frequency, Amount: r.Salary.Amount},
		Company:        job.Company{Name: r.Company.Name, Logo: r.Company.Logo, Location: r.Company.Location},
	}
}

func (a *API) listJobs(c *gin.Context) {
	listings, err := a.jobs.List(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Jobs fetched successfully", listings)
}

func (a *API) jobByID(c *gin.Context) {
	listing, err := a.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Job fetched successfully", listing)
}

func (a *API) createJob(c *gin.Context) {
	var req jobRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := a.jobs.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Job created successfully", created)
}

func (a *API) updateJob(c *gin.Context) {
	var req jobRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := a.jobs.Update(c.Request.Context(), c.Param("id"), currentUser(c).ID, req.input())
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Job updated successfully", updated)
}

func (a *API) deleteJob(c *gin.Context) {
	deleted, err := a.jobs.Delete(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Job deleted successfully", deleted)
}

func (a *API) employerJobs(c *gin.Context) {
	jobs, err := a.jobs.ByEmployer(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Jobs fetched successfully", jobs)
}

func (a *API) appliedJobs(c *gin.Context) {
	listings, err := a.jobs.AppliedBy(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Jobs fetched successfully", listings)
}

func (a *API) applyToJob(c *gin.Context) {
	applied, err := a.jobs.Apply(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Applied to job successfully", applied)
}

func (a *API) jobApplicants(c *gin.Context) {
	applicants, err := a.jobs.Applicants(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Applicants fetched successfully", applicants)
}
