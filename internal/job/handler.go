package job

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jobdeck/job-board/internal/application"
	"github.com/jobdeck/job-board/internal/middleware"
	"github.com/jobdeck/job-board/internal/server"
	"github.com/jobdeck/job-board/internal/upload"
	"github.com/jobdeck/job-board/internal/user"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/segmentio/ksuid"
)

// limits each apply request to resume + cover letter at 5mb each
const maxApplyUploadSize = 2 * 5 * 1024 * 1024

// JobStore is the subset of Repository the handlers need.
type JobStore interface {
	Create(j *Job) error
	ActiveJobsWithPoster() ([]*JobWithPoster, error)
	JobsByPoster(posterID string) ([]*Job, error)
	GetByID(id string) (*Job, error)
	GetByIDWithPoster(id string) (*JobWithPoster, error)
}

type ApplicationStore interface {
	Create(a *application.Application) error
	ExistsForJobAndApplicant(jobID, applicantID string) (bool, error)
	CountByJobIDs(jobIDs []string) (map[string]int, error)
	ApplicationsForJob(jobID string) ([]*application.ApplicationWithApplicant, error)
}

type UserStore interface {
	GetByID(id string) (user.User, error)
}

func CreateJobHandler(svr server.Server, jobRepo JobStore) http.HandlerFunc {
	sanitiser := bluemonday.StrictPolicy()
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		req := JobRq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Title = strings.TrimSpace(sanitiser.Sanitize(req.Title))
		req.Company = strings.TrimSpace(sanitiser.Sanitize(req.Company))
		req.Location = strings.TrimSpace(sanitiser.Sanitize(req.Location))
		req.Description = strings.TrimSpace(sanitiser.Sanitize(req.Description))
		if req.Title == "" || req.Company == "" || req.Location == "" || req.Description == "" {
			svr.MessageJSON(w, http.StatusBadRequest, "Title, company, location and description are required")
			return
		}
		jobID, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate job id")
			svr.MessageJSON(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		j := &Job{
			ID:          jobID.String(),
			Title:       req.Title,
			Company:     req.Company,
			Location:    req.Location,
			Description: req.Description,
			Slug:        slug.Make(req.Title + " " + req.Company),
			PostedByID:  userID,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := jobRepo.Create(j); err != nil {
			svr.Log(err, "unable to create job")
			svr.MessageJSON(w, http.StatusBadRequest, "Failed to create job")
			return
		}
		if err := svr.CacheDelete(server.CacheKeyActiveJobs); err != nil {
			svr.Log(err, "unable to invalidate active jobs cache")
		}
		svr.JSON(w, http.StatusCreated, j)
	}
}

// ListJobsHandler is the public listing of active jobs, cached until the
// next job is created.
func ListJobsHandler(svr server.Server, jobRepo JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var jobs []*JobWithPoster
		cached, ok := svr.CacheGet(server.CacheKeyActiveJobs)
		if ok {
			dec := gob.NewDecoder(bytes.NewReader(cached))
			if err := dec.Decode(&jobs); err != nil {
				svr.Log(err, "unable to decode cached active jobs")
				jobs = nil
			}
		}
		if jobs == nil {
			var err error
			jobs, err = jobRepo.ActiveJobsWithPoster()
			if err != nil {
				svr.Log(err, "unable to fetch active jobs")
				svr.MessageJSON(w, http.StatusInternalServerError, "Server error")
				return
			}
			buf := &bytes.Buffer{}
			if err := gob.NewEncoder(buf).Encode(jobs); err != nil {
				svr.Log(err, "unable to encode active jobs")
			} else if err := svr.CacheSet(server.CacheKeyActiveJobs, buf.Bytes()); err != nil {
				svr.Log(err, "unable to cache active jobs")
			}
		}
		svr.JSON(w, http.StatusOK, jobs)
	}
}

// MyJobsHandler lists the caller's jobs with per-job application counts.
func MyJobsHandler(svr server.Server, jobRepo JobStore, applicationRepo ApplicationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		jobs, err := jobRepo.JobsByPoster(userID)
		if err != nil {
			svr.Log(err, "unable to fetch jobs for poster")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to fetch your jobs")
			return
		}
		jobIDs := make([]string, 0, len(jobs))
		for _, j := range jobs {
			jobIDs = append(jobIDs, j.ID)
		}
		counts, err := applicationRepo.CountByJobIDs(jobIDs)
		if err != nil {
			svr.Log(err, "unable to count applications by job")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to fetch your jobs")
			return
		}
		out := make([]JobWithApplicationCount, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, JobWithApplicationCount{Job: *j, ApplicationCount: counts[j.ID]})
		}
		svr.JSON(w, http.StatusOK, out)
	}
}

// JobApplicationsHandler lists applicants for a job, restricted to the
// recruiter who posted it.
func JobApplicationsHandler(svr server.Server, jobRepo JobStore, applicationRepo ApplicationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		jobID := mux.Vars(r)["id"]
		j, err := jobRepo.GetByID(jobID)
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusNotFound, "Job not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch job for applicants listing")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to fetch applicants")
			return
		}
		if j.PostedByID != userID {
			svr.MessageJSON(w, http.StatusForbidden, "Not authorized to view applicants for this job")
			return
		}
		applications, err := applicationRepo.ApplicationsForJob(jobID)
		if err != nil {
			svr.Log(err, "unable to fetch applications for job")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to fetch applicants")
			return
		}
		svr.JSON(w, http.StatusOK, applications)
	}
}

// ApplyToJobHandler accepts a multipart application (resume + cover
// letter), persists both files and records the application. Files hit
// disk before the insert; a crash in between leaves an orphaned file.
func ApplyToJobHandler(svr server.Server, jobRepo JobStore, applicationRepo ApplicationStore, userRepo UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			svr.MessageJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}
		jobID := mux.Vars(r)["id"]
		r.Body = http.MaxBytesReader(w, r.Body, maxApplyUploadSize)

		j, err := jobRepo.GetByID(jobID)
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusNotFound, "Job not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch job for apply")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to apply for job")
			return
		}
		exists, err := applicationRepo.ExistsForJobAndApplicant(jobID, userID)
		if err != nil {
			svr.Log(err, "unable to check for existing application")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to apply for job")
			return
		}
		if exists {
			svr.MessageJSON(w, http.StatusBadRequest, "You have already applied for this job")
			return
		}

		resume, resumeHeader, err := r.FormFile("resume")
		if err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Both resume and cover letter are required")
			return
		}
		defer resume.Close()
		coverLetter, coverLetterHeader, err := r.FormFile("coverLetter")
		if err != nil {
			svr.MessageJSON(w, http.StatusBadRequest, "Both resume and cover letter are required")
			return
		}
		defer coverLetter.Close()

		uploadDir := svr.GetConfig().UploadDir
		resumeName, err := upload.Save(uploadDir, resumeHeader)
		if err != nil {
			svr.Log(err, "unable to store resume")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to apply for job")
			return
		}
		coverLetterName, err := upload.Save(uploadDir, coverLetterHeader)
		if err != nil {
			svr.Log(err, "unable to store cover letter")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to apply for job")
			return
		}

		applicationID, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate application id")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to apply for job")
			return
		}
		a := &application.Application{
			ID:          applicationID.String(),
			JobID:       jobID,
			ApplicantID: userID,
			Resume:      resumeName,
			CoverLetter: coverLetterName,
			Status:      application.StatusPending,
			Notes:       []application.Note{},
			CreatedAt:   time.Now().UTC(),
		}
		if err := applicationRepo.Create(a); err != nil {
			svr.Log(err, "unable to save application")
			svr.MessageJSON(w, http.StatusInternalServerError, "Failed to apply for job")
			return
		}

		if svr.GetEmail().Enabled() {
			notifyJobOwner(svr, userRepo, j, userID)
		}

		svr.MessageJSON(w, http.StatusCreated, "Application submitted successfully")
	}
}

func notifyJobOwner(svr server.Server, userRepo UserStore, j *Job, applicantID string) {
	owner, err := userRepo.GetByID(j.PostedByID)
	if err != nil {
		svr.Log(err, "unable to fetch job owner for notification")
		return
	}
	applicant, err := userRepo.GetByID(applicantID)
	if err != nil {
		svr.Log(err, "unable to fetch applicant for notification")
		return
	}
	if err := svr.GetEmail().SendApplicationNotification(owner.Name, owner.Email, applicant.Name, j.Title); err != nil {
		svr.Log(err, "unable to send application notification")
	}
}

// GetJobHandler is the public job detail endpoint.
func GetJobHandler(svr server.Server, jobRepo JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := jobRepo.GetByIDWithPoster(mux.Vars(r)["id"])
		if err == sql.ErrNoRows {
			svr.MessageJSON(w, http.StatusNotFound, "Job not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to fetch job")
			svr.MessageJSON(w, http.StatusInternalServerError, "Server error")
			return
		}
		svr.JSON(w, http.StatusOK, j)
	}
}
