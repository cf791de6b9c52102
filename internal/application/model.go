package application

import (
	"time"

	"github.com/jobdeck/job-board/internal/user"
)

const StatusPending = "pending"

// Note is a free-form remark a recruiter attaches while reviewing an
// application.
type Note struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job"`
	ApplicantID string    `json:"applicant"`
	Resume      string    `json:"resume"`
	CoverLetter string    `json:"coverLetter"`
	Status      string    `json:"status"`
	Notes       []Note    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	TimeAgo     string    `json:"timeAgo,omitempty"`
}

// JobSummary is the shallow job projection embedded in a job seeker's
// application listing.
type JobSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// ApplicantSummary is the shallow applicant projection shown to the
// recruiter who owns the job. It never carries credentials.
type ApplicantSummary struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Skills  []string     `json:"skills,omitempty"`
	Profile user.Profile `json:"profile"`
}

type ApplicationWithJob struct {
	Application
	Job JobSummary `json:"job"`
}

type ApplicationWithApplicant struct {
	Application
	Applicant ApplicantSummary `json:"applicant"`
}
