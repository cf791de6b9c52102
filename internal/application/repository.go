package application

import (
	"database/sql"
	"encoding/json"

	"github.com/dustin/go-humanize"
	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) Create(a *Application) error {
	if a.Notes == nil {
		a.Notes = []Note{}
	}
	notesJSON, err := json.Marshal(a.Notes)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO application (id, job_id, applicant_id, resume, cover_letter, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.JobID, a.ApplicantID, a.Resume, a.CoverLetter, a.Status, notesJSON, a.CreatedAt,
	)
	return err
}

// ExistsForJobAndApplicant is the duplicate-application guard. It is a
// plain read, not a constraint: two concurrent applies can both pass it.
func (r *Repository) ExistsForJobAndApplicant(jobID, applicantID string) (bool, error) {
	var one int
	err := r.db.QueryRow(
		`SELECT 1 FROM application WHERE job_id = $1 AND applicant_id = $2 LIMIT 1`,
		jobID, applicantID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountByJobIDs groups application counts by job id. Jobs with no
// applications are absent from the map.
func (r *Repository) CountByJobIDs(jobIDs []string) (map[string]int, error) {
	counts := map[string]int{}
	if len(jobIDs) == 0 {
		return counts, nil
	}
	rows, err := r.db.Query(
		`SELECT job_id, COUNT(*) FROM application WHERE job_id = ANY($1) GROUP BY job_id`,
		pq.Array(jobIDs),
	)
	if err != nil {
		return counts, err
	}
	defer rows.Close()
	for rows.Next() {
		var jobID string
		var count int
		if err := rows.Scan(&jobID, &count); err != nil {
			return counts, err
		}
		counts[jobID] = count
	}
	return counts, rows.Err()
}

func (r *Repository) ApplicationsForJob(jobID string) ([]*ApplicationWithApplicant, error) {
	applications := []*ApplicationWithApplicant{}
	rows, err := r.db.Query(
		`SELECT a.id, a.job_id, a.applicant_id, a.resume, a.cover_letter, a.status, a.notes, a.created_at,
			u.name, u.email, u.skills, u.profile
		FROM application a
		LEFT JOIN users u ON u.id = a.applicant_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC`, jobID)
	if err != nil {
		return applications, err
	}
	defer rows.Close()
	for rows.Next() {
		a := &ApplicationWithApplicant{}
		var notesJSON, profileJSON []byte
		var name, email sql.NullString
		err := rows.Scan(
			&a.ID, &a.JobID, &a.ApplicantID, &a.Resume, &a.CoverLetter, &a.Status, &notesJSON, &a.CreatedAt,
			&name, &email, pq.Array(&a.Applicant.Skills), &profileJSON,
		)
		if err != nil {
			return applications, err
		}
		if err := unmarshalNotes(notesJSON, &a.Notes); err != nil {
			return applications, err
		}
		a.Applicant.ID = a.ApplicantID
		a.Applicant.Name = name.String
		a.Applicant.Email = email.String
		if len(profileJSON) > 0 {
			if err := json.Unmarshal(profileJSON, &a.Applicant.Profile); err != nil {
				return applications, err
			}
		}
		a.TimeAgo = humanize.Time(a.CreatedAt.UTC())
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

func (r *Repository) ApplicationsForApplicant(applicantID string) ([]*ApplicationWithJob, error) {
	applications := []*ApplicationWithJob{}
	rows, err := r.db.Query(
		`SELECT a.id, a.job_id, a.applicant_id, a.resume, a.cover_letter, a.status, a.notes, a.created_at,
			j.title, j.company, j.location, j.description
		FROM application a
		LEFT JOIN job j ON j.id = a.job_id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC`, applicantID)
	if err != nil {
		return applications, err
	}
	defer rows.Close()
	for rows.Next() {
		a := &ApplicationWithJob{}
		var notesJSON []byte
		var title, company, location, description sql.NullString
		err := rows.Scan(
			&a.ID, &a.JobID, &a.ApplicantID, &a.Resume, &a.CoverLetter, &a.Status, &notesJSON, &a.CreatedAt,
			&title, &company, &location, &description,
		)
		if err != nil {
			return applications, err
		}
		if err := unmarshalNotes(notesJSON, &a.Notes); err != nil {
			return applications, err
		}
		a.Job = JobSummary{
			ID:          a.JobID,
			Title:       title.String,
			Company:     company.String,
			Location:    location.String,
			Description: description.String,
		}
		a.TimeAgo = humanize.Time(a.CreatedAt.UTC())
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

func unmarshalNotes(notesJSON []byte, notes *[]Note) error {
	*notes = []Note{}
	if len(notesJSON) == 0 {
		return nil
	}
	return json.Unmarshal(notesJSON, notes)
}
