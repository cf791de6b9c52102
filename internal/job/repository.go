package job

import (
	"database/sql"

	"github.com/dustin/go-humanize"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) Create(j *Job) error {
	_, err := r.db.Exec(
		`INSERT INTO job (id, title, company, location, description, slug, posted_by, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		j.ID, j.Title, j.Company, j.Location, j.Description, j.Slug, j.PostedByID, j.IsActive, j.CreatedAt,
	)
	return err
}

// ActiveJobsWithPoster is the public listing: active jobs only, owner
// projection attached, newest first.
func (r *Repository) ActiveJobsWithPoster() ([]*JobWithPoster, error) {
	jobs := []*JobWithPoster{}
	rows, err := r.db.Query(
		`SELECT j.id, j.title, j.company, j.location, j.description, j.slug, j.posted_by, j.is_active, j.created_at,
			u.name, u.company
		FROM job j
		LEFT JOIN users u ON u.id = j.posted_by
		WHERE j.is_active = TRUE
		ORDER BY j.created_at DESC`)
	if err != nil {
		return jobs, err
	}
	defer rows.Close()
	for rows.Next() {
		j, err := scanJobWithPoster(rows)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *Repository) JobsByPoster(posterID string) ([]*Job, error) {
	jobs := []*Job{}
	rows, err := r.db.Query(
		`SELECT id, title, company, location, description, slug, posted_by, is_active, created_at
		FROM job
		WHERE posted_by = $1
		ORDER BY created_at DESC`, posterID)
	if err != nil {
		return jobs, err
	}
	defer rows.Close()
	for rows.Next() {
		j := &Job{}
		err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Slug, &j.PostedByID, &j.IsActive, &j.CreatedAt)
		if err != nil {
			return jobs, err
		}
		j.TimeAgo = humanize.Time(j.CreatedAt.UTC())
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *Repository) GetByID(id string) (*Job, error) {
	j := &Job{}
	row := r.db.QueryRow(
		`SELECT id, title, company, location, description, slug, posted_by, is_active, created_at
		FROM job WHERE id = $1`, id)
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Slug, &j.PostedByID, &j.IsActive, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	j.TimeAgo = humanize.Time(j.CreatedAt.UTC())
	return j, nil
}

func (r *Repository) GetByIDWithPoster(id string) (*JobWithPoster, error) {
	row := r.db.QueryRow(
		`SELECT j.id, j.title, j.company, j.location, j.description, j.slug, j.posted_by, j.is_active, j.created_at,
			u.name, u.company
		FROM job j
		LEFT JOIN users u ON u.id = j.posted_by
		WHERE j.id = $1`, id)
	return scanJobWithPoster(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJobWithPoster(row rowScanner) (*JobWithPoster, error) {
	j := &JobWithPoster{}
	var posterName, posterCompany sql.NullString
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Slug, &j.PostedByID, &j.IsActive, &j.CreatedAt,
		&posterName, &posterCompany,
	)
	if err != nil {
		return nil, err
	}
	j.PostedBy = Poster{Name: posterName.String, Company: posterCompany.String}
	j.TimeAgo = humanize.Time(j.CreatedAt.UTC())
	return j, nil
}
