package user

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lib/pq"
)

// ErrEmailTaken is returned on registration when the email already exists.
var ErrEmailTaken = errors.New("email already registered")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) Create(u *User) error {
	profileJSON, err := json.Marshal(u.Profile)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO users (id, name, email, password_hash, role, company, skills, profile, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Company, pq.Array(u.Skills), profileJSON, u.CreatedAt,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return ErrEmailTaken
	}
	return err
}

func (r *Repository) GetByID(id string) (User, error) {
	row := r.db.QueryRow(
		`SELECT id, name, email, password_hash, role, company, skills, profile, created_at
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *Repository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(
		`SELECT id, name, email, password_hash, role, company, skills, profile, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *Repository) UpdateRecruiterProfile(id, name, email, company string) (User, error) {
	_, err := r.db.Exec(
		`UPDATE users SET name = $2, email = $3, company = NULLIF($4, '') WHERE id = $1`,
		id, name, email, company,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, err
	}
	return r.GetByID(id)
}

func (r *Repository) UpdateJobSeekerProfile(id, name, email string, skills []string, profile Profile) (User, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return User{}, err
	}
	_, err = r.db.Exec(
		`UPDATE users SET name = $2, email = $3, skills = $4, profile = $5 WHERE id = $1`,
		id, name, email, pq.Array(skills), profileJSON,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, err
	}
	return r.GetByID(id)
}

func (r *Repository) UpdatePassword(id, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

func scanUser(row *sql.Row) (User, error) {
	u := User{}
	var company sql.NullString
	var profileJSON []byte
	var createdAt time.Time
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &company, pq.Array(&u.Skills), &profileJSON, &createdAt); err != nil {
		return u, err
	}
	u.Company = company.String
	u.CreatedAt = createdAt
	u.CreatedAtHumanised = humanize.Time(createdAt.UTC())
	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &u.Profile); err != nil {
			return u, err
		}
	}
	return u, nil
}
