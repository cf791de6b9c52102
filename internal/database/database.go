package database

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Table Structure:
//
// CREATE TABLE IF NOT EXISTS users (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	name VARCHAR(255) NOT NULL,
// 	email VARCHAR(255) NOT NULL UNIQUE,
// 	password_hash VARCHAR(255) NOT NULL,
// 	role VARCHAR(20) NOT NULL,
// 	company VARCHAR(255),
// 	skills TEXT[] NOT NULL DEFAULT '{}',
// 	profile JSONB NOT NULL DEFAULT '{}',
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );

// CREATE TABLE IF NOT EXISTS job (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	title VARCHAR(255) NOT NULL,
// 	company VARCHAR(255) NOT NULL,
// 	location VARCHAR(255) NOT NULL,
// 	description TEXT NOT NULL,
// 	slug VARCHAR(255) NOT NULL,
// 	posted_by CHAR(27) NOT NULL REFERENCES users (id),
// 	is_active BOOLEAN NOT NULL DEFAULT TRUE,
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX job_posted_by_idx ON job (posted_by);
// CREATE INDEX job_is_active_created_at_idx ON job (is_active, created_at DESC);

// CREATE TABLE IF NOT EXISTS application (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	job_id CHAR(27) NOT NULL REFERENCES job (id),
// 	applicant_id CHAR(27) NOT NULL REFERENCES users (id),
// 	resume VARCHAR(512) NOT NULL,
// 	cover_letter VARCHAR(512) NOT NULL,
// 	status VARCHAR(20) NOT NULL DEFAULT 'pending',
// 	notes JSONB NOT NULL DEFAULT '[]',
// 	created_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX application_job_id_idx ON application (job_id);
// CREATE INDEX application_applicant_id_idx ON application (applicant_id);
//
// NOTE: there is deliberately no unique index on (job_id, applicant_id).
// Duplicate applications are rejected by an existence check before insert,
// which leaves a window for concurrent duplicates. Known defect, kept until
// the intended guarantee is confirmed.

func GetDbConn(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open db conn")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "unable to ping db")
	}
	return db, nil
}

func CloseDbConn(conn *sql.DB) {
	conn.Close()
}
