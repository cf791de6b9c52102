package job

import "time"

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	PostedByID  string    `json:"postedBy"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	TimeAgo     string    `json:"timeAgo,omitempty"`
}

// Poster is the shallow owner projection attached to public job reads.
type Poster struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// JobWithPoster shadows the embedded postedBy id with the owner
// projection.
type JobWithPoster struct {
	Job
	PostedBy Poster `json:"postedBy"`
}

// JobWithApplicationCount is the recruiter-facing my-jobs row. Jobs with
// no applications report 0.
type JobWithApplicationCount struct {
	Job
	ApplicationCount int `json:"applicationCount"`
}

type JobRq struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
}
