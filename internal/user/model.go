package user

import "time"

const (
	RoleRecruiter = "recruiter"
	RoleJobSeeker = "job_seeker"
)

func ValidRole(role string) bool {
	return role == RoleRecruiter || role == RoleJobSeeker
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	From        string `json:"from"`
	To          string `json:"to"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type Profile struct {
	Bio        string       `json:"bio"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               string    `json:"role"`
	Company            string    `json:"company,omitempty"`
	Skills             []string  `json:"skills,omitempty"`
	Profile            Profile   `json:"profile"`
	CreatedAt          time.Time `json:"createdAt"`
	CreatedAtHumanised string    `json:"-"`
}
