package entity

import "time"

// Job is a posting created by a recruiter.
// Salary is expressed in LPA, ExperienceLevel in years.
type Job struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Requirements    []string  `json:"requirements"`
	Salary          float64   `json:"salary"`
	Location        string    `json:"location"`
	JobType         string    `json:"jobType"`
	ExperienceLevel int       `json:"experienceLevel"`
	Position        int       `json:"position"`
	CompanyName     string    `json:"companyName"`
	CreatedBy       string    `json:"created_by"`
	Applications    []string  `json:"applications"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
