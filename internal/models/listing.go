package models

import (
	"time"

	"github.com/lib/pq"
)

// SalaryNotSpecified is stored when a listing is created without a salary.
const SalaryNotSpecified = "Not specified"

// Listing is a single job posting. Owner and PostedAt are fixed at
// creation and never change afterwards.
type Listing struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Company         string         `db:"company" json:"company"`
	Location        string         `db:"location" json:"location"`
	Category        string         `db:"category" json:"category"`
	JobType         string         `db:"job_type" json:"jobType"`
	ExperienceLevel string         `db:"experience_level" json:"experienceLevel"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	RequiredSkills  pq.StringArray `db:"required_skills" json:"requiredSkills"`
	Description     string         `db:"description" json:"description"`
	Salary          string         `db:"salary" json:"salary"`
	PostedAt        time.Time      `db:"posted_at" json:"postedAt"`
	Owner           string         `db:"owner_id" json:"owner"`
}

// ListingInput is the mutable part of a listing as submitted by a
// client. Pointer fields distinguish "absent" from "present but empty"
// so partial updates only touch what the request actually carried.
type ListingInput struct {
	Title           *string  `json:"title"`
	Company         *string  `json:"company"`
	Location        *string  `json:"location"`
	Category        *string  `json:"category"`
	JobType         *string  `json:"jobType"`
	ExperienceLevel *string  `json:"experienceLevel"`
	Tags            []string `json:"tags"`
	RequiredSkills  []string `json:"requiredSkills"`
	Description     *string  `json:"description"`
	Salary          *string  `json:"salary"`
}
