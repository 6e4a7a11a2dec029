package domain

import (
	"strings"
	"time"
)

// Job is a job posting. ID is assigned by the store on create.
type Job struct {
	ID          string    `json:"_id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Company     string    `json:"company" db:"company"`
	Location    string    `json:"location" db:"location"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate reports every missing required field at once
func (j *Job) Validate() error {
	var problems []string
	for _, f := range []struct {
		label string
		value string
	}{
		{"Title", j.Title},
		{"Description", j.Description},
		{"Company", j.Company},
		{"Location", j.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.label+" is required")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// JobPatch carries the fields of an update. Nil fields keep their stored value.
type JobPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
}

// Validate rejects fields that are present but blank
func (p *JobPatch) Validate() error {
	var problems []string
	for _, f := range []struct {
		label string
		value *string
	}{
		{"Title", p.Title},
		{"Description", p.Description},
		{"Company", p.Company},
		{"Location", p.Location},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			problems = append(problems, f.label+" is required")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Apply copies the present fields onto j
func (p *JobPatch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
}

// JobPage selects a window of the job list, newest first
type JobPage struct {
	Size   int
	Cursor *JobCursor
}

// JobCursor is the position of the last job on the previous page
type JobCursor struct {
	CreatedAt time.Time
	ID        string
}
