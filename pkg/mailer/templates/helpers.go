package templates

import (
	"time"

	"github.com/oksasatya/job-portal/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

func WithJob(title, company string) Option {
	return func(d *EmailData) {
		d.JobTitle = title
		d.CompanyName = company
	}
}

func WithApplicant(name string) Option {
	return func(d *EmailData) { d.ApplicantName = name }
}

func WithStatus(status string) Option {
	return func(d *EmailData) { d.Status = status }
}

func WithRole(role string) Option {
	return func(d *EmailData) { d.Role = role }
}

// NewBaseEmailData fills the common fields from config, then applies opts
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		AppName:        cfg.AppName,
		FrontendURL:    cfg.FrontendURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email, role string, opts ...Option) map[string]any {
	opts = append([]Option{WithRole(role)}, opts...)
	return ToMap(NewBaseEmailData(cfg, Welcome, name, email, opts...))
}

func NewProfileUpdatedData(cfg *config.Config, name, email string, changes map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ProfileUpdated, name, email, opts...))
}

// NewApplicationReceivedData is sent to the recruiter who owns the job.
func NewApplicationReceivedData(cfg *config.Config, recruiterName, recruiterEmail, applicantName, jobTitle, company string, opts ...Option) map[string]any {
	opts = append([]Option{WithApplicant(applicantName), WithJob(jobTitle, company)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ApplicationReceived, recruiterName, recruiterEmail, opts...))
}

// NewApplicationStatusData is sent to the applicant when a recruiter decides.
func NewApplicationStatusData(cfg *config.Config, name, email, jobTitle, company, status string, opts ...Option) map[string]any {
	opts = append([]Option{WithJob(jobTitle, company), WithStatus(status)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ApplicationStatus, name, email, opts...))
}
