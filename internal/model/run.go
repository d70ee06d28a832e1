package model

import "time"

// RunResult holds the outcome of a single lead-generation run.
type RunResult struct {
	RunID         string               `json:"run_id"`
	SubjectDomain string               `json:"subject_domain"`
	Keywords      []string             `json:"keywords"`
	Candidates    []string             `json:"candidates"`
	ActiveDomains []string             `json:"active_domains"`
	ContentChecks []ContentCheckResult `json:"content_checks"`
	Leads         LeadCollection       `json:"leads"`
	StartedAt     time.Time            `json:"started_at"`
	FinishedAt    time.Time            `json:"finished_at"`
}
