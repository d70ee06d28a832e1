package model

// Lead is a structured prospect record produced by the extraction oracle or
// an upstream research producer. Website is required; identity for dedup is
// the normalized registrable domain of Website.
type Lead struct {
	Website         string         `json:"website"`
	DetailedSummary string         `json:"detailed_summary"`
	Rationale       string         `json:"rationale"`
	Tier            string         `json:"tier,omitempty"`
	MetaData        map[string]any `json:"meta_data,omitempty"`
	EmailTemplate   string         `json:"email_template,omitempty"`
}

// LeadCollection is an ordered set of leads. After merging, insertion order
// is first-seen order among survivors and no two entries share a domain key,
// except leads whose website could not be normalized — those are always kept.
type LeadCollection []Lead

// LivenessVerdict is the per-domain outcome of the liveness strategies.
// IsActive is derived by the validator, never set by an individual probe.
type LivenessVerdict struct {
	DNSResolves    bool   `json:"dns_resolves"`
	HTTPReachable  bool   `json:"http_reachable"`
	HTTPSReachable bool   `json:"https_reachable"`
	TLSValid       bool   `json:"tls_valid"`
	IsActive       bool   `json:"is_active"`
	Error          string `json:"error,omitempty"`
}

// ContentCheckResult is the per-domain outcome of content verification.
// Exactly one of Success (content fields populated) or !Success (Error
// populated) holds.
type ContentCheckResult struct {
	Domain      string `json:"domain"`
	Success     bool   `json:"success"`
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}
