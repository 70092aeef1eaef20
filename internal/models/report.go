package models

// Status is the health tier derived from a score
type Status string

const (
	StatusHealthy  Status = "HEALTHY"
	StatusDegraded Status = "DEGRADED"
	StatusUnstable Status = "UNSTABLE"
	StatusCorrupt  Status = "CORRUPT"
)

// HealthReport is the aggregate output of a health run
type HealthReport struct {
	Score       int            `json:"health_score"`
	Status      Status         `json:"status"`
	RPMCount    int            `json:"rpm_count"`
	UniqueNames int            `json:"unique_names"`
	Duplicates  map[string]int `json:"duplicates"`
	Issues      []string       `json:"issues"`

	// Kernels lists installed kernel versions, newest first. Console only.
	Kernels []string `json:"-"`
}

// ThirdPartyPackage is a package whose vendor is not on the allow-list
type ThirdPartyPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Release string `json:"release"`
	Arch    string `json:"arch"`
	Vendor  string `json:"vendor"`
	NEVRA   string `json:"nevra"`
}

// VendorGroup holds the sorted NEVRAs of one third-party vendor label
type VendorGroup struct {
	Vendor   string
	Packages []string
}

// ProvenanceReport is the aggregate output of a provenance run
type ProvenanceReport struct {
	TotalCount      int                 `json:"total_rpms"`
	ThirdPartyCount int                 `json:"third_party_count"`
	ThirdParty      []ThirdPartyPackage `json:"third_party_packages"`

	// Vendors groups ThirdParty by vendor label in first-seen order
	Vendors []VendorGroup `json:"-"`
}
