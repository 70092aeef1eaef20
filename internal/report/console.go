package report

import (
	"fmt"
	"io"

	"github.com/ralt/rpmaudit/internal/models"
)

// PrintHealth writes the human-readable health summary
func PrintHealth(out io.Writer, r *models.HealthReport) {
	fmt.Fprintln(out, "\n===== RPMDB HEALTH REPORT =====")
	fmt.Fprintf(out, "Health Score : %d\n", r.Score)
	fmt.Fprintf(out, "Status       : %s\n", r.Status)
	fmt.Fprintf(out, "RPM Count    : %d\n", r.RPMCount)
	fmt.Fprintf(out, "Unique Names : %d\n", r.UniqueNames)
	fmt.Fprintf(out, "Duplicates   : %d\n", len(r.Duplicates))

	if len(r.Kernels) > 0 {
		fmt.Fprintln(out, "\nInstalled kernels:")
		for _, k := range r.Kernels {
			fmt.Fprintln(out, " -", k)
		}
	}

	if len(r.Issues) > 0 {
		fmt.Fprintln(out, "\nIssues detected:")
		for _, issue := range r.Issues {
			fmt.Fprintln(out, " -", issue)
		}
	}
}

// PrintProvenance writes the third-party summary with per-vendor listings
func PrintProvenance(out io.Writer, r *models.ProvenanceReport) {
	fmt.Fprintln(out, "\n===== THIRD-PARTY RPM REPORT =====")
	fmt.Fprintf(out, "Total installed RPMs : %d\n", r.TotalCount)
	fmt.Fprintf(out, "Third-party RPMs     : %d\n", r.ThirdPartyCount)

	if r.ThirdPartyCount == 0 {
		fmt.Fprintln(out, "\nNo third-party packages detected.")
		return
	}

	for _, group := range r.Vendors {
		fmt.Fprintf(out, "\nVendor: %s\n", group.Vendor)
		for _, nevra := range group.Packages {
			fmt.Fprintln(out, "  ", nevra)
		}
	}
}
