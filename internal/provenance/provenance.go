package provenance

import (
	"context"
	"sort"
	"strings"

	"github.com/ralt/rpmaudit/internal/decoder"
	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sirupsen/logrus"
)

// UnknownVendor labels packages with an empty vendor
const UnknownVendor = "UNKNOWN"

// trustedVendors are the Red Hat vendor strings, matched exactly after trimming
var trustedVendors = map[string]struct{}{
	"Red Hat, Inc.":            {},
	"Red Hat Inc.":             {},
	"Red Hat Enterprise Linux": {},
}

// IsTrusted reports whether vendor is on the allow-list
func IsTrusted(vendor string) bool {
	_, ok := trustedVendors[strings.TrimSpace(vendor)]
	return ok
}

// VendorLabel returns the trimmed vendor, or UnknownVendor when empty
func VendorLabel(vendor string) string {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return UnknownVendor
	}
	return vendor
}

// Run reads every header from source and classifies it
func Run(ctx context.Context, source rpmdb.HeaderSource) (*models.ProvenanceReport, error) {
	headers, err := source.Headers(ctx)
	if err != nil {
		return nil, err
	}

	report := Classify(headers)
	logrus.Infof("%d of %d packages are third-party", report.ThirdPartyCount, report.TotalCount)
	return &report, nil
}

// Classify partitions headers into trusted and third-party packages.
// Malformed headers are skipped and not counted as third-party.
func Classify(headers []rpmdb.Header) models.ProvenanceReport {
	report := models.ProvenanceReport{
		TotalCount: len(headers),
		ThirdParty: []models.ThirdPartyPackage{},
	}
	groups := make(map[string]int)

	for _, h := range headers {
		pkg, err := decoder.DecodePackage(h)
		if err != nil {
			logrus.Debugf("Skipping malformed header %d: %v", h.ID(), err)
			continue
		}
		if IsTrusted(pkg.Vendor) {
			continue
		}

		label := VendorLabel(pkg.Vendor)
		report.ThirdParty = append(report.ThirdParty, models.ThirdPartyPackage{
			Name:    pkg.Name,
			Version: pkg.Version,
			Release: pkg.Release,
			Arch:    pkg.Arch,
			Vendor:  label,
			NEVRA:   pkg.NEVRA,
		})

		idx, ok := groups[label]
		if !ok {
			idx = len(report.Vendors)
			groups[label] = idx
			report.Vendors = append(report.Vendors, models.VendorGroup{Vendor: label})
		}
		report.Vendors[idx].Packages = append(report.Vendors[idx].Packages, pkg.NEVRA)
	}

	for i := range report.Vendors {
		sort.Strings(report.Vendors[i].Packages)
	}
	report.ThirdPartyCount = len(report.ThirdParty)
	return report
}
