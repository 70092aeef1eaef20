package health

import (
	"fmt"
	"sort"

	version "github.com/knqyf263/go-rpm-version"
	"github.com/ralt/rpmaudit/internal/models"
)

// StartScore is the score before any deduction
const StartScore = 100

// Classify maps a score to its status tier
func Classify(score int) models.Status {
	switch {
	case score >= 90:
		return models.StatusHealthy
	case score >= 70:
		return models.StatusDegraded
	case score >= 40:
		return models.StatusUnstable
	default:
		return models.StatusCorrupt
	}
}

// Duplicates returns the names occurring more than once, with their counts
func Duplicates(pkgs []models.Package) map[string]int {
	counts := nameCounts(pkgs)
	dups := make(map[string]int)
	for name, n := range counts {
		if n > 1 {
			dups[name] = n
		}
	}
	return dups
}

func nameCounts(pkgs []models.Package) map[string]int {
	counts := make(map[string]int, len(pkgs))
	for _, p := range pkgs {
		counts[p.Name]++
	}
	return counts
}

// Evaluate runs the whole suite and builds the report
func Evaluate(in Input) models.HealthReport {
	score := StartScore
	issues := []string{}

	for _, c := range suite {
		res := c.Run(&in)
		if res.Deduction <= 0 {
			continue
		}
		score -= res.Deduction
		issues = append(issues, res.Issue)
	}

	return models.HealthReport{
		Score:       score,
		Status:      Classify(score),
		RPMCount:    len(in.Packages),
		UniqueNames: len(nameCounts(in.Packages)),
		Duplicates:  Duplicates(in.Packages),
		Issues:      issues,
		Kernels:     Kernels(in.Packages),
	}
}

// Kernels lists the installed kernel NEVRAs, newest version first
func Kernels(pkgs []models.Package) []string {
	var kernels []models.Package
	for _, p := range pkgs {
		if p.Name == KernelPackage {
			kernels = append(kernels, p)
		}
	}

	sort.SliceStable(kernels, func(i, j int) bool {
		vi := version.NewVersion(fmt.Sprintf("%s-%s", kernels[i].Version, kernels[i].Release))
		vj := version.NewVersion(fmt.Sprintf("%s-%s", kernels[j].Version, kernels[j].Release))
		return vi.GreaterThan(vj)
	})

	nevras := make([]string, 0, len(kernels))
	for _, k := range kernels {
		nevras = append(nevras, k.NEVRA)
	}
	return nevras
}
