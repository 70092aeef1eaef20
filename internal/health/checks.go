package health

import (
	"context"
	"fmt"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
)

// Score deductions per check
const (
	decodeDeduction       = 20
	integrityDeduction    = 10
	cardinalityDeduction  = 10
	duplicateDeduction    = 10
	noKernelDeduction     = 10
	kernelExcessDeduction = 5
)

// KernelPackage is the package name counted by the kernel check
const KernelPackage = "kernel"

// IndexState is what the index oracle reported during one run
type IndexState struct {
	Integrity    string
	IntegrityErr error
	NameRows     int
	NameRowsErr  error
}

// Inspect queries the oracle once for both the integrity status and the
// Name row count. Errors are recorded, not returned.
func Inspect(ctx context.Context, oracle rpmdb.IndexOracle) IndexState {
	var st IndexState
	st.Integrity, st.IntegrityErr = oracle.IntegrityCheck(ctx)
	st.NameRows, st.NameRowsErr = oracle.NameCount(ctx)
	return st
}

// Input is everything the check suite looks at
type Input struct {
	Packages       []models.Package
	DecodeFailures int
	Index          IndexState
	Thresholds     models.Thresholds
}

// CheckResult is the outcome of one check. Issue is set iff Deduction > 0.
type CheckResult struct {
	Deduction int
	Issue     string
}

// Check is one consistency check
type Check struct {
	Name string
	Run  func(in *Input) CheckResult
}

var suite = []Check{
	{Name: "decode", Run: checkDecode},
	{Name: "integrity", Run: checkIntegrity},
	{Name: "cardinality", Run: checkCardinality},
	{Name: "duplicates", Run: checkDuplicates},
	{Name: "kernel", Run: checkKernel},
}

// Suite returns the checks in definition order
func Suite() []Check {
	return append([]Check(nil), suite...)
}

func pass() CheckResult {
	return CheckResult{}
}

func fail(deduction int, format string, args ...interface{}) CheckResult {
	return CheckResult{Deduction: deduction, Issue: fmt.Sprintf(format, args...)}
}

func checkDecode(in *Input) CheckResult {
	if in.DecodeFailures > 0 {
		return fail(decodeDeduction, "%d headers failed to decode", in.DecodeFailures)
	}
	return pass()
}

func checkIntegrity(in *Input) CheckResult {
	if in.Index.IntegrityErr != nil {
		return fail(integrityDeduction, "index access error: %v", in.Index.IntegrityErr)
	}
	if in.Index.Integrity != "ok" {
		return fail(integrityDeduction, "index integrity check failed")
	}
	return pass()
}

// checkCardinality compares decoded headers with Name rows. An index where
// both queries failed is already penalized by checkIntegrity and is skipped.
func checkCardinality(in *Input) CheckResult {
	if in.Index.NameRowsErr != nil {
		if in.Index.IntegrityErr != nil {
			return pass()
		}
		return fail(cardinalityDeduction, "mismatch between index table and decoded headers: %v", in.Index.NameRowsErr)
	}

	diff := len(in.Packages) - in.Index.NameRows
	if diff < 0 {
		diff = -diff
	}
	if diff > in.Thresholds.NameMismatch {
		return fail(cardinalityDeduction, "mismatch between index table and decoded headers")
	}
	return pass()
}

func checkDuplicates(in *Input) CheckResult {
	dups := Duplicates(in.Packages)
	if len(dups) > in.Thresholds.DuplicateNames {
		return fail(duplicateDeduction, "excessive duplicate package names: %d", len(dups))
	}
	return pass()
}

func checkKernel(in *Input) CheckResult {
	kernels := 0
	for _, p := range in.Packages {
		if p.Name == KernelPackage {
			kernels++
		}
	}

	switch {
	case kernels == 0:
		return fail(noKernelDeduction, "no kernel package installed")
	case kernels > in.Thresholds.MaxKernels:
		return fail(kernelExcessDeduction, "too many kernel versions installed")
	default:
		return pass()
	}
}
