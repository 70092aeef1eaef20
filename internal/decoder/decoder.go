package decoder

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
)

// Result accumulates one decode pass over a header set
type Result struct {
	Packages []models.Package
	Failures int

	// Err combines the per-header failures, nil when Failures is zero
	Err error
}

// DecodePackage extracts a Package from h. Absent tags decode to zero values;
// a malformed header or a tag of unexpected type fails the whole header.
func DecodePackage(h rpmdb.Header) (models.Package, error) {
	name, err := getStringTag(h, rpmutils.NAME)
	if err != nil {
		return models.Package{}, err
	}
	version, err := getStringTag(h, rpmutils.VERSION)
	if err != nil {
		return models.Package{}, err
	}
	release, err := getStringTag(h, rpmutils.RELEASE)
	if err != nil {
		return models.Package{}, err
	}
	arch, err := getStringTag(h, rpmutils.ARCH)
	if err != nil {
		return models.Package{}, err
	}
	vendor, err := getStringTag(h, rpmutils.VENDOR)
	if err != nil {
		return models.Package{}, err
	}
	installTime, err := getIntTag(h, rpmdb.TagInstallTime)
	if err != nil {
		return models.Package{}, err
	}

	return models.NewPackage(name, version, release, arch, vendor, installTime), nil
}

// DecodeAll decodes every header, counting failures instead of stopping at them
func DecodeAll(headers []rpmdb.Header) Result {
	var (
		res  Result
		errs *multierror.Error
	)

	for _, h := range headers {
		pkg, err := DecodePackage(h)
		if err != nil {
			res.Failures++
			errs = multierror.Append(errs, fmt.Errorf("header %d: %w", h.ID(), err))
			logrus.Debugf("Failed to decode header %d: %v", h.ID(), err)
			continue
		}
		res.Packages = append(res.Packages, pkg)
	}

	res.Err = errs.ErrorOrNil()
	if res.Failures > 0 {
		logrus.Warnf("%d of %d headers failed to decode", res.Failures, len(headers))
	}
	return res
}

// getStringTag gets a string tag, treating an absent tag as empty
func getStringTag(h rpmdb.Header, tag int) (string, error) {
	val, err := h.Get(tag)
	if errors.Is(err, rpmdb.ErrTagNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case []string:
		if len(v) > 0 {
			return v[0], nil
		}
		return "", nil
	default:
		return "", fmt.Errorf("tag %d: unexpected type %T", tag, val)
	}
}

// getIntTag gets an integer tag, treating an absent tag as zero
func getIntTag(h rpmdb.Header, tag int) (int64, error) {
	val, err := h.Get(tag)
	if errors.Is(err, rpmdb.ErrTagNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case []int:
		return firstInt(v), nil
	case []int32:
		return firstInt(v), nil
	case []int64:
		return firstInt(v), nil
	case []uint32:
		return firstInt(v), nil
	case []uint64:
		return firstInt(v), nil
	default:
		return 0, fmt.Errorf("tag %d: unexpected type %T", tag, val)
	}
}

func firstInt[T int | int32 | int64 | uint32 | uint64](s []T) int64 {
	if len(s) == 0 {
		return 0
	}
	return int64(s[0])
}

// Verify decodes every header and returns the first failure
func Verify(headers []rpmdb.Header) error {
	for _, h := range headers {
		if _, err := DecodePackage(h); err != nil {
			return &models.AuditError{
				Type: models.ErrHeaderDecode,
				Err:  fmt.Errorf("header %d: %w", h.ID(), err),
			}
		}
	}
	return nil
}
