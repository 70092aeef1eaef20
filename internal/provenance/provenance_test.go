package provenance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/ralt/rpmaudit/internal/rpmdb/rpmdbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTrusted(t *testing.T) {
	tests := []struct {
		vendor string
		want   bool
	}{
		{"Red Hat, Inc.", true},
		{"Red Hat Inc.", true},
		{"Red Hat Enterprise Linux", true},
		{"  Red Hat, Inc.\n", true},
		{"red hat, inc.", false},
		{"Red Hat", false},
		{"Fedora Project", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.vendor, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTrusted(tc.vendor))
		})
	}
}

func TestVendorLabel(t *testing.T) {
	assert.Equal(t, UnknownVendor, VendorLabel(""))
	assert.Equal(t, UnknownVendor, VendorLabel("   "))
	assert.Equal(t, "EPEL", VendorLabel(" EPEL "))
}

func TestClassify(t *testing.T) {
	headers := []rpmdb.Header{
		rpmdbtest.PackageHeader(1, "bash", "5.1.8", "9.el9", "x86_64", "Red Hat, Inc."),
		rpmdbtest.PackageHeader(2, "zabbix-agent", "6.0.1", "1.el9", "x86_64", "Zabbix LLC"),
		rpmdbtest.PackageHeader(3, "custom-tool", "0.1", "1", "noarch", ""),
		rpmdbtest.BrokenHeader(4, errors.New("truncated")),
		rpmdbtest.PackageHeader(5, "htop", "3.2.1", "1.el9", "x86_64", " Fedora Project "),
		rpmdbtest.PackageHeader(6, "another-tool", "2.0", "1", "noarch", "   "),
		rpmdbtest.PackageHeader(7, "glibc", "2.34", "60.el9", "x86_64", "Red Hat Enterprise Linux"),
	}

	report := Classify(headers)

	assert.Equal(t, 7, report.TotalCount)
	assert.Equal(t, 4, report.ThirdPartyCount)
	require.Len(t, report.ThirdParty, 4)

	assert.Equal(t, models.ThirdPartyPackage{
		Name:    "custom-tool",
		Version: "0.1",
		Release: "1",
		Arch:    "noarch",
		Vendor:  UnknownVendor,
		NEVRA:   "custom-tool-0.1-1.noarch",
	}, report.ThirdParty[1])
	assert.Equal(t, "Fedora Project", report.ThirdParty[2].Vendor)

	assert.Equal(t, []models.VendorGroup{
		{Vendor: "Zabbix LLC", Packages: []string{"zabbix-agent-6.0.1-1.el9.x86_64"}},
		{Vendor: UnknownVendor, Packages: []string{"another-tool-2.0-1.noarch", "custom-tool-0.1-1.noarch"}},
		{Vendor: "Fedora Project", Packages: []string{"htop-3.2.1-1.el9.x86_64"}},
	}, report.Vendors)
}

func TestClassifyAllTrusted(t *testing.T) {
	report := Classify([]rpmdb.Header{
		rpmdbtest.PackageHeader(1, "bash", "5.1.8", "9.el9", "x86_64", "Red Hat, Inc."),
	})

	assert.Equal(t, 1, report.TotalCount)
	assert.Equal(t, 0, report.ThirdPartyCount)
	assert.Empty(t, report.Vendors)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_rpms":1,"third_party_count":0,"third_party_packages":[]}`, string(data))
}

func TestRun(t *testing.T) {
	source := &rpmdbtest.Source{List: []rpmdb.Header{
		rpmdbtest.PackageHeader(1, "foo", "1", "1", "x86_64", ""),
	}}

	report, err := Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ThirdPartyCount)

	storeErr := errors.New("database disk image is malformed")
	report, err = Run(context.Background(), &rpmdbtest.Source{Err: storeErr})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, storeErr)
}
