package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/ralt/rpmaudit/internal/rpmdb/rpmdbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a database directory with five decodable headers and
// one corrupt one
func writeFixture(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "rpm")
	require.NoError(t, os.MkdirAll(dir, 0755))

	rpmdbtest.WriteDatabase(t, filepath.Join(dir, rpmdb.DefaultFile), [][]byte{
		rpmdbtest.PackageBlob("kernel", "5.14.0", "362.8.1.el9_3", "x86_64", "Red Hat, Inc."),
		rpmdbtest.PackageBlob("bash", "5.1.8", "9.el9", "x86_64", "Red Hat, Inc."),
		rpmdbtest.PackageBlob("foo", "1.0", "1", "noarch", ""),
		rpmdbtest.PackageBlob("foo", "1.1", "1", "noarch", ""),
		rpmdbtest.PackageBlob("zabbix-agent", "6.0.1", "1.el9", "x86_64", "Zabbix LLC"),
		[]byte("corrupt header"),
	}, []string{"kernel", "bash", "foo", "foo", "zabbix-agent"})

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func errType(t *testing.T, err error) models.ErrorType {
	t.Helper()
	var auditErr *models.AuditError
	require.True(t, errors.As(err, &auditErr), "not an AuditError: %v", err)
	return auditErr.Type
}

func TestHealthMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "report.json")

	_, err := execute(t, "health", "--dbpath", filepath.Join(dir, "absent"), "--output", output)
	require.Error(t, err)
	assert.Equal(t, models.ErrDatabaseMissing, errType(t, err))

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no artifact may be written on a fatal error")
}

func TestHealthMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "health", "--dbpath", dir, "--output", filepath.Join(dir, "report.json"))
	require.Error(t, err)
	assert.Equal(t, models.ErrDatabaseMissing, errType(t, err))
}

func TestHealthUnreadableStore(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, rpmdb.DefaultFile), []byte("not a database at all, only text"), 0644))

	_, err := execute(t, "health", "--dbpath", dir, "--output", output)
	require.Error(t, err)
	assert.Equal(t, models.ErrStoreUnreadable, errType(t, err))

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHealthEndToEnd(t *testing.T) {
	dbDir := writeFixture(t)
	output := filepath.Join(t.TempDir(), "rpmdb_health_report.json")

	out, err := execute(t, "health", "--dbpath", dbDir, "--output", output)
	require.NoError(t, err)

	assert.Contains(t, out, "Health Score : 80")
	assert.Contains(t, out, "Status       : DEGRADED")
	assert.Contains(t, out, " - kernel-5.14.0-362.8.1.el9_3.x86_64")
	assert.Contains(t, out, "JSON report written to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"health_score": 80,
		"status": "DEGRADED",
		"rpm_count": 5,
		"unique_names": 4,
		"duplicates": {"foo": 2},
		"issues": ["1 headers failed to decode"]
	}`, string(data))

	// Same database, same report
	again := filepath.Join(t.TempDir(), "again.json")
	_, err = execute(t, "health", "--dbpath", dbDir, "--output", again)
	require.NoError(t, err)
	second, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, data, second)
}

func TestHealthConfigFile(t *testing.T) {
	dbDir := writeFixture(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "report.json")

	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`dbpath: `+dbDir+`
thresholds:
  max_kernels: 0
output:
  compress: gzip
`), 0644))

	_, err := execute(t, "health", "--config", config, "--output", output)
	require.NoError(t, err)

	_, err = os.Stat(output + ".gz")
	require.NoError(t, err)
}

func TestHealthInvalidCompression(t *testing.T) {
	dbDir := writeFixture(t)

	_, err := execute(t, "health", "--dbpath", dbDir, "--compress", "rar")
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidConfig, errType(t, err))
}

func TestThirdPartyEndToEnd(t *testing.T) {
	dbDir := writeFixture(t)
	output := filepath.Join(t.TempDir(), "third_party_rpms.json")

	out, err := execute(t, "thirdparty", "--dbpath", dbDir, "--output", output)
	require.NoError(t, err)

	assert.Contains(t, out, "Total installed RPMs : 6")
	assert.Contains(t, out, "Third-party RPMs     : 3")
	assert.Contains(t, out, "Vendor: UNKNOWN\n   foo-1.0-1.noarch\n   foo-1.1-1.noarch\n")
	assert.Contains(t, out, "Vendor: Zabbix LLC\n   zabbix-agent-6.0.1-1.el9.x86_64\n")

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var report models.ProvenanceReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 6, report.TotalCount)
	assert.Equal(t, 3, report.ThirdPartyCount)
	require.Len(t, report.ThirdParty, 3)
	assert.Equal(t, "UNKNOWN", report.ThirdParty[0].Vendor)
	assert.Equal(t, "foo-1.0-1.noarch", report.ThirdParty[0].NEVRA)
}

func TestThirdPartyMissingDatabase(t *testing.T) {
	_, err := execute(t, "thirdparty", "--dbpath", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Equal(t, models.ErrDatabaseMissing, errType(t, err))
}

func TestCheck(t *testing.T) {
	dbDir := writeFixture(t)

	out, err := execute(t, "check", "--dbpath", dbDir)
	require.Error(t, err)
	assert.Contains(t, out, "RPMDB corruption detected:")
	assert.Equal(t, models.ErrHeaderDecode, errType(t, err))

	clean := filepath.Join(t.TempDir(), "rpm")
	require.NoError(t, os.MkdirAll(clean, 0755))
	rpmdbtest.WriteDatabase(t, filepath.Join(clean, rpmdb.DefaultFile), [][]byte{
		rpmdbtest.PackageBlob("bash", "5.1.8", "9.el9", "x86_64", "Red Hat, Inc."),
	}, []string{"bash"})

	// librpm's variable selects the database when no flag is given
	t.Setenv("RPM_DBPATH", clean)
	out, err = execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "RPMDB is readable and consistent")
}

func TestRejectsArguments(t *testing.T) {
	for _, name := range []string{"health", "thirdparty", "check"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name, "extra")
			assert.Error(t, err)
		})
	}
}
