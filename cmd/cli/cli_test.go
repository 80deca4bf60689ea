package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/certcat/lintx509/config"
	"github.com/certcat/lintx509/files/pem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wosignPath      = "../../x509lint/testdata/wosign.pem"
	constrainedPath = "../../x509lint/testdata/constrained.pem"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvFile, "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestPrint_Tree(t *testing.T) {
	out, err := execute(t, "print", wosignPath)
	require.NoError(t, err)
	assert.Contains(t, out, wosignPath+" certificate 0\n  tbsCertificate\n    version: v3 (2)\n")
	assert.Contains(t, out, "extnID: id-ce-basicConstraints\n")
}

func TestPrint_JSON(t *testing.T) {
	out, err := execute(t, "print", "--format", "json", wosignPath, constrainedPath)
	require.NoError(t, err)

	var doc map[string][]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc[wosignPath], 1)
	assert.Len(t, doc[constrainedPath], 1)
}

func TestPrint_Table(t *testing.T) {
	out, err := execute(t, "print", "-f", "table", wosignPath)
	require.NoError(t, err)
	assert.Contains(t, out, "CA 沃通根证书")
	assert.Contains(t, out, "id-ce-subjectKeyIdentifier")
}

func TestPrint_DER(t *testing.T) {
	content, err := os.ReadFile(constrainedPath)
	require.NoError(t, err)
	path := writeTemp(t, "constrained.der", pem.DER(content)[0])

	out, err := execute(t, "print", "--der", "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "10.5.0.0/16"`)
}

func TestPrint_Errors(t *testing.T) {
	strictConfig := writeTemp(t, "strict.yaml", []byte("policy:\n  reject_unknown_critical: true\n"))

	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"StrictFlag":    {[]string{"print", "--strict-critical", wosignPath}, "unrecognized critical extension"},
		"StrictConfig":  {[]string{"print", "--config", strictConfig, wosignPath}, "unrecognized critical extension"},
		"BadFormat":     {[]string{"print", "--format", "html", wosignPath}, `unknown output format "html"`},
		"MissingFile":   {[]string{"print", "does-not-exist.pem"}, "does-not-exist.pem"},
		"PEMAsDER":      {[]string{"print", "--der", wosignPath}, "unexpected tag"},
		"MissingConfig": {[]string{"print", "--config", "absent.yaml", wosignPath}, "failed to read config file"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCheck(t *testing.T) {
	garbage := writeTemp(t, "garbage.pem", []byte("not a certificate"))

	out, err := execute(t, "check", wosignPath, garbage, constrainedPath)
	assert.EqualError(t, err, "1 of 3 files failed")
	assert.Contains(t, out, wosignPath+": OK (1 certificates)\n")
	assert.Contains(t, out, constrainedPath+": OK (1 certificates)\n")
	assert.Contains(t, out, garbage+": FAIL Unknown: no CERTIFICATE blocks found\n")
}

func TestCheck_Strict(t *testing.T) {
	out, err := execute(t, "check", "--strict-critical", wosignPath)
	assert.Error(t, err)
	assert.Contains(t, out, wosignPath+": FAIL UnrecognizedCriticalExtension: ")
	assert.NotContains(t, out, "FAIL der:")
}
