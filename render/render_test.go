package render

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/certcat/lintx509/files/pem"
	"github.com/certcat/lintx509/x509lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCert(t *testing.T, name string) *x509lint.Certificate {
	t.Helper()
	content, err := os.ReadFile("../x509lint/testdata/" + name)
	require.NoError(t, err)
	certs, err := pem.LoadAll(content, x509lint.Options{})
	require.NoError(t, err)
	require.Len(t, certs, 1)
	return certs[0]
}

func TestTree(t *testing.T) {
	pathLen := 0
	tests := map[string]struct {
		node x509lint.Node
		want string
	}{
		"Leaves": {
			x509lint.BasicConstraints{CA: true, PathLenConstraint: &pathLen},
			"ext\n" +
				"  cA: true\n" +
				"  pathLenConstraint: 0\n",
		},
		"Absent": {
			x509lint.BasicConstraints{},
			"ext\n" +
				"  cA: false\n" +
				"  pathLenConstraint: (not present)\n",
		},
		"Repeated": {
			x509lint.GeneralNames{
				{Type: x509lint.DNSName, Value: "a.example"},
				{Type: x509lint.DNSName, Value: "b.example"},
			},
			"ext\n" +
				"  name\n" +
				"    [0]\n" +
				"      dNSName: a.example\n" +
				"    [1]\n" +
				"      dNSName: b.example\n",
		},
		"Wrapped": {
			x509lint.UnknownExtension{Raw: bytes.Repeat([]byte{0xab}, 40)},
			"ext\n" +
				"  value:\n" +
				"    " + strings.Repeat("ab", 32) + "\n" +
				"    " + strings.Repeat("ab", 8) + "\n",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, Tree(&out, "ext", tc.node))
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestTree_Certificate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Tree(&out, "certificate", loadCert(t, "wosign.pem")))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "certificate\n  tbsCertificate\n    version: v3 (2)\n"))
	assert.Contains(t, text, "              value: CA 沃通根证书\n")
	assert.Contains(t, text, "extnID: id-ce-basicConstraints\n")
	assert.Contains(t, text, "keyIdentifier: e0:4d:bf:dc:9b:41:5d:13:e8:64:f0:a7:e9:15:a4:e1:81:c1:ba:31\n")
	assert.Contains(t, text, "modulus:\n")
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		value := strings.TrimLeft(line, " ")
		assert.LessOrEqual(t, len([]rune(value)), WrapWidth+len("pathLenConstraint: "), line)
	}
}

func TestChunks(t *testing.T) {
	assert.Nil(t, chunks("", 4))
	assert.Equal(t, []string{"abcd", "ef"}, chunks("abcdef", 4))
	assert.Equal(t, []string{"沃通", "根"}, chunks("沃通根", 2))
}

func TestJSON(t *testing.T) {
	out, err := JSON(x509lint.BasicConstraints{CA: true})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"label": "cA", "value": "true"},
		{"label": "pathLenConstraint", "value": "(not present)"}
	]`, string(out))

	out, err = JSON(x509lint.GeneralNames{{Type: x509lint.DNSName, Value: "a.example"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"label": "name", "children": [
			[{"label": "dNSName", "value": "a.example"}]
		]}
	]`, string(out))
}

func TestJSON_Certificate(t *testing.T) {
	out, err := JSON(loadCert(t, "constrained.pem"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value": "10.5.0.0/16"`)
	assert.Contains(t, string(out), `"value": "Technically Constrained (has dNSName and iPAddress)"`)
}

func TestExtensionsTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ExtensionsTable(&out, loadCert(t, "wosign.pem")))

	text := out.String()
	assert.Contains(t, text, "id-ce-keyUsage")
	assert.Contains(t, text, "value=03020106")
	assert.Contains(t, text, "id-ce-basicConstraints")
	assert.Contains(t, text, "cA=true")
	assert.Contains(t, text, "id-ce-subjectKeyIdentifier")
}

func TestSummary(t *testing.T) {
	node := x509lint.GeneralNames{
		{Type: x509lint.DNSName, Value: "a.example"},
		{Type: x509lint.IPAddress, Value: "192.0.2.1"},
	}
	assert.Equal(t, "dNSName=a.example; iPAddress=192.0.2.1", Summary(node))
}
