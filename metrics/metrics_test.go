package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/certcat/lintx509/der"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordParse(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordParse(nil, 800)
	m.RecordParse(nil, 1400)
	m.RecordParse(fmt.Errorf("parsing tbsCertificate: %w", der.DataTruncated), 10)
	m.RecordParse(errors.New("not der"), 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Parsed.WithLabelValues(ResultOK, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Parsed.WithLabelValues(ResultError, "DataTruncated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Parsed.WithLabelValues(ResultError, "Unknown")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Parsed))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestRecordParse_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordParse(der.ExtraData, 1) })
}
