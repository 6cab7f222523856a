package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMedia(t *testing.T) {
	before := testutil.ToFloat64(MediaOperationsTotal.WithLabelValues("upload_pdf", "success"))
	RecordMedia("upload_pdf", "success", 20*time.Millisecond)
	after := testutil.ToFloat64(MediaOperationsTotal.WithLabelValues("upload_pdf", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordRequest(t *testing.T) {
	RecordRequest("GET", "/projects", "200", time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/projects", "200")))
}
