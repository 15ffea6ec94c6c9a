package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveHelper(t *testing.T) {
	before := testutil.ToFloat64(TemplateHelperCalls.WithLabelValues("ct_for_id", "error"))
	okBefore := testutil.ToFloat64(TemplateHelperCalls.WithLabelValues("ct_for_id", "ok"))

	ObserveHelper("ct_for_id", errors.New("content type does not exist"))
	ObserveHelper("ct_for_id", nil)
	ObserveHelper("ct_for_id", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(TemplateHelperCalls.WithLabelValues("ct_for_id", "error")))
	assert.Equal(t, okBefore+2, testutil.ToFloat64(TemplateHelperCalls.WithLabelValues("ct_for_id", "ok")))
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() { Register(reg) })
	assert.Panics(t, func() { Register(reg) })
}
