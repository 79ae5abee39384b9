package observer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUnderrunIncrementsCounter(t *testing.T) {
	o := NewPrometheusObserver()
	o.Underrun(3)
	o.Underrun(3)
	o.Underrun(4)

	if got := testutil.ToFloat64(o.underruns.WithLabelValues("3")); got != 2 {
		t.Errorf("subchannel 3 underruns = %v, want 2", got)
	}
	if got := testutil.ToFloat64(o.underruns.WithLabelValues("4")); got != 1 {
		t.Errorf("subchannel 4 underruns = %v, want 1", got)
	}
}

func TestFramesSkippedAccumulates(t *testing.T) {
	o := NewPrometheusObserver()
	o.FramesSkipped(2)
	o.FramesSkipped(3)
	if got := testutil.ToFloat64(o.framesSkipped); got != 5 {
		t.Errorf("frames skipped = %v, want 5", got)
	}
}

func TestTickDurationObserves(t *testing.T) {
	o := NewPrometheusObserver()
	o.TickDuration(0)
	if got := testutil.CollectAndCount(o.tickDuration); got != 1 {
		t.Errorf("tick duration sample count = %d, want 1", got)
	}
}

func TestSinkDiscontinuityIncrementsCounter(t *testing.T) {
	o := NewPrometheusObserver()
	o.SinkDiscontinuity("edi-tcp-1")
	if got := testutil.ToFloat64(o.sinkDiscontinuities.WithLabelValues("edi-tcp-1")); got != 1 {
		t.Errorf("sink discontinuity count = %v, want 1", got)
	}
}

func TestSinkAndReaderFaultsLabelled(t *testing.T) {
	o := NewPrometheusObserver()
	o.SinkFault("udp-1", nil)
	o.ReaderFault(7, nil)

	if got := testutil.ToFloat64(o.sinkFaults.WithLabelValues("udp-1")); got != 1 {
		t.Errorf("sink fault count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.readerFaults.WithLabelValues("7")); got != 1 {
		t.Errorf("reader fault count = %v, want 1", got)
	}
}
