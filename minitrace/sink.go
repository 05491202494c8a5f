package minitrace

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/sirkon/spanwrap/minitrace"

// Attribute keys of exported spans.
const (
	AttrCategory    = "minitrace.category"
	AttrActiveNanos = "minitrace.active_ns"
	AttrSuspensions = "minitrace.suspensions"
	AttrCanceled    = "minitrace.canceled"
)

// Event names of fine grained spans.
const (
	EventResume  = "resume"
	EventSuspend = "suspend"
)

var (
	sinkMu   sync.RWMutex
	provider trace.TracerProvider
	clock    clockz.Clock = clockz.RealClock
)

// SetTracerProvider sets the provider finished spans are exported through.
// The global OpenTelemetry provider is used until it is called. Nil restores
// the default.
func SetTracerProvider(tp trace.TracerProvider) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	provider = tp
}

// SetClock sets the time source of span timestamps and Sleep. Nil restores
// the real clock.
func SetClock(c clockz.Clock) {
	if c == nil {
		c = clockz.RealClock
	}

	sinkMu.Lock()
	defer sinkMu.Unlock()
	clock = c
}

func tracer() trace.Tracer {
	sinkMu.RLock()
	tp := provider
	sinkMu.RUnlock()

	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return tp.Tracer(instrumentationName)
}

func currentClock() clockz.Clock {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return clock
}

func now() time.Time {
	return currentClock().Now()
}
