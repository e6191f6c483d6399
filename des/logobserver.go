package des

import (
	"log"
	"reflect"
)

// LogObserver is an Observer that prints a line per scheduled event and per
// process lifecycle transition through a *log.Logger. Grounded on
// sim/eventlogger.go + sim/loghook.go, which split "what is observable"
// (Hook) from "what a sink does with it" (LogHookBase wrapping a
// *log.Logger) the same way.
type LogObserver struct {
	NopObserver
	*log.Logger
}

// NewLogObserver returns a LogObserver writing through logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{Logger: logger}
}

// OnEventScheduled logs the event's scheduled time, priority and type.
func (o *LogObserver) OnEventScheduled(e Event, t Time, p Priority) {
	o.Printf("%.10f, priority=%d, schedule %s", float64(t), p, reflect.TypeOf(e))
}

// OnEventFailed logs an event's failure outcome.
func (o *LogObserver) OnEventFailed(e Event, err error) {
	o.Printf("%s failed: %v", reflect.TypeOf(e), err)
}

// OnProcessStarted logs the process's name.
func (o *LogObserver) OnProcessStarted(p *Process) {
	o.Printf("process %s started", p.Name())
}

// OnProcessCompleted logs the process's outcome.
func (o *LogObserver) OnProcessCompleted(p *Process, value interface{}, err error) {
	if err != nil {
		o.Printf("process %s failed: %v", p.Name(), err)
		return
	}

	o.Printf("process %s completed: %v", p.Name(), value)
}

// OnProcessInterrupted logs the interrupt cause.
func (o *LogObserver) OnProcessInterrupted(p *Process, cause interface{}) {
	o.Printf("process %s interrupted: %v", p.Name(), cause)
}
