package metrics

import "errors"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordArbitration forwards the record to all sinks. Every sink is called;
// the errors are joined.
func (m *MultiSink) RecordArbitration(rec ArbitrationRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordArbitration(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordIngest forwards to sinks implementing IngestRecorder.
func (m *MultiSink) RecordIngest(rec IngestRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(IngestRecorder); ok {
			if err := r.RecordIngest(rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordFault forwards to sinks implementing FaultRecorder.
func (m *MultiSink) RecordFault(rec FaultRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(FaultRecorder); ok {
			if err := r.RecordFault(rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordModeSwitch forwards to sinks implementing ModeSwitchRecorder.
func (m *MultiSink) RecordModeSwitch(rec ModeSwitchRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(ModeSwitchRecorder); ok {
			if err := r.RecordModeSwitch(rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Closer is implemented by sinks holding a connection.
type Closer interface {
	Close()
}

// Close closes every sink implementing Closer.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			c.Close()
		}
	}
}
