// Package metrics defines the sinks calculation results are reported to.
// Every sink implements BaselineSink; FailureRecorder and StageRecorder are
// optional and discovered with type assertions. Sinks are built from
// configuration through the registry and combined with NewMultiSink when more
// than one is configured.
package metrics
