package metrics

import "github.com/songpengyi/enertalk-alwayson-calculator/core/factory"

var sinkRegistry = factory.NewRegistry[BaselineSink]()

func init() {
	sinkRegistry.MustRegister("nop", func(map[string]any) (BaselineSink, error) {
		return NopSink{}, nil
	})
}

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[BaselineSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink creates a BaselineSink from the provided configuration.
func NewSink(cfgs []factory.ModuleConfig) (BaselineSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks, err := sinkRegistry.CreateAll(cfgs)
	if err != nil {
		return nil, err
	}
	return NewMultiSink(sinks...), nil
}

// SinkTypes lists registered sink types.
func SinkTypes() []string { return sinkRegistry.Names() }
