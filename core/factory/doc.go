// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Filter stages, usage providers and result sinks are all built this way:
//
//	reg := factory.NewRegistry[baseline.Filter]()
//	reg.Register("consistency", func(conf map[string]any) (baseline.Filter, error) {
//	    return baseline.ConsistencyFilter{}, nil
//	})
//	f, err := reg.Create(factory.ModuleConfig{Type: "consistency"})
package factory
