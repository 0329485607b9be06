// Package infra holds the adapters behind the core interfaces: usage
// providers, result sinks, the MQTT publisher and the logger. Nothing in
// core imports these packages; they register themselves with the core
// registries when imported.
package infra
