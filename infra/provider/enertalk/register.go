package enertalk

import (
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/provider"
)

// Type is the provider.type value selecting this package.
const Type = "enertalk"

func init() {
	provider.MustRegister(Type, func(conf map[string]any) (provider.Provider, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return New(cfg)
	})
}
