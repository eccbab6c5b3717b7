package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	StatePath   string `default:"storefront.db" usage:"Path to the local state database file" flag:"state-path"`
	Currency    string `default:"USD" usage:"Currency code stamped on analytics events"`
	OrderPrefix string `default:"PRACTICE" usage:"Prefix for generated order identifiers" flag:"order-prefix"`
	Analytics   AnalyticsConfig
}

// AnalyticsConfig toggles the individual analytics sinks. A disabled sink is
// simply absent from the emitter's sink list.
type AnalyticsConfig struct {
	GA4           bool `default:"true" usage:"Enable the GA4 data layer sink"`
	MetaPixel     bool `default:"true" usage:"Enable the Meta pixel sink" flag:"meta-pixel"`
	AdsConversion bool `default:"true" usage:"Enable the Ads conversion sink" flag:"ads-conversion"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
