package config

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RateOverride is an operator-supplied VAT rate row from rates.yml.
// Overrides are merged into the in-memory rate snapshot on top of the
// seeded tables, so a hotfix rate change does not need a deploy.
type RateOverride struct {
	Country       string `mapstructure:"country"`
	Category      string `mapstructure:"category"`
	RateType      string `mapstructure:"rateType"`
	Rate          string `mapstructure:"rate"`
	EffectiveFrom string `mapstructure:"effectiveFrom"`
}

// RateOverridesHolder serves the current override set and reloads it
// when the config file changes on disk. Subscribers registered with
// OnChange are notified after every swap so dependent snapshots can
// rebuild themselves.
type RateOverridesHolder struct {
	current atomic.Value // holds []RateOverride

	mu        sync.Mutex
	listeners []func()
}

func NewRateOverridesHolder() (*RateOverridesHolder, error) {
	v := viper.New()

	v.SetConfigName("rates")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/clearbill/config") // Volume-mounted config
	v.AddConfigPath("/etc/clearbill")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("CLEARBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &RateOverridesHolder{}
	holder.current.Store([]RateOverride{})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No override file: an empty set is the normal case.
		return holder, nil
	}

	if err := holder.load(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		// Keep serving the previous set if the new file is malformed.
		_ = holder.load(v)
	})
	v.WatchConfig()

	return holder, nil
}

func (h *RateOverridesHolder) load(v *viper.Viper) error {
	var overrides []RateOverride
	if err := v.UnmarshalKey("rates", &overrides); err != nil {
		return err
	}
	h.Replace(overrides)
	return nil
}

// Replace swaps in a new override set and notifies subscribers.
func (h *RateOverridesHolder) Replace(overrides []RateOverride) {
	h.current.Store(overrides)
	h.notify()
}

// OnChange registers fn to run after each override set swap.
func (h *RateOverridesHolder) OnChange(fn func()) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

func (h *RateOverridesHolder) notify() {
	h.mu.Lock()
	listeners := make([]func(), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Current returns the override rows read from the last good rates.yml.
func (h *RateOverridesHolder) Current() []RateOverride {
	overrides, _ := h.current.Load().([]RateOverride)
	return overrides
}
