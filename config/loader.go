package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

type SafeConfig struct {
	sync.RWMutex
	configFile string
	c          *Config

	reloadSuccess prometheus.Gauge
	reloadSeconds prometheus.Gauge
}

func (sc *SafeConfig) Get() *Config {
	sc.RLock()
	defer sc.RUnlock()
	return sc.c
}

// New returns a SafeConfig holding the defaults until LoadConfig succeeds.
// An empty configFile keeps the defaults.
func New(configFile string, registry prometheus.Registerer) *SafeConfig {
	c := DefaultConfig()
	sc := &SafeConfig{
		c:          &c,
		configFile: configFile,
		reloadSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "achievements_login",
			Name:      "config_last_reload_successful",
			Help:      "Config loaded successfully.",
		}),
		reloadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "achievements_login",
			Name:      "config_last_reload_success_timestamp_seconds",
			Help:      "Timestamp of the last successful configuration reload.",
		}),
	}
	registry.MustRegister(sc.reloadSuccess, sc.reloadSeconds)
	return sc
}

func (sc *SafeConfig) LoadConfig() (err error) {
	defer func() {
		if err != nil {
			sc.reloadSuccess.Set(0)
		} else {
			sc.reloadSuccess.Set(1)
			sc.reloadSeconds.SetToCurrentTime()
		}
	}()

	if sc.configFile == "" {
		return nil
	}

	yamlReader, err := os.Open(sc.configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	defer yamlReader.Close()
	decoder := yaml.NewDecoder(yamlReader)
	decoder.KnownFields(true)

	c := &Config{}
	err = decoder.Decode(c)
	if err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	sc.Lock()
	sc.c = c
	defer sc.Unlock()

	return nil
}
