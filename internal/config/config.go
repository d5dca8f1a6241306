package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"farmtech_irrigation/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "FARMTECH"

// ConfigurationError is fatal and raised once at start-up.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Err.Error()
	}
	return fmt.Sprintf("configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SensorDef is one sensor definition as written in config.yml.
type SensorDef struct {
	ID          string  `mapstructure:"id" validate:"required"`
	Kind        string  `mapstructure:"kind" validate:"required,oneof=moisture ph phosphorus potassium"`
	Unit        string  `mapstructure:"unit"`
	IdealMin    float64 `mapstructure:"ideal_min"`
	IdealMax    float64 `mapstructure:"ideal_max" validate:"gtefield=IdealMin"`
	AbsoluteMin float64 `mapstructure:"absolute_min"`
	AbsoluteMax float64 `mapstructure:"absolute_max" validate:"gtfield=AbsoluteMin"`
}

// Sensor converts the definition into the domain type.
func (d SensorDef) Sensor() models.Sensor {
	return models.Sensor{
		ID:       d.ID,
		Kind:     models.SensorKind(d.Kind),
		Unit:     d.Unit,
		Ideal:    models.Range{Min: d.IdealMin, Max: d.IdealMax},
		Absolute: models.Range{Min: d.AbsoluteMin, Max: d.AbsoluteMax},
	}
}

type Simulation struct {
	DashboardInterval time.Duration `mapstructure:"dashboard_interval" validate:"gt=0"`
	DaemonInterval    time.Duration `mapstructure:"daemon_interval" validate:"gt=0"`
	Cooldown          time.Duration `mapstructure:"cooldown" validate:"gt=0"`
	History           int           `mapstructure:"history" validate:"gt=0"`
	DurationMinutes   int           `mapstructure:"irrigation_minutes" validate:"gt=0"`
	Retention         time.Duration `mapstructure:"retention"`
	PruneEvery        int           `mapstructure:"prune_every" validate:"gte=0"`
	Seed              int64         `mapstructure:"seed"`
}

type DB struct {
	Path string `mapstructure:"path" validate:"required"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

type MQTT struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

type Influx struct {
	URL    string `mapstructure:"url"`
	Token  string `mapstructure:"token"`
	Org    string `mapstructure:"org"`
	Bucket string `mapstructure:"bucket"`
}

// Enabled reports whether readings should be mirrored to InfluxDB.
func (i Influx) Enabled() bool { return i.URL != "" && i.Bucket != "" }

type Notify struct {
	Driver string `mapstructure:"driver" validate:"oneof=log mqtt"`
	MQTT   MQTT   `mapstructure:"mqtt"`
}

// Config is the full application configuration.
type Config struct {
	Port       string      `mapstructure:"port"`
	Log        Log         `mapstructure:"log"`
	DB         DB          `mapstructure:"db"`
	Simulation Simulation  `mapstructure:"simulation"`
	Notify     Notify      `mapstructure:"notify"`
	Influx     Influx      `mapstructure:"influx"`
	Sensors    []SensorDef `mapstructure:"sensors" validate:"required,min=1,dive"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "farmtech.db")
	v.SetDefault("simulation.dashboard_interval", 5*time.Second)
	v.SetDefault("simulation.daemon_interval", 30*time.Second)
	v.SetDefault("simulation.cooldown", 2*time.Minute)
	v.SetDefault("simulation.history", 24)
	v.SetDefault("simulation.irrigation_minutes", 15)
	v.SetDefault("simulation.retention", 24*time.Hour)
	v.SetDefault("simulation.prune_every", 100)
	v.SetDefault("notify.driver", "log")
	v.SetDefault("notify.mqtt.port", 1883)
	v.SetDefault("notify.mqtt.client_id", "farmtech-notifier")
	v.SetDefault("notify.mqtt.topic_prefix", "farmtech/alerts")
	v.SetDefault("influx.org", "farmtech")
}

// Load reads configs/<name>.yml (or the file at path when it has an
// extension), applies FARMTECH_* env overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filepath.Ext(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(path)
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("read config: %w", err)}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("decode config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks struct rules plus the cross-sensor rules: unique ids and
// exactly one sensor per monitored kind.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ConfigurationError{Field: verrs[0].Namespace(), Err: err}
		}
		return &ConfigurationError{Err: err}
	}

	ids := make(map[string]bool, len(c.Sensors))
	kinds := make(map[models.SensorKind]string, len(c.Sensors))
	for i, d := range c.Sensors {
		field := fmt.Sprintf("sensors[%d]", i)
		s := d.Sensor()
		if err := s.Validate(); err != nil {
			return &ConfigurationError{Field: field, Err: err}
		}
		if ids[s.ID] {
			return &ConfigurationError{Field: field, Err: fmt.Errorf("duplicate sensor id %q", s.ID)}
		}
		ids[s.ID] = true
		if other, ok := kinds[s.Kind]; ok {
			return &ConfigurationError{Field: field, Err: fmt.Errorf("kind %q already served by %q", s.Kind, other)}
		}
		kinds[s.Kind] = s.ID
	}
	for _, k := range models.MonitoredKinds {
		if _, ok := kinds[k]; !ok {
			return &ConfigurationError{Field: "sensors", Err: fmt.Errorf("no sensor for kind %q", k)}
		}
	}
	return nil
}

// SensorDefinitions returns the configured sensors as domain values.
func (c *Config) SensorDefinitions() []models.Sensor {
	out := make([]models.Sensor, 0, len(c.Sensors))
	for _, d := range c.Sensors {
		out = append(out, d.Sensor())
	}
	return out
}
