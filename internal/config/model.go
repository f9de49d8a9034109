// internal/config/model.go
//
// Typed configuration model for the tournament client.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                      – dotenv values,
//   • optional `conf/client.yaml`               – primary static file,
//   • `TOURNEY_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal and defaulting; a client
// with no service base URL fails fast.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • Durations accept Go syntax ("1500ms", "10s").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// Service section
//

// Service locates the remote tournament service.
type Service struct {
	BaseURL string        `koanf:"base_url" validate:"required,httpurl"`
	Timeout time.Duration `koanf:"timeout"  validate:"gte=0"` // 0 leaves the transport default
}

//
// Messaging section
//

// Messaging tunes the page's status region.
type Messaging struct {
	RedirectDelay time.Duration `koanf:"redirect_delay" validate:"gte=0"`
	GenericError  string        `koanf:"generic_error"`
}

//
// Forms section
//

// Forms points at an optional directory of YAML form descriptors that
// override the built-in ones.
type Forms struct {
	Dir string `koanf:"dir"`
}

//
// Log section
//

// Log configures the zap logger.
type Log struct {
	Tee   bool   `koanf:"tee"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Dev server section
//

// DevServer holds listener addresses for cmd/devserver.
type DevServer struct {
	ListenAddr  string `koanf:"listen_addr"  validate:"required,hostname_port"`
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime.  `Root` is TOURNEY_ROOT or the nearest
// parent holding conf/client.yaml, else the working directory.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().
type Config struct {
	Service   Service   `koanf:"service"`
	Messaging Messaging `koanf:"messaging"`
	Forms     Forms     `koanf:"forms"`
	Log       Log       `koanf:"log"`
	DevServer DevServer `koanf:"devserver"`
	Paths     Paths     `koanf:"-"`
}

// Defaults mirror the values the browser client has always used.
const (
	DefaultBaseURL       = "http://localhost:8080"
	DefaultRedirectDelay = 1500 * time.Millisecond
	DefaultGenericError  = "An error occurred. Please try again."
	DefaultListenAddr    = ":8080"
	DefaultLogLevel      = "info"
)

func applyDefaults(c *Config) {
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = DefaultBaseURL
	}
	if c.Messaging.RedirectDelay == 0 {
		c.Messaging.RedirectDelay = DefaultRedirectDelay
	}
	if c.Messaging.GenericError == "" {
		c.Messaging.GenericError = DefaultGenericError
	}
	if c.DevServer.ListenAddr == "" {
		c.DevServer.ListenAddr = DefaultListenAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
