package daemon

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/reward"
	"github.com/earnbox/earnbox/internal/app/withdraw"
)

// ConfigFile is the config file name inside Home().
const ConfigFile = "config.toml"

// Config is the daemon configuration, read from $EARNBOX_HOME/config.toml.
type Config struct {
	API      APIConfig      `toml:"api"`
	Storage  StorageConfig  `toml:"storage"`
	Rewards  RewardsConfig  `toml:"rewards"`
	Withdraw WithdrawConfig `toml:"withdraw"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls where the ledger lives.
type StorageConfig struct {
	Dir      string `toml:"dir"`       // SQLite directory, defaults to Home()
	Key      string `toml:"key"`       // Ledger key
	InMemory bool   `toml:"in_memory"` // Discard the ledger on exit
}

// RewardsConfig overrides the parameters shared by every reward surface.
type RewardsConfig struct {
	Slots        int    `toml:"slots"`
	Credit       string `toml:"credit"`
	Cooldown     string `toml:"cooldown"`
	ConfirmDelay string `toml:"confirm_delay"`
}

// WithdrawConfig controls the withdrawal form.
type WithdrawConfig struct {
	SuccessTTL string `toml:"success_ttl"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8787,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Key: ledger.DefaultKey,
		},
		Rewards: RewardsConfig{
			Slots:        reward.DefaultSlots,
			Credit:       reward.DefaultCredit.StringFixed(2),
			Cooldown:     "60s",
			ConfirmDelay: "2m",
		},
		Withdraw: WithdrawConfig{
			SuccessTTL: "4s",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Home returns the earnbox home directory.
func Home() string {
	if env := os.Getenv("EARNBOX_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".earnbox")
}

// DefaultConfigPath returns Home()/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(Home(), ConfigFile)
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults; a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("[daemon] %s: ignoring unknown key %s", path, key)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every value that is parsed later.
func (c Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if _, err := c.Rewards.Surfaces(); err != nil {
		return err
	}
	if _, err := c.Withdraw.Flow(); err != nil {
		return err
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (c APIConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Path returns the SQLite directory.
func (c StorageConfig) Path() string {
	if c.Dir != "" {
		return c.Dir
	}
	return Home()
}

// Ledger returns the ledger store configuration.
func (c StorageConfig) Ledger() ledger.Config {
	cfg := ledger.DefaultConfig()
	if c.Key != "" {
		cfg.Key = c.Key
	}
	return cfg
}

// Surfaces applies the overrides to the built-in reward surfaces.
func (c RewardsConfig) Surfaces() ([]reward.Config, error) {
	credit := reward.DefaultCredit
	if c.Credit != "" {
		d, err := decimal.NewFromString(c.Credit)
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("rewards.credit %q must be a positive amount", c.Credit)
		}
		credit = d
	}
	cooldown, err := parseDuration("rewards.cooldown", c.Cooldown, reward.DefaultCooldown)
	if err != nil {
		return nil, err
	}
	delay, err := parseDuration("rewards.confirm_delay", c.ConfirmDelay, reward.DefaultConfirmDelay)
	if err != nil {
		return nil, err
	}
	if c.Slots < 0 {
		return nil, fmt.Errorf("rewards.slots %d must be positive", c.Slots)
	}

	cfgs := reward.DefaultConfigs()
	for i := range cfgs {
		if c.Slots > 0 {
			cfgs[i].Slots = c.Slots
		}
		cfgs[i].Credit = credit
		cfgs[i].Cooldown = cooldown
		if cfgs[i].Variant == reward.Delayed {
			cfgs[i].ConfirmDelay = delay
		}
	}
	return cfgs, nil
}

// Flow returns the withdrawal flow configuration.
func (c WithdrawConfig) Flow() (withdraw.Config, error) {
	ttl, err := parseDuration("withdraw.success_ttl", c.SuccessTTL, withdraw.DefaultSuccessTTL)
	if err != nil {
		return withdraw.Config{}, err
	}
	return withdraw.Config{SuccessTTL: ttl}, nil
}

// parseDuration parses a Go duration string, falling back to def when empty.
func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s %q must not be negative", key, s)
	}
	return d, nil
}
