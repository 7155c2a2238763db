package config

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	instance   atomic.Pointer[Config]
	once       sync.Once
	configPath string
)

// Tracker holds the credentials and toggles for one upload site.
// Cookie-authenticated sites use CookieFile (and Passkey for torrent
// re-download); API sites use APIKey.
type Tracker struct {
	Name         string `json:"name"`
	APIKey       string `json:"api_key,omitempty"`
	Passkey      string `json:"passkey,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	CookieFile   string `json:"cookie_file,omitempty"`
	Anonymous    bool   `json:"anonymous,omitempty"`
	RehostImages bool   `json:"img_rehost,omitempty"`
	PTGenAPI     string `json:"ptgen_api,omitempty"`
	IDsMoeAPIKey string `json:"ids_moe_api_key,omitempty"`
	RateLimit    string `json:"rate_limit,omitempty"` // 200/minute or 10/second
	Proxy        string `json:"proxy,omitempty"`
}

type Config struct {
	LogLevel string    `json:"log_level,omitempty"`
	WorkDir  string    `json:"work_dir,omitempty"` // per-release temp files (descriptions, torrents)
	Screens  int       `json:"screens,omitempty"`  // image gallery cap
	Trackers []Tracker `json:"trackers,omitempty"`
	Path     string    `json:"-"` // directory the config file was loaded from
}

func (c *Config) JsonFile() string {
	return filepath.Join(c.Path, "config.json")
}

func (c *Config) loadConfig() error {
	if configPath == "" {
		return fmt.Errorf("config path not set")
	}
	c.Path = configPath
	file, err := os.ReadFile(c.JsonFile())
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Config file not found, creating a new one at %s\n", c.JsonFile())
			if err := c.createConfig(c.Path); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			return c.Save()
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	if err := json.Unmarshal(file, &c); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	c.setDefaults()
	return nil
}

func validateTrackers(trackers []Tracker) error {
	if len(trackers) == 0 {
		return errors.New("no trackers configured")
	}
	for _, t := range trackers {
		if t.Name == "" {
			return errors.New("tracker name is required")
		}
		if t.APIKey == "" && t.CookieFile == "" {
			return fmt.Errorf("tracker %s needs either an api_key or a cookie_file", t.Name)
		}
	}
	return nil
}

func ValidateConfig(config *Config) error {
	return validateTrackers(config.Trackers)
}

func SetConfigPath(path string) {
	configPath = path
}

// ConfigPath returns the directory set via SetConfigPath, empty when unset.
func ConfigPath() string {
	return configPath
}

func Get() *Config {
	once.Do(func() {
		cfg := &Config{}
		if err := cfg.loadConfig(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "configuration Error: %v\n", err)
			os.Exit(1)
		}
		instance.Store(cfg)
	})
	return instance.Load()
}

// Tracker returns the configuration for a named tracker, or nil when the
// tracker is not configured. Lookup is case-insensitive.
func (c *Config) Tracker(name string) *Tracker {
	for i := range c.Trackers {
		if strings.EqualFold(c.Trackers[i].Name, name) {
			return &c.Trackers[i]
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	c.LogLevel = cmp.Or(c.LogLevel, "info")
	c.WorkDir = cmp.Or(c.WorkDir, filepath.Join(c.Path, "tmp"))
	if c.Screens <= 0 {
		c.Screens = 6
	}
	for i, t := range c.Trackers {
		if t.CookieFile == "" && t.APIKey == "" {
			// conventional location, mirrors data/cookies/<NAME>.txt
			c.Trackers[i].CookieFile = filepath.Join(c.Path, "cookies", strings.ToUpper(t.Name)+".txt")
		}
	}
}

func (c *Config) Save() error {
	c.setDefaults()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.JsonFile(), data, 0644); err != nil {
		return err
	}

	instance.Store(c)
	return nil
}

func (c *Config) createConfig(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	c.Path = path
	c.LogLevel = "info"
	c.WorkDir = filepath.Join(path, "tmp")
	c.Screens = 6
	return nil
}

// Reload forces a reload of the configuration from disk
func Reload() {
	once = sync.Once{}
}
