// Package site provides the environment the shell evaluates code against:
// site settings loaded from YAML, an options store and lifecycle hooks.
package site

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultLifecycle is fired in order after bootstrap scripts are loaded
var DefaultLifecycle = []string{"muplugins_loaded", "plugins_loaded", "init", "wp_loaded"}

// Config describes a site
type Config struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	URL         string         `yaml:"url"`
	Version     string         `yaml:"version"`
	Language    string         `yaml:"language"`
	Options     map[string]any `yaml:"options"`

	// Bootstrap scripts are loaded before the lifecycle hooks fire.
	// Relative paths are resolved against the config file's directory.
	Bootstrap []string `yaml:"bootstrap"`

	// Lifecycle lists the hooks fired after bootstrap
	Lifecycle []string `yaml:"lifecycle"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Name:      "WP-CLI",
		URL:       "http://localhost",
		Version:   "6.8",
		Language:  "en-US",
		Options:   map[string]any{},
		Lifecycle: append([]string(nil), DefaultLifecycle...),
	}
}

// LoadConfig reads a YAML site file. Fields absent from the file keep their
// defaults; an empty path returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read site config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}

	if cfg.Options == nil {
		cfg.Options = map[string]any{}
	}

	base := filepath.Dir(path)
	for i, script := range cfg.Bootstrap {
		if !filepath.IsAbs(script) {
			cfg.Bootstrap[i] = filepath.Join(base, script)
		}
	}

	return cfg, nil
}

// ErrHookNeverFired is returned by Boot callers when a deferred hook did not run
var ErrHookNeverFired = errors.New("hook never fired")

// Site is the live environment exposed to evaluated code
type Site struct {
	Config Config
	Hooks  *Hooks

	mu      sync.Mutex
	options map[string]any
}

// New creates a Site from cfg
func New(cfg Config) *Site {
	options := make(map[string]any, len(cfg.Options))
	for k, v := range cfg.Options {
		options[k] = v
	}

	return &Site{
		Config:  cfg,
		Hooks:   NewHooks(),
		options: options,
	}
}

// BlogInfo returns a named piece of site information. Unknown names
// return an empty string.
func (s *Site) BlogInfo(show string) string {
	switch show {
	case "", "name":
		return s.optionString("blogname", s.Config.Name)
	case "description":
		return s.optionString("blogdescription", s.Config.Description)
	case "url", "home", "wpurl", "siteurl":
		return s.optionString("siteurl", s.Config.URL)
	case "version":
		return s.Config.Version
	case "language":
		return s.Config.Language
	case "charset":
		return "UTF-8"
	case "admin_email":
		return s.optionString("admin_email", "")
	}
	return ""
}

// Option returns an option value, or def when it is not set
func (s *Site) Option(name string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.options[name]; ok {
		return v
	}

	switch name {
	case "blogname":
		return s.Config.Name
	case "blogdescription":
		return s.Config.Description
	case "siteurl", "home":
		return s.Config.URL
	}
	return def
}

// UpdateOption stores an option for the lifetime of the site. It returns
// false when the value is unchanged.
func (s *Site) UpdateOption(name string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.options[name]; ok && fmt.Sprint(old) == fmt.Sprint(value) {
		return false
	}
	s.options[name] = value
	return true
}

// GenerateUUID4 returns a random version 4 UUID
func (s *Site) GenerateUUID4() string {
	return uuid.New().String()
}

func (s *Site) optionString(name, def string) string {
	if v := s.Option(name, nil); v != nil {
		return fmt.Sprint(v)
	}
	return def
}

// Loader evaluates a bootstrap script in the executor's language and
// returns what the script printed
type Loader interface {
	Include(path string) (string, error)
}

// Boot loads the bootstrap scripts through loader, writing their output to
// out, and fires the lifecycle hooks in order.
func (s *Site) Boot(loader Loader, out io.Writer) error {
	for _, script := range s.Config.Bootstrap {
		output, err := loader.Include(script)
		if output != "" {
			if _, werr := io.WriteString(out, output); werr != nil && err == nil {
				err = werr
			}
		}
		if err != nil {
			return fmt.Errorf("failed to load bootstrap script %s: %w", script, err)
		}
	}

	for _, hook := range s.Config.Lifecycle {
		if err := s.Hooks.DoAction(hook); err != nil {
			return err
		}
	}
	return nil
}
