// Package site loads the site-wide settings shared by every page: title,
// navbar, footer and the announcement bar.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"finitefield.org/hanko-community/internal/nav"
)

// ErrNoTitle is returned when a site config omits the site title.
var ErrNoTitle = errors.New("site: title is required")

//go:embed default.yaml
var defaultYAML []byte

// Config is the parsed site.yaml. It is immutable after Parse returns.
type Config struct {
	Title        string        `yaml:"title"`
	Tagline      string        `yaml:"tagline"`
	URL          string        `yaml:"url"`
	Navbar       []nav.Item    `yaml:"navbar"`
	Footer       Footer        `yaml:"footer"`
	Announcement *Announcement `yaml:"announcement"`
}

// Footer groups link columns above the copyright line.
type Footer struct {
	Links     []FooterColumn `yaml:"links"`
	Copyright string         `yaml:"copyright"`

	copyrightHTML string
}

// CopyrightHTML returns the sanitized inline HTML of the copyright line.
func (f Footer) CopyrightHTML() string { return f.copyrightHTML }

type FooterColumn struct {
	TitleKey string       `yaml:"title_key"`
	Items    []FooterLink `yaml:"items"`
}

type FooterLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// External reports whether the link leaves the site.
func (l FooterLink) External() bool {
	return strings.HasPrefix(l.Href, "http://") || strings.HasPrefix(l.Href, "https://")
}

// Announcement is the optional bar shown above the navbar.
type Announcement struct {
	ID          string `yaml:"id"`
	Content     string `yaml:"content"`
	Dismissible bool   `yaml:"dismissible"`

	html string
}

// HTML returns the sanitized inline HTML of the announcement.
func (a *Announcement) HTML() string {
	if a == nil {
		return ""
	}
	return a.html
}

// Default returns the embedded site config.
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("site: embedded default config: %v", err))
	}
	return cfg
}

// Load reads a site config from path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("site config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML and pre-renders the markdown fields.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.Title == "" {
		return nil, ErrNoTitle
	}
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if len(cfg.Navbar) == 0 {
		cfg.Navbar = append([]nav.Item(nil), nav.Main...)
	}

	var err error
	if cfg.Footer.copyrightHTML, err = RenderInline(cfg.Footer.Copyright); err != nil {
		return nil, fmt.Errorf("footer copyright: %w", err)
	}
	if a := cfg.Announcement; a != nil {
		if strings.TrimSpace(a.Content) == "" {
			cfg.Announcement = nil
		} else {
			if a.ID == "" {
				a.ID = "announcement"
			}
			if a.html, err = RenderInline(a.Content); err != nil {
				return nil, fmt.Errorf("announcement: %w", err)
			}
		}
	}
	return &cfg, nil
}
