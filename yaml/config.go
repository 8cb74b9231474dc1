// Package yaml loads the optional sto-cargo-search config file.
package yaml

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/stocargo"
	"gopkg.in/yaml.v3"
)

// configFile mirrors the on-disk layout of the config file.
type configFile struct {
	CacheDir string              `yaml:"cache_dir"`
	TTL      string              `yaml:"ttl"`
	WikiURL  string              `yaml:"wiki_url"`
	Fields   map[string][]string `yaml:"fields"`
}

// LoadConfig reads the config file at path.
// A missing file yields an empty config, so defaults apply.
// Returns EINVALID if the file cannot be parsed or holds invalid values.
func LoadConfig(path string) (*stocargo.Config, error) {
	cfg := &stocargo.Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, stocargo.WrapError(stocargo.EINVALID, err, "failed to read config %s", path)
	}

	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, stocargo.WrapError(stocargo.EINVALID, err, "failed to parse config %s", path)
	}

	if f.CacheDir != "" {
		cfg.CacheDir = expandHome(f.CacheDir)
	}
	if f.TTL != "" {
		ttl, err := stocargo.ParseTTL(f.TTL)
		if err != nil {
			return nil, stocargo.Errorf(stocargo.EINVALID, "config %s: %s", path, stocargo.ErrorMessage(err))
		}
		cfg.TTL = ttl
	}
	cfg.WikiURL = strings.TrimSpace(f.WikiURL)

	if len(f.Fields) > 0 {
		cfg.Fields = make(map[stocargo.Category][]string, len(f.Fields))
		for name, fields := range f.Fields {
			c, err := stocargo.ParseCategory(name)
			if err != nil {
				return nil, stocargo.Errorf(stocargo.EINVALID, "config %s: unknown category %q in fields", path, name)
			}
			if len(fields) == 0 {
				return nil, stocargo.Errorf(stocargo.EINVALID, "config %s: fields for %s must not be empty", path, c)
			}
			cfg.Fields[c] = fields
		}
	}

	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
