// Package config loads sysdot's application configuration. Layering order is
// embedded defaults, then the system config file, then SYSDOT_-prefixed
// environment variables; later layers win.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	sysdoterrors "github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Run holds run-behavior settings.
type Run struct {
	Confirm       bool `koanf:"confirm"`
	StrictUnknown bool `koanf:"strict_unknown"`
}

// Backup holds backup tree settings.
type Backup struct {
	Root string `koanf:"root"`
}

// Catalog holds catalog override settings.
type Catalog struct {
	Path string `koanf:"path"`
}

// Commands names the external binaries sysdot drives.
type Commands struct {
	Pacman       string `koanf:"pacman"`
	Systemctl    string `koanf:"systemctl"`
	Mkinitcpio   string `koanf:"mkinitcpio"`
	SdbootManage string `koanf:"sdboot_manage"`
	Udevadm      string `koanf:"udevadm"`
	Lvs          string `koanf:"lvs"`
	DetectVirt   string `koanf:"detect_virt"`
}

// Config is the fully merged application configuration.
type Config struct {
	Run      Run      `koanf:"run"`
	Backup   Backup   `koanf:"backup"`
	Catalog  Catalog  `koanf:"catalog"`
	Commands Commands `koanf:"commands"`
}

// Load merges defaults, the system config file (if present) and environment
// overrides into a Config.
func Load(p *paths.Paths) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, sysdoterrors.Wrap(err, sysdoterrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. System config file, when it exists
	cfgPath := p.ConfigFilePath()
	if _, err := os.Stat(cfgPath); err == nil {
		if err := k.Load(file.Provider(cfgPath), toml.Parser()); err != nil {
			return nil, sysdoterrors.Wrapf(err, sysdoterrors.ErrConfigParse, "failed to load config from %s", cfgPath)
		}
	}

	// 3. Environment: SYSDOT_RUN_CONFIRM=false -> run.confirm
	if err := k.Load(env.Provider("SYSDOT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "SYSDOT_")), "_", ".")
	}), nil); err != nil {
		return nil, sysdoterrors.Wrap(err, sysdoterrors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, sysdoterrors.Wrap(err, sysdoterrors.ErrConfigParse, "failed to unmarshal config")
	}

	return &cfg, nil
}
