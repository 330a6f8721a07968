// Package catalog holds the declarative description of every desired system
// resource. The default set ships embedded; a user override file (TOML or
// YAML) can add resources or replace embedded ones by ID. The catalog is
// pure data: it never touches the live system.
package catalog

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/catalog.toml
var embeddedCatalog []byte

// document is the on-disk shape of a catalog file.
type document struct {
	Resources []types.Resource `koanf:"resource" toml:"resource"`
}

// Catalog is an immutable set of Resources, constructed once at startup and
// passed explicitly to every component.
type Catalog struct {
	resources []types.Resource
	byID      map[string]int
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrNotImplemented, "raw provider has no map form")
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return build(embeddedCatalog, "")
}

// Load returns the embedded catalog merged with an override file. Override
// resources replace embedded ones with the same ID and append otherwise.
// An empty overridePath yields the embedded set alone.
func Load(overridePath string) (*Catalog, error) {
	return build(embeddedCatalog, overridePath)
}

func build(base []byte, overridePath string) (*Catalog, error) {
	resources, err := parse(&rawBytesProvider{bytes: base}, toml.Parser())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCatalogLoad, "failed to parse embedded catalog")
	}

	if overridePath != "" {
		overrides, err := parseFile(overridePath)
		if err != nil {
			return nil, err
		}
		resources = merge(resources, overrides)
	}

	c := &Catalog{resources: resources, byID: make(map[string]int, len(resources))}
	for i, r := range resources {
		if _, dup := c.byID[r.ID]; dup {
			return nil, errors.Newf(errors.ErrCatalogInvalid, "duplicate resource id %q", r.ID)
		}
		if err := validate(r); err != nil {
			return nil, err
		}
		c.byID[r.ID] = i
	}
	return c, nil
}

func parseFile(path string) ([]types.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCatalogLoad, "failed to read catalog override %s", path)
	}

	var parser koanf.Parser
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		parser = toml.Parser()
	}

	resources, err := parse(&rawBytesProvider{bytes: data}, parser)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCatalogLoad, "failed to parse catalog override %s", path)
	}
	return resources, nil
}

func parse(provider koanf.Provider, parser koanf.Parser) ([]types.Resource, error) {
	k := koanf.New(".")
	if err := k.Load(provider, parser); err != nil {
		return nil, err
	}
	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, err
	}
	return doc.Resources, nil
}

func merge(base, overrides []types.Resource) []types.Resource {
	index := make(map[string]int, len(base))
	for i, r := range base {
		index[r.ID] = i
	}
	merged := append([]types.Resource(nil), base...)
	for _, o := range overrides {
		if i, ok := index[o.ID]; ok {
			merged[i] = o
			continue
		}
		merged = append(merged, o)
	}
	return merged
}

func validate(r types.Resource) error {
	if r.ID == "" {
		return errors.New(errors.ErrCatalogInvalid, "resource with empty id")
	}
	if r.Target == "" {
		return errors.Newf(errors.ErrCatalogInvalid, "resource %q has no target", r.ID)
	}
	switch r.Kind {
	case types.KindFileCopy:
		if r.Content == "" {
			return errors.Newf(errors.ErrSourceMissing, "file-copy resource %q has no desired content", r.ID)
		}
	case types.KindTextPatch, types.KindEnvVar:
		if r.Key == "" {
			return errors.Newf(errors.ErrCatalogInvalid, "resource %q needs a key", r.ID)
		}
	case types.KindKernelParam:
		if r.Token == "" || r.ConfigKey == "" {
			return errors.Newf(errors.ErrCatalogInvalid, "kernel-param resource %q needs token and config_key", r.ID)
		}
	case types.KindMountOption:
		if r.Content == "" {
			return errors.Newf(errors.ErrCatalogInvalid, "mount-option resource %q needs an option", r.ID)
		}
	case types.KindServiceMask, types.KindServiceEnable, types.KindPackagePresent, types.KindPackageAbsent:
		// target alone suffices
	default:
		return errors.Newf(errors.ErrCatalogInvalid, "resource %q has unknown kind %q", r.ID, r.Kind)
	}
	return nil
}

// Resources returns all resources in catalog order.
func (c *Catalog) Resources() []types.Resource {
	return c.resources
}

// ResourcesFor returns the resources of one kind, in catalog order.
func (c *Catalog) ResourcesFor(kind types.Kind) []types.Resource {
	var out []types.Resource
	for _, r := range c.resources {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Get looks a resource up by ID.
func (c *Catalog) Get(id string) (types.Resource, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Resource{}, false
	}
	return c.resources[i], true
}

// Export renders the effective catalog (embedded plus overrides) in the
// on-disk TOML form, suitable as a starting point for an override file.
func (c *Catalog) Export() ([]byte, error) {
	data, err := gotoml.Marshal(document{Resources: c.resources})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal catalog")
	}
	return data, nil
}
