// internal/form/definition.go
//
// Form descriptors: YAML loader and registry.
//
// Context
//   Every form the client drives is declared in a YAML file.  The file
//   names the form's DOM id, the ordered list of fields that make up the
//   request body, the endpoint template, the redirect taken after a
//   successful submission, and the fallback error text shown when the
//   service rejects a request without saying why.  Forms that carry a date
//   input also name the date field and its inline error element so the
//   controller can attach the date validator.
//
// Workflow
//   •  The three stock forms ship embedded under forms/*.yaml and load via
//      Defaults().
//   •  LoadDir overlays a directory of YAML files; a file whose id matches
//      an existing descriptor replaces it.
//   •  Lookup and All give read-only access.  Descriptors are never mutated
//      after registration.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed forms/*.yaml
var builtin embed.FS

// ErrUnknownForm is returned by Get when an id is not registered.
var ErrUnknownForm = errors.New("unknown form")

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FieldType selects how a DOM value is placed into the payload.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
)

// Descriptor is one form definition.  It is immutable once registered.
type Descriptor struct {
	ID              string     `yaml:"id"               validate:"required"`
	Title           string     `yaml:"title"`
	Fields          []FieldDef `yaml:"fields"           validate:"required,min=1,dive"`
	Endpoint        string     `yaml:"endpoint"         validate:"required,startswith=/"`
	SuccessRedirect string     `yaml:"success_redirect"`
	SuccessMessage  string     `yaml:"success_message"`
	DefaultError    string     `yaml:"default_error"    validate:"required"`
	DateField       string     `yaml:"date_field"`
	DateErrorField  string     `yaml:"date_error_field" validate:"required_with=DateField"`
}

// FieldDef names one payload key.  The DOM element id equals the key.
type FieldDef struct {
	Name string    `yaml:"name" validate:"required"`
	Type FieldType `yaml:"type" validate:"omitempty,oneof=string int"`
}

// HasDate reports whether the form needs the date validator.
func (d *Descriptor) HasDate() bool { return d.DateField != "" }

// FieldNames returns the ordered payload keys.
func (d *Descriptor) FieldNames() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Name
	}
	return out
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry maps form id → *Descriptor.  Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{forms: make(map[string]*Descriptor)}
}

// Defaults returns a registry holding the embedded stock forms.
func Defaults() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadFS(builtin, "forms"); err != nil {
		return nil, err
	}
	return r, nil
}

// Lookup returns a descriptor by id.  The boolean is false when unknown.
func (r *Registry) Lookup(id string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.forms[id]
	return d, ok
}

// Get is Lookup with an error for unknown ids.
func (r *Registry) Get(id string) (*Descriptor, error) {
	if d, ok := r.Lookup(id); ok {
		return d, nil
	}
	return nil, fmt.Errorf("form %q: %w", id, ErrUnknownForm)
}

// All returns every descriptor sorted by id.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.forms))
	for _, d := range r.forms {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Register validates d and inserts or replaces it.
func (r *Registry) Register(d *Descriptor) error {
	if err := validateDescriptor(d); err != nil {
		return err
	}
	r.mu.Lock()
	r.forms[d.ID] = d
	r.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// Parse decodes one YAML document into a validated Descriptor.  It never
// touches a registry.
func Parse(raw []byte, name string) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse form %s: %w", name, err)
	}
	if err := validateDescriptor(&d); err != nil {
		return nil, fmt.Errorf("form %s: %w", name, err)
	}
	return &d, nil
}

// LoadFS registers every “*.yaml” directly under dir in fsys.  Files load in
// name order so overrides are deterministic.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read forms dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue // skip non-YAML
		}
		p := path.Join(dir, e.Name())
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read form file %s: %w", p, err)
		}
		d, err := Parse(raw, p)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir overlays the YAML files in an OS directory.  A missing directory is
// not an error; overrides are optional.
func (r *Registry) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return r.LoadFS(os.DirFS(dir), ".")
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var (
	validate    = validator.New()
	placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
)

// validateDescriptor enforces tag rules plus the structural rules tags cannot
// express: unique field names and a date field that is also a payload key.
func validateDescriptor(d *Descriptor) error {
	if err := validate.Struct(d); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name %q", d.ID, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	if d.HasDate() {
		if _, ok := seen[d.DateField]; !ok {
			return fmt.Errorf("form %s: date_field %q is not a declared field", d.ID, d.DateField)
		}
	}
	return nil
}
