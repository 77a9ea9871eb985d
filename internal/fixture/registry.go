package fixture

import (
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/internal/util"
)

const (
	// EnvPrefix is the environment prefix for fixture values, e.g. CHATY_E2E_BASE_URL.
	EnvPrefix = "CHATY_E2E"

	KeyBaseURL = "base_url"
	KeyRunID   = "run_id"
)

// Source describes where fixture values come from. Precedence, lowest first:
// Defaults, File, environment, Overrides.
type Source struct {
	File      string
	Defaults  map[string]string
	Overrides map[string]string
	Required  []string
	// RunID seeds unique values; a random one is generated when empty.
	RunID string
}

// Registry holds the fixture values of one run. It is read-only after Load.
type Registry struct {
	values map[string]string
	runID  string
}

// Load resolves all fixture values once. Values may be templates using sprig
// functions plus "uuid" and "unique"; they are rendered here and never again.
func Load(src Source) (*Registry, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for k, val := range src.Defaults {
		v.SetDefault(k, val)
	}

	if src.File != "" {
		v.SetConfigFile(src.File)

		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Reason: "failed to read fixture file " + src.File, Err: err}
		}
	}

	for _, k := range envKeys() {
		if err := v.BindEnv(k); err != nil {
			return nil, &ConfigError{Key: k, Err: err}
		}
	}

	for k, val := range src.Overrides {
		v.Set(k, val)
	}

	runID := src.RunID
	if runID == "" {
		runID = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	funcs := template.FuncMap{
		"uuid": uuid.NewString,
		"unique": func(prefix string) string {
			return prefix + "-" + runID
		},
	}

	values := map[string]string{KeyRunID: runID}

	for _, k := range v.AllKeys() {
		raw := v.GetString(k)

		rendered, err := util.RenderTemplate(raw, map[string]string{KeyRunID: runID}, funcs)
		if err != nil {
			return nil, &ConfigError{Key: k, Reason: "failed to render value", Err: err}
		}

		values[k] = rendered
	}

	required := append([]string{KeyBaseURL}, src.Required...)
	for _, k := range required {
		if strings.TrimSpace(values[strings.ToLower(k)]) == "" {
			return nil, &ConfigError{Key: strings.ToLower(k), Reason: "required value is not set"}
		}
	}

	if !util.IsBaseURL(values[KeyBaseURL]) {
		return nil, &ConfigError{Key: KeyBaseURL, Reason: "must be an http(s) url, got " + values[KeyBaseURL]}
	}

	values[KeyBaseURL] = strings.TrimSuffix(values[KeyBaseURL], "/")

	klog.V(2).Infof("Loaded %d fixtures for run %s", len(values), runID)

	return &Registry{values: values, runID: runID}, nil
}

// envKeys returns the fixture keys present in the environment under EnvPrefix.
func envKeys() []string {
	prefix := EnvPrefix + "_"

	var keys []string

	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}

		keys = append(keys, strings.ToLower(strings.TrimPrefix(name, prefix)))
	}

	return keys
}

// Get returns the value for key. Keys are case-insensitive.
func (r *Registry) Get(key string) (string, error) {
	val, ok := r.values[strings.ToLower(key)]
	if !ok {
		return "", &MissingFixtureError{Key: key}
	}

	return val, nil
}

// BaseURL returns the base url of the application under test without a trailing slash.
func (r *Registry) BaseURL() string {
	return r.values[KeyBaseURL]
}

// RunID returns the identifier used to namespace seed data of this run.
func (r *Registry) RunID() string {
	return r.runID
}

// Has reports whether key is defined.
func (r *Registry) Has(key string) bool {
	_, ok := r.values[strings.ToLower(key)]
	return ok
}

// Keys returns the sorted fixture keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Map returns a copy of all values.
func (r *Registry) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}

	return out
}
