package suite

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/internal/util"
)

// Parse decodes and validates one suite document. Unknown keys are rejected.
func Parse(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Suite
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to parse suite")
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Load reads and validates the suite at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read suite %s", path)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid suite %s", path)
	}

	s.File = path

	return s, nil
}

// LoadAll loads every suite named by paths. Directories are expanded to their
// *.yaml and *.yml files in lexical order; glob patterns are expanded too.
func LoadAll(paths []string) ([]*Suite, error) {
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, errors.New("no suite files found")
	}

	suites := make([]*Suite, 0, len(files))

	for _, f := range files {
		s, err := Load(f)
		if err != nil {
			return nil, err
		}

		klog.V(2).Infof("Loaded suite %q from %s with %d scenarios", s.Name, f, len(s.Scenarios))
		suites = append(suites, s)
	}

	return suites, nil
}

func expand(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid pattern %s", p)
			}

			sort.Strings(matches)
			files = append(files, matches...)

			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", p)
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read directory %s", p)
		}

		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}

			files = append(files, filepath.Join(p, e.Name()))
		}
	}

	return files, nil
}

// MergeFixtures combines the fixture defaults of all suites. Later suites win.
func MergeFixtures(suites []*Suite) (map[string]string, error) {
	merged := map[string]string{}

	for _, s := range suites {
		if len(s.Fixtures) == 0 {
			continue
		}

		var next map[string]string
		if err := util.MergeJSON(merged, s.Fixtures, &next); err != nil {
			return nil, errors.Wrapf(err, "failed to merge fixtures of suite %q", s.Name)
		}

		merged = next
	}

	return merged, nil
}
