package watchlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads watchlist definitions from a directory of YAML files.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll loads every YAML watchlist in the directory. A missing directory is
// not an error; the service simply starts without file-defined watchlists.
func (l *Loader) LoadAll() ([]*Watchlist, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	watchlists := make([]*Watchlist, 0, len(files))
	for _, file := range files {
		w, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := Validate(w); err != nil {
			return nil, fmt.Errorf("invalid watchlist %s: %w", file, err)
		}

		watchlists = append(watchlists, w)
	}

	return watchlists, nil
}

func (l *Loader) loadFile(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var w Watchlist
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if w.Name == "" {
		base := filepath.Base(path)
		w.Name = strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
	}

	return &w, nil
}

// Validate checks a watchlist definition regardless of where it came from
// (file or API).
func Validate(w *Watchlist) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("watchlist name is required")
	}
	if len(w.Keywords) == 0 && len(w.Targets) == 0 {
		return fmt.Errorf("watchlist must define at least one keyword or company target")
	}

	for i, entry := range w.Keywords {
		if strings.TrimSpace(entry.Keyword) == "" {
			return fmt.Errorf("keyword at index %d is empty", i)
		}
	}

	for i, target := range w.Targets {
		if strings.TrimSpace(target.URL) == "" {
			return fmt.Errorf("company target at index %d has no URL", i)
		}
		if strings.TrimSpace(target.ID) == "" && strings.TrimSpace(target.Label) == "" {
			return fmt.Errorf("company target at index %d has neither id nor label", i)
		}
	}

	return nil
}
