package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jenian/envsensei/internal/logging"
)

// ProjectFileName is the per-project configuration file at the project root
const ProjectFileName = ".envsenseirc.json"

// ErrProjectFileExists is returned by WriteDefault when the file is already there
var ErrProjectFileExists = errors.New("project config file already exists")

// LoadProject reads the project file under root. A missing file is an empty layer.
func LoadProject(root string) (Layer, error) {
	raw, err := readProjectMap(filepath.Join(root, ProjectFileName))
	if err != nil {
		return Layer{}, err
	}
	return LayerFromMap(raw), nil
}

func readProjectMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

func writeProjectMap(path string, raw map[string]any) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AddIgnoredWord appends word to ignoredWords in the project file under root,
// creating the file when needed. It returns false when the word was already listed.
func AddIgnoredWord(root, word string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, errors.New("ignore word must not be empty")
	}

	path := filepath.Join(root, ProjectFileName)
	raw, err := readProjectMap(path)
	if err != nil {
		return false, err
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	existing, _ := raw["ignoredWords"].([]any)
	for _, item := range existing {
		if s, ok := item.(string); ok && s == word {
			return false, nil
		}
	}
	raw["ignoredWords"] = append(existing, word)

	if err := writeProjectMap(path, raw); err != nil {
		return false, err
	}
	return true, nil
}

// WriteDefault writes a project file holding the defaults under root
func WriteDefault(root string) (string, error) {
	path := filepath.Join(root, ProjectFileName)
	if _, err := os.Stat(path); err == nil {
		return path, ErrProjectFileExists
	}

	data, err := json.MarshalIndent(Defaults(), "", "  ")
	if err != nil {
		return path, fmt.Errorf("failed to encode defaults: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Loader assembles Config snapshots from defaults, the host settings file,
// ENVSENSEI_* variables and the project file. A project file that fails to
// parse falls back to the last version that did; a missing one means no
// overrides. Loader is safe for concurrent use.
type Loader struct {
	HostPath string

	mu       sync.Mutex
	lastGood map[string]Layer
}

// NewLoader creates a loader reading host settings from hostPath
func NewLoader(hostPath string) *Loader {
	return &Loader{
		HostPath: hostPath,
		lastGood: make(map[string]Layer),
	}
}

// Load returns a fresh snapshot for the project rooted at root. It never fails;
// unreadable sources are logged and skipped.
func (l *Loader) Load(root string) Config {
	host, err := LoadHost(l.HostPath)
	if err != nil {
		logging.Logger.Warnf("ignoring host settings: %v", err)
		host = Layer{}
	}

	return Merge(Defaults(), host, LoadEnv(), l.projectLayer(root))
}

func (l *Loader) projectLayer(root string) Layer {
	key := root
	if abs, err := filepath.Abs(root); err == nil {
		key = abs
	}

	project, err := LoadProject(root)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		last, ok := l.lastGood[key]
		if ok {
			logging.Logger.Warnf("using last valid project config: %v", err)
		} else {
			logging.Logger.Warnf("ignoring project config: %v", err)
		}
		return last
	}
	l.lastGood[key] = project
	return project
}
