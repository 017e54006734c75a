package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "prefs.json"

// Prefs are small UI choices remembered between sessions.
type Prefs struct {
	LastDir string `json:"last_dir,omitempty"`
}

func prefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "realcheck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, prefsFile), nil
}

func Save(p Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Load() (Prefs, error) {
	path, err := prefsPath()
	if err != nil {
		return Prefs{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Prefs{}, nil
		}
		return Prefs{}, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

// SaveLastDir remembers the directory of the last accepted file.
func SaveLastDir(dir string) error {
	p, err := Load()
	if err != nil {
		p = Prefs{}
	}
	if p.LastDir == dir {
		return nil
	}
	p.LastDir = dir
	return Save(p)
}

// LastDir returns the remembered directory if it still exists.
func LastDir() string {
	p, err := Load()
	if err != nil || p.LastDir == "" {
		return ""
	}
	if info, err := os.Stat(p.LastDir); err != nil || !info.IsDir() {
		return ""
	}
	return p.LastDir
}
