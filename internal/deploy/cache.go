// Package deploy pushes the backend schema and captures the deployed
// backend's connection settings.
package deploy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"time"
)

// Cache records the schema file hashes of the last successful deploy.
type Cache struct {
	Hashes     map[string]string `json:"hashes"`
	LastDeploy time.Time         `json:"lastDeploy"`
}

// LoadCache reads the cache file, returning an empty cache when it does not exist.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Cache{Hashes: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse deploy cache %s: %w", path, err)
	}
	if c.Hashes == nil {
		c.Hashes = map[string]string{}
	}
	return &c, nil
}

func (c *Cache) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Changed reports whether hashes differ from the recorded ones.
func (c *Cache) Changed(hashes map[string]string) bool {
	return !maps.Equal(c.Hashes, hashes)
}

// HashFiles returns the sha256 of every file matching pattern, keyed by path.
func HashFiles(pattern string) (map[string]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]string, len(paths))
	for _, path := range paths {
		sum, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		hashes[path] = sum
	}
	return hashes, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
