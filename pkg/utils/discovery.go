package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/picogrid/air-raid-simulation/pkg/logger"
	"github.com/picogrid/air-raid-simulation/pkg/simulation"
)

// ManifestFileName is the file name scanned for by DiscoverManifests
const ManifestFileName = "simulation.yaml"

// DiscoveredManifest is a simulation manifest found on disk
type DiscoveredManifest struct {
	Path     string
	Manifest *simulation.Manifest
}

// DiscoverManifests walks root and parses every simulation.yaml it finds.
// An empty root scans the cmd directory of the enclosing module.
func DiscoverManifests(root string) ([]DiscoveredManifest, error) {
	if root == "" {
		projectRoot, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(projectRoot, "cmd")
	}

	var found []DiscoveredManifest
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != ManifestFileName {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warnf("Failed to read %s: %v", path, err)
			return nil
		}
		m, err := simulation.ParseManifest(data)
		if err != nil {
			logger.Warnf("Skipping %s: %v", path, err)
			return nil
		}
		found = append(found, DiscoveredManifest{Path: filepath.Dir(path), Manifest: m})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for simulations: %w", err)
	}

	return found, nil
}

// findProjectRoot walks up from the working directory to the nearest go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}
