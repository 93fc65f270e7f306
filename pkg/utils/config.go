package utils

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Graph         string  // Graph resource (local path or url)
	Format        string  // "pages" (default) or "edgelist"
	Dampener      float64 // Only used by the edgelist format
	Output        string  // Report file; stdout if empty
	MaxIterations int     // 0: iterate until convergence
}

// Load a json configuration file (e.g. config.json)
func LoadConfiguration(path string) (config Config, err error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read: %v", err)
		return
	}
	// Parse file into Config struct
	if err = json.Unmarshal(bytes, &config); err != nil {
		err = fmt.Errorf("parse: %v", err)
		return
	}
	if config.Dampener < 0 || config.Dampener > 1 {
		err = fmt.Errorf("invalid Dampener %v: must be in range (0, 1]", config.Dampener)
		return
	}
	if config.MaxIterations < 0 {
		err = fmt.Errorf("invalid MaxIterations %d", config.MaxIterations)
		return
	}
	return
}
