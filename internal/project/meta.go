package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// MetaFileName is the marker file `cocos new` writes into every project.
const MetaFileName = ".cocos-project.json"

// ErrNoMeta is returned by ReadMeta when the directory has no
// .cocos-project.json, i.e. it is not a cocos project.
var ErrNoMeta = errors.New("no " + MetaFileName + " found")

// Meta is the subset of .cocos-project.json that cocoskel reports.
//
// Example file written by cocos2d-x 3.x:
//
//	{
//	    "has_native": true,
//	    "project_type": "cpp",
//	    "engine_version": "cocos2d-x-3.17.2"
//	}
type Meta struct {
	// ProjectType is the language template the project was created from
	// ("cpp", "lua" or "js").
	ProjectType string `json:"project_type"`

	// EngineVersion is the engine release that generated the project.
	EngineVersion string `json:"engine_version,omitempty"`

	// HasNative reports whether the project carries native sources.
	HasNative bool `json:"has_native"`
}

// ReadMeta reads dir/.cocos-project.json. Hand-edited files frequently
// contain comments or trailing commas, so the content goes through
// jsonc.ToJSON before decoding.
func ReadMeta(dir string) (*Meta, error) {
	path := filepath.Join(dir, MetaFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoMeta)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var meta Meta
	if err := json.Unmarshal(jsonc.ToJSON(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &meta, nil
}
