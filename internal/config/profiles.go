package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sciingest/internal/chunker"
	"sciingest/internal/indexer"
)

// ProfileConfig overrides the chunking profile of one source type.
// Zero fields keep the default.
type ProfileConfig struct {
	Strategy     string `yaml:"strategy"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// ProfilesFile is the YAML layout of INGEST_PROFILES_FILE:
//
//	profiles:
//	  article:
//	    strategy: boundary
//	    chunk_size: 1500
//	    chunk_overlap: 400
//	  pdf:
//	    strategy: sentence
//	    chunk_size: 1000
type ProfilesFile struct {
	Profiles map[string]ProfileConfig `yaml:"profiles"`
}

// LoadProfiles returns the default profiles with the overrides of path
// applied. An empty path returns the defaults; a missing file is an error.
func LoadProfiles(path string) (indexer.Profiles, error) {
	profiles := indexer.DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	var file ProfilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}

	for sourceType, pc := range file.Profiles {
		prof := profiles.For(sourceType)
		if pc.Strategy != "" {
			prof.Strategy = pc.Strategy
		}
		if pc.ChunkSize != 0 {
			prof.Params.Size = pc.ChunkSize
		}
		if pc.ChunkOverlap != 0 {
			prof.Params.Overlap = pc.ChunkOverlap
		}

		if _, err := chunker.New(prof.Strategy, prof.Params); err != nil {
			return nil, fmt.Errorf("profile %s: %w", sourceType, err)
		}
		profiles[sourceType] = prof
	}
	return profiles, nil
}
