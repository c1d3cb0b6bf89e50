// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// SearchFile is an on-disk search request. The CLI reads these so that
// recurring queries can live under version control instead of long flag
// lists. Exactly one of the blocks should be set; when several are set the
// most specific one (combined, then projects, then publications) wins.
type SearchFile struct {
	Projects     *ProjectSearchOptions     `yaml:"projects"`
	Publications *PublicationSearchOptions `yaml:"publications"`
	Combined     *CombinedSearchOptions    `yaml:"combined"`
}

// ReadSearchFile loads a YAML search request from path.
func ReadSearchFile(path string) (*SearchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading search file: %w", err)
	}

	var sf SearchFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing search file %s: %w", path, err)
	}

	if sf.Projects == nil && sf.Publications == nil && sf.Combined == nil {
		return nil, fmt.Errorf("search file %s names no search: expected a projects, publications, or combined block", path)
	}
	return &sf, nil
}
