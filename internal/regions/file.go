package regions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

type regionFile struct {
	Regions []fileEntry `yaml:"regions"`
}

// fileEntry mirrors Build's inputs: bbox is (minLon, minLat, maxLon, maxLat),
// ring vertices and center are (lat, lng).
type fileEntry struct {
	Name   string       `yaml:"name"`
	BBox   *[4]float64  `yaml:"bbox,omitempty"`
	Ring   []geo.LatLng `yaml:"ring,omitempty"`
	Center *geo.LatLng  `yaml:"center,omitempty"`
}

// LoadFile seeds the registry from a YAML region file. Any malformed entry
// aborts the load with an error naming the file and entry index; entries
// before it stay applied.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("region file: %w", err)
	}

	var f regionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("region file %s: %w", path, err)
	}
	if len(f.Regions) == 0 {
		return fmt.Errorf("region file %s: no regions defined", path)
	}

	for i, fe := range f.Regions {
		entry, err := Build(fe.Name, fe.BBox, fe.Ring, fe.Center)
		if err != nil {
			return fmt.Errorf("region file %s: entry %d: %w", path, i, err)
		}
		if err := r.Upsert(entry); err != nil {
			return fmt.Errorf("region file %s: entry %d: %w", path, i, err)
		}
	}

	r.log.Info().Str("path", path).Int("regions", len(f.Regions)).Msg("region file loaded")
	return nil
}
