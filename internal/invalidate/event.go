// Package invalidate consumes region update events from Kafka and applies
// them to the registry, flushing the lookup cache after every change.
package invalidate

import (
	"fmt"
	"strings"
	"time"

	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

// Event ops.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// Event is one region mutation. Upserts carry exactly one of bbox
// (minLon, minLat, maxLon, maxLat) or ring ((lat, lng) vertices), plus an
// optional center; deletes carry the name alone.
type Event struct {
	Version int          `json:"version"`
	Op      string       `json:"op"`
	Name    string       `json:"name"`
	TS      time.Time    `json:"ts"`
	Source  string       `json:"source,omitempty"`
	BBox    *[4]float64  `json:"bbox,omitempty"`
	Ring    []geo.LatLng `json:"ring,omitempty"`
	Center  *geo.LatLng  `json:"center,omitempty"`
}

func (e Event) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case OpUpsert, OpDelete:
	default:
		return fmt.Errorf("op must be upsert|delete")
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}

	hasBBox := e.BBox != nil
	hasRing := len(e.Ring) > 0

	if e.Op == OpDelete {
		if hasBBox || hasRing || e.Center != nil {
			return fmt.Errorf("delete must not carry geometry")
		}
		return nil
	}

	if hasBBox == hasRing {
		return fmt.Errorf("exactly one of bbox or ring is required")
	}
	if hasBBox {
		bb := *e.BBox
		if !(bb[0] >= -180 && bb[0] <= 180 && bb[2] >= -180 && bb[2] <= 180) {
			return fmt.Errorf("bbox longitude out of range")
		}
		if !(bb[1] >= -90 && bb[1] <= 90 && bb[3] >= -90 && bb[3] <= 90) {
			return fmt.Errorf("bbox latitude out of range")
		}
		if !(bb[2] > bb[0] && bb[3] > bb[1]) {
			return fmt.Errorf("bbox must satisfy max > min")
		}
	}
	if hasRing {
		if len(e.Ring) < 3 {
			return fmt.Errorf("ring needs at least 3 vertices")
		}
		for i, v := range e.Ring {
			if v.Lng < -180 || v.Lng > 180 || v.Lat < -90 || v.Lat > 90 {
				return fmt.Errorf("ring vertex %d out of range", i)
			}
		}
	}
	if c := e.Center; c != nil {
		if c.Lng < -180 || c.Lng > 180 || c.Lat < -90 || c.Lat > 90 {
			return fmt.Errorf("center out of range")
		}
	}
	return nil
}
