// Package airquality estimates PM2.5 along a route from a snapshot of
// monitoring station readings.
package airquality

import (
	"time"

	"github.com/breatheroute/phri/internal/exposure"
	"github.com/breatheroute/phri/pkg/geo"
)

// Station is a monitoring station and its latest PM2.5 reading.
type Station struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Location   geo.Coordinate `json:"location"`
	PM25       float64        `json:"pm25"`
	MeasuredAt time.Time      `json:"measuredAt,omitempty"`
}

// Snapshot is a point-in-time set of station readings supplied by the caller.
type Snapshot struct {
	Stations []Station `json:"stations"`

	// Provider identifies the data source.
	Provider string `json:"provider,omitempty"`
}

// Usable returns the stations with a valid location and reading.
func (s *Snapshot) Usable() []Station {
	if s == nil {
		return nil
	}
	out := make([]Station, 0, len(s.Stations))
	for _, st := range s.Stations {
		if st.Location.Validate() != nil || !exposure.ValidSample(st.PM25) {
			continue
		}
		out = append(out, st)
	}
	return out
}
