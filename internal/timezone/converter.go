// Package timezone converts UTC instants into wall-clock time for IANA zones.
package timezone

import (
	"fmt"
	"strings"
	"sync"
	"time"

	// Embed the zone database so conversion does not depend on the host image.
	_ "time/tzdata"

	"github.com/Domenick1991/classbooking/internal/domain"
)

// Converter resolves zone names and converts instants. Loaded locations are memoized.
type Converter struct {
	locations sync.Map // map[string]*time.Location
}

func NewConverter() *Converter {
	return &Converter{}
}

// Location resolves an IANA zone identifier such as "Asia/Kolkata".
func (c *Converter) Location(zone string) (*time.Location, error) {
	zone = strings.TrimSpace(zone)
	// time.LoadLocation maps "" and "Local" to non-IANA locations.
	if zone == "" || zone == "Local" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTimezone, zone)
	}
	if loc, ok := c.locations.Load(zone); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTimezone, zone)
	}
	c.locations.Store(zone, loc)
	return loc, nil
}

// ToLocal returns instant expressed in the given zone.
func (c *Converter) ToLocal(instant time.Time, zone string) (time.Time, error) {
	loc, err := c.Location(zone)
	if err != nil {
		return time.Time{}, err
	}
	return instant.In(loc), nil
}
