// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"sync"
	"time"
	_ "time/tzdata" // Asia/Jakarta tetap ada di container tanpa zoneinfo
)

const DefaultTimezone = "Asia/Jakarta"

var (
	jakartaOnce sync.Once
	jakartaLoc  *time.Location
)

// SchoolLocation: Asia/Jakarta, fallback UTC kalau tzdata tidak ada.
func SchoolLocation() *time.Location {
	jakartaOnce.Do(func() {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
		jakartaLoc = loc
	})
	return jakartaLoc
}
