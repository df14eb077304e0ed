package trip

import (
	"sort"
	"time"
)

// midtownZones are the Manhattan Midtown pickup zones of the corridor,
// sorted for binary search.
var midtownZones = []LocID{90, 100, 161, 162, 163, 164, 186, 230, 234}

// jfkZone is the JFK Airport taxi zone.
const jfkZone LocID = 132

// IsMidtown reports whether loc is one of the Midtown pickup zones.
func IsMidtown(loc LocID) bool {
	i := sort.Search(len(midtownZones), func(i int) bool { return midtownZones[i] >= loc })
	return i < len(midtownZones) && midtownZones[i] == loc
}

// IsJFK reports whether loc is the JFK Airport zone.
func IsJFK(loc LocID) bool { return loc == jfkZone }

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}
