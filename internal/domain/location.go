package domain

import "strings"

// Location optionally pins a habit or task to a place.
type Location struct {
	Name string   `json:"location_name"`
	Lat  *float64 `json:"location_lat" validate:"omitempty,gte=-90,lte=90"`
	Lon  *float64 `json:"location_lon" validate:"omitempty,gte=-180,lte=180"`
}

func (l Location) IsZero() bool {
	return l.Name == "" && l.Lat == nil && l.Lon == nil
}

func (l Location) normalized() Location {
	l.Name = strings.TrimSpace(l.Name)
	return l
}

// check records coordinate pairing problems; ranges come from struct tags.
func (l Location) check(verr *ValidationError) {
	if (l.Lat == nil) != (l.Lon == nil) {
		verr.Add("location_lat and location_lon must be set together")
	}
}
