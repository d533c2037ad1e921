package city

import "math"

// GeoPoint is a transient latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ReferenceCity is an entry of the coarse nearest-city table.
type ReferenceCity struct {
	Name  string
	Point GeoPoint
}

// Reference lists the major cities a raw coordinate can be snapped to.
var Reference = []ReferenceCity{
	{"北京", GeoPoint{39.9042, 116.4074}},
	{"上海", GeoPoint{31.2304, 121.4737}},
	{"广州", GeoPoint{23.1291, 113.2644}},
	{"深圳", GeoPoint{22.5431, 114.0579}},
	{"杭州", GeoPoint{30.2741, 120.1551}},
	{"成都", GeoPoint{30.5728, 104.0668}},
	{"天津", GeoPoint{39.3434, 117.3616}},
	{"南京", GeoPoint{32.0603, 118.7969}},
	{"武汉", GeoPoint{30.5928, 114.3055}},
	{"西安", GeoPoint{34.3416, 108.9398}},
	{"重庆", GeoPoint{29.563, 106.5516}},
	{"苏州", GeoPoint{31.2989, 120.5853}},
	{"青岛", GeoPoint{36.0662, 120.3826}},
	{"沈阳", GeoPoint{41.8057, 123.4315}},
	{"大连", GeoPoint{38.914, 121.6147}},
	{"厦门", GeoPoint{24.4798, 118.0894}},
	{"南宁", GeoPoint{22.817, 108.3669}},
}

// Nearest returns the reference city closest to p using planar distance over raw
// degrees. Ties keep the earlier table entry.
func Nearest(p GeoPoint) string {
	best := DefaultCity
	bestDist := math.Inf(1)
	for _, c := range Reference {
		d := math.Hypot(c.Point.Lat-p.Lat, c.Point.Lon-p.Lon)
		if d < bestDist {
			bestDist = d
			best = c.Name
		}
	}
	return best
}
