package geo

import "math"

// TileSize is the pixel edge of one map tile at zoom 0.
const TileSize = 256

// MaxLatitude is the Web Mercator latitude limit.
const MaxLatitude = 85.0511287798

// Pixel is a position in world pixel space at some zoom level.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func worldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

// Project converts a coordinate to world pixels at zoom (spherical Web Mercator).
func Project(ll LatLng, zoom float64) Pixel {
	scale := worldSize(zoom)
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, ll.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	return Pixel{
		X: scale * (ll.Lng + 180) / 360,
		Y: scale * (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)),
	}
}

// Unproject converts world pixels at zoom back to a coordinate.
func Unproject(p Pixel, zoom float64) LatLng {
	scale := worldSize(zoom)
	n := math.Pi - 2*math.Pi*p.Y/scale
	return LatLng{
		Lat: 180 / math.Pi * math.Atan(math.Sinh(n)),
		Lng: p.X/scale*360 - 180,
	}
}
