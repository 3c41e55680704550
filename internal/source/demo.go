package source

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tmsolberg/nmeahub/internal/nmea"
)

// DemoSource synthesizes valid GGA+RMC batches for testing without a
// receiver. It simulates driving a circle around a fixed point.
type DemoSource struct {
	mu sync.Mutex
	t  float64
}

func NewDemo() *DemoSource { return &DemoSource{} }

func (d *DemoSource) Name() string   { return "Demo NMEA (Simulated)" }
func (d *DemoSource) Connect() error { return nil }
func (d *DemoSource) Close() error   { return nil }

// ReadBatch returns one concatenated GGA+RMC batch per call, so the
// dispatch fan-out path is exercised even in demo mode.
func (d *DemoSource) ReadBatch() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.t += 0.1

	centerLat := 63.4305 // Trondheim
	centerLon := 10.3951
	radius := 0.005 // ~500m

	lat := centerLat + radius*math.Sin(d.t*0.1)
	lon := centerLon + radius*math.Cos(d.t*0.1)
	speed := 3.0 + 2.0*math.Sin(d.t*0.3) + rand.Float64()
	course := math.Mod(d.t*10, 360)
	now := time.Now().UTC()
	clock := now.Format("150405.00")
	date := now.Format("020106")

	gga := nmea.Sentence(fmt.Sprintf("GNGGA,%s,%s,%s,2,12,0.80,48.2,M,41.1,M,,",
		clock, packedCoord(lat, 2), packedCoord(lon, 3)))
	rmc := nmea.Sentence(fmt.Sprintf("GNRMC,%s,A,%s,%s,%.3f,%.1f,%s,,,A",
		clock, packedCoord(lat, 2), packedCoord(lon, 3), speed, course, date))

	return gga + rmc, nil
}

// packedCoord formats decimal degrees as NMEA ddmm.mmmm plus hemisphere,
// e.g. "6325.8300,N". degDigits is 2 for latitude, 3 for longitude.
func packedCoord(dec float64, degDigits int) string {
	hemi := "N"
	if degDigits == 3 {
		hemi = "E"
		if dec < 0 {
			hemi = "W"
		}
	} else if dec < 0 {
		hemi = "S"
	}
	abs := math.Abs(dec)
	deg := math.Floor(abs)
	min := (abs - deg) * 60
	return fmt.Sprintf("%0*d%07.4f,%s", degDigits, int(deg), min, hemi)
}
