package simeng

import (
	"fmt"
	"math"
	"time"
)

// gravParam is the Earth's gravitational parameter, km^3/s^2.
const gravParam = 398600.4418

// synthesizeTLE renders classical orbital elements as a two-line element
// set so the SGP4 propagator can consume them. Epoch is the scenario
// start; drag and mean-motion derivatives are zeroed since the elements
// describe an idealized initial state.
func synthesizeTLE(name string, noradID int, el elementsLike, epoch time.Time) string {
	epoch = epoch.UTC()
	yy := epoch.Year() % 100
	doy := float64(epoch.YearDay()) + secondsIntoDay(epoch)/86400.0

	intlDesig := fmt.Sprintf("%02d%03dA", yy, noradID%1000)

	line1 := fmt.Sprintf("1 %05dU %-8s %02d%012.8f  .00000000  00000-0  00000-0 0  999",
		noradID, intlDesig, yy, doy)
	line1 += fmt.Sprintf("%d", tleChecksum(line1))

	meanMotion := 86400.0 / orbitalPeriodSeconds(el.SemiMajorAxisKm)
	meanAnom := meanAnomalyDeg(el.TrueAnomalyDeg, el.Eccentricity)

	line2 := fmt.Sprintf("2 %05d %8.4f %8.4f %07d %8.4f %8.4f %11.8f%5d",
		noradID,
		el.InclinationDeg,
		normalizeDeg(el.RAANDeg),
		int(math.Round(el.Eccentricity*1e7)),
		normalizeDeg(el.ArgOfPerigeeDeg),
		meanAnom,
		meanMotion,
		1)
	line2 += fmt.Sprintf("%d", tleChecksum(line2))

	return name + "\n" + line1 + "\n" + line2
}

// elementsLike is the subset of the classical elements the synthesizer
// needs, decoupled from the scenario package's type.
type elementsLike struct {
	SemiMajorAxisKm float64
	Eccentricity    float64
	InclinationDeg  float64
	RAANDeg         float64
	ArgOfPerigeeDeg float64
	TrueAnomalyDeg  float64
}

// orbitalPeriodSeconds returns the Keplerian period for a semi-major
// axis in km.
func orbitalPeriodSeconds(smaKm float64) float64 {
	return 2 * math.Pi * math.Sqrt(smaKm*smaKm*smaKm/gravParam)
}

// meanAnomalyDeg converts true anomaly to mean anomaly through the
// eccentric anomaly.
func meanAnomalyDeg(trueAnomDeg, ecc float64) float64 {
	nu := trueAnomDeg * math.Pi / 180
	ea := 2 * math.Atan2(math.Sqrt(1-ecc)*math.Sin(nu/2), math.Sqrt(1+ecc)*math.Cos(nu/2))
	m := ea - ecc*math.Sin(ea)
	return normalizeDeg(m * 180 / math.Pi)
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func secondsIntoDay(t time.Time) float64 {
	return float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
}

// tleChecksum is the standard TLE line checksum: sum of digits with each
// minus sign counting as 1, modulo 10.
func tleChecksum(line string) int {
	sum := 0
	for _, r := range line {
		switch {
		case r >= '0' && r <= '9':
			sum += int(r - '0')
		case r == '-':
			sum++
		}
	}
	return sum % 10
}
