package export

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/satnetlab/satnet/internal/access"
)

// Bar colors per link class. Presentational only.
var classColors = map[access.Class]color.Color{
	access.ClassSatGround: color.RGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xb0},
	access.ClassSatAir:    color.RGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xb0},
	access.ClassGroundAir: color.RGBA{R: 0xd3, G: 0x6b, B: 0x1f, A: 0xb0},
}

// WriteTimeline renders the access timeline as a PNG: one horizontal lane
// per link, one bar per interval, x-axis in hours from the window start.
// Links are grouped by class so same-colored lanes sit together.
func WriteTimeline(set *access.Set, path string) error {
	p := plot.New()
	p.Title.Text = "Communication Access Timeline"
	p.X.Label.Text = "Time (hours from start)"
	p.X.Min = 0
	p.X.Max = set.Window.Duration().Hours()

	lanes := make([]string, len(set.Links))
	laneIndex := make(map[string]int, len(set.Links))
	laneClass := make(map[string]access.Class, len(set.Links))
	for i, l := range set.Links {
		lanes[i] = l.ID
		laneIndex[l.ID] = i
		laneClass[l.ID] = l.Class
	}
	p.NominalY(lanes...)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(lanes)) - 0.5

	for _, iv := range set.Intervals {
		lane, ok := laneIndex[iv.Link]
		if !ok {
			continue
		}
		x0 := iv.Start.Sub(set.Window.Start).Hours()
		x1 := iv.Stop.Sub(set.Window.Start).Hours()
		y := float64(lane)

		bar, err := plotter.NewPolygon(plotter.XYs{
			{X: x0, Y: y - 0.35},
			{X: x1, Y: y - 0.35},
			{X: x1, Y: y + 0.35},
			{X: x0, Y: y + 0.35},
		})
		if err != nil {
			return err
		}
		bar.Color = classColors[laneClass[iv.Link]]
		bar.LineStyle.Width = vg.Points(0.5)
		p.Add(bar)
	}

	wt, err := p.WriterTo(14*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return err
	}
	return writeAtomic(path, func(f *os.File) error {
		_, err := wt.WriteTo(f)
		return err
	})
}
