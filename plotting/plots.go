package plotting

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// 输出文件名
const (
	TotalSpectraFile = "Total_Spectra.png"
	LayerAbsorbFile  = "Layer_Absorb.png"
)

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func newSpectrumPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Wavelength (nm)"
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// TRAPlots 在 dir 下写出总光谱图与逐层吸收图，返回文件路径
func TRAPlots(dir string, rec *Record) ([]string, error) {
	if rec.Len() == 0 {
		return nil, fmt.Errorf("plot: no successful wavelengths")
	}

	total := newSpectrumPlot("Total spectra")
	total.Y.Label.Text = "R, T, A"
	if err := plotutil.AddLinePoints(total,
		"R", xys(rec.Wavelength, rec.R),
		"T", xys(rec.Wavelength, rec.T),
		"A", xys(rec.Wavelength, rec.A),
	); err != nil {
		return nil, fmt.Errorf("plot total spectra: %w", err)
	}

	layers := newSpectrumPlot("Layer absorption")
	layers.Y.Label.Text = "A"
	var lines []interface{}
	for i, name := range rec.LayerNames {
		lines = append(lines, layerColumn(name, i), xys(rec.Wavelength, rec.LayerA[i]))
	}
	if len(lines) > 0 {
		if err := plotutil.AddLinePoints(layers, lines...); err != nil {
			return nil, fmt.Errorf("plot layer absorption: %w", err)
		}
	}

	var paths []string
	for _, out := range []struct {
		name string
		p    *plot.Plot
	}{
		{TotalSpectraFile, total},
		{LayerAbsorbFile, layers},
	} {
		path := filepath.Join(dir, out.name)
		if err := out.p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", out.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
