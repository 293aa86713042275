package plotting

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"thinfilm/logging"
)

// Charts 交互式光谱图表
type Charts struct {
	*Record
	Title  string
	Logger *slog.Logger
}

func newSpectrumLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "Wavelength (nm)",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min: 0,
			Max: 1,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i].Value = v
	}
	return items
}

// Render 输出 HTML 页面：总光谱与逐层吸收
func (c *Charts) Render(w io.Writer) error {
	title := c.Title
	if title == "" {
		title = "Spectra"
	}
	total := newSpectrumLine(title, "R / T / A")
	total.SetXAxis(c.Wavelength).
		AddSeries("R", lineData(c.R)).
		AddSeries("T", lineData(c.T)).
		AddSeries("A", lineData(c.A))

	layers := newSpectrumLine("Layer absorption", "自下而上各内部层")
	layers.SetXAxis(c.Wavelength)
	for i, name := range c.LayerNames {
		layers.AddSeries(layerColumn(name, i), lineData(c.LayerA[i]))
	}

	page := components.NewPage()
	page.AddCharts(total, layers)
	return page.Render(w)
}

// Handler 发布到网页
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

// Error 记录渲染错误，未设置 Logger 时丢弃
func (c *Charts) Error(err error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger.Error("render charts", "error", err)
}
