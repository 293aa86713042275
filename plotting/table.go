package plotting

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"thinfilm/sweep"
)

// Summary 控制台摘要：每个波长一行，失败行标红（仅终端）
func Summary(w io.Writer, outcomes []sweep.Outcome, report sweep.Report) {
	colorize := shouldColorize(w)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "λ (nm)", "R", "T", "A", "|R+T+ΣA−1|", "status"})
	for _, o := range outcomes {
		if o.OK() {
			r := o.Result
			tw.AppendRow(table.Row{
				o.Index,
				fmt.Sprintf("%.2f", o.Light.Wavelength),
				fmt.Sprintf("%.6f", r.R),
				fmt.Sprintf("%.6f", r.T),
				fmt.Sprintf("%.6f", r.A),
				fmt.Sprintf("%.1e", math.Abs(r.EnergyError)),
				"ok",
			})
			continue
		}
		status := o.Err.Error()
		if colorize {
			status = text.FgRed.Sprint(status)
		}
		tw.AppendRow(table.Row{o.Index, fmt.Sprintf("%.2f", o.Light.Wavelength), "", "", "", "", status})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "", report.String()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
