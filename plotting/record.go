// Package plotting 整理扫描结果并输出：PNG 光谱图、HTML 交互图表、CSV 表格与控制台摘要。
package plotting

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"thinfilm/sweep"
)

// Record 按波长排列的光谱，只包含成功的波长
type Record struct {
	Wavelength []float64   // 波长列 nm
	R, T, A    []float64   // 总反射、透射、吸收
	LayerNames []string    // 内部层名称（自下而上）
	LayerA     [][]float64 // LayerA[层][波长]
	Failed     []float64   // 失败的波长
}

// NewRecord 由有序的扫描结果构造
func NewRecord(outcomes []sweep.Outcome) *Record {
	rec := &Record{}
	for _, o := range outcomes {
		if !o.OK() {
			rec.Failed = append(rec.Failed, o.Light.Wavelength)
			continue
		}
		r := o.Result
		if rec.LayerA == nil {
			rec.LayerNames = append([]string(nil), r.LayerNames...)
			rec.LayerA = make([][]float64, len(r.LayerA))
		}
		rec.Wavelength = append(rec.Wavelength, r.Wavelength)
		rec.R = append(rec.R, r.R)
		rec.T = append(rec.T, r.T)
		rec.A = append(rec.A, r.A)
		for i, a := range r.LayerA {
			rec.LayerA[i] = append(rec.LayerA[i], a)
		}
	}
	return rec
}

// Len 成功的波长数
func (rec *Record) Len() int {
	return len(rec.Wavelength)
}

// Render 输出 JSON
func (rec *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(rec) }

// DataFrame 光谱表：wavelength_nm, R, T, A, A_<层名>...
func (rec *Record) DataFrame() dataframe.DataFrame {
	cols := []series.Series{
		series.New(rec.Wavelength, series.Float, "wavelength_nm"),
		series.New(rec.R, series.Float, "R"),
		series.New(rec.T, series.Float, "T"),
		series.New(rec.A, series.Float, "A"),
	}
	for i, name := range rec.LayerNames {
		cols = append(cols, series.New(rec.LayerA[i], series.Float, layerColumn(name, i)))
	}
	return dataframe.New(cols...)
}

// WriteCSV 写出光谱表
func (rec *Record) WriteCSV(w io.Writer) error {
	return rec.DataFrame().WriteCSV(w)
}

// layerColumn 层列名，同名层按位置区分
func layerColumn(name string, i int) string {
	return fmt.Sprintf("A%d_%s", i, name)
}
