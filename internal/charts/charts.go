// Package charts builds the descriptive views of an uploaded patient table.
// Each view is a small aggregate plus a Vega-Lite spec the dashboard renders.
package charts

import (
	"math"
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/Skufu/CardioRisk/internal/dataset"
)

const (
	KindHistogram = "histogram"
	KindScatter   = "scatter"
	KindLine      = "line"
	KindBar       = "bar"
	KindPie       = "pie"

	fieldCount = "count"
	fieldLabel = "LABEL"
)

type View struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Kind  string           `json:"kind"`
	Data  []map[string]any `json:"data,omitempty"`
	Spec  map[string]any   `json:"spec,omitempty"`
	Error string           `json:"error,omitempty"`
}

type Gallery struct {
	Views []View `json:"views"`
}

// Failed returns the views that could not be computed.
func (g Gallery) Failed() []View {
	return lo.Filter(g.Views, func(v View, _ int) bool { return v.Error != "" })
}

type chart struct {
	id    string
	title string
	kind  string
	build func(t *dataset.Table) ([]map[string]any, map[string]any, error)
}

var catalog = []chart{
	{
		id: "cholesterol-distribution", title: "Distribución del colesterol", kind: KindHistogram,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := countByValue(t, dataset.ColCholesterol)
			if err != nil {
				return nil, nil, err
			}
			return data, barSpec(data, dataset.ColCholesterol, "quantitative", "Colesterol (mg/dL)", fieldCount, "Cantidad de pacientes"), nil
		},
	},
	{
		id: "bmi-vs-cholesterol", title: "Relación IMC vs Colesterol", kind: KindScatter,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := points(t, dataset.ColBMI, dataset.ColCholesterol, dataset.ColDiagnosis)
			if err != nil {
				return nil, nil, err
			}
			return data, scatterSpec(data, dataset.ColBMI, "IMC", dataset.ColCholesterol, "Colesterol (mg/dL)", dataset.ColDiagnosis), nil
		},
	},
	{
		id: "sleep-vs-stress", title: "Horas de sueño vs Nivel de estrés", kind: KindScatter,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := points(t, dataset.ColSleepHours, dataset.ColStress, "")
			if err != nil {
				return nil, nil, err
			}
			return data, scatterSpec(data, dataset.ColSleepHours, "Horas de sueño", dataset.ColStress, "Nivel de estrés", ""), nil
		},
	},
	{
		id: "diagnosis-by-activity", title: "Tendencia de diagnóstico según actividad física", kind: KindLine,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColPhysicalActivity, dataset.ColDiagnosis, 100)
			if err != nil {
				return nil, nil, err
			}
			return data, lineSpec(data, dataset.ColPhysicalActivity, "Actividad física", dataset.ColDiagnosis, "% Diagnóstico positivo"), nil
		},
	},
	{
		id: "bmi-by-activity", title: "Distribución del IMC según nivel de actividad física", kind: KindBar,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColPhysicalActivity, dataset.ColBMI, 1)
			if err != nil {
				return nil, nil, err
			}
			return data, barSpec(data, dataset.ColPhysicalActivity, "nominal", "Actividad física", dataset.ColBMI, "IMC promedio"), nil
		},
	},
	{
		id: "diagnosis-by-diet", title: "Diagnóstico positivo según calidad de dieta", kind: KindBar,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColDietQuality, dataset.ColDiagnosis, 100)
			if err != nil {
				return nil, nil, err
			}
			return data, barSpec(data, dataset.ColDietQuality, "nominal", "Calidad de dieta", dataset.ColDiagnosis, "% Diagnóstico positivo"), nil
		},
	},
	{
		id: "cholesterol-by-diet", title: "Distribución del colesterol según calidad de dieta", kind: KindBar,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColDietQuality, dataset.ColCholesterol, 1)
			if err != nil {
				return nil, nil, err
			}
			return data, barSpec(data, dataset.ColDietQuality, "nominal", "Calidad de dieta", dataset.ColCholesterol, "Colesterol promedio"), nil
		},
	},
	{
		id: "diagnosis-by-slope", title: "Diagnóstico positivo según tipo de pendiente (Slope)", kind: KindPie,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColSlope, dataset.ColDiagnosis, 100)
			if err != nil {
				return nil, nil, err
			}
			for _, row := range data {
				row[fieldLabel] = row[dataset.ColSlope].(string) + " (" + formatRate(row[dataset.ColDiagnosis].(float64)) + "%)"
			}
			return data, pieSpec(data, dataset.ColDiagnosis, "% positivo", fieldLabel, "Tipo de pendiente"), nil
		},
	},
	{
		id: "oldpeak-by-slope", title: "Distribución del Oldpeak según pendiente (Slope)", kind: KindBar,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColSlope, dataset.ColOldpeak, 1)
			if err != nil {
				return nil, nil, err
			}
			return data, barSpec(data, dataset.ColSlope, "nominal", "Tipo de pendiente", dataset.ColOldpeak, "Oldpeak promedio"), nil
		},
	},
	{
		id: "stress-by-diagnosis", title: "Nivel de estrés según diagnóstico", kind: KindBar,
		build: func(t *dataset.Table) ([]map[string]any, map[string]any, error) {
			data, err := groupMean(t, dataset.ColDiagnosis, dataset.ColStress, 1)
			if err != nil {
				return nil, nil, err
			}
			sort.SliceStable(data, func(i, j int) bool {
				return data[i][dataset.ColDiagnosis].(string) < data[j][dataset.ColDiagnosis].(string)
			})
			return data, barSpec(data, dataset.ColDiagnosis, "nominal", "Diagnóstico (0 = Negativo / 1 = Positivo)", dataset.ColStress, "Nivel promedio de estrés"), nil
		},
	},
}

// Build computes every view of the gallery. A view whose columns are missing
// or malformed carries its error and does not affect the others.
func Build(t *dataset.Table) Gallery {
	views := make([]View, 0, len(catalog))
	for _, c := range catalog {
		view := View{ID: c.id, Title: c.title, Kind: c.kind}
		data, spec, err := c.build(t)
		if err != nil {
			view.Error = err.Error()
		} else {
			view.Data = data
			view.Spec = spec
		}
		views = append(views, view)
	}
	return Gallery{Views: views}
}

// groupMean averages valueCol per distinct key of keyCol, in order of first
// appearance, multiplied by scale. Empty keys and empty values are skipped.
func groupMean(t *dataset.Table, keyCol, valueCol string, scale float64) ([]map[string]any, error) {
	keys, err := t.Strings(keyCol)
	if err != nil {
		return nil, err
	}
	values, err := t.Floats(valueCol)
	if err != nil {
		return nil, err
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for i, key := range keys {
		if key == "" || math.IsNaN(values[i]) {
			continue
		}
		sums[key] += values[i]
		counts[key]++
	}

	order := lo.Filter(lo.Uniq(keys), func(k string, _ int) bool { return counts[k] > 0 })
	return lo.Map(order, func(k string, _ int) map[string]any {
		return map[string]any{
			keyCol:   k,
			valueCol: sums[k] / float64(counts[k]) * scale,
		}
	}), nil
}

// countByValue counts rows per distinct value of a numeric column, ascending.
func countByValue(t *dataset.Table, column string) ([]map[string]any, error) {
	values, err := t.Floats(column)
	if err != nil {
		return nil, err
	}

	counts := lo.CountValues(lo.Reject(values, func(v float64, _ int) bool { return math.IsNaN(v) }))
	keys := lo.Keys(counts)
	sort.Float64s(keys)

	return lo.Map(keys, func(v float64, _ int) map[string]any {
		return map[string]any{column: v, fieldCount: counts[v]}
	}), nil
}

// points pairs two numeric columns row by row, with an optional color column.
func points(t *dataset.Table, xCol, yCol, colorCol string) ([]map[string]any, error) {
	xs, err := t.Floats(xCol)
	if err != nil {
		return nil, err
	}
	ys, err := t.Floats(yCol)
	if err != nil {
		return nil, err
	}
	var colors []string
	if colorCol != "" {
		if colors, err = t.Strings(colorCol); err != nil {
			return nil, err
		}
	}

	out := make([]map[string]any, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		p := map[string]any{xCol: xs[i], yCol: ys[i]}
		if colors != nil {
			p[colorCol] = colors[i]
		}
		out = append(out, p)
	}
	return out, nil
}

// formatRate rounds to one decimal, halves to even.
func formatRate(rate float64) string {
	return strconv.FormatFloat(math.RoundToEven(rate*10)/10, 'f', 1, 64)
}
