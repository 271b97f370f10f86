package charts

import (
	"strings"
	"testing"

	"github.com/Skufu/CardioRisk/internal/dataset"
)

func newTable(t *testing.T, header []string, rows [][]string) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(header, rows)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func fullTable(t *testing.T) *dataset.Table {
	header := []string{
		dataset.ColCholesterol, dataset.ColBMI, dataset.ColSleepHours, dataset.ColStress,
		dataset.ColPhysicalActivity, dataset.ColDietQuality, dataset.ColSlope, dataset.ColOldpeak, dataset.ColDiagnosis,
	}
	rows := [][]string{
		{"250", "28", "7", "5", "Low", "Good", "Up", "1.0", "Positivo"},
		{"200", "35", "3", "9", "High", "Poor", "Flat", "3.0", "no"},
		{"250", "25", "8", "3", "Low", "Good", "Up", "0.5", "negativo"},
		{"180", "22", "9", "2", "High", "Poor", "Down", "0.0", "No"},
		{"300", "31", "4", "8", "High", "Good", "Flat", "2.0", "Si"},
	}
	return newTable(t, header, rows)
}

func viewByID(t *testing.T, g Gallery, id string) View {
	t.Helper()
	for _, v := range g.Views {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("view %q not found", id)
	return View{}
}

func TestBuildProducesTenViews(t *testing.T) {
	g := Build(fullTable(t))
	if len(g.Views) != 10 {
		t.Fatalf("expected 10 views, got %d", len(g.Views))
	}
	if failed := g.Failed(); len(failed) != 0 {
		t.Fatalf("expected no failures, got %+v", failed)
	}
	for _, v := range g.Views {
		if v.Spec == nil || v.Spec["$schema"] != vegaLiteSchema {
			t.Fatalf("view %s missing spec", v.ID)
		}
	}
}

func TestDiagnosisRateByActivityKeepsGroupOrder(t *testing.T) {
	header := []string{dataset.ColPhysicalActivity, dataset.ColDiagnosis}
	rows := [][]string{
		{"Low", "Positivo"}, {"Low", "no"},
		{"High", "si"}, {"High", "No"}, {"High", "no"}, {"High", "Negativo"}, {"High", "negativo"},
	}
	g := Build(newTable(t, header, rows))

	v := viewByID(t, g, "diagnosis-by-activity")
	if v.Error != "" {
		t.Fatalf("unexpected error: %s", v.Error)
	}
	if len(v.Data) != 2 {
		t.Fatalf("expected 2 groups, got %+v", v.Data)
	}
	want := []struct {
		key  string
		rate float64
	}{{"Low", 50.0}, {"High", 20.0}}
	for i, w := range want {
		if v.Data[i][dataset.ColPhysicalActivity] != w.key || v.Data[i][dataset.ColDiagnosis] != w.rate {
			t.Fatalf("group %d = %+v, want %s %.1f", i, v.Data[i], w.key, w.rate)
		}
	}
}

func TestMissingColumnFailsOnlyAffectedViews(t *testing.T) {
	header := []string{dataset.ColPhysicalActivity, dataset.ColDiagnosis, dataset.ColStress}
	rows := [][]string{{"Low", "si", "4"}, {"High", "no", "6"}}
	g := Build(newTable(t, header, rows))

	if len(g.Views) != 10 {
		t.Fatalf("expected 10 views, got %d", len(g.Views))
	}

	ok := map[string]bool{"diagnosis-by-activity": true, "stress-by-diagnosis": true}
	for _, v := range g.Views {
		if ok[v.ID] && v.Error != "" {
			t.Fatalf("view %s should render, got %s", v.ID, v.Error)
		}
		if !ok[v.ID] && !strings.Contains(v.Error, "missing column") {
			t.Fatalf("view %s should fail with missing column, got %+v", v.ID, v)
		}
	}
}

func TestNonNumericColumnFailsView(t *testing.T) {
	header := []string{dataset.ColDietQuality, dataset.ColCholesterol, dataset.ColDiagnosis}
	rows := [][]string{{"Good", "alto", "si"}, {"Poor", "200", "no"}}
	g := Build(newTable(t, header, rows))

	if v := viewByID(t, g, "cholesterol-by-diet"); !strings.Contains(v.Error, "not a number") {
		t.Fatalf("expected format error, got %+v", v)
	}
	if v := viewByID(t, g, "diagnosis-by-diet"); v.Error != "" {
		t.Fatalf("diet diagnosis view should render, got %s", v.Error)
	}
}

func TestSlopePieLabels(t *testing.T) {
	header := []string{dataset.ColSlope, dataset.ColDiagnosis}
	rows := [][]string{
		{"Up", "si"}, {"Up", "no"}, {"Up", "no"},
		{"Flat", "si"},
		{"Down", "no"},
	}
	v := viewByID(t, Build(newTable(t, header, rows)), "diagnosis-by-slope")

	want := []string{"Up (33.3%)", "Flat (100.0%)", "Down (0.0%)"}
	if len(v.Data) != len(want) {
		t.Fatalf("expected %d slices, got %+v", len(want), v.Data)
	}
	for i, label := range want {
		if v.Data[i][fieldLabel] != label {
			t.Fatalf("slice %d label = %v, want %s", i, v.Data[i][fieldLabel], label)
		}
	}
	if v.Spec["mark"] != "arc" {
		t.Fatalf("expected arc mark, got %v", v.Spec["mark"])
	}
}

func TestSlopePieLabelRoundsHalfToEven(t *testing.T) {
	header := []string{dataset.ColSlope, dataset.ColDiagnosis}
	rows := [][]string{{"Up", "si"}}
	for i := 0; i < 15; i++ {
		rows = append(rows, []string{"Up", "no"})
	}
	v := viewByID(t, Build(newTable(t, header, rows)), "diagnosis-by-slope")

	if len(v.Data) != 1 || v.Data[0][fieldLabel] != "Up (6.2%)" {
		t.Fatalf("expected Up (6.2%%), got %+v", v.Data)
	}
}

func TestStressByDiagnosisOrdersNegativeFirst(t *testing.T) {
	v := viewByID(t, Build(fullTable(t)), "stress-by-diagnosis")
	if len(v.Data) != 2 {
		t.Fatalf("expected 2 groups, got %+v", v.Data)
	}
	if v.Data[0][dataset.ColDiagnosis] != "0" || v.Data[1][dataset.ColDiagnosis] != "1" {
		t.Fatalf("unexpected group order %+v", v.Data)
	}
	// negatives: stress 9, 3, 2; positives: 5, 8
	if got := v.Data[0][dataset.ColStress].(float64); got < 4.66 || got > 4.67 {
		t.Fatalf("unexpected negative mean %v", got)
	}
	if got := v.Data[1][dataset.ColStress].(float64); got != 6.5 {
		t.Fatalf("unexpected positive mean %v", got)
	}
}

func TestCholesterolHistogram(t *testing.T) {
	v := viewByID(t, Build(fullTable(t)), "cholesterol-distribution")
	want := []struct {
		value float64
		count int
	}{{180, 1}, {200, 1}, {250, 2}, {300, 1}}
	if len(v.Data) != len(want) {
		t.Fatalf("expected %d buckets, got %+v", len(want), v.Data)
	}
	for i, w := range want {
		if v.Data[i][dataset.ColCholesterol] != w.value || v.Data[i][fieldCount] != w.count {
			t.Fatalf("bucket %d = %+v, want %v", i, v.Data[i], w)
		}
	}
}

func TestScatterSkipsEmptyCells(t *testing.T) {
	header := []string{dataset.ColBMI, dataset.ColCholesterol, dataset.ColDiagnosis}
	rows := [][]string{{"28", "250", "si"}, {"", "200", "no"}, {"31", "300", "Positivo"}}
	v := viewByID(t, Build(newTable(t, header, rows)), "bmi-vs-cholesterol")

	if len(v.Data) != 2 {
		t.Fatalf("expected 2 points, got %+v", v.Data)
	}
	if v.Data[1][dataset.ColDiagnosis] != "1" {
		t.Fatalf("expected diagnosis color on points, got %+v", v.Data[1])
	}
}

func TestFormatRate(t *testing.T) {
	tests := map[float64]string{
		50: "50.0", 33.333: "33.3", 66.666: "66.7", 0: "0.0", 100: "100.0",
		6.25: "6.2", 31.25: "31.2", 18.75: "18.8",
	}
	for in, want := range tests {
		if got := formatRate(in); got != want {
			t.Fatalf("formatRate(%v) = %s, want %s", in, got, want)
		}
	}
}
