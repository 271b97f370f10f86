package dataset

// The spreadsheet writes the diagnosis as free text. Only these exact
// spellings are accepted.
var diagnosisTokens = map[string]int{
	"Positivo": 1,
	"positivo": 1,
	"Sí":       1,
	"Si":       1,
	"si":       1,
	"Negativo": 0,
	"negativo": 0,
	"No":       0,
	"no":       0,
}

// NormalizeDiagnosis maps a diagnosis cell to 1 (positive) or 0 (negative).
func NormalizeDiagnosis(raw string) (int, error) {
	v, ok := diagnosisTokens[raw]
	if !ok {
		return 0, &DataFormatError{Column: ColDiagnosis, Row: -1, Value: raw, Reason: "unrecognized diagnosis"}
	}
	return v, nil
}
