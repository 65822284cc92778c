package http

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// exportColumns is the flattened column set of a finalized record: the fixed
// metadata first, then every answer field.
var exportColumns = []string{
	"id", "phone", "risk_level", "ga_weeks", "created_at",
	"iniciais", "idade", "sintomas_ids", "comorb_ids", "consultas_qtd",
	"pa_sys", "pa_dia", "peso", "altura", "imc", "habitos",
}

// exportDelimiter maps the sep query parameter to a CSV delimiter.  Only
// common choices are accepted; anything else falls back to the default
// semicolon.
func exportDelimiter(sep string) rune {
	switch strings.ToLower(strings.TrimSpace(sep)) {
	case ",":
		return ','
	case "|":
		return '|'
	case "tab":
		return '\t'
	default:
		return ';'
	}
}

// handleExportCSV dumps every finalized record as one tabular row.  The
// output starts with a UTF-8 BOM so spreadsheet tools decode the accented
// content correctly.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := s.Records.ListRecords(r.Context())
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=prenatal_export.csv")
	w.Write([]byte("\xEF\xBB\xBF"))

	cw := csv.NewWriter(w)
	cw.Comma = exportDelimiter(r.URL.Query().Get("sep"))
	cw.Write(exportColumns)
	for _, rec := range records {
		a := rec.Answers
		cw.Write([]string{
			rec.ID,
			rec.Phone,
			string(rec.RiskTier),
			intOrEmpty(rec.GAWeeks),
			rec.CreatedAt.UTC().Format(time.RFC3339),
			a.Initials,
			intOrEmpty(a.Age),
			strings.Join(a.SymptomIDs, "|"),
			strings.Join(a.ComorbidityIDs, "|"),
			intOrEmpty(a.VisitCount),
			intOrEmpty(a.BPSystolic),
			intOrEmpty(a.BPDiastolic),
			floatOrEmpty(a.WeightKg),
			floatOrEmpty(a.HeightM),
			floatOrEmpty(a.BMI),
			boolOrEmpty(a.UsesSubstances),
		})
	}
	cw.Flush()
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func boolOrEmpty(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "sim"
	}
	return "nao"
}
