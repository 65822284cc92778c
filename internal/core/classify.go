package core

import (
	"math"
	"strings"

	"prenatal-chatbot/pkg"
)

// Valid answer ids for the multi-select questions.
var (
	ValidSymptomIDs     = map[string]bool{"1": true, "2": true, "3": true, "4": true, "5": true, "6": true, "7": true}
	ValidComorbidityIDs = map[string]bool{"1": true, "2": true, "3": true, "4": true}
)

// SevereSymptomIDs are the symptom ids that alone make the case emergent:
// bleeding, severe abdominal pain, fever, severe headache/blurred
// vision/sudden swelling, absent fetal movement.
var SevereSymptomIDs = map[string]bool{"1": true, "2": true, "3": true, "4": true, "6": true}

const absentFetalMovementID = "6"

// Comorbidity ids referenced by the classifier and the educational pack.
const (
	comorbHypertension = "1"
	comorbDiabetes     = "2"
	comorbUTI          = "3"
)

// Classify evaluates the whole answer record and returns a risk tier with a
// human-readable rationale.  Rules run in priority order and the first
// emergent rule wins; the priority tier instead concatenates every matching
// reason so nothing is hidden from the respondent.
func Classify(a pkg.Answers) (pkg.Tier, string) {
	for _, id := range a.SymptomIDs {
		if SevereSymptomIDs[id] {
			return pkg.TierEmergent, "Sintoma(s) de alerta reportado(s). Orientar ida IMEDIATA ao serviço / 192."
		}
	}
	if a.BPSystolic != nil && a.BPDiastolic != nil && (*a.BPSystolic >= 160 || *a.BPDiastolic >= 110) {
		return pkg.TierEmergent, "Pressão arterial muito elevada (≥160/110). Procurar emergência."
	}

	var reasons []string
	if a.Age != nil && (*a.Age < 18 || *a.Age >= 35) {
		reasons = append(reasons, "Faixa etária (<18 ou ≥35) pode elevar riscos obstétricos; acompanhamento mais próximo é recomendado.")
	}
	for _, id := range a.ComorbidityIDs {
		if id == comorbHypertension || id == comorbDiabetes || id == comorbUTI {
			reasons = append(reasons, "Comorbidade (hipertensão/diabetes/ITU).")
			break
		}
	}
	if a.GAWeeks != nil && *a.GAWeeks >= 28 && contains(a.SymptomIDs, absentFetalMovementID) {
		reasons = append(reasons, "Queixa sobre movimentos fetais no 3º trimestre.")
	}
	if a.BPSystolic != nil && a.BPDiastolic != nil && (*a.BPSystolic >= 140 || *a.BPDiastolic >= 90) {
		reasons = append(reasons, "Pressão arterial elevada (≥140/90).")
	}
	if a.BMI != nil && *a.BMI >= 30 {
		reasons = append(reasons, "IMC elevado (≥30).")
	}
	if a.UsesSubstances != nil && *a.UsesSubstances {
		reasons = append(reasons, "Uso de tabaco/álcool (risco gestacional).")
	}
	if len(reasons) > 0 {
		return pkg.TierPriority, strings.Join(reasons, "; ") +
			" Para saber mais, envie `? faixa etária` ou `? pressão alta`. Orientar avaliação em breve (hoje/amanhã)."
	}
	return pkg.TierRoutine, "Sem sinais de alerta no momento. Manter acompanhamento de pré-natal e orientações gerais."
}

// ComputeBMI derives weight/(height²) rounded to one decimal, or nil when
// either input is missing.  The flow recomputes it whenever weight or height
// changes so the stored value never goes stale.
func ComputeBMI(weightKg, heightM *float64) *float64 {
	if weightKg == nil || heightM == nil || *heightM == 0 {
		return nil
	}
	bmi := math.Round(*weightKg / (*heightM * *heightM) * 10) / 10
	return &bmi
}

func contains(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
