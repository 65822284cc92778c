package core

import (
	"strings"

	"prenatal-chatbot/pkg"
)

// TrimesterFromWeeks maps gestational weeks to trimester 1–3, or 0 when the
// weeks are unknown.
func TrimesterFromWeeks(weeks *int) int {
	if weeks == nil {
		return 0
	}
	switch {
	case *weeks < 14:
		return 1
	case *weeks < 28:
		return 2
	default:
		return 3
	}
}

// CalendarTip returns the visit-schedule advice appropriate for the current
// gestational age.
func CalendarTip(weeks *int) string {
	if weeks == nil {
		return "• Consultas: mensais até 34s; quinzenais 34–36s; semanais >36s."
	}
	switch {
	case *weeks < 34:
		return "• Consultas: mensais até 34s; depois quinzenais."
	case *weeks < 36:
		return "• Consultas: quinzenais até 36s; depois semanais."
	default:
		return "• Consultas: semanais a partir de 36s."
	}
}

// TrimesterExams lists the routine exams of the current trimester.
func TrimesterExams(weeks *int) string {
	switch TrimesterFromWeeks(weeks) {
	case 1:
		return "• 1º tri: hemograma, tipagem/Rh, glicemia, sorologias, urina/urocultura, US obstétrico."
	case 2:
		return "• 2º tri: TOTG 24–28s, US morfológico."
	case 3:
		return "• 3º tri: hemograma, sorologias de controle, cultura para EGB 35–37s."
	default:
		return "• Exames por trimestre variam; siga o pedido da sua unidade."
	}
}

// VaccinesTip returns vaccine guidance; the dTpa line is gated by its
// 20–36 week application window.
func VaccinesTip(weeks *int) string {
	if weeks == nil {
		return "• Vacinas: Influenza (anual), Hep. B e COVID-19 conforme indicação; dTpa entre 20–36s."
	}
	var tips []string
	if 20 <= *weeks && *weeks <= 36 {
		tips = append(tips, "• dTpa entre 20–36s.")
	}
	tips = append(tips, "• Influenza (anual), Hep. B e COVID-19 conforme indicação.")
	return strings.Join(tips, "\n")
}

// EducationalPack assembles the personalised content offered after
// classification: tier framing, schedule and exam tips for the current
// trimester, vaccine windows, conditional add-ons keyed by the collected
// risk flags, the standing alert block and a closing footer.
func EducationalPack(a pkg.Answers, tier pkg.Tier) string {
	var block []string
	switch tier {
	case pkg.TierEmergent:
		block = append(block, "*Prioridade:* sinais de gravidade detectados. Procure *emergência agora* / 192.")
	case pkg.TierPriority:
		block = append(block, "*Prioridade:* avaliação em breve (hoje/amanhã) na sua unidade.")
	default:
		block = append(block, "*Rotina:* manter acompanhamento e autocuidados.")
	}
	block = append(block, CalendarTip(a.GAWeeks), TrimesterExams(a.GAWeeks), VaccinesTip(a.GAWeeks))

	if a.BMI != nil && *a.BMI >= 30 {
		block = append(block, "• IMC elevado (≥30): foco em alimentação equilibrada, atividade leve e metas de ganho de peso orientadas pela equipe.")
	}
	if a.BPSystolic != nil && a.BPDiastolic != nil && (*a.BPSystolic >= 140 || *a.BPDiastolic >= 90) {
		block = append(block, "• Pressão arterial elevada: meça em horários regulares e leve os registros à sua unidade.")
	}
	if contains(a.ComorbidityIDs, comorbDiabetes) {
		block = append(block, "• Diabetes/risco: siga orientações de dieta, atividade e metas glicêmicas; TOTG 24–28s se ainda não realizou.")
	}
	if contains(a.ComorbidityIDs, comorbHypertension) {
		block = append(block, "• Hipertensão: atenção a cefaleia forte, escotomas, dor em “boca do estômago” e inchaço súbito.")
	}
	if a.UsesSubstances != nil && *a.UsesSubstances {
		block = append(block, "• Tabaco/álcool: interromper traz benefício imediato; busque apoio na sua unidade.")
	}
	block = append(block, "\n"+AlertBlock)
	block = append(block, "\nTem dúvidas? Envie `? tema` (ex.: `? pressão alta`, `? alimentação`) ou `MENU` para a lista. Para encerrar, mande *FIM*.")
	return strings.Join(block, "\n")
}
