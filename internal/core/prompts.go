package core

import "prenatal-chatbot/pkg"

// prompts.go defines the Portuguese language messages used by the
// conversation flow.  Keeping all user-facing copy in a separate file makes
// it easy to tweak without touching the rest of the code.

const (
	// Welcome greets a new respondent, states the service disclaimer and asks
	// for the LGPD consent keyword before any question is served.
	Welcome = "Olá! Sou o assistente *Pré-Natal*.\n\n" +
		"*Aviso*: este serviço NÃO substitui atendimento médico. Em emergência, ligue 192 (SAMU).\n\n" +
		"Se você *concorda em participar* e autoriza o uso dos dados para fins acadêmicos " +
		"conforme a LGPD, responda: *ACEITO*.\n\n" +
		"Comandos: *MENU*, *CONTINUAR*, *REINICIAR*, *FIM*, *SAIR*."

	// ConsentConfirmed acknowledges the consent keyword and precedes the
	// first question.
	ConsentConfirmed = "Obrigado. Consentimento registrado. Vamos começar com algumas perguntas rápidas."

	// ConsentReprompt is returned whenever an unconsented respondent sends
	// anything other than the consent keyword.
	ConsentReprompt = "Para iniciar, digite *ACEITO*. Para sair, digite SAIR."

	// Goodbye closes the conversation on FIM/SAIR.
	Goodbye = "Conversa encerrada. Obrigado por participar! Em emergência, 192 (SAMU)."

	// Restarted confirms a REINICIAR command.
	Restarted = "Sessão reiniciada. Para iniciar, digite *ACEITO*."

	// EvaluatingMsg precedes the classification result.
	EvaluatingMsg = "Obrigado. Avaliando suas respostas…"

	// EduOfferMsg offers the personalised educational pack after the result.
	EduOfferMsg = "Deseja receber *material educativo* (dicas personalizadas, sinais de alerta e calendário de consultas)?\n" +
		"Responda 1 para *Sim* ou 2 para *Não*."

	// EduDeclined ends the session when the respondent declines the pack.
	EduDeclined = "Ok, sem material adicional. Conversa finalizada. Obrigado por participar!"

	// InternalErrorMsg is the only message shown for unexpected faults.  The
	// session is deleted before it is sent, so the next message starts fresh.
	InternalErrorMsg = "Ocorreu um erro inesperado. Tente novamente mais tarde."

	// FAQNotFound apologises when an explicit question matched no topic.
	FAQNotFound = "Não encontrei esse tópico. Digite *MENU* para ver as opções ou *CONTINUAR* para seguir o questionário."

	// FAQFooter is appended to every successful FAQ answer mid-questionnaire.
	FAQFooter = "\n\nDigite *CONTINUAR* para voltar ao questionário, *MENU* para ver mais tópicos ou *FIM* para encerrar."

	// AlertBlock is the standing emergency-signs block included in every
	// educational pack.
	AlertBlock = "*Sinais de alerta* — procurar serviço imediatamente / *192 SAMU*:\n" +
		"• Sangramento vaginal\n" +
		"• Dor abdominal forte\n" +
		"• Febre ≥38°C\n" +
		"• Dor de cabeça intensa/visão turva/inchaço súbito\n" +
		"• Ausência de movimentos fetais após 28s"
)

// Command keywords recognised before any step dispatch.  Matching is
// case-insensitive; the literals are a localisation policy, gathered here so
// they stay enumerable.
const (
	CmdEnd      = "FIM"
	CmdExit     = "SAIR"
	CmdRestart  = "REINICIAR"
	CmdMenu     = "MENU"
	CmdContinue = "CONTINUAR"
	CmdConsent  = "ACEITO"
	CmdSkip     = "PULAR"
)

// Greetings re-serve the current question instead of being parsed as input.
var Greetings = map[string]bool{
	"oi": true, "olá": true, "ola": true, "bom dia": true,
	"boa tarde": true, "boa noite": true, "hello": true, "hi": true,
}

// Questions holds the prompt for each data-entry step.  Re-prompts after a
// validation failure reuse the same text.
var Questions = map[pkg.Step]string{
	pkg.StepInitials: "1) Para preservar a privacidade, informe apenas *iniciais* do seu nome (ex.: A.R.M.).",
	pkg.StepAge:      "2) Qual sua *idade* em anos? (ex.: 28)",
	pkg.StepGestationalAge: "3) Informe a *data da última menstruação (DUM)* em *DD/MM/AAAA*\n" +
		"   *ou* digite apenas as *semanas de gestação* (ex.: 22).",
	pkg.StepSymptoms: "4) Você apresenta algum(s) *sintoma(s) agora*? Responda com os números (ex.: 1,3):\n" +
		"1 Sangramento vaginal\n" +
		"2 Dor abdominal intensa\n" +
		"3 Febre (≥ 38°C)\n" +
		"4 Dor de cabeça forte / visão turva / inchaço súbito\n" +
		"5 Náusea/vômito persistente\n" +
		"6 Ausência de movimentos fetais (> 28s)\n" +
		"7 Nenhum dos anteriores",
	pkg.StepComorbidities: "5) Possui alguma *condição de saúde*? (números, ex.: 1,4)\n" +
		"1 Hipertensão\n" +
		"2 Diabetes\n" +
		"3 Infecção urinária atual\n" +
		"4 Nenhuma",
	pkg.StepVisitCount: "6) Quantas *consultas de pré-natal* você já realizou nesta gestação? (ex.: 3)",
	pkg.StepBloodPressure: "7) Você consegue informar sua *pressão arterial* agora?\n" +
		"   Envie como *12x8*, *12/8*, *12 8* ou *120/80* (ou digite *PULAR*).",
	pkg.StepWeight: "8) Informe seu *peso em kg* (ex.: 70). Se não souber, digite *PULAR*.",
	pkg.StepHeight: "9) Informe sua *altura em metros* (ex.: 1.60). Se não souber, digite *PULAR*.",
	pkg.StepHabits: "10) Você usa *tabaco* ou *álcool* atualmente? Responda *1* Sim ou *2* Não.",
}
