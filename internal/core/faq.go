package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"prenatal-chatbot/internal/llm"
	"prenatal-chatbot/pkg"
)

// SearchIndex is the lexical search collaborator: a seeded full-text index
// over the knowledge entries, queried with word tokens and returning ranked
// snippets.  Implemented by db.Repository over Postgres full-text search.
type SearchIndex interface {
	Search(ctx context.Context, tokens []string, limit int) ([]pkg.SearchHit, error)
}

// FAQMenu lists every topic the knowledge base covers.
const FAQMenu = "*Ajuda/Informações* — você pode enviar `? tema` ou escrever em linguagem natural (ex.: \"dor de cabeça\", \"movimentos do bebê\").\n" +
	"• `? primeira consulta` • `? consultas` • `? alimentação`\n" +
	"• `? sintomas` • `? sinais de alerta` • `? vacinação`\n" +
	"• `? exames` • `? diabetes` • `? pressão alta`\n" +
	"• `? parto prematuro` • `? faixa etária`\n" +
	"(Use `MENU` para ver esta lista; `CONTINUAR` volta ao questionário.)"

// KnowledgeEntries returns the curated topic set in definition order.  Order
// matters: trigger phrases overlap between topics (e.g. "consultas" vs
// "exames" wording) and resolution is deliberately first-defined-first-matched
// for compatibility with the collected data.
func KnowledgeEntries() []pkg.KnowledgeEntry {
	return []pkg.KnowledgeEntry{
		{
			Title:    "primeira consulta",
			Triggers: []string{"primeira consulta", "primeira vez", "começar", "iniciar"},
			Body: "*Primeira consulta de pré-natal*\n" +
				"• Anamnese, PA, peso/altura (IMC), exame físico\n" +
				"• Exames iniciais: hemograma, tipagem/Rh, glicemia, sorologias, urina/urocultura\n" +
				"• Orientações: ácido fólico, vacinas, calendário e sinais de alerta",
		},
		{
			Title:    "consultas",
			Triggers: []string{"consultas", "calendário", "frequência", "quantas consultas"},
			Body: "*Calendário de consultas*\n" +
				"• Até 34s: mensais | 34–36s: quinzenais | >36s: semanais\n" +
				"• Mínimo recomendado: 6 consultas",
		},
		{
			Title:    "alimentação",
			Triggers: []string{"alimentação", "dieta", "nutrição", "comida", "peso"},
			Body: "*Alimentação na gestação*\n" +
				"• Refeições fracionadas, hidratação adequada\n" +
				"• Evitar carnes/ovos crus, álcool e excesso de cafeína",
		},
		{
			Title:    "sintomas",
			Triggers: []string{"sintomas", "enjoo", "azia", "constipação", "dor nas costas", "inchaço"},
			Body: "*Sintomas comuns e alívio*\n" +
				"• Náuseas/azia/constipação/dor lombar/edema: medidas não farmacológicas\n" +
				"• Procure serviço se dor intensa, sangramento, febre, cefaleia forte",
		},
		{
			Title:    "sinais de alerta",
			Triggers: []string{"sinais de alerta", "emergência", "perigo"},
			Body: "*Sinais de alerta (procure serviço imediatamente / 192 SAMU)*\n" +
				"• Sangramento, dor abdominal forte, febre, perda de líquido\n" +
				"• Diminuição dos movimentos fetais, cefaleia intensa com visão turva",
		},
		{
			Title:    "vacina",
			Triggers: []string{"vacina", "vacinação", "imunização"},
			Body: "*Vacinas*\n" +
				"• dTpa (20–36s), Influenza (anual), Hepatite B e COVID-19 conforme indicação\n" +
				"• Contraindicadas: tríplice viral, varicela",
		},
		{
			Title:    "exames",
			Triggers: []string{"exames", "ultrassom", "laboratório", "sangue", "urina"},
			Body: "*Exames por trimestre (resumo)*\n" +
				"• 1º: hemograma, tipagem/Rh, glicemia, sorologias, urina/urocultura, US obstétrico\n" +
				"• 2º: TOTG 24–28s, US morfológico\n" +
				"• 3º: hemograma, sorologias de controle, cultura EGB 35–37s",
		},
		{
			Title:    "diabetes",
			Triggers: []string{"diabetes", "glicose", "totg", "açúcar"},
			Body: "*Diabetes gestacional*\n" +
				"• Rastreamento com TOTG 75g (24–28s); dieta, exercícios e, se preciso, insulina",
		},
		{
			Title:    "pressão alta",
			Triggers: []string{"pressão alta", "hipertensão", "pré-eclâmpsia", "eclâmpsia"},
			Body: "*Pressão na gravidez*\n" +
				"• PA ≥140/90 após 20s pede avaliação\n" +
				"• Sinais graves: cefaleia forte, escotomas, dor epigástrica, edema súbito",
		},
		{
			Title:    "parto prematuro",
			Triggers: []string{"parto prematuro", "contrações", "antes da hora"},
			Body: "*Trabalho de parto prematuro*\n" +
				"• Contrações regulares <37s, dor lombar, pressão pélvica, sangramento/perda de líquido",
		},
		{
			Title:    "faixa etária",
			Triggers: []string{"faixa etária", "idade materna", "adolescente", "gravidez após 35"},
			Body: "*Faixa etária e riscos*\n" +
				"• <18 anos ou ≥35 anos podem ter maior chance de alguns eventos obstétricos\n" +
				"• Não é diagnóstico; significa acompanhamento mais próximo e atento",
		},
	}
}

var tokenRE = regexp.MustCompile(`[\p{L}\p{N}_]{3,}`)

// Tokenize extracts the lowercase word tokens (length ≥3) used to build the
// full-text query.
func Tokenize(text string) []string {
	return tokenRE.FindAllString(strings.ToLower(text), -1)
}

// FAQ resolves informational questions in two tiers: exact trigger-phrase
// containment first, then ranked lexical search with an optional generative
// summary over the top hits.  The summarizer is best-effort only; any failure
// falls back silently to the deterministic snippet rendering.
type FAQ struct {
	index      SearchIndex
	summarizer llm.Summarizer // nil when no provider is configured
	entries    []pkg.KnowledgeEntry

	// SummarizeOnlyQuestions restricts the generative tier to queries that
	// carried an explicit leading "?".
	SummarizeOnlyQuestions bool
}

// NewFAQ builds the FAQ resolver over the given index and optional
// summarizer.
func NewFAQ(index SearchIndex, summarizer llm.Summarizer) *FAQ {
	return &FAQ{
		index:                  index,
		summarizer:             summarizer,
		entries:                KnowledgeEntries(),
		SummarizeOnlyQuestions: true,
	}
}

// HasTrigger reports whether the lowercased text contains any known trigger
// phrase.  The flow uses it to divert mid-questionnaire messages to the FAQ.
func (f *FAQ) HasTrigger(text string) bool {
	low := strings.ToLower(text)
	for _, e := range f.entries {
		for _, trig := range e.Triggers {
			if strings.Contains(low, trig) {
				return true
			}
		}
	}
	return false
}

// Answer resolves the query text, returning the answer and true on success.
// A leading "?" is stripped before matching but still marks the query as an
// explicit question for the summarization policy.
func (f *FAQ) Answer(ctx context.Context, text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	isQuestion := strings.HasPrefix(t, "?")
	if isQuestion {
		t = strings.TrimSpace(strings.TrimPrefix(t, "?"))
	}

	// Tier 1: first entry whose trigger phrase is contained in the query.
	for _, e := range f.entries {
		for _, trig := range e.Triggers {
			if strings.Contains(t, trig) {
				return e.Body, true
			}
		}
	}

	// Tier 2: ranked lexical search.
	tokens := Tokenize(t)
	if len(tokens) == 0 {
		return "", false
	}
	hits, err := f.index.Search(ctx, tokens, 3)
	if err != nil || len(hits) == 0 {
		return "", false
	}

	// Tier 3: optional generative summary grounded on the hit bodies.
	if f.summarizer != nil && (isQuestion || !f.SummarizeOnlyQuestions) {
		passages := make([]string, len(hits))
		for i, h := range hits {
			passages[i] = h.Body
		}
		if summary, err := f.summarizer.Summarize(ctx, text, passages); err == nil && summary != "" {
			return summary, true
		}
	}

	bullets := make([]string, len(hits))
	for i, h := range hits {
		snippet := h.Snippet
		if snippet == "" {
			snippet = h.Body
		}
		bullets[i] = fmt.Sprintf("• *%s*: %s", capitalize(h.Title), snippet)
	}
	return "*Informações relacionadas:*\n" + strings.Join(bullets, "\n"), true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
