package pkg

import "time"

// Step identifies a position in the fixed questionnaire sequence.  Step 0 is
// the pre-consent welcome; steps 1–10 are the data-entry questions; the
// remaining steps cover the post-classification flow.
type Step int

const (
	StepConsent        Step = iota // waiting for the consent keyword
	StepInitials                   // 1) name initials
	StepAge                        // 2) age in years
	StepGestationalAge             // 3) LMP date or weeks
	StepSymptoms                   // 4) current symptom ids
	StepComorbidities              // 5) comorbidity ids
	StepVisitCount                 // 6) prenatal visits so far
	StepBloodPressure              // 7) blood pressure (or skip)
	StepWeight                     // 8) weight in kg (or skip)
	StepHeight                     // 9) height in metres (or skip)
	StepHabits                     // 10) tobacco/alcohol yes/no
	StepEduOffer                   // 11) result shown, offer of educational pack pending
	StepOpen                       // 12) post-completion; only FAQ/MENU/FIM served
)

// Tier is the classifier's output severity label.
type Tier string

const (
	TierEmergent Tier = "EMERGENTE"
	TierPriority Tier = "PRIORITÁRIO"
	TierRoutine  Tier = "ROTINA"
)

// Answers accumulates the respondent's questionnaire answers.  Each field is
// owned by exactly one step; pointer fields distinguish "not answered yet"
// (or explicitly skipped) from a zero value.  The json tags keep the field
// names of the original data collection, which the CSV export also uses.
type Answers struct {
	Initials       string   `json:"iniciais,omitempty"`
	Age            *int     `json:"idade,omitempty"`
	GAWeeks        *int     `json:"ga_weeks,omitempty"`
	SymptomIDs     []string `json:"sintomas_ids,omitempty"`
	ComorbidityIDs []string `json:"comorb_ids,omitempty"`
	VisitCount     *int     `json:"consultas_qtd,omitempty"`
	BPSystolic     *int     `json:"pa_sys,omitempty"`
	BPDiastolic    *int     `json:"pa_dia,omitempty"`
	WeightKg       *float64 `json:"peso,omitempty"`
	HeightM        *float64 `json:"altura,omitempty"`
	BMI            *float64 `json:"imc,omitempty"`
	UsesSubstances *bool    `json:"habitos,omitempty"`
}

// Session is the durable per-respondent conversation state, keyed by the
// phone-like identifier the transport supplies.  At most one session exists
// per identifier; it is deleted on termination, restart or internal fault.
type Session struct {
	Phone     string    `json:"phone"`
	Step      Step      `json:"step"`
	Answers   Answers   `json:"answers"`
	Consented bool      `json:"consented"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record is the append-only snapshot written once per completed questionnaire
// pass.  It is never updated or deleted; the CSV export reads it back.
type Record struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Answers   Answers   `json:"answers"`
	RiskTier  Tier      `json:"risk_tier"`
	GAWeeks   *int      `json:"ga_weeks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// KnowledgeEntry is one seeded educational topic.  Triggers are the literal
// phrases that select the entry verbatim; Title/Body/Triggers also feed the
// full-text index used by the lexical search fallback.
type KnowledgeEntry struct {
	Title    string
	Body     string
	Triggers []string
}

// SearchHit is one ranked result from the full-text index.  Snippet holds the
// matched region with '*' markers and a few words of context; Score is the
// relevance rank, higher meaning more relevant.
type SearchHit struct {
	Title   string
	Snippet string
	Body    string
	Score   float64
}
