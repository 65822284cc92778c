package core

import (
	"context"
	"strings"
	"time"

	"prenatal-chatbot/pkg"
)

// SessionStore is the durable per-respondent conversation state.  Get
// returns (nil, nil) when no session exists.  Upsert must be an atomic
// create-or-update per phone; the engine holds no locks of its own.
type SessionStore interface {
	GetSession(ctx context.Context, phone string) (*pkg.Session, error)
	UpsertSession(ctx context.Context, s pkg.Session) error
	DeleteSession(ctx context.Context, phone string) error
}

// RecordStore persists finalized questionnaire records.  Append-only: the
// engine never updates or deletes what it wrote.
type RecordStore interface {
	AppendRecord(ctx context.Context, rec pkg.Record) error
}

// Engine is the conversation state machine.  Each inbound message is an
// independent request-response unit: the session is loaded at the start,
// written back before the reply, and nothing survives in memory between
// calls.
type Engine struct {
	sessions SessionStore
	records  RecordStore
	faq      *FAQ
	limits   Limits
	now      func() time.Time
}

// NewEngine wires the state machine to its collaborators.
func NewEngine(sessions SessionStore, records RecordStore, faq *FAQ) *Engine {
	return &Engine{
		sessions: sessions,
		records:  records,
		faq:      faq,
		limits:   DefaultLimits,
		now:      time.Now,
	}
}

// Handle processes one inbound message and returns the single outbound
// reply.  Global commands are checked before any step dispatch; any internal
// fault deletes the session so a corrupted state never survives, and the
// respondent only ever sees a calm generic message.
func (e *Engine) Handle(ctx context.Context, phone, body string) string {
	body = strings.TrimSpace(body)
	up := strings.ToUpper(body)
	low := strings.ToLower(body)

	switch up {
	case CmdEnd, CmdExit:
		if err := e.sessions.DeleteSession(ctx, phone); err != nil {
			return InternalErrorMsg
		}
		return Goodbye
	case CmdRestart:
		if err := e.sessions.DeleteSession(ctx, phone); err != nil {
			return InternalErrorMsg
		}
		if err := e.persist(ctx, &pkg.Session{Phone: phone}); err != nil {
			return e.failSafe(ctx, phone)
		}
		return Restarted
	case CmdMenu:
		return FAQMenu
	}

	sess, err := e.sessions.GetSession(ctx, phone)
	if err != nil {
		return e.failSafe(ctx, phone)
	}
	if sess == nil {
		if err := e.persist(ctx, &pkg.Session{Phone: phone}); err != nil {
			return e.failSafe(ctx, phone)
		}
		return Welcome
	}

	// Informational diversion: explicit questions and any message carrying a
	// known trigger phrase resolve through the FAQ without touching state.
	if strings.HasPrefix(up, "?") || e.faq.HasTrigger(low) {
		if ans, ok := e.faq.Answer(ctx, body); ok {
			return ans + FAQFooter
		}
		if strings.HasPrefix(up, "?") {
			return FAQNotFound
		}
		// Not an explicit question and no match: fall through to dispatch.
	}

	if !sess.Consented {
		if up == CmdConsent {
			sess.Consented = true
			sess.Step = pkg.StepInitials
			if err := e.persist(ctx, sess); err != nil {
				return e.failSafe(ctx, phone)
			}
			return ConsentConfirmed + "\n\n" + Questions[pkg.StepInitials]
		}
		return ConsentReprompt
	}

	// Greetings and CONTINUAR re-serve the current question unchanged.
	if Greetings[low] || up == CmdContinue {
		if q, ok := Questions[sess.Step]; ok {
			return q
		}
		return "Vamos continuar."
	}

	reply, err := e.dispatch(ctx, sess, body, up)
	if err != nil {
		return e.failSafe(ctx, phone)
	}
	return reply
}

// dispatch runs the handler for the session's current step.  Invalid input
// re-serves the step's own prompt without persisting anything; valid input
// writes the parsed value, advances exactly one step and returns the next
// prompt.
func (e *Engine) dispatch(ctx context.Context, sess *pkg.Session, body, up string) (string, error) {
	a := &sess.Answers
	switch sess.Step {

	case pkg.StepInitials:
		a.Initials = truncateRunes(body, 20)
		return e.advance(ctx, sess, pkg.StepAge)

	case pkg.StepAge:
		age := e.limits.ParseAge(body)
		if age == nil {
			return "Informe uma *idade válida* (ex.: 28).", nil
		}
		a.Age = age
		return e.advance(ctx, sess, pkg.StepGestationalAge)

	case pkg.StepGestationalAge:
		weeks := e.limits.ParseWeeksOrDate(body, e.now())
		if weeks == nil {
			return notUnderstood(sess.Step), nil
		}
		a.GAWeeks = weeks
		return e.advance(ctx, sess, pkg.StepSymptoms)

	case pkg.StepSymptoms:
		ids, ok := ParseMultiSelect(body, ValidSymptomIDs)
		if !ok {
			return notUnderstood(sess.Step), nil
		}
		a.SymptomIDs = ids
		return e.advance(ctx, sess, pkg.StepComorbidities)

	case pkg.StepComorbidities:
		ids, ok := ParseMultiSelect(body, ValidComorbidityIDs)
		if !ok {
			return notUnderstood(sess.Step), nil
		}
		a.ComorbidityIDs = ids
		return e.advance(ctx, sess, pkg.StepVisitCount)

	case pkg.StepVisitCount:
		n := e.limits.ParseVisitCount(body)
		if n == nil {
			return "Informe um número *válido* de consultas (ex.: 3).", nil
		}
		a.VisitCount = n
		return e.advance(ctx, sess, pkg.StepBloodPressure)

	case pkg.StepBloodPressure:
		if up == CmdSkip {
			a.BPSystolic, a.BPDiastolic = nil, nil
		} else {
			sys, dia, ok := e.limits.ParseBloodPressure(body)
			if !ok {
				return notUnderstood(sess.Step), nil
			}
			a.BPSystolic, a.BPDiastolic = &sys, &dia
		}
		return e.advance(ctx, sess, pkg.StepWeight)

	case pkg.StepWeight:
		if up == CmdSkip {
			a.WeightKg = nil
		} else {
			w := e.limits.ParseWeightKg(body)
			if w == nil {
				return notUnderstood(sess.Step), nil
			}
			a.WeightKg = w
		}
		a.BMI = ComputeBMI(a.WeightKg, a.HeightM)
		return e.advance(ctx, sess, pkg.StepHeight)

	case pkg.StepHeight:
		if up == CmdSkip {
			a.HeightM = nil
		} else {
			h := e.limits.ParseHeightM(body)
			if h == nil {
				return notUnderstood(sess.Step), nil
			}
			a.HeightM = h
		}
		a.BMI = ComputeBMI(a.WeightKg, a.HeightM)
		return e.advance(ctx, sess, pkg.StepHabits)

	case pkg.StepHabits:
		if body != "1" && body != "2" {
			return "Responda *1* para Sim ou *2* para Não.", nil
		}
		uses := body == "1"
		a.UsesSubstances = &uses
		return e.finish(ctx, sess)

	case pkg.StepEduOffer:
		switch body {
		case "1":
			tier, _ := Classify(*a)
			sess.Step = pkg.StepOpen
			if err := e.persist(ctx, sess); err != nil {
				return "", err
			}
			return EducationalPack(*a, tier), nil
		case "2":
			if err := e.sessions.DeleteSession(ctx, sess.Phone); err != nil {
				return "", err
			}
			return EduDeclined, nil
		default:
			return "Responda 1 para *Sim* ou 2 para *Não*.", nil
		}

	case pkg.StepOpen:
		if up == CmdContinue {
			return "Podemos continuar pelo *MENU* (envie `MENU`) ou encerrar com *FIM*.", nil
		}
		return "Se quiser mais informações, envie `MENU` ou `? tema` (ex.: `? alimentação`). Para encerrar, mande *FIM*.", nil

	default:
		if err := e.sessions.DeleteSession(ctx, sess.Phone); err != nil {
			return "", err
		}
		return "Sessão reiniciada. Digite *ACEITO* para iniciar.", nil
	}
}

// finish runs the classifier over the completed record, appends the
// immutable snapshot and moves the session to the result/offer step.
func (e *Engine) finish(ctx context.Context, sess *pkg.Session) (string, error) {
	tier, rationale := Classify(sess.Answers)
	rec := pkg.Record{
		Phone:    sess.Phone,
		Answers:  sess.Answers,
		RiskTier: tier,
		GAWeeks:  sess.Answers.GAWeeks,
	}
	if err := e.records.AppendRecord(ctx, rec); err != nil {
		return "", err
	}
	sess.Step = pkg.StepEduOffer
	if err := e.persist(ctx, sess); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(EvaluatingMsg)
	b.WriteString("\n\n*Classificação:* " + string(tier) + "\n")
	b.WriteString("*Justificativa:* " + rationale + "\n")
	switch tier {
	case pkg.TierEmergent:
		b.WriteString("➡️ Procure um serviço de *emergência agora* ou ligue *192 (SAMU)*.\n")
	case pkg.TierPriority:
		b.WriteString("➡️ Procure *avaliação na sua unidade* ainda hoje/amanhã.\n")
	default:
		b.WriteString("➡️ Mantenha seu *acompanhamento de rotina*.\n")
	}
	b.WriteString("\n" + EduOfferMsg)
	return b.String(), nil
}

func (e *Engine) advance(ctx context.Context, sess *pkg.Session, next pkg.Step) (string, error) {
	sess.Step = next
	if err := e.persist(ctx, sess); err != nil {
		return "", err
	}
	return Questions[next], nil
}

func (e *Engine) persist(ctx context.Context, sess *pkg.Session) error {
	sess.UpdatedAt = e.now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.UpdatedAt
	}
	return e.sessions.UpsertSession(ctx, *sess)
}

// failSafe deletes whatever session state exists and returns the generic
// apology.  Called on any unexpected fault so a half-updated session is
// never left behind.
func (e *Engine) failSafe(ctx context.Context, phone string) string {
	_ = e.sessions.DeleteSession(ctx, phone)
	return InternalErrorMsg
}

func notUnderstood(step pkg.Step) string {
	return "Não entendi.\n\n" + Questions[step]
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
