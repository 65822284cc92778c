package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"prenatal-chatbot/internal/core"
	"prenatal-chatbot/pkg"
)

type fakeSessions struct {
	m map[string]pkg.Session
}

func (s *fakeSessions) GetSession(ctx context.Context, phone string) (*pkg.Session, error) {
	sess, ok := s.m[phone]
	if !ok {
		return nil, nil
	}
	cp := sess
	return &cp, nil
}

func (s *fakeSessions) UpsertSession(ctx context.Context, sess pkg.Session) error {
	s.m[sess.Phone] = sess
	return nil
}

func (s *fakeSessions) DeleteSession(ctx context.Context, phone string) error {
	delete(s.m, phone)
	return nil
}

type fakeRecords struct {
	recs []pkg.Record
}

func (r *fakeRecords) AppendRecord(ctx context.Context, rec pkg.Record) error {
	r.recs = append(r.recs, rec)
	return nil
}

func (r *fakeRecords) ListRecords(ctx context.Context) ([]pkg.Record, error) {
	return r.recs, nil
}

type fakeIndex struct{}

func (fakeIndex) Search(ctx context.Context, tokens []string, limit int) ([]pkg.SearchHit, error) {
	return nil, nil
}

func newTestRouter() (chi.Router, *fakeSessions, *fakeRecords) {
	sessions := &fakeSessions{m: make(map[string]pkg.Session)}
	records := &fakeRecords{}
	engine := core.NewEngine(sessions, records, core.NewFAQ(fakeIndex{}, nil))
	r := chi.NewRouter()
	RegisterRoutes(r, NewServer(engine, records))
	return r, sessions, records
}

func postWebhook(t *testing.T, r chi.Router, path, from, body string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"From": {from}, "Body": {body}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookWrapsReplyInTwiML(t *testing.T) {
	r, sessions, _ := newTestRouter()

	w := postWebhook(t, r, "/whatsapp", "whatsapp:+5511999990000", "oi")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Response><Message>") || !strings.Contains(body, "Pré-Natal") {
		t.Errorf("unexpected TwiML body: %s", body)
	}
	// the whatsapp: prefix must be stripped from the session key
	if _, ok := sessions.m["+5511999990000"]; !ok {
		t.Error("session not keyed by bare phone number")
	}
}

func TestWebhookRejectsMissingSender(t *testing.T) {
	r, _, _ := newTestRouter()
	if w := postWebhook(t, r, "/whatsapp", "", "oi"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestWebhookTestAlwaysAnswers(t *testing.T) {
	r, _, _ := newTestRouter()
	w := postWebhook(t, r, "/whatsapp-test", "whatsapp:+5511999990000", "qualquer coisa")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Webhook OK") {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var payload struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil || !payload.OK {
		t.Fatalf("health payload invalid: %v", err)
	}
}

func exportRecord() pkg.Record {
	weeks := 22
	sys, dia := 120, 80
	return pkg.Record{
		ID:        "11111111-1111-1111-1111-111111111111",
		Phone:     "+5511999990000",
		RiskTier:  pkg.TierRoutine,
		GAWeeks:   &weeks,
		CreatedAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		Answers: pkg.Answers{
			Initials:       "A.R.M.",
			GAWeeks:        &weeks,
			SymptomIDs:     []string{"5", "7"},
			ComorbidityIDs: []string{"4"},
			BPSystolic:     &sys,
			BPDiastolic:    &dia,
		},
	}
}

func TestExportCSVDefaultSemicolon(t *testing.T) {
	r, _, records := newTestRouter()
	records.recs = append(records.recs, exportRecord())

	req := httptest.NewRequest(http.MethodGet, "/export.csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Error("export must start with a UTF-8 BOM")
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "prenatal_export.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\xEF\xBB\xBF")), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id;phone;risk_level;ga_weeks;created_at") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "5|7") {
		t.Errorf("multi-select ids should be pipe-joined: %q", lines[1])
	}
	if !strings.Contains(lines[1], ";ROTINA;22;") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportCSVSeparatorParam(t *testing.T) {
	r, _, records := newTestRouter()
	records.recs = append(records.recs, exportRecord())

	for sep, delim := range map[string]string{",": ",", "|": "|", "tab": "\t", "%3B": ";"} {
		req := httptest.NewRequest(http.MethodGet, "/export.csv?sep="+sep, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		header := strings.SplitN(strings.TrimPrefix(w.Body.String(), "\xEF\xBB\xBF"), "\n", 2)[0]
		if !strings.Contains(header, "id"+delim+"phone") {
			t.Errorf("sep=%s header = %q, want delimiter %q", sep, header, delim)
		}
	}
}
