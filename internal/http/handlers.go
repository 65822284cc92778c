package http

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"prenatal-chatbot/internal/core"
	"prenatal-chatbot/pkg"
)

// RecordLister is the read side of the export endpoint, satisfied by
// db.Repository.
type RecordLister interface {
	ListRecords(ctx context.Context) ([]pkg.Record, error)
}

// Server bundles the dependencies required by the HTTP handlers: the
// conversation engine for the webhook and the record store for the export.
type Server struct {
	Engine  *core.Engine
	Records RecordLister
}

// NewServer constructs a Server.
func NewServer(engine *core.Engine, records RecordLister) *Server {
	return &Server{Engine: engine, Records: records}
}

// RegisterRoutes mounts the endpoints on the given router.
func RegisterRoutes(r chi.Router, s *Server) {
	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/whatsapp", s.handleWebhook)
	r.Post("/whatsapp-test", s.handleWebhookTest)
	r.Get("/export.csv", s.handleExportCSV)
}

// twiml is the Twilio messaging response envelope.  The core returns plain
// text only; this is the one place it gets wrapped for the transport.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func writeTwiML(w http.ResponseWriter, message string) {
	body, err := xml.Marshal(twiml{Message: message})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	w.Write(body)
}

// senderPhone extracts the respondent identifier from Twilio's From field,
// stripping the channel prefix.
func senderPhone(from string) string {
	return strings.TrimPrefix(from, "whatsapp:")
}

// handleWebhook is the main messaging webhook: one inbound form-encoded
// message in, one TwiML-wrapped reply out.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	body := strings.TrimSpace(r.FormValue("Body"))
	phone := senderPhone(r.FormValue("From"))
	if phone == "" {
		http.Error(w, "missing sender", http.StatusBadRequest)
		return
	}
	reply := s.Engine.Handle(r.Context(), phone, body)
	writeTwiML(w, reply)
}

// handleWebhookTest always answers, regardless of conversation state.  It
// exists so the channel wiring can be verified before pointing the real
// webhook at /whatsapp.
func (s *Server) handleWebhookTest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	phone := senderPhone(r.FormValue("From"))
	log.Printf("test webhook from %s: %q", phone, r.FormValue("Body"))
	writeTwiML(w, "✅ Webhook OK. Use /whatsapp para o fluxo completo. Envie *ACEITO* para começar.")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Chatbot Pré-Natal: /health, /whatsapp (POST), /whatsapp-test (POST), /export.csv"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}
