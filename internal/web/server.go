package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/nuzy/wordup/internal/domain"
	"github.com/nuzy/wordup/internal/session"
)

//go:embed all:templates
var templateFiles embed.FS

// Server is the HTMX presentation layer. It holds no study state of its
// own: every request is answered out of the injected session service.
type Server struct {
	svc       *session.Service
	router    *http.ServeMux
	templates *template.Template
}

// NewServer creates and configures a new server around a running session.
func NewServer(svc *session.Service) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		svc:       svc,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex())
	s.router.HandleFunc("/study/next", s.handleNextCard())
	s.router.HandleFunc("/study/reveal", s.handleReveal())
	s.router.HandleFunc("/study/rate", s.handleRate())
	s.router.HandleFunc("/study/end", s.handleEndSession())
}

type studyView struct {
	DeckName string
	Counts   domain.DeckCounts
	HasCards bool
}

func (s *Server) studyView() studyView {
	return studyView{
		DeckName: s.svc.DeckName(),
		Counts:   s.svc.DeckCounts(),
		HasCards: s.svc.HasCardsToStudy(),
	}
}

// handleIndex renders the study page shell.
func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.templates.ExecuteTemplate(w, "study", s.studyView())
	}
}

type cardView struct {
	studyView
	Card    domain.Card
	Content *domain.Content
	// Interval previews in rating order: Again, Hard, Good, Easy.
	Intervals [4]string
}

// handleNextCard deals the next due card and renders its front.
func (s *Server) handleNextCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.svc.RolloverIfNeeded(); err != nil {
			log.Printf("Error rolling session over: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		current := s.svc.NextCard()
		if current == nil {
			s.templates.ExecuteTemplate(w, "done", s.studyView())
			return
		}
		s.templates.ExecuteTemplate(w, "card_front", cardView{
			studyView: s.studyView(),
			Card:      current.Card,
			Content:   current.Content,
		})
	}
}

// handleReveal renders the back of the current card, with the four rating
// buttons and their interval previews.
func (s *Server) handleReveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := s.svc.Current()
		if current == nil {
			http.Error(w, "No card in play", http.StatusConflict)
			return
		}

		intervals, err := s.svc.NextIntervals()
		if err != nil {
			log.Printf("Error previewing intervals: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.templates.ExecuteTemplate(w, "card_back", cardView{
			studyView: s.studyView(),
			Card:      current.Card,
			Content:   current.Content,
			Intervals: intervals,
		})
	}
}

// handleRate records the rating for the current card, then deals the next.
func (s *Server) handleRate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rating, ok := domain.ParseRating(r.PostFormValue("rating"))
		if !ok {
			http.Error(w, "Invalid rating", http.StatusBadRequest)
			return
		}

		var duration *int64
		if v := r.PostFormValue("duration_ms"); v != "" {
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "Invalid duration", http.StatusBadRequest)
				return
			}
			duration = &ms
		}

		if err := s.svc.Answer(rating, duration); err != nil {
			log.Printf("Error answering card: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Show the next card right away.
		s.handleNextCard()(w, r)
	}
}

// handleEndSession persists the session and renders the summary.
func (s *Server) handleEndSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.svc.Finish(); err != nil {
			log.Printf("Error finishing session: %v", err)
			http.Error(w, "Failed to persist session", http.StatusInternalServerError)
			return
		}
		s.templates.ExecuteTemplate(w, "finished", s.studyView())
	}
}
