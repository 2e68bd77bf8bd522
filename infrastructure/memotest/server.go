// Package memotest hosts an in-memory memo backend speaking the same
// HTTP/JSON surface the client consumes. Tests and local demos run against
// it instead of a real deployment.
package memotest

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"memoclient/domain"
)

// Server is an in-memory memo backend. All state lives behind one mutex;
// timestamps come from a logical clock so orderings are deterministic.
type Server struct {
	mu     sync.Mutex
	logger *zap.Logger

	jwtSecret string
	// DefaultCreator owns writes on unauthenticated servers
	DefaultCreator string

	clock          int64
	nextMemoID     int64
	nextResourceID int64

	memos     map[int64]*domain.Memo
	users     map[string]*domain.User
	tags      map[string]map[string]struct{} // username -> tag names
	resources map[int64]*domain.Resource
}

// NewServer creates an empty backend
func NewServer(logger *zap.Logger) *Server {
	return &Server{
		logger:         logger,
		DefaultCreator: "demo",
		clock:          1_700_000_000,
		memos:          make(map[int64]*domain.Memo),
		users:          make(map[string]*domain.User),
		tags:           make(map[string]map[string]struct{}),
		resources:      make(map[int64]*domain.Resource),
	}
}

// SetJWTSecret enables bearer-token authentication on every route
func (s *Server) SetJWTSecret(secret string) {
	s.jwtSecret = secret
}

// Token issues a signed access token for the username
func (s *Server) Token(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// AddUser seeds a user
func (s *Server) AddUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Username()] = user.Clone()
}

// AddMemo seeds a memo, assigning id and timestamps when absent, and
// registers its content tags for the creator.
func (s *Server) AddMemo(memo *domain.Memo) *domain.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := memo.Clone()
	if stored.ID == 0 {
		s.nextMemoID++
		stored.ID = s.nextMemoID
	} else if stored.ID > s.nextMemoID {
		s.nextMemoID = stored.ID
	}
	if stored.CreatedTs == 0 {
		stored.CreatedTs = s.tickLocked()
	}
	if stored.UpdatedTs == 0 {
		stored.UpdatedTs = stored.CreatedTs
	}
	if stored.RowStatus == "" {
		stored.RowStatus = domain.RowStatusNormal
	}
	if stored.Visibility == "" {
		stored.Visibility = domain.VisibilityPrivate
	}
	stored.RelationList = domain.NormalizeRelations(stored.ID, stored.RelationList)

	s.memos[stored.ID] = stored
	s.registerTagsLocked(stored.CreatorUsername(), stored.Content)
	return stored.Clone()
}

// Handler builds the HTTP surface
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
	}))
	r.Use(requestLogger(s.logger))
	if s.jwtSecret != "" {
		r.Use(s.authenticate)
	}

	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/users/{username}", s.handleGetUser)
		r.Patch("/users/{username}", s.handleUpdateUser)

		r.Get("/memos", s.handleListMemos)
		r.Post("/memos", s.handleCreateMemo)
		r.Get("/memos/stats", s.handleMemoStats)
		r.Get("/memos/{id}", s.handleGetMemo)
		r.Patch("/memos/{id}", s.handleUpdateMemo)
		r.Delete("/memos/{id}", s.handleDeleteMemo)

		r.Get("/tags", s.handleListTags)
		r.Post("/tags", s.handleUpsertTag)
		r.Delete("/tags", s.handleDeleteTag)

		r.Post("/resources", s.handleCreateResource)
		r.Patch("/resources/{id}", s.handleUpdateResource)
	})
	return r
}

// tickLocked advances the logical clock; callers hold the mutex
func (s *Server) tickLocked() int64 {
	s.clock++
	return s.clock
}

func (s *Server) registerTagsLocked(username, content string) {
	for _, tag := range domain.ExtractTags(content) {
		if s.tags[username] == nil {
			s.tags[username] = make(map[string]struct{})
		}
		s.tags[username][tag] = struct{}{}
	}
}
