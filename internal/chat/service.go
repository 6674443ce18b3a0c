package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Be1newinner/ship-chatbot/internal/ai"
	"github.com/Be1newinner/ship-chatbot/internal/common"
	"gorm.io/gorm"
)

// ErrGenerationFailed covers provider errors, generation timeouts and
// replies that are empty after sanitization. No turn is appended when
// it is returned.
var ErrGenerationFailed = errors.New("generation failed")

// SessionCache is an optional read-through cache in front of the
// session table. A miss is ("", nil).
type SessionCache interface {
	GetSessionID(ctx context.Context, userID uint64) (string, error)
	SetSessionID(ctx context.Context, userID uint64, sessionID string) error
}

// ActivityPublisher forwards audit events to the activity pipeline.
// Publishing is best effort and never fails the user request.
type ActivityPublisher interface {
	PublishEvent(ctx context.Context, userID uint64, action, detail string) error
}

type ServiceConfig struct {
	Provider          string
	Model             string
	SystemInstruction string
	ContextTurns      int
	GenerateTimeout   time.Duration
	Cache             SessionCache
	Activity          ActivityPublisher
}

type Service struct {
	repo              *Repo
	registry          *ai.Registry
	provider          string
	model             string
	systemInstruction string
	contextTurns      int
	generateTimeout   time.Duration
	cache             SessionCache
	activity          ActivityPublisher
}

func NewService(repo *Repo, registry *ai.Registry, cfg ServiceConfig) *Service {
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = DefaultSystemInstruction
	}
	if cfg.ContextTurns <= 0 || cfg.ContextTurns > 100 {
		cfg.ContextTurns = DefaultContextTurns
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 60 * time.Second
	}
	return &Service{
		repo:              repo,
		registry:          registry,
		provider:          cfg.Provider,
		model:             cfg.Model,
		systemInstruction: cfg.SystemInstruction,
		contextTurns:      cfg.ContextTurns,
		generateTimeout:   cfg.GenerateTimeout,
		cache:             cfg.Cache,
		activity:          cfg.Activity,
	}
}

// ResolveSession maps a user to their canonical session, creating one
// lazily on first contact. Safe under concurrent first contact: the
// unique index on user_id makes the losing insert fail, after which the
// winner's row is fetched. Repeat calls always return the same id.
func (s *Service) ResolveSession(ctx context.Context, userID uint64) (string, error) {
	if s.cache != nil {
		if sid, err := s.cache.GetSessionID(ctx, userID); err == nil && sid != "" {
			return sid, nil
		} else if err != nil {
			log.Printf("session cache read failed user=%d err=%v", userID, err)
		}
	}

	sess, err := s.repo.LatestSessionByUser(ctx, userID)
	if err == nil {
		s.cacheSession(ctx, userID, sess.SessionID)
		return sess.SessionID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	sid, err := NewSessionID()
	if err != nil {
		return "", err
	}
	created := &Session{
		SessionID: sid,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if createErr := s.repo.CreateSession(ctx, created); createErr != nil {
		// Lost a first-contact race or hit the unique index: the
		// canonical row exists now, fetch it instead.
		sess, err := s.repo.LatestSessionByUser(ctx, userID)
		if err != nil {
			return "", createErr
		}
		s.cacheSession(ctx, userID, sess.SessionID)
		return sess.SessionID, nil
	}

	s.cacheSession(ctx, userID, created.SessionID)
	return created.SessionID, nil
}

func (s *Service) cacheSession(ctx context.Context, userID uint64, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSessionID(ctx, userID, sessionID); err != nil {
		log.Printf("session cache write failed user=%d err=%v", userID, err)
	}
}

// HandleTurn runs the full pipeline: resolve session, assemble context
// from recent history, invoke the generation backend under a timeout,
// sanitize, persist the exchange and return the sanitized text. The
// append happens only after generation and sanitization succeed.
func (s *Service) HandleTurn(ctx context.Context, userID uint64, message string) (string, error) {
	sessionID, err := s.ResolveSession(ctx, userID)
	if err != nil {
		return "", err
	}

	prior, err := s.repo.RecentTurns(ctx, sessionID, s.contextTurns)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(s.systemInstruction, prior, message)

	provider, err := s.registry.Get(ctx, s.provider, s.model)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	raw, err := provider.Generate(genCtx, prompt, ai.DefaultParams())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	reply := Sanitize(raw)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply after sanitization", ErrGenerationFailed)
	}

	turn := &Turn{
		SessionID: sessionID,
		UserID:    userID,
		Message:   message,
		Response:  reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AppendTurn(ctx, turn); err != nil {
		return "", err
	}

	if s.activity != nil {
		if err := s.activity.PublishEvent(ctx, userID, "chat", sessionID); err != nil {
			log.Printf("activity publish failed user=%d session=%s err=%v", userID, sessionID, err)
		}
	}

	return reply, nil
}

// History pages the caller's own turns across all their sessions.
func (s *Service) History(ctx context.Context, userID uint64, pr common.PageRequest) ([]Turn, int64, error) {
	return s.repo.PageByUser(ctx, userID, pr)
}

// SessionTurns pages one session's turns. Admin-gated at the HTTP
// layer; an unknown session id yields an empty page with total 0.
func (s *Service) SessionTurns(ctx context.Context, sessionID string, pr common.PageRequest) ([]Turn, int64, error) {
	return s.repo.PageBySession(ctx, sessionID, pr)
}

// Sessions pages all sessions (admin projection).
func (s *Service) Sessions(ctx context.Context, pr common.PageRequest) ([]Session, int64, error) {
	return s.repo.ListSessions(ctx, pr)
}

// Users pages all users without sensitive fields (admin projection).
func (s *Service) Users(ctx context.Context, pr common.PageRequest) ([]UserView, int64, error) {
	return s.repo.ListUsers(ctx, pr)
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.CountUsers(ctx)
}

func (s *Service) CountSessions(ctx context.Context) (int64, error) {
	return s.repo.CountSessions(ctx)
}
