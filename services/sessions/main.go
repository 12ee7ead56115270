package sessions

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"helix/api/models"
	"helix/api/models/constants"
	"helix/api/models/constants/organism"
	outputType "helix/api/models/constants/output-type"
	"helix/api/models/genomic"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

const (
	Idle constants.SessionMode = iota
	AwaitingApiKey
	AwaitingBatchEntries
	AwaitingAdvancedParam
)

// Advanced options are collected one parameter per turn
const (
	AdvancedStepOrganism = iota
	AdvancedStepOutputTypes
	AdvancedStepOntologyTerms
	advancedStepCount
)

// Session holds the per-conversation state : pending mode,
// the opaque credential, accumulated batch entries, and the
// advanced-options draft. One Session is owned by exactly one
// conversation; Lock serializes its turns so transitions are
// single-threaded per conversation.
type Session struct {
	sync.Mutex

	Id   uuid.UUID
	Mode constants.SessionMode

	// step within the advanced flow, meaningful only
	// while Mode == AwaitingAdvancedParam
	AdvancedStep int

	credential string

	// draft mutated across advanced turns; discarded on cancel
	Draft genomic.RequestOptions

	// options applied to every dispatch for this conversation
	Options genomic.RequestOptions

	// read by the janitor sweep without the session mutex,
	// so it must stay atomic
	lastSeenUnix int64
}

func DefaultOptions() genomic.RequestOptions {
	return genomic.RequestOptions{
		Organism:      organism.Human,
		OutputTypes:   outputType.All(),
		OntologyTerms: []string{},
	}
}

func (s *Session) Touch() {
	atomic.StoreInt64(&s.lastSeenUnix, time.Now().Unix())
}

func (s *Session) SetCredential(credential string) {
	s.credential = credential
}

func (s *Session) Credential() string {
	return s.credential
}

func (s *Session) HasCredential() bool {
	return s.credential != ""
}

// Reset abandons any pending multi-turn mode and discards
// the advanced draft. The credential and the applied options
// survive; Idle is always reachable.
func (s *Session) Reset() {
	s.Mode = Idle
	s.AdvancedStep = 0
	s.Draft = genomic.RequestOptions{}
}

func (s *Session) BeginSetup() {
	s.Reset()
	s.Mode = AwaitingApiKey
}

func (s *Session) BeginBatch() {
	s.Reset()
	s.Mode = AwaitingBatchEntries
}

func (s *Session) BeginAdvanced() {
	s.Reset()
	s.Mode = AwaitingAdvancedParam
	s.AdvancedStep = AdvancedStepOrganism
	s.Draft = DefaultOptions()
}

// AdvanceDraftStep moves the advanced flow forward one
// parameter; returns true when the flow just completed, at
// which point the draft becomes the session's options.
func (s *Session) AdvanceDraftStep() bool {
	s.AdvancedStep++
	if s.AdvancedStep >= advancedStepCount {
		s.Options = s.Draft
		s.Reset()
		return true
	}
	return false
}

// -- Registry

// Registry hands out isolated Session instances keyed by
// conversation id. Sessions share no mutable state with one
// another : credentials and drafts are conversation-scoped
// secrets.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*Session
	cfg       *models.Config
	scheduler *gocron.Scheduler
}

func NewRegistry(cfg *models.Config) *Registry {
	r := &Registry{
		sessions: map[uuid.UUID]*Session{},
		cfg:      cfg,
	}

	r.startJanitor()

	return r
}

func (r *Registry) Obtain(conversationId uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[conversationId]; ok {
		return existing
	}

	created := &Session{
		Id:           conversationId,
		Mode:         Idle,
		Options:      DefaultOptions(),
		lastSeenUnix: time.Now().Unix(),
	}
	r.sessions[conversationId] = created

	return created
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Stop halts the janitor scheduler. Existing sessions remain
// usable; no further sweeps run.
func (r *Registry) Stop() {
	r.scheduler.Stop()
}

// evictIdleSessions removes every session last seen before the
// cutoff and reports how many were dropped. The atomic read of
// lastSeenUnix keeps the sweep off the per-session mutex, which
// a conversation turn may hold for the length of a dispatch.
func (r *Registry) evictIdleSessions(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, session := range r.sessions {
		if atomic.LoadInt64(&session.lastSeenUnix) < cutoff.Unix() {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// startJanitor schedules a periodic sweep that evicts sessions
// idle past the configured TTL; conversation-scoped credentials
// should not outlive their conversation.
func (r *Registry) startJanitor() {
	idleMinutes := r.cfg.Api.SessionIdleMinutes
	if idleMinutes <= 0 {
		idleMinutes = 60
	}

	// setup cron job
	s := gocron.NewScheduler(time.UTC)

	s.Every(5).Minutes().Do(func() {
		cutoff := time.Now().Add(-time.Duration(idleMinutes) * time.Minute)

		if evicted := r.evictIdleSessions(cutoff); evicted > 0 {
			fmt.Printf("[%s] - Session janitor evicted %d idle session(s)..\n", time.Now(), evicted)
		}
	})

	s.StartAsync()
	r.scheduler = s
}
