package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"life-server/internal/explog"
	"life-server/internal/stage"

	"github.com/google/uuid"
)

// Storage keys, one per collection. Every save rewrites the full
// serialized collection; there are no partial or delta writes.
const (
	KeyStages = "life_stages_v2"
	KeyLogs   = "life_logs_v2"
	KeyUsers  = "life_user_v2"
)

// User is an entry in the durable user registry. IsAdmin is a
// client-granted capability, not a verified identity.
type User struct {
	Nickname string `json:"nickname"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Options configures a Store. Backend is required; everything else has
// a sensible default. Now and NewID exist so tests can pin time and IDs.
type Options struct {
	Backend Backend
	Bus     Bus
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
}

// Store is the single source of truth for the user registry, the stage
// catalog, and the exploration logs within one node. Collections are
// held in memory, persisted wholesale to the backend on every mutation,
// and peers sharing the backend are nudged to reload through the bus.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	bus     Bus
	logger  *slog.Logger
	nodeID  string
	now     func() time.Time
	newID   func() string

	users  []User
	stages []stage.Stage
	logs   []explog.ExplorationLog
}

// New loads the collections from the backend, seeding the stage catalog
// when it is absent or empty, and subscribes to the bus when one is
// attached. Backend read or parse failures are treated as absent data,
// never as fatal errors.
func New(ctx context.Context, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = NewID
	}

	s := &Store{
		backend: opts.Backend,
		bus:     opts.Bus,
		logger:  logger.With("component", "store"),
		nodeID:  uuid.NewString(),
		now:     now,
		newID:   newID,
	}

	s.users = loadCollection[User](ctx, s, KeyUsers)
	s.loadSharedCollections(ctx, true)

	if s.bus != nil {
		err := s.bus.Subscribe(ctx, func(n Notification) {
			// Notifications this node published come back on the channel;
			// only foreign ones trigger a reload.
			if n.Origin == s.nodeID {
				return
			}
			s.logger.Debug("Reloading on peer notification", "event", n.Event, "origin", n.Origin)
			s.Reload(context.Background())
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("Store initialized",
		"node_id", s.nodeID,
		"users", len(s.users),
		"stages", len(s.stages),
		"logs", len(s.logs),
	)

	return s, nil
}

// NodeID identifies this store instance on the sync bus.
func (s *Store) NodeID() string {
	return s.nodeID
}

// Reload re-reads stages and logs from the backend, replacing the
// in-memory copies wholesale. The user registry is deliberately not
// reloaded: sessions stay local to the node that created them. No
// seeding happens here; an admin may have legitimately emptied the
// catalog, and a reload must not resurrect it.
func (s *Store) Reload(ctx context.Context) {
	s.loadSharedCollections(ctx, false)
}

func (s *Store) loadSharedCollections(ctx context.Context, seedIfEmpty bool) {
	stages := loadCollection[stage.Stage](ctx, s, KeyStages)
	logs := loadCollection[explog.ExplorationLog](ctx, s, KeyLogs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seedIfEmpty && len(stages) == 0 {
		// First run: seed the catalog so the app is never empty.
		stages = stage.Seed()
		s.logger.Info("Seeding stage catalog", "count", len(stages))
		s.persist(ctx, KeyStages, stages)
	}

	s.stages = stages
	s.logs = logs
}

func loadCollection[T any](ctx context.Context, s *Store, key string) []T {
	data, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read collection, treating as absent", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Malformed collection data, treating as absent", "key", key, "error", err)
		return nil
	}
	return items
}

// Login upserts the user record and persists the registry. An empty
// nickname is a silent no-op. A repeated login overwrites any prior
// record for the nickname, including its admin flag.
func (s *Store) Login(ctx context.Context, nickname string, isAdmin bool) (*User, bool) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, false
	}

	user := User{Nickname: nickname, IsAdmin: isAdmin}

	s.mu.Lock()
	replaced := false
	for i := range s.users {
		if s.users[i].Nickname == nickname {
			s.users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		s.users = append(s.users, user)
	}
	s.persist(ctx, KeyUsers, s.users)
	s.mu.Unlock()

	s.notify(ctx)
	return &user, true
}

// Logout removes the user record. The user key is deleted outright
// when the registry empties, so a fresh start finds no session to
// restore. Unknown nicknames are a no-op.
func (s *Store) Logout(ctx context.Context, nickname string) bool {
	s.mu.Lock()
	removed := false
	for i := range s.users {
		if s.users[i].Nickname == nickname {
			s.users = append(s.users[:i], s.users[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		if len(s.users) == 0 {
			if err := s.backend.Delete(ctx, KeyUsers); err != nil {
				s.logger.Warn("Failed to remove user key, continuing with in-memory state", "error", err)
			}
		} else {
			s.persist(ctx, KeyUsers, s.users)
		}
	}
	s.mu.Unlock()

	if removed {
		s.notify(ctx)
	}
	return removed
}

// AddLog constructs a log with a fresh ID and the current timestamp and
// prepends it, so logs read newest first. Empty nickname
// (unauthenticated) or empty content is a silent no-op.
func (s *Store) AddLog(ctx context.Context, nickname, stageID, content string) *explog.ExplorationLog {
	if strings.TrimSpace(nickname) == "" || strings.TrimSpace(content) == "" {
		return nil
	}

	entry := explog.ExplorationLog{
		ID:        s.newID(),
		StageID:   stageID,
		Nickname:  nickname,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	}

	s.mu.Lock()
	s.logs = append([]explog.ExplorationLog{entry}, s.logs...)
	s.persist(ctx, KeyLogs, s.logs)
	s.mu.Unlock()

	s.notify(ctx)
	return &entry
}

// EditLog replaces the content of the matching log, leaving its ID and
// timestamp untouched. Unknown IDs and empty content are no-ops.
func (s *Store) EditLog(ctx context.Context, logID, newContent string) bool {
	if strings.TrimSpace(newContent) == "" {
		return false
	}

	s.mu.Lock()
	edited := false
	for i := range s.logs {
		if s.logs[i].ID == logID {
			s.logs[i].Content = newContent
			edited = true
			break
		}
	}
	if edited {
		s.persist(ctx, KeyLogs, s.logs)
	}
	s.mu.Unlock()

	if edited {
		s.notify(ctx)
	}
	return edited
}

// DeleteLog removes the matching log. Idempotent: deleting an unknown
// ID is a no-op.
func (s *Store) DeleteLog(ctx context.Context, logID string) bool {
	s.mu.Lock()
	deleted := false
	for i := range s.logs {
		if s.logs[i].ID == logID {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			deleted = true
			break
		}
	}
	if deleted {
		s.persist(ctx, KeyLogs, s.logs)
	}
	s.mu.Unlock()

	if deleted {
		s.notify(ctx)
	}
	return deleted
}

// ReplaceStages overwrites the stage catalog wholesale. The caller is
// responsible for ID stability across the replacement; logs referencing
// removed stages are retained as orphans.
func (s *Store) ReplaceStages(ctx context.Context, stages []stage.Stage) {
	replacement := make([]stage.Stage, len(stages))
	copy(replacement, stages)

	s.mu.Lock()
	s.stages = replacement
	s.persist(ctx, KeyStages, s.stages)
	s.mu.Unlock()

	s.notify(ctx)
}

// Users returns a copy of the user registry.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, len(s.users))
	copy(users, s.users)
	return users
}

// Stages returns the full catalog; visibility filtering is the caller's
// responsibility. Callers must not mutate the returned stages.
func (s *Store) Stages() []stage.Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stages := make([]stage.Stage, len(s.stages))
	copy(stages, s.stages)
	return stages
}

// VisibleStages returns the stages a reader with the given role may see.
func (s *Store) VisibleStages(isAdmin bool) []stage.Stage {
	return stage.Filter(s.Stages(), isAdmin)
}

// StageByID returns the stage with the given ID.
func (s *Store) StageByID(id string) (stage.Stage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if found := stage.Find(s.stages, id); found != nil {
		return *found, true
	}
	return stage.Stage{}, false
}

// Logs returns the full log collection, newest first.
func (s *Store) Logs() []explog.ExplorationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]explog.ExplorationLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// LogsForStage returns the logs attached to a stage, newest first.
func (s *Store) LogsForStage(stageID string) []explog.ExplorationLog {
	return explog.ForStage(s.Logs(), stageID)
}

// LogsForAuthor returns the logs written under a nickname, newest first.
func (s *Store) LogsForAuthor(nickname string) []explog.ExplorationLog {
	return explog.ForAuthor(s.Logs(), nickname)
}

// LogByID returns the log with the given ID.
func (s *Store) LogByID(id string) (explog.ExplorationLog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.logs {
		if l.ID == id {
			return l, true
		}
	}
	return explog.ExplorationLog{}, false
}

// persist serializes a collection to the backend. Write failures are
// surfaced as warnings, not errors: the in-memory state stays
// authoritative for this node. Callers hold the write lock.
func (s *Store) persist(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("Failed to serialize collection", "key", key, "error", err)
		return
	}

	if err := s.backend.Save(ctx, key, data); err != nil {
		s.logger.Warn("Storage write failed, continuing with in-memory state", "key", key, "error", err)
	}
}

// notify asks peer nodes to reload. Called after the lock is released
// so a synchronous bus can re-enter the store.
func (s *Store) notify(ctx context.Context) {
	if s.bus == nil {
		return
	}

	n := Notification{Origin: s.nodeID, Event: EventUpdateRequest}
	if err := s.bus.Publish(ctx, n); err != nil {
		s.logger.Warn("Failed to publish sync notification", "error", err)
	}
}
