// Package memory holds process-local implementations of the repository
// interfaces, selected with DB_DRIVER=memory and used by service and API tests.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[string]model.User
	profiles    map[string]model.UserProfile // by user id
	tokens      map[string]model.AuthToken   // by key
	problems    []model.Problem
	chats       []model.ChatMessage
	submissions []model.CodeSubmission
	files       []model.UploadedFile

	undo map[*sql.Tx][]func() // open memory transactions
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]model.User),
		profiles: make(map[string]model.UserProfile),
		tokens:   make(map[string]model.AuthToken),
		undo:     make(map[*sql.Tx][]func()),
	}
}

func (s *Store) Users() repository.UserRepository { return &userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository { return &profileRepo{s} }
func (s *Store) Tokens() repository.TokenRepository { return &tokenRepo{s} }
func (s *Store) Problems() repository.ProblemRepository { return &problemRepo{s} }
func (s *Store) Chats() repository.ChatRepository { return &chatRepo{s} }
func (s *Store) Submissions() repository.SubmissionRepository { return &submissionRepo{s} }
func (s *Store) Files() repository.FileRepository { return &fileRepo{s} }
func (s *Store) TxManager() repository.TxManager { return &txManager{s} }

// txManager serializes transactions. Each one gets a placeholder *sql.Tx as
// its identity; writes made through it are undone in reverse order when fn
// fails. Writes made outside the transaction are left alone.
type txManager struct{ s *Store }

func (m *txManager) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	tx := new(sql.Tx)
	m.s.mu.Lock()
	m.s.undo[tx] = nil
	m.s.mu.Unlock()

	err := fn(tx)

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err != nil {
		steps := m.s.undo[tx]
		for i := len(steps) - 1; i >= 0; i-- {
			steps[i]()
		}
	}
	delete(m.s.undo, tx)
	return err
}

// recordUndo registers how to revert a write made through tx. Callers hold mu.
func (s *Store) recordUndo(tx *sql.Tx, step func()) {
	if tx == nil {
		return
	}
	if steps, ok := s.undo[tx]; ok {
		s.undo[tx] = append(steps, step)
	}
}

// Counts reports row totals; tests use it to assert on persistence side effects.
type Counts struct {
	Users, Profiles, Tokens, Problems, Chats, Submissions, Files int
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Users:       len(s.users),
		Profiles:    len(s.profiles),
		Tokens:      len(s.tokens),
		Problems:    len(s.problems),
		Chats:       len(s.chats),
		Submissions: len(s.submissions),
		Files:       len(s.files),
	}
}
