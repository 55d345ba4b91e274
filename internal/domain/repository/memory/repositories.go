package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, tx *sql.Tx, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		}
	}
	r.s.users[u.ID] = *u
	r.s.recordUndo(tx, func() { delete(r.s.users, u.ID) })
	return nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) Create(_ context.Context, tx *sql.Tx, p *model.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.profiles[p.UserID]; exists {
		return fmt.Errorf("profile already exists for user: %w", common.ErrConflict)
	}
	stored := *p
	stored.Username, stored.Email = "", ""
	r.s.profiles[p.UserID] = stored
	r.s.recordUndo(tx, func() { delete(r.s.profiles, p.UserID) })
	return nil
}

func (r *profileRepo) FindByUserID(_ context.Context, userID string) (*model.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := r.s.users[userID]
	p.Username, p.Email = u.Username, u.Email
	return &p, nil
}

func (r *profileRepo) Update(_ context.Context, p *model.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.profiles[p.UserID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Bio, stored.PreferredLanguage, stored.PreferredTopics = p.Bio, p.PreferredLanguage, p.PreferredTopics
	r.s.profiles[p.UserID] = stored
	return nil
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) Save(_ context.Context, tx *sql.Tx, t *model.AuthToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var replaced []model.AuthToken
	for key, existing := range r.s.tokens {
		if existing.UserID == t.UserID {
			replaced = append(replaced, existing)
			delete(r.s.tokens, key)
		}
	}
	r.s.tokens[t.Key] = *t
	r.s.recordUndo(tx, func() {
		delete(r.s.tokens, t.Key)
		for _, old := range replaced {
			r.s.tokens[old.Key] = old
		}
	})
	return nil
}

func (r *tokenRepo) FindByUserID(_ context.Context, userID string) (*model.AuthToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tokens {
		if t.UserID == userID {
			return &t, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *tokenRepo) FindByKey(_ context.Context, key string) (*model.AuthToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tokens[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (r *tokenRepo) DeleteByKey(_ context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tokens, key)
	return nil
}

type problemRepo struct{ s *Store }

func (r *problemRepo) List(_ context.Context, filter model.ProblemFilter) ([]model.Problem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	topic := strings.ToLower(filter.Topic)
	out := []model.Problem{}
	for _, p := range r.s.problems {
		if topic != "" && !strings.Contains(strings.ToLower(p.RelatedTopics), topic) {
			continue
		}
		if filter.Difficulty != "" && !strings.EqualFold(string(p.Difficulty), filter.Difficulty) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Title < out[j].Title
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *problemRepo) FindByID(_ context.Context, id string) (*model.Problem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.problems {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *problemRepo) FindByTitle(_ context.Context, title string) (*model.Problem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.findByTitleLocked(title)
}

func (r *problemRepo) findByTitleLocked(title string) (*model.Problem, error) {
	for _, p := range r.s.problems {
		if p.Title == title {
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *problemRepo) GetOrCreateByTitle(_ context.Context, p *model.Problem) (*model.Problem, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, err := r.findByTitleLocked(p.Title); err == nil {
		return existing, false, nil
	}
	r.s.problems = append(r.s.problems, *p)
	stored := *p
	return &stored, true, nil
}

type chatRepo struct{ s *Store }

func (r *chatRepo) Create(_ context.Context, m *model.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *m
	stored.Username = ""
	r.s.chats = append(r.s.chats, stored)
	return nil
}

func (r *chatRepo) ListByUser(_ context.Context, userID string) ([]model.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	username := r.s.users[userID].Username
	out := []model.ChatMessage{}
	for _, m := range r.s.chats {
		if m.UserID == userID {
			m.Username = username
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type submissionRepo struct{ s *Store }

func (r *submissionRepo) Create(_ context.Context, sub *model.CodeSubmission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *sub
	stored.ProblemTitle = ""
	r.s.submissions = append(r.s.submissions, stored)
	return nil
}

func (r *submissionRepo) ListByUser(_ context.Context, userID string) ([]model.CodeSubmission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	titles := make(map[string]string, len(r.s.problems))
	for _, p := range r.s.problems {
		titles[p.ID] = p.Title
	}
	out := []model.CodeSubmission{}
	for _, sub := range r.s.submissions {
		if sub.UserID == userID {
			sub.ProblemTitle = titles[sub.ProblemID]
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

type fileRepo struct{ s *Store }

func (r *fileRepo) Create(_ context.Context, f *model.UploadedFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *f
	stored.FileURL = ""
	r.s.files = append(r.s.files, stored)
	return nil
}
