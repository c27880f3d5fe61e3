package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/formworks/form-server/models"
)

// Memory is a mutex-guarded in-memory store for tests. It mirrors the
// Postgres store's guarantees: server-assigned ids and timestamps, atomic
// counter increment, first-match slug resolution, cascade deletion.
type Memory struct {
	mu       sync.Mutex
	forms    map[uint]*models.Form
	resps    map[uint]*models.Response
	nextForm uint
	nextResp uint
	nextAns  uint

	// Now is overridable so tests can pin submission timestamps.
	Now func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		forms:    make(map[uint]*models.Form),
		resps:    make(map[uint]*models.Response),
		nextForm: 1,
		nextResp: 1,
		nextAns:  1,
		Now:      time.Now,
	}
}

func copyForm(f *models.Form) *models.Form {
	out := *f
	out.Fields = make([]models.Field, len(f.Fields))
	copy(out.Fields, f.Fields)
	return &out
}

func copyResponse(r *models.Response) *models.Response {
	out := *r
	out.Answers = make([]models.Answer, len(r.Answers))
	copy(out.Answers, r.Answers)
	return &out
}

func (s *Memory) CreateForm(_ context.Context, form *models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	form.ID = s.nextForm
	s.nextForm++
	if form.CreatedAt.IsZero() {
		form.CreatedAt = s.Now()
	}
	for i := range form.Fields {
		form.Fields[i].FormID = form.ID
	}
	s.forms[form.ID] = copyForm(form)
	return nil
}

func (s *Memory) GetForm(_ context.Context, id uint) (*models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyForm(f), nil
}

func (s *Memory) GetFormBySlug(_ context.Context, slug string) (*models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if s.forms[id].Slug == slug {
			return copyForm(s.forms[id]), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) ListForms(_ context.Context) ([]models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Form, 0, len(s.forms))
	for _, f := range s.forms {
		out = append(out, *copyForm(f))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Memory) ReplaceForm(_ context.Context, form *models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.forms[form.ID]
	if !ok {
		return ErrNotFound
	}
	next := copyForm(form)
	next.Slug = prev.Slug
	next.CreatedAt = prev.CreatedAt
	next.ResponseCount = prev.ResponseCount
	for i := range next.Fields {
		next.Fields[i].FormID = next.ID
	}
	s.forms[form.ID] = next
	return nil
}

func (s *Memory) SetFormActive(_ context.Context, id uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok {
		return ErrNotFound
	}
	f.Active = active
	return nil
}

func (s *Memory) DeleteForm(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[id]; !ok {
		return ErrNotFound
	}
	for rid, r := range s.resps {
		if r.FormID == id {
			delete(s.resps, rid)
		}
	}
	delete(s.forms, id)
	return nil
}

func (s *Memory) SubmitResponse(_ context.Context, resp *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[resp.FormID]
	if !ok {
		return ErrNotFound
	}
	resp.ID = s.nextResp
	s.nextResp++
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = s.Now()
	}
	for i := range resp.Answers {
		resp.Answers[i].ID = s.nextAns
		s.nextAns++
		resp.Answers[i].ResponseID = resp.ID
	}
	s.resps[resp.ID] = copyResponse(resp)
	f.ResponseCount++
	return nil
}

func (s *Memory) matching(formID uint, f ResponseFilter) []*models.Response {
	var out []*models.Response
	for _, r := range s.resps {
		if r.FormID != formID {
			continue
		}
		if f.From != nil && r.SubmittedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !r.SubmittedAt.Before(*f.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Memory) ListResponses(_ context.Context, formID uint, f ResponseFilter) ([]models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.matching(formID, f)
	if f.Limit > 0 {
		if f.Offset >= len(rows) {
			rows = nil
		} else {
			end := f.Offset + f.Limit
			if end > len(rows) {
				end = len(rows)
			}
			rows = rows[f.Offset:end]
		}
	}
	out := make([]models.Response, 0, len(rows))
	for _, r := range rows {
		out = append(out, *copyResponse(r))
	}
	return out, nil
}

func (s *Memory) CountResponses(_ context.Context, formID uint, f ResponseFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.matching(formID, f))), nil
}

func (s *Memory) GetResponse(_ context.Context, formID, id uint) (*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resps[id]
	if !ok || r.FormID != formID {
		return nil, ErrNotFound
	}
	return copyResponse(r), nil
}

func (s *Memory) DeleteResponse(_ context.Context, formID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resps[id]
	if !ok || r.FormID != formID {
		return ErrNotFound
	}
	delete(s.resps, id)
	return nil
}

func (s *Memory) Ping(context.Context) error {
	return nil
}
