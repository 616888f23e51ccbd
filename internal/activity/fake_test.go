package activity

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"simasosial-backend/internal/audit"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"
)

var errInjected = errors.New("injected failure")

// fakeRepo keeps activities and their dependents in memory. InTx snapshots
// everything and restores the snapshot when fn fails.
type fakeRepo struct {
	mu     sync.Mutex
	nextID uint
	acts   map[uint]models.Activity
	regs   []models.ActivityRegistration
	dons   []models.Donation

	// failStep makes the named purge step fail: "registrations",
	// "donations", "image" or "activity".
	failStep  string
	createErr error
	updateErr error
	listErr   error
	calls     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, acts: map[uint]models.Activity{}}
}

func (r *fakeRepo) seed(a models.Activity) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.acts[a.ID] = a
	return a.ID
}

func (r *fakeRepo) Create(_ context.Context, a *models.Activity) error {
	if r.createErr != nil {
		return r.createErr
	}
	a.ID = r.seed(*a)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, a *models.Activity, withImage bool) (int64, error) {
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.acts[a.ID]
	if !ok {
		return 0, nil
	}
	img := cur.GambarURL
	if withImage {
		img = a.GambarURL
	}
	updated := *a
	updated.GambarURL = img
	updated.Status = cur.Status
	updated.CreatedAt = cur.CreatedAt
	r.acts[a.ID] = updated
	return 1, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.acts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &a, nil
}

func (r *fakeRepo) List(context.Context) ([]models.Activity, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Activity, 0, len(r.acts))
	for _, a := range r.acts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) ListPublished(ctx context.Context) ([]models.Activity, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, a := range all {
		if a.Status == models.ActivityStatusPublished {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) Summaries(ctx context.Context) ([]Summary, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(all))
	for _, a := range all {
		s := Summary{Activity: a}
		for _, reg := range r.regs {
			if reg.ActivityID == a.ID {
				s.JumlahPeserta++
			}
		}
		for _, d := range r.dons {
			if d.ActivityID == a.ID {
				s.TotalDonasi += d.Jumlah
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) InTx(_ context.Context, fn func(Purger) error) error {
	r.mu.Lock()
	acts := make(map[uint]models.Activity, len(r.acts))
	for k, v := range r.acts {
		acts[k] = v
	}
	regs := append([]models.ActivityRegistration(nil), r.regs...)
	dons := append([]models.Donation(nil), r.dons...)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.acts, r.regs, r.dons = acts, regs, dons
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepo) DeleteRegistrations(_ context.Context, id uint) (int64, error) {
	r.calls = append(r.calls, "registrations")
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	kept := r.regs[:0]
	for _, reg := range r.regs {
		if reg.ActivityID == id {
			n++
			continue
		}
		kept = append(kept, reg)
	}
	r.regs = kept
	if r.failStep == "registrations" {
		return 0, errInjected
	}
	return n, nil
}

func (r *fakeRepo) DeleteDonations(_ context.Context, id uint) (int64, error) {
	r.calls = append(r.calls, "donations")
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	kept := r.dons[:0]
	for _, d := range r.dons {
		if d.ActivityID == id {
			n++
			continue
		}
		kept = append(kept, d)
	}
	r.dons = kept
	if r.failStep == "donations" {
		return 0, errInjected
	}
	return n, nil
}

func (r *fakeRepo) ImageRef(_ context.Context, id uint) (*string, error) {
	r.calls = append(r.calls, "image")
	if r.failStep == "image" {
		return nil, errInjected
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.acts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return a.GambarURL, nil
}

func (r *fakeRepo) DeleteActivity(_ context.Context, id uint) (int64, error) {
	r.calls = append(r.calls, "activity")
	if r.failStep == "activity" {
		return 0, errInjected
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.acts[id]; !ok {
		return 0, nil
	}
	delete(r.acts, id)
	return 1, nil
}

func (r *fakeRepo) counts(id uint) (regs, dons int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.ActivityID == id {
			regs++
		}
	}
	for _, d := range r.dons {
		if d.ActivityID == id {
			dons++
		}
	}
	return regs, dons
}

type fakeFiles struct {
	mu        sync.Mutex
	saved     map[string]bool
	removed   []string
	saveErr   error
	removeErr error
	seq       int
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{saved: map[string]bool{}}
}

func (f *fakeFiles) Save(fh *multipart.FileHeader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ref := "uploads/" + string(rune('a'+f.seq-1)) + "-" + fh.Filename
	f.saved[ref] = true
	return ref, nil
}

func (f *fakeFiles) Remove(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.saved, ref)
	return nil
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []audit.LogOptions
}

func (a *fakeAuditor) Record(_ context.Context, opts audit.LogOptions) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, opts)
}
