package mealplan

import (
	"errors"
	"sync"
	"time"

	"okulyemek-backend/internal/models"
	"okulyemek-backend/internal/planner"
)

var (
	errDraftNotFound  = errors.New("taslak bulunamadı")
	errDraftForbidden = errors.New("taslak başka bir kullanıcıya ait")
)

// Draft: bir operatörün üzerinde çalıştığı, henüz kaydedilmemiş plan durumu
// Kayda (submit) kadar düzenleme oturumunun malıdır, başka kullanıcı dokunamaz
// Process içinde tutulur, kalıcı değildir
type Draft struct {
	ID        uint64
	OwnerID   uint
	SchoolID  uint
	StartDate time.Time
	EndDate   time.Time
	PlanType  models.PlanType
	IsActive  bool
	Weekly    *planner.WeeklySchedule     // plan_type=weekly
	Monthly   *planner.MonthlyAssignments // plan_type=monthly
	CreatedAt time.Time
	UpdatedAt time.Time
}

// draftStore: process içi taslak deposu
// Planner operasyonlarının kendisi kilitsizdir; eşzamanlılık sınırı burada,
// HTTP katmanında çizilir. Operasyonlar geliş sırasıyla uygulanır.
type draftStore struct {
	mu     sync.Mutex
	seq    uint64
	drafts map[uint64]*Draft
}

var drafts = &draftStore{drafts: make(map[uint64]*Draft)}

func (s *draftStore) create(d *Draft) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	d.ID = s.seq
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	s.drafts[d.ID] = d
	return d
}

// withDraft: taslağı kilit altında bulur ve fn'i uygular
// fn hata dönerse taslak durumu fn'in bıraktığı gibidir; planner operasyonları
// reddettikleri değişikliği hiç uygulamadığı için bu güvenlidir
func (s *draftStore) withDraft(id uint64, ownerID uint, fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return errDraftNotFound
	}
	if d.OwnerID != ownerID {
		return errDraftForbidden
	}

	if err := fn(d); err != nil {
		return err
	}
	d.UpdatedAt = time.Now()
	return nil
}

func (s *draftStore) remove(id uint64, ownerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return errDraftNotFound
	}
	if d.OwnerID != ownerID {
		return errDraftForbidden
	}
	delete(s.drafts, id)
	return nil
}
