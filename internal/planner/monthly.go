package planner

import (
	"errors"
	"sort"
	"time"
)

var ErrDateNotFound = errors.New("bu tarih için kayıt yok")

// DateAssignment: aylık planda bir takvim gününe atanan yemek
// MealID = 0 henüz yemek seçilmedi demektir
type DateAssignment struct {
	MealID   uint
	MealDate time.Time
}

// MonthlyAssignments: tarih başına en fazla bir atama tutar
// Tarih aralığı kontrolü buranın değil, plan builder'ın sorumluluğudur
type MonthlyAssignments struct {
	entries []DateAssignment
}

func NewMonthlyAssignments() *MonthlyAssignments {
	return &MonthlyAssignments{}
}

// AddDate: tarih için boş atama açar, tarih zaten varsa no-op
func (m *MonthlyAssignments) AddDate(date time.Time) {
	if m.find(date) >= 0 {
		return
	}
	m.entries = append(m.entries, DateAssignment{MealDate: truncateDate(date)})
}

// RemoveDate: tarihin atamasını siler
func (m *MonthlyAssignments) RemoveDate(date time.Time) {
	i := m.find(date)
	if i < 0 {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
}

// SetMeal: var olan tarih atamasının yemeğini belirler/değiştirir
func (m *MonthlyAssignments) SetMeal(date time.Time, mealID uint) error {
	i := m.find(date)
	if i < 0 {
		return ErrDateNotFound
	}
	m.entries[i].MealID = mealID
	return nil
}

// Entries: tüm atamaların kopyası (eksik olanlar dahil), ekleme sırasıyla
func (m *MonthlyAssignments) Entries() []DateAssignment {
	out := make([]DateAssignment, len(m.entries))
	copy(out, m.entries)
	return out
}

// Completed: yemeği seçilmiş atamaları tarih sırasıyla döndürür
// Yemeksiz tarihler kayda girmez
func (m *MonthlyAssignments) Completed() []DateAssignment {
	out := make([]DateAssignment, 0, len(m.entries))
	for _, e := range m.entries {
		if e.MealID != 0 {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MealDate.Before(out[j].MealDate) })
	return out
}

func (m *MonthlyAssignments) find(date time.Time) int {
	d := truncateDate(date)
	for i, e := range m.entries {
		if e.MealDate.Equal(d) {
			return i
		}
	}
	return -1
}

// truncateDate: saat bilgisini atar, sadece tarih kalır
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
