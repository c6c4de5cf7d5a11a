package planner

import (
	"errors"

	"okulyemek-backend/internal/models"
)

// Haftalık plan günleri: 1..5 = Pazar..Perşembe
// Cuma/Cumartesi servis günü değildir, 5. günden sonrası 1. güne sarar
const (
	MinDay = 1
	MaxDay = 5
)

var (
	ErrInvalidDay = errors.New("geçersiz gün (1-5 arası olmalı)")
	ErrSlotIndex  = errors.New("slot index aralık dışında")
)

// Slot: haftalık planda bir günün sıralı yemek ataması
// MealID = 0 henüz yemek seçilmedi demektir; böyle slotlar kayda girmez
type Slot struct {
	Category models.MealCategory
	MealID   uint
	Order    int // 1'den başlar, gün içinde boşluksuz artar
}

// WeeklySchedule: gün -> sıralı slot listesi
// Her operasyondan sonra her günün Order değerleri liste sırasıyla 1..N olur
type WeeklySchedule struct {
	days map[int][]Slot
}

func NewWeeklySchedule() *WeeklySchedule {
	return &WeeklySchedule{days: make(map[int][]Slot)}
}

// Slots: günün slotlarının kopyasını döndürür
func (s *WeeklySchedule) Slots(day int) []Slot {
	list := s.days[day]
	out := make([]Slot, len(list))
	copy(out, list)
	return out
}

// AddSlot: günün sonuna boş bir slot ekler
func (s *WeeklySchedule) AddSlot(day int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	s.days[day] = append(s.days[day], Slot{Order: len(s.days[day]) + 1})
	return nil
}

// RemoveSlot: slotu siler, kalanları göreli sıra bozulmadan 1..N yeniden numaralar
func (s *WeeklySchedule) RemoveSlot(day, index int) error {
	if err := s.checkSlot(day, index); err != nil {
		return err
	}
	list := s.days[day]
	s.days[day] = renumber(append(list[:index], list[index+1:]...))
	return nil
}

// UpdateSlotCategory: slotun kategorisini değiştirir
// Kategori değişince seçili yemek temizlenir (yemek tek kategoriye ait,
// eski kategoriden kalan meal_id geçersiz olur)
func (s *WeeklySchedule) UpdateSlotCategory(day, index int, category models.MealCategory) error {
	if err := s.checkSlot(day, index); err != nil {
		return err
	}
	slot := &s.days[day][index]
	if slot.Category != category {
		slot.MealID = 0
	}
	slot.Category = category
	return nil
}

// UpdateSlotMeal: slotun yemeğini değiştirir, sıra dokunulmaz
func (s *WeeklySchedule) UpdateSlotMeal(day, index int, mealID uint) error {
	if err := s.checkSlot(day, index); err != nil {
		return err
	}
	s.days[day][index].MealID = mealID
	return nil
}

// MoveUp: slotu bir üstüyle takas eder, index 0'da no-op
func (s *WeeklySchedule) MoveUp(day, index int) error {
	if err := s.checkSlot(day, index); err != nil {
		return err
	}
	if index == 0 {
		return nil
	}
	list := s.days[day]
	list[index-1], list[index] = list[index], list[index-1]
	s.days[day] = renumber(list)
	return nil
}

// MoveDown: slotu bir altıyla takas eder, son index'te no-op
func (s *WeeklySchedule) MoveDown(day, index int) error {
	if err := s.checkSlot(day, index); err != nil {
		return err
	}
	list := s.days[day]
	if index == len(list)-1 {
		return nil
	}
	list[index], list[index+1] = list[index+1], list[index]
	s.days[day] = renumber(list)
	return nil
}

// DuplicateToNextDay: slotun kategori+yemeğini bir sonraki güne kopyalar
// 5. gün (Perşembe) 1. güne (Pazar) sarar, hafta sonu atlanır
// Kopya hedef günün sonuna eklenir, kaynak slot değişmez
func (s *WeeklySchedule) DuplicateToNextDay(day, index int) error {
	if err := s.checkSlot(day, index); err != nil {
		return err
	}
	next := day + 1
	if next > MaxDay {
		next = MinDay
	}
	src := s.days[day][index]
	s.days[next] = append(s.days[next], Slot{
		Category: src.Category,
		MealID:   src.MealID,
		Order:    len(s.days[next]) + 1,
	})
	return nil
}

// Reorder: sürükle-bırak. Slot kaynak günden çıkarılır, hedef günde
// targetIndex konumuna sokulur (sonrakiler kayar), iki günün de sıraları
// 1..N yeniden numaralanır. Aynı konuma bırakma no-op'tur.
// Geçersiz index'te durum hiç değişmez.
func (s *WeeklySchedule) Reorder(sourceDay, sourceIndex, targetDay, targetIndex int) error {
	if err := s.checkSlot(sourceDay, sourceIndex); err != nil {
		return err
	}
	if err := checkDay(targetDay); err != nil {
		return err
	}
	if sourceDay == targetDay && sourceIndex == targetIndex {
		return nil
	}

	// Hedef kapasitesi: aynı gün içinde taşınan slot çıkarılmış sayılır
	targetLen := len(s.days[targetDay])
	if sourceDay == targetDay {
		targetLen--
	}
	if targetIndex < 0 || targetIndex > targetLen {
		return ErrSlotIndex
	}

	src := s.days[sourceDay]
	moved := src[sourceIndex]
	src = append(src[:sourceIndex], src[sourceIndex+1:]...)
	s.days[sourceDay] = src

	dst := s.days[targetDay]
	dst = append(dst, Slot{})
	copy(dst[targetIndex+1:], dst[targetIndex:])
	dst[targetIndex] = moved
	s.days[targetDay] = dst

	s.days[sourceDay] = renumber(s.days[sourceDay])
	s.days[targetDay] = renumber(s.days[targetDay])
	return nil
}

// ClearDay: günün tüm slotlarını siler
func (s *WeeklySchedule) ClearDay(day int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	delete(s.days, day)
	return nil
}

func (s *WeeklySchedule) checkSlot(day, index int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	if index < 0 || index >= len(s.days[day]) {
		return ErrSlotIndex
	}
	return nil
}

func checkDay(day int) error {
	if day < MinDay || day > MaxDay {
		return ErrInvalidDay
	}
	return nil
}

func renumber(list []Slot) []Slot {
	for i := range list {
		list[i].Order = i + 1
	}
	return list
}
