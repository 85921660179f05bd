package models

import (
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/types"
)

// Request модели

// SaveScheduleRequest запрос на создание или замену рабочего окна мастера на дату
type SaveScheduleRequest struct {
	UserID      string    `json:"userId"`
	ProviderID  string    `json:"providerId"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`             // "09:00"
	EndTime     string    `json:"endTime"`               // "18:00"
	SlotMinutes int       `json:"slotMinutes,omitempty"` // 0 = по умолчанию 30
}

// ToDomain конвертирует request в domain модель
func (r *SaveScheduleRequest) ToDomain() *domain.WorkingSchedule {
	slotMinutes := r.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = domain.DefaultSlotDurationMinutes
	}

	return &domain.WorkingSchedule{
		ProviderID:   r.ProviderID,
		ScheduleDate: r.Date,
		StartTime:    types.TimeString(r.StartTime),
		EndTime:      types.TimeString(r.EndTime),
		SlotMinutes:  slotMinutes,
	}
}

// ListSchedulesRequest запрос на получение расписания мастера за период
type ListSchedulesRequest struct {
	ProviderID string     `json:"providerId"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
}

// Response модели

// ScheduleResponse ответ с рабочим окном мастера
type ScheduleResponse struct {
	ProviderID  string    `json:"providerId"`
	Date        string    `json:"date"`      // "2025-10-15"
	StartTime   string    `json:"startTime"` // "09:00"
	EndTime     string    `json:"endTime"`   // "18:00"
	SlotMinutes int       `json:"slotMinutes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ScheduleListResponse ответ со списком рабочих окон
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.WorkingSchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	return &ScheduleResponse{
		ProviderID:  s.ProviderID,
		Date:        s.DateKey(),
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		SlotMinutes: s.SlotMinutes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainScheduleList конвертирует список domain моделей в DTO
func FromDomainScheduleList(schedules []*domain.WorkingSchedule) *ScheduleListResponse {
	resp := &ScheduleListResponse{
		Schedules: make([]ScheduleResponse, 0, len(schedules)),
	}
	for _, s := range schedules {
		resp.Schedules = append(resp.Schedules, *FromDomainSchedule(s))
	}
	return resp
}
