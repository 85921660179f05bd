package models

import (
	"strings"
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
)

// SaveProviderRequest запрос на создание или обновление карточки мастера.
// Active == nil: новый мастер активен, у существующего флаг не меняется.
type SaveProviderRequest struct {
	UserID      string  `json:"userId"`
	ProviderID  string  `json:"providerId"`
	DisplayName string  `json:"displayName"`
	Phone       string  `json:"phone"`
	Specialty   *string `json:"specialty,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *SaveProviderRequest) ToDomain(active bool) *domain.Provider {
	return &domain.Provider{
		ID:          r.ProviderID,
		DisplayName: strings.TrimSpace(r.DisplayName),
		Phone:       strings.TrimSpace(r.Phone),
		Specialty:   r.Specialty,
		Avatar:      r.Avatar,
		Active:      active,
	}
}

// ProviderResponse карточка мастера
type ProviderResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Phone       string    `json:"phone,omitempty"`
	Specialty   *string   `json:"specialty,omitempty"`
	Avatar      *string   `json:"avatar,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProviderListResponse список мастеров
type ProviderListResponse struct {
	Providers []ProviderResponse `json:"providers"`
}

// FromDomainProvider конвертирует domain модель в DTO
func FromDomainProvider(p *domain.Provider) *ProviderResponse {
	if p == nil {
		return nil
	}

	return &ProviderResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		Specialty:   p.Specialty,
		Avatar:      p.Avatar,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromDomainProviderList конвертирует список domain моделей в DTO
func FromDomainProviderList(providers []*domain.Provider) *ProviderListResponse {
	resp := &ProviderListResponse{
		Providers: make([]ProviderResponse, 0, len(providers)),
	}
	for _, p := range providers {
		resp.Providers = append(resp.Providers, *FromDomainProvider(p))
	}
	return resp
}
