package domain

import (
	"fmt"
	"strings"
	"time"
)

// Provider мастер из справочника.
// Неактивный мастер не принимает новые бронирования, прежние остаются в силе.
type Provider struct {
	ID          string
	DisplayName string
	Phone       string
	Specialty   *string
	Avatar      *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate проверяет обязательные поля и их длину
func (p *Provider) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: provider id is required", ErrInvalidProvider)
	}
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidProvider)
	}
	if len(name) > MaxProviderNameLength {
		return fmt.Errorf("%w: display name must be at most %d characters", ErrInvalidProvider, MaxProviderNameLength)
	}
	if len(p.Phone) > MaxPhoneLength {
		return fmt.Errorf("%w: phone must be at most %d characters", ErrInvalidProvider, MaxPhoneLength)
	}
	if p.Specialty != nil && len(*p.Specialty) > MaxSpecialtyLength {
		return fmt.Errorf("%w: specialty must be at most %d characters", ErrInvalidProvider, MaxSpecialtyLength)
	}
	return nil
}
