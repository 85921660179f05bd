package domain

// Service услуга из каталога, определяет длительность и базовую цену бронирования
type Service struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
}
