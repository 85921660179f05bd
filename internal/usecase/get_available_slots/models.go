package get_available_slots

import (
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/types"
)

// Request модель запроса на получение доступных слотов.
// Длительность берется из услуги (ServiceID) или задается явно (DurationMinutes).
type Request struct {
	ProviderID      string    // ID мастера
	ServiceID       string    // ID услуги (опционально, если указан DurationMinutes)
	DurationMinutes int       // Длительность услуги в минутах (опционально, если указан ServiceID)
	Date            time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time        // Дата, на которую запрашивались слоты
	ProviderID      string           // ID мастера
	ServiceID       string           // ID услуги, если запрос был по услуге
	DurationMinutes int              // Длительность услуги
	WorkingStart    types.TimeString // Начало рабочего окна, пусто если мастер не работает
	WorkingEnd      types.TimeString // Конец рабочего окна
	SlotMinutes     int              // Шаг слотов
	Slots           []Slot           // Список слотов по возрастанию времени
	NextAvailable   *Slot            // Первый свободный слот
}

// Slot модель временного слота
type Slot struct {
	StartTime          types.TimeString  // Время начала слота (например, "10:00")
	EndTime            types.TimeString  // Время окончания услуги при записи на этот слот
	Available          bool              // Свободен ли слот на момент чтения
	OccupyingBookingID *string           // Бронирование, занимающее слот
	Period             domain.SlotPeriod // Часть дня
}
