package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	RenterID  int64     // ID арендатора
	VehicleID int64     // ID автомобиля
	StartDate time.Time // Начало аренды (включительно)
	EndDate   time.Time // Конец аренды (не включительно)
	Notes     *string   // Пожелания арендатора (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64     // ID созданного бронирования
	RenterID   int64     // ID арендатора
	MerchantID int64     // ID владельца автомобиля
	VehicleID  int64     // ID автомобиля
	StartDate  time.Time // Начало аренды
	EndDate    time.Time // Конец аренды
	Status     string    // Статус бронирования

	TotalPrice float64 // Стоимость за весь период
	RentalDays int     // Число оплачиваемых суток

	Notes *string // Пожелания арендатора

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
