package find_available_vehicles

import "time"

// Request модель запроса на поиск доступных автомобилей
type Request struct {
	StartDate time.Time // Начало желаемого периода (включительно)
	EndDate   time.Time // Конец желаемого периода (не включительно)
}

// VehicleInfo данные автомобиля в результатах поиска
type VehicleInfo struct {
	ID           int64   // ID автомобиля
	MerchantID   int64   // ID владельца
	Make         string  // Марка
	Model        string  // Модель
	Year         int     // Год выпуска
	PricePerDay  float64 // Цена за сутки
	EstimatedFee float64 // Стоимость за весь запрошенный период
}

// Response модель ответа со списком доступных автомобилей
type Response struct {
	Vehicles   []VehicleInfo // Доступные автомобили
	RentalDays int           // Число оплачиваемых суток в периоде
}
