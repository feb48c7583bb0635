package notifications

import (
	"fmt"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

const dateLayout = "02.01.2006 15:04"

// vehicleTitle собирает человекочитаемое название автомобиля
func vehicleTitle(vehicle *domain.Vehicle) string {
	return fmt.Sprintf("%s %s (%d)", vehicle.Make, vehicle.Model, vehicle.Year)
}

// userName собирает отображаемое имя пользователя, с фолбэком на телефон
func userName(user *domain.User) string {
	if user.FirstName != nil && *user.FirstName != "" {
		if user.LastName != nil && *user.LastName != "" {
			return *user.FirstName + " " + *user.LastName
		}
		return *user.FirstName
	}
	return user.Phone
}

func newBookingEmail(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) (subject, body string) {
	subject = "Новый запрос на бронирование"
	body = fmt.Sprintf(
		`<h2>Новый запрос на бронирование</h2>
<p>Пользователь %s запросил бронирование автомобиля <b>%s</b>.</p>
<p>Период: с %s по %s.</p>
<p>Стоимость: %.2f ₽.</p>
<p>Подтвердите или отклоните запрос в личном кабинете.</p>`,
		userName(renter),
		vehicleTitle(vehicle),
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
		booking.TotalPrice,
	)
	return subject, body
}

func bookingAcceptedEmail(booking *domain.Booking, vehicle *domain.Vehicle) (subject, body string) {
	subject = "Бронирование подтверждено"
	body = fmt.Sprintf(
		`<h2>Бронирование подтверждено</h2>
<p>Владелец подтвердил бронирование автомобиля <b>%s</b>.</p>
<p>Период: с %s по %s.</p>
<p>Стоимость: %.2f ₽.</p>`,
		vehicleTitle(vehicle),
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
		booking.TotalPrice,
	)
	return subject, body
}

func bookingRejectedEmail(booking *domain.Booking, vehicle *domain.Vehicle) (subject, body string) {
	subject = "Бронирование отклонено"
	body = fmt.Sprintf(
		`<h2>Бронирование отклонено</h2>
<p>К сожалению, владелец отклонил запрос на бронирование автомобиля <b>%s</b>
на период с %s по %s.</p>
<p>Попробуйте выбрать другой автомобиль или другие даты.</p>`,
		vehicleTitle(vehicle),
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
	)
	return subject, body
}

func bookingCompletedEmail(booking *domain.Booking, vehicle *domain.Vehicle) (subject, body string) {
	subject = "Аренда завершена"
	body = fmt.Sprintf(
		`<h2>Аренда завершена</h2>
<p>Аренда автомобиля <b>%s</b> завершена.</p>
<p>Период: с %s по %s.</p>
<p>Спасибо, что пользуетесь нашим сервисом!</p>`,
		vehicleTitle(vehicle),
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
	)
	return subject, body
}

func bookingCancelledEmail(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) (subject, body string) {
	subject = "Бронирование отменено"
	body = fmt.Sprintf(
		`<h2>Бронирование отменено</h2>
<p>Пользователь %s отменил бронирование автомобиля <b>%s</b>
на период с %s по %s.</p>
<p>Эти даты снова доступны для бронирования.</p>`,
		userName(renter),
		vehicleTitle(vehicle),
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
	)
	return subject, body
}

func licenseApprovedEmail(user *domain.User) (subject, body string) {
	subject = "Водительское удостоверение подтверждено"
	body = fmt.Sprintf(
		`<h2>Удостоверение подтверждено</h2>
<p>%s, ваше водительское удостоверение прошло проверку.</p>
<p>Теперь вам доступно бронирование автомобилей.</p>`,
		userName(user),
	)
	return subject, body
}
