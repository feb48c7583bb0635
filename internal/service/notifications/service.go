package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// Service сервис уведомлений. Доставка выполняется асинхронно, в отдельной
// горутине с собственным таймаутом: сбой доставки никогда не влияет на
// вызвавшую операцию, ошибки только логируются.
type Service struct {
	email   EmailSender
	otp     OTPMessenger
	logger  Logger
	timeout time.Duration

	wg sync.WaitGroup
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(email EmailSender, otp OTPMessenger, timeout time.Duration, logger Logger) *Service {
	return &Service{
		email:   email,
		otp:     otp,
		logger:  logger,
		timeout: timeout,
	}
}

// DeliverOTP доставляет код подтверждения на телефон через WhatsApp
func (s *Service) DeliverOTP(phone, code string) {
	s.dispatch("DeliverOTP", func(ctx context.Context) error {
		_, err := s.otp.SendOTPMessage(ctx, phone, code)
		return err
	})
}

// NotifyNewBooking уведомляет владельца о новом запросе на бронирование
func (s *Service) NotifyNewBooking(merchant, renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) {
	subject, body := newBookingEmail(renter, booking, vehicle)
	s.sendEmail("NotifyNewBooking", merchant, subject, body)
}

// NotifyBookingAccepted уведомляет арендатора о подтверждении бронирования
func (s *Service) NotifyBookingAccepted(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) {
	subject, body := bookingAcceptedEmail(booking, vehicle)
	s.sendEmail("NotifyBookingAccepted", renter, subject, body)
}

// NotifyBookingRejected уведомляет арендатора об отклонении бронирования
func (s *Service) NotifyBookingRejected(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) {
	subject, body := bookingRejectedEmail(booking, vehicle)
	s.sendEmail("NotifyBookingRejected", renter, subject, body)
}

// NotifyBookingCompleted уведомляет арендатора о завершении аренды
func (s *Service) NotifyBookingCompleted(renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) {
	subject, body := bookingCompletedEmail(booking, vehicle)
	s.sendEmail("NotifyBookingCompleted", renter, subject, body)
}

// NotifyBookingCancelled уведомляет владельца об отмене бронирования арендатором
func (s *Service) NotifyBookingCancelled(merchant, renter *domain.User, booking *domain.Booking, vehicle *domain.Vehicle) {
	subject, body := bookingCancelledEmail(renter, booking, vehicle)
	s.sendEmail("NotifyBookingCancelled", merchant, subject, body)
}

// NotifyLicenseApproved уведомляет пользователя о подтверждении удостоверения
func (s *Service) NotifyLicenseApproved(user *domain.User) {
	subject, body := licenseApprovedEmail(user)
	s.sendEmail("NotifyLicenseApproved", user, subject, body)
}

// Wait дожидается завершения всех отправок в полёте. Используется при
// остановке сервиса и в тестах.
func (s *Service) Wait() {
	s.wg.Wait()
}

// sendEmail отправляет письмо получателю, если у него указан email
func (s *Service) sendEmail(name string, recipient *domain.User, subject, body string) {
	if recipient.Email == nil || *recipient.Email == "" {
		s.logger.Info("%s: у пользователя id=%d не указан email, уведомление пропущено", name, recipient.ID)
		return
	}

	to := *recipient.Email
	s.dispatch(name, func(_ context.Context) error {
		return s.email.Send(to, subject, body)
	})
}

// dispatch выполняет доставку в отдельной горутине с собственным таймаутом
func (s *Service) dispatch(name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("%s: доставка уведомления не удалась: %v", name, err)
			return
		}
		s.logger.Info("%s: уведомление отправлено", name)
	}()
}
