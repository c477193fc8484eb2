package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
)

type emailMessage struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
}

// emailSender delivers a composed message over one transport.
type emailSender interface {
	Name() string
	Deliver(ctx context.Context, msg emailMessage) error
}

type emailService struct {
	sender emailSender
}

// NewSendGridEmailService sends through the SendGrid v3 API.
func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{sender: &sendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}}
}

// NewSMTPEmailService sends through an SMTP relay.
func NewSMTPEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{sender: &smtpSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}}
}

// NewNoopEmailService logs messages instead of sending them.
func NewNoopEmailService() EmailService {
	return &emailService{sender: noopSender{}}
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, customer *domain.Customer, booking *domain.Booking, vehicle *domain.Vehicle) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", customer.FullName())
	fmt.Fprintf(&body, "Your booking #%d has been confirmed.\n\n", booking.ID)
	fmt.Fprintf(&body, "Vehicle: %s %s (%s)\n", vehicle.Brand, vehicle.Model, vehicle.LicensePlate)
	fmt.Fprintf(&body, "Pickup: %s at %s\n", booking.PickupDate.Format(domain.DateLayout), booking.PickupLocation)
	fmt.Fprintf(&body, "Return: %s at %s\n", booking.ReturnDate.Format(domain.DateLayout), booking.ReturnLocation)
	fmt.Fprintf(&body, "Total price: %s\n\n", booking.TotalPrice)
	body.WriteString("Free cancellation is possible until 24 hours before the pickup day.\n")
	body.WriteString("\nBest regards,\nThe Rent-a-Car Team")

	return s.send(ctx, emailMessage{
		ToEmail: customer.Email,
		ToName:  customer.FullName(),
		Subject: fmt.Sprintf("Booking #%d confirmed", booking.ID),
		Body:    body.String(),
	})
}

func (s *emailService) SendBookingCancelled(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d for %s has been cancelled.\n\nBest regards,\nThe Rent-a-Car Team",
		customer.FullName(), booking.ID, booking.Period())

	return s.send(ctx, emailMessage{
		ToEmail: customer.Email,
		ToName:  customer.FullName(),
		Subject: fmt.Sprintf("Booking #%d cancelled", booking.ID),
		Body:    body,
	})
}

func (s *emailService) SendCheckinReceipt(ctx context.Context, customer *domain.Customer, rental *domain.Rental) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", customer.FullName())
	fmt.Fprintf(&body, "Thank you for returning your vehicle (rental #%d).\n\n", rental.ID)
	fmt.Fprintf(&body, "Distance driven: %d km\n", rental.DistanceDriven())
	fmt.Fprintf(&body, "Additional costs: %s\n", rental.AdditionalCosts)
	if rental.AdditionalCostsNote != "" {
		fmt.Fprintf(&body, "Details: %s\n", rental.AdditionalCostsNote)
	}
	body.WriteString("\nBest regards,\nThe Rent-a-Car Team")

	return s.send(ctx, emailMessage{
		ToEmail: customer.Email,
		ToName:  customer.FullName(),
		Subject: fmt.Sprintf("Rental #%d receipt", rental.ID),
		Body:    body.String(),
	})
}

func (s *emailService) send(ctx context.Context, msg emailMessage) error {
	if msg.ToEmail == "" {
		return domain.InvalidArgumentf("recipient has no email address")
	}
	logger.ExternalServiceCall(s.sender.Name(), "send", "to", msg.ToEmail, "subject", msg.Subject)
	err := s.sender.Deliver(ctx, msg)
	logger.ExternalServiceResult(s.sender.Name(), "send", err, "to", msg.ToEmail)
	return err
}

type sendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (s *sendGridSender) Name() string { return "sendgrid" }

func (s *sendGridSender) Deliver(ctx context.Context, msg emailMessage) error {
	message := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail(msg.ToName, msg.ToEmail), msg.Body, "")
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpSender) Name() string { return "smtp" }

func (s *smtpSender) Deliver(ctx context.Context, msg emailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", msg.ToEmail, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

type noopSender struct{}

func (noopSender) Name() string { return "noop" }

func (noopSender) Deliver(ctx context.Context, msg emailMessage) error {
	logger.Info("Email delivery disabled, dropping message", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
