package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"fleetrent-backend/internal/domain"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(toEmail, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, toEmail, toName, assetName string, b *domain.Booking) error {
	subject := fmt.Sprintf("Booking Confirmed: %s", assetName)
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s for %s is confirmed.\n\nPickup: %s\nReturn by: %s\nTotal: $%.2f (deposit $%.2f)\n\nBest regards,\nThe FleetRent Team",
		toName, b.Reference, assetName,
		b.StartDate.Format("Jan 2, 2006"), b.EstimatedReturnDate.Format("Jan 2, 2006"),
		float64(b.TotalCents)/100, float64(b.DepositCents)/100)
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendBookingCompletion(ctx context.Context, toEmail, toName, assetName string, b *domain.Booking) error {
	subject := fmt.Sprintf("Rental Completed: %s", assetName)
	body := fmt.Sprintf("Hello %s,\n\nYour rental of %s (booking %s) is complete.\n\nTotal charged: $%.2f\nOutstanding balance: $%.2f\n\nBest regards,\nThe FleetRent Team",
		toName, assetName, b.Reference,
		float64(b.TotalCents)/100, float64(b.PendingCents)/100)
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendBookingCancellation(ctx context.Context, toEmail, toName, assetName, reason string) error {
	subject := fmt.Sprintf("Booking Cancelled: %s", assetName)
	body := fmt.Sprintf("Hello %s,\n\nYour booking for %s has been cancelled.\n\nReason: %s\n\nBest regards,\nThe FleetRent Team",
		toName, assetName, reason)
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendReturnReminder(ctx context.Context, toEmail, toName, assetName string, dueDate time.Time) error {
	subject := fmt.Sprintf("Return Reminder: %s", assetName)
	body := fmt.Sprintf("Hello %s,\n\nA friendly reminder that %s is due back on %s.\n\nBest regards,\nThe FleetRent Team",
		toName, assetName, dueDate.Format("Jan 2, 2006"))
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, toEmail, toName, assetName string, dueDate time.Time) error {
	subject := fmt.Sprintf("Overdue Rental: %s", assetName)
	body := fmt.Sprintf("Hello %s,\n\n%s was due back on %s and has not been returned. Please return it as soon as possible or contact us to extend your rental.\n\nBest regards,\nThe FleetRent Team",
		toName, assetName, dueDate.Format("Jan 2, 2006"))
	return s.send(toEmail, toName, subject, body)
}
