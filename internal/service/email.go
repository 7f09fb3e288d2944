package service

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"bikeshare-backend/internal/domain"
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

func (s *emailService) SendWelcome(toEmail, fullName string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account is ready. Top up your wallet and grab a bike.\n\nHappy riding!", fullName)
	return s.send(toEmail, fullName, "Welcome aboard", body)
}

func (s *emailService) SendRentalReceipt(toEmail, fullName string, rental *domain.Rental) error {
	duration := 0
	if rental.DurationMinutes != nil {
		duration = *rental.DurationMinutes
	}
	var price int64
	if rental.TotalPrice != nil {
		price = *rental.TotalPrice
	}
	body := fmt.Sprintf("Hello %s,\n\nYour ride is complete.\n\nDuration: %d minutes\nCharged: %d\n\nThanks for riding with us!",
		fullName, duration, price)
	return s.send(toEmail, fullName, "Your ride receipt", body)
}

func (s *emailService) SendSubscriptionCreated(toEmail, fullName, packageName string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour %s subscription has been created and will activate shortly.", fullName, packageName)
	return s.send(toEmail, fullName, "Subscription created", body)
}

func (s *emailService) send(toEmail, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, "")

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
