package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"go-storefront/models"
)

// EmailService handles sending emails using SendGrid
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiKey, sender string) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("Storefront", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}
	return nil
}

// SendOrderConfirmation sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your purchase!</strong><br><br>Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		order.TotalAmount,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
