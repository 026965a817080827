package service

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"liftpark/internal/db"
)

// NotifyService sends best-effort booking notifications over email and SMS.
// Failures are logged, never surfaced: a booking must not fail because a
// notification provider is down or unconfigured.
type NotifyService struct {
	sendgridAPIKey string
	fromEmail      string
	twilioClient   *twilio.RestClient
	fromNumber     string
}

func NewNotifyService(sendgridAPIKey, fromEmail, twilioSID, twilioToken, fromNumber string) *NotifyService {
	s := &NotifyService{
		sendgridAPIKey: sendgridAPIKey,
		fromEmail:      fromEmail,
		fromNumber:     fromNumber,
	}
	if twilioSID != "" && twilioToken != "" {
		s.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: twilioSID,
			Password: twilioToken,
		})
	}
	return s
}

// BookingStatusChanged fires the email and SMS asynchronously.
func (s *NotifyService) BookingStatusChanged(user *db.User, booking *db.Booking, status string) {
	subject := fmt.Sprintf("Your parking booking %s is %s", booking.Code, status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour parking booking is %s.\n\n"+
			"Booking Code: %s\n"+
			"Vehicle: %s\n"+
			"Block: %s, Spot: %s\n\n"+
			"Thank you for parking with us.",
		user.Username, status, booking.Code, booking.VehicleNumber, booking.BlockID, booking.SpotLabel,
	)
	sms := fmt.Sprintf("Parking: booking %s is %s. Spot %s in %s.",
		booking.Code, status, booking.SpotLabel, booking.BlockID)

	go func() {
		if err := s.sendEmail(user.Email, user.Username, subject, body); err != nil {
			log.Printf("Email notification failed for booking %s: %v", booking.Code, err)
		}
	}()
	go func() {
		if err := s.sendSMS(user.Phone, sms); err != nil {
			log.Printf("SMS notification failed for booking %s: %v", booking.Code, err)
		}
	}()
}

func (s *NotifyService) sendEmail(toEmail, toName, subject, body string) error {
	if s.sendgridAPIKey == "" || s.fromEmail == "" || toEmail == "" {
		return nil
	}
	from := mail.NewEmail("Liftpark", s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")
	client := sendgrid.NewSendClient(s.sendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *NotifyService) sendSMS(toNumber, body string) error {
	if s.twilioClient == nil || s.fromNumber == "" || toNumber == "" {
		return nil
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)
	_, err := s.twilioClient.Api.CreateMessage(params)
	return err
}
