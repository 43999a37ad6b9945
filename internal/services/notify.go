package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/config"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// OtpMessage is one code to deliver over a channel.
type OtpMessage struct {
	Channel     string
	Destination string
	Code        string
}

// OtpSender delivers one-time codes. Handlers depend on the interface so
// tests can capture deliveries.
type OtpSender interface {
	SendOtp(ctx context.Context, msg OtpMessage) error
}

// NotificationService sends OTPs over SMTP or the Twilio REST API. When a
// channel's credentials are missing outside production it logs the code
// locally instead of failing, which keeps local development working
// without provider accounts.
type NotificationService struct {
	cfg        config.NotifyConfig
	production bool
	logger     *zap.Logger
	httpClient *http.Client
}

func NewNotificationService(cfg config.NotifyConfig, production bool, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		cfg:        cfg,
		production: production,
		logger:     logger.With(zap.String("service", "notify")),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *NotificationService) SendOtp(ctx context.Context, msg OtpMessage) error {
	if msg.Destination == "" {
		return apperr.Validation("OTP destination is required")
	}
	if msg.Channel == ChannelSMS {
		return n.sendSMS(ctx, msg.Destination, msg.Code)
	}
	return n.sendEmail(msg.Destination, msg.Code)
}

func (n *NotificationService) devLog(destination, code string) {
	n.logger.Info("OTP delivery degraded to local log",
		zap.String("destination", destination),
		zap.String("otp", code))
}

func (n *NotificationService) sendEmail(destination, code string) error {
	c := n.cfg
	if c.SMTPHost == "" || c.SMTPUser == "" || c.SMTPPass == "" || c.SMTPFrom == "" {
		if !n.production {
			n.devLog(destination, code)
			return nil
		}
		return fmt.Errorf("email delivery is not configured")
	}

	body := strings.Join([]string{
		"From: " + c.SMTPFrom,
		"To: " + destination,
		"Subject: AttorneyCare OTP Verification",
		"",
		fmt.Sprintf("Your AttorneyCare OTP is %s. It expires soon.", code),
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", c.SMTPHost, c.SMTPPort)
	auth := smtp.PlainAuth("", c.SMTPUser, c.SMTPPass, c.SMTPHost)
	return smtp.SendMail(addr, auth, c.SMTPFrom, []string{destination}, []byte(body))
}

func (n *NotificationService) sendSMS(ctx context.Context, destination, code string) error {
	c := n.cfg
	if c.TwilioSID == "" || c.TwilioAuth == "" || c.TwilioFrom == "" {
		if !n.production {
			n.devLog(destination, code)
			return nil
		}
		return fmt.Errorf("sms delivery is not configured")
	}

	form := url.Values{}
	form.Set("From", c.TwilioFrom)
	form.Set("To", destination)
	form.Set("Body", fmt.Sprintf("AttorneyCare OTP: %s. It expires soon.", code))

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", c.TwilioSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.TwilioSID, c.TwilioAuth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms delivery failed: status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
