package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/config"
)

func TestSendOtpRequiresDestination(t *testing.T) {
	svc := NewNotificationService(config.NotifyConfig{}, false, zap.NewNop())
	err := svc.SendOtp(context.Background(), OtpMessage{Channel: ChannelEmail, Code: "123456"})
	assert.Equal(t, 400, apperr.StatusOf(err))
}

func TestSendOtpDevFallback(t *testing.T) {
	// no provider credentials outside production degrades to a local log
	svc := NewNotificationService(config.NotifyConfig{}, false, zap.NewNop())

	err := svc.SendOtp(context.Background(), OtpMessage{
		Channel: ChannelEmail, Destination: "user@example.com", Code: "123456",
	})
	assert.NoError(t, err)

	err = svc.SendOtp(context.Background(), OtpMessage{
		Channel: ChannelSMS, Destination: "+15550001111", Code: "123456",
	})
	assert.NoError(t, err)
}

func TestSendOtpProductionRequiresCredentials(t *testing.T) {
	svc := NewNotificationService(config.NotifyConfig{}, true, zap.NewNop())

	err := svc.SendOtp(context.Background(), OtpMessage{
		Channel: ChannelEmail, Destination: "user@example.com", Code: "123456",
	})
	assert.Error(t, err)

	err = svc.SendOtp(context.Background(), OtpMessage{
		Channel: ChannelSMS, Destination: "+15550001111", Code: "123456",
	})
	assert.Error(t, err)
}
