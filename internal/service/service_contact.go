package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/dev-profiles/internal/adapter"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
)

type contactService struct {
	mailer    adapter.Mailer
	validator validators.Validator

	logger *logger.Logger
}

func NewContactService(mailer adapter.Mailer, validator validators.Validator, logger *logger.Logger) ContactService {
	return &contactService{
		mailer:    mailer,
		validator: validator,
		logger:    logger,
	}
}

// SendContactMessage validates msg and hands it to the mailer.
func (c *contactService) SendContactMessage(ctx context.Context, msg models.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := c.validator.Validate(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := c.mailer.SendContact(ctx, msg); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*contactService.SendContactMessage").Msg("contact message was not delivered")
		return fmt.Errorf("%w: %w", ErrContactDeliveryFailed, err)
	}

	return nil
}
