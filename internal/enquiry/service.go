// Package enquiry relays contact and product enquiry forms to the shop owner by e-mail.
package enquiry

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/navidved/storefront/internal/apperror"
	"github.com/navidved/storefront/internal/validation"
)

// Form types accepted in Request.FormType.
const (
	FormContact = "contact"
	FormEnquiry = "enquiry"
)

// Request is a submitted contact or enquiry form. Both form types require the
// same fields.
type Request struct {
	FormType    string `json:"formType" validate:"required,oneof=contact enquiry" example:"enquiry"`
	Name        string `json:"name" validate:"required,max=100" example:"Sara Ahmadi"`
	Email       string `json:"email" validate:"required,email" example:"sara@example.com"`
	Phone       string `json:"phone" validate:"max=30" example:"+98 912 123 4567"`
	Subject     string `json:"subject" validate:"max=200" example:"Bulk order"`
	Message     string `json:"message" validate:"required,max=5000" example:"Do you ship to Tehran?"`
	ProductName string `json:"productName" validate:"max=200" example:"Oak chair"`
}

// Service validates forms and hands them to a Sender.
type Service struct {
	sender   Sender
	validate *validation.Validator
}

// NewService creates a new enquiry Service.
func NewService(sender Sender) *Service {
	return &Service{sender: sender, validate: validation.New()}
}

// Submit validates req and sends it. Send failures come back as
// apperror.KindUpstream carrying one of the Code constants.
func (s *Service) Submit(ctx context.Context, req Request) error {
	req.normalize()
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, render(req)); err != nil {
		code := Classify(err)
		log.Ctx(ctx).Error().Err(err).Str("code", code).Str("form_type", req.FormType).Msg("enquiry mail failed")
		return apperror.Upstream(code, "failed to send message", err)
	}

	log.Ctx(ctx).Info().Str("form_type", req.FormType).Msg("enquiry mail sent")
	return nil
}

func (r *Request) normalize() {
	r.FormType = strings.ToLower(strings.TrimSpace(r.FormType))
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.ProductName = strings.TrimSpace(r.ProductName)
}

func render(req Request) Message {
	var subject string
	switch req.FormType {
	case FormEnquiry:
		subject = "Product enquiry"
		if req.ProductName != "" {
			subject += ": " + req.ProductName
		}
	default:
		subject = "Contact form"
		if req.Subject != "" {
			subject += ": " + req.Subject
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	}
	if req.FormType == FormEnquiry && req.ProductName != "" {
		fmt.Fprintf(&b, "Product: %s\n", req.ProductName)
	}
	if req.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	}
	fmt.Fprintf(&b, "\n%s\n", req.Message)

	return Message{ReplyTo: req.Email, Subject: subject, Body: b.String()}
}
