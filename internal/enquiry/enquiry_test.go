package enquiry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidved/storefront/internal/apperror"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func validRequest(formType string) Request {
	return Request{
		FormType:    formType,
		Name:        "Sara",
		Email:       "sara@example.com",
		Message:     "Do you ship abroad?",
		ProductName: "Oak chair",
		Subject:     "Shipping",
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing name", func(r *Request) { r.Name = "  " }},
		{"missing email", func(r *Request) { r.Email = "" }},
		{"bad email", func(r *Request) { r.Email = "not-an-address" }},
		{"missing message", func(r *Request) { r.Message = "" }},
		{"unknown form type", func(r *Request) { r.FormType = "newsletter" }},
	}
	for _, formType := range []string{FormContact, FormEnquiry} {
		for _, tt := range tests {
			t.Run(formType+"/"+tt.name, func(t *testing.T) {
				sender := &fakeSender{}
				req := validRequest(formType)
				tt.mutate(&req)

				err := NewService(sender).Submit(context.Background(), req)

				assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
				assert.Empty(t, sender.sent)
			})
		}
	}
}

func TestSubmitRendersMessage(t *testing.T) {
	tests := []struct {
		formType    string
		wantSubject string
	}{
		{FormContact, "Contact form: Shipping"},
		{FormEnquiry, "Product enquiry: Oak chair"},
		{" Enquiry ", "Product enquiry: Oak chair"},
	}
	for _, tt := range tests {
		t.Run(tt.formType, func(t *testing.T) {
			sender := &fakeSender{}

			require.NoError(t, NewService(sender).Submit(context.Background(), validRequest(tt.formType)))

			require.Len(t, sender.sent, 1)
			m := sender.sent[0]
			assert.Equal(t, tt.wantSubject, m.Subject)
			assert.Equal(t, "sara@example.com", m.ReplyTo)
			assert.Contains(t, m.Body, "Name: Sara")
			assert.Contains(t, m.Body, "Do you ship abroad?")
		})
	}
}

func TestSubmitMailFailure(t *testing.T) {
	sender := &fakeSender{err: &textproto.Error{Code: 535, Msg: "5.7.8 bad credentials"}}

	err := NewService(sender).Submit(context.Background(), validRequest(FormContact))

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindUpstream, appErr.Kind)
	assert.Equal(t, CodeAuthFailed, appErr.Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth rejected", fmt.Errorf("send mail: %w", &textproto.Error{Code: 535}), CodeAuthFailed},
		{"auth required", &textproto.Error{Code: 530}, CodeAuthFailed},
		{"mailbox unavailable", &textproto.Error{Code: 550}, CodeSMTPError},
		{"dial refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, CodeNetworkError},
		{"deadline", fmt.Errorf("send mail: %w", context.DeadlineExceeded), CodeNetworkError},
		{"auth text", errors.New("SMTP AUTH failed: 535 5.7.8 rejected"), CodeAuthFailed},
		{"refused text", errors.New("dial tcp 127.0.0.1:587: connection refused"), CodeNetworkError},
		{"other", errors.New("unexpected response"), CodeSMTPError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestHandlerSubmit(t *testing.T) {
	post := func(h *Handler, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Submit(rr, httptest.NewRequest(http.MethodPost, "/enquiry", bytes.NewBufferString(body)))
		return rr
	}

	t.Run("sent", func(t *testing.T) {
		sender := &fakeSender{}
		body, err := json.Marshal(validRequest(FormEnquiry))
		require.NoError(t, err)

		rr := post(NewHandler(NewService(sender), false), string(body))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"data":{"sent":true}}`, rr.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := post(NewHandler(NewService(&fakeSender{}), false), "{")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("network failure", func(t *testing.T) {
		sender := &fakeSender{err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
		body, err := json.Marshal(validRequest(FormContact))
		require.NoError(t, err)

		rr := post(NewHandler(NewService(sender), false), string(body))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var env map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
		assert.Equal(t, CodeNetworkError, env["code"])
		assert.Equal(t, "failed to send message", env["error"])
		assert.Nil(t, env["details"])
	})
}
