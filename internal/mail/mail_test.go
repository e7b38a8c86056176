package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justifacil/internal/config"
)

func TestNew_SelectsImplementation(t *testing.T) {
	_, ok := New(config.MailConfig{}, nil).(*LogMailer)
	assert.True(t, ok)

	_, ok = New(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, nil).(*SMTPMailer)
	assert.True(t, ok)
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTP(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 2525, Username: "u", Password: "p", From: "no-reply@justifacil.local"})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.NotNil(t, a)
		assert.Equal(t, "no-reply@justifacil.local", from)
		return nil
	}

	err := m.Send(context.Background(), Message{To: "est1@example.com", Subject: "Tu justificación #1 fue aprobada", Body: "Hola,\n\nEstado: Aprobada"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"est1@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: =?utf-8?q?Tu_justificaci=C3=B3n_#1_fue_aprobada?=\r\n")
	assert.True(t, strings.HasSuffix(gotMsg, "Hola,\r\n\r\nEstado: Aprobada"))
}

func TestSMTPMailer_SubjectEncoding(t *testing.T) {
	m := NewSMTP(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 25})

	t.Run("non-ascii subject is encoded", func(t *testing.T) {
		raw := m.render(Message{To: "est1@example.com", Subject: "Tu justificación #7 fue rechazada"})
		var subject string
		for _, line := range strings.Split(string(raw), "\r\n") {
			if v, ok := strings.CutPrefix(line, "Subject: "); ok {
				subject = v
			}
		}
		for _, r := range subject {
			assert.Less(t, r, rune(128), "header must be 7-bit")
		}
		decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
		require.NoError(t, err)
		assert.Equal(t, "Tu justificación #7 fue rechazada", decoded)
	})

	t.Run("ascii subject is left alone", func(t *testing.T) {
		raw := string(m.render(Message{To: "a@b.c", Subject: "Estado actualizado"}))
		assert.Contains(t, raw, "Subject: Estado actualizado\r\n")
	})
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTP(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 25})
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	assert.Error(t, m.Send(context.Background(), Message{}))
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: "a@b.c"}), "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), Message{To: "x@y.z", Subject: "s", Body: "b"}))
	assert.Contains(t, buf.String(), `"to":"x@y.z"`)
	assert.Contains(t, buf.String(), `"msg":"mail"`)
}
