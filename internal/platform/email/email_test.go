package email

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/platform/config"
)

func TestBuildMessagePlainText(t *testing.T) {
	raw, err := buildMessage(Message{
		FromName: "FashionStudio HR",
		From:     "hr@example.com",
		To:       "kamal@example.com",
		Subject:  "Hello",
		Body:     "Body text",
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, `"FashionStudio HR" <hr@example.com>`, msg.Header.Get("From"))
	assert.Equal(t, "kamal@example.com", msg.Header.Get("To"))
	assert.Contains(t, msg.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "Body text", string(body))
}

func TestBuildMessageWithAttachment(t *testing.T) {
	pdf := bytes.Repeat([]byte("%PDF-1.3 payslip "), 20)
	raw, err := buildMessage(Message{
		FromName: "FashionStudio HR",
		From:     "hr@example.com",
		To:       "kamal@example.com",
		Subject:  "Your Payslip for August-2025",
		Body:     "Dear Kamal,",
		Attachments: []Attachment{
			{Filename: "Payslip-August-2025.pdf", ContentType: "application/pdf", Data: pdf},
		},
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Your Payslip for August-2025", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	textPart, err := reader.NextPart()
	require.NoError(t, err)
	text, err := io.ReadAll(textPart)
	require.NoError(t, err)
	assert.Equal(t, "Dear Kamal,", string(text))

	attPart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Payslip-August-2025.pdf", attPart.FileName())
	assert.True(t, strings.HasPrefix(attPart.Header.Get("Content-Type"), "application/pdf"))
	assert.Equal(t, "base64", attPart.Header.Get("Content-Transfer-Encoding"))

	encoded, err := io.ReadAll(attPart)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(encoded)), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false})
	_, ok := mailer.(noopMailer)
	require.True(t, ok)
	require.NoError(t, mailer.Send(context.Background(), Message{To: "x@example.com"}))
}
