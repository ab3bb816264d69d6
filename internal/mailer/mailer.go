package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"
)

const (
	AppName    = "Aplikasi Tukang PUPR Jogja"
	OTPSubject = "Kode OTP Anda - " + AppName
)

//go:embed templates/*.html
var templateFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templateFS, "templates/otp.html"))

// Mailer delivers one-time codes to an email address.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, validFor time.Duration) error
}

type otpData struct {
	AppName string
	Code    string
	Minutes int
}

// RenderOTP returns the HTML body for an OTP email.
func RenderOTP(code string, validFor time.Duration) (string, error) {
	minutes := int(validFor / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, otpData{
		AppName: AppName,
		Code:    code,
		Minutes: minutes,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render OTP email: %w", err)
	}
	return buf.String(), nil
}
