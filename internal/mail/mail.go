// Package mail sends account emails through Mailjet.
package mail

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

// Notifier delivers account-related emails.
type Notifier interface {
	SendVerificationEmail(address, code, username string) error
	SendPasswordRecoveryEmail(address, secret string) error
}

const (
	mailjetAPIURL   = "https://api.mailjet.com"
	mailjetSendPath = "/v3.1/send"
)

// Mailjet implements Notifier against the Mailjet v3.1 send API.
type Mailjet struct {
	APIKey     string
	SecretKey  string
	Sender     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewMailjet returns a sender using the given credentials.
func NewMailjet(apiKey, secretKey, sender string) *Mailjet {
	return &Mailjet{
		APIKey:     apiKey,
		SecretKey:  secretKey,
		Sender:     sender,
		BaseURL:    mailjetAPIURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GenerateCode returns a random 6-digit verification code.
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails if the platform entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func (m *Mailjet) SendVerificationEmail(address, code, username string) error {
	html := fmt.Sprintf(`<html><body>
<h2>Email Verification</h2>
<p>Hello, %s!</p>
<p>To complete your email verification, please use the following 6-digit code:</p>
<p style="font-size:32px;letter-spacing:8px;font-weight:bold">%s</p>
<p>If you did not request this code, please ignore this email.</p>
</body></html>`, username, code)

	return m.send(address, username, "Email Verification", html)
}

func (m *Mailjet) SendPasswordRecoveryEmail(address, secret string) error {
	html := fmt.Sprintf(`<html><body>
<h2>Password Recovery</h2>
<p>A password recovery was requested for your account.</p>
<p>Your recovery secret:</p>
<p style="font-size:20px;font-weight:bold">%s</p>
<p>If you did not request this, please ignore this email.</p>
</body></html>`, secret)

	return m.send(address, address, "Password Recovery", html)
}

type mailjetMessage struct {
	From struct {
		Email string `json:"Email"`
		Name  string `json:"Name"`
	} `json:"From"`
	To []struct {
		Email string `json:"Email"`
		Name  string `json:"Name"`
	} `json:"To"`
	Subject  string `json:"Subject"`
	HTMLPart string `json:"HTMLPart"`
}

func (m *Mailjet) send(address, name, subject, html string) error {
	msg := mailjetMessage{Subject: subject, HTMLPart: html}
	msg.From.Email = m.Sender
	msg.From.Name = "Trivia Arena"
	msg.To = append(msg.To, struct {
		Email string `json:"Email"`
		Name  string `json:"Name"`
	}{Email: address, Name: name})

	body, err := json.Marshal(map[string]any{"Messages": []mailjetMessage{msg}})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.BaseURL+mailjetSendPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(m.APIKey, m.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send email: unexpected status %d", resp.StatusCode)
	}
	return nil
}
