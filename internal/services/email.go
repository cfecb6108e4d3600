package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/dimitrije/tripvote-api/internal/config"
)

var invitationTemplate = template.Must(template.New("invitation").Parse(`<html>
<body>
	<h2>Nuovo invito</h2>
	<p>Ciao,</p>
	<p><strong>{{.Inviter}}</strong> ti ha invitato a partecipare all'avventura <strong>{{.Adventure}}</strong>.</p>
	<p><a href="{{.Link}}">Apri l'avventura per accettare o rifiutare</a></p>
</body>
</html>`))

type EmailService struct {
	cfg      config.SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return s.sendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func (s *EmailService) SendAdventureInvite(to, adventureName, inviterName, link string) error {
	var body bytes.Buffer
	err := invitationTemplate.Execute(&body, struct {
		Inviter, Adventure, Link string
	}{inviterName, adventureName, link})
	if err != nil {
		return fmt.Errorf("failed to render invitation: %w", err)
	}

	return s.Send(to, fmt.Sprintf("Sei stato invitato a %s", adventureName), body.String())
}
