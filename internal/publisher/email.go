package publisher

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"github.com/xiongmaoshiwo/mlchem-digest/internal/retry"
)

const emailSubject = "[ML×Chem] Daily Digest"

// EmailPublisher sends the digest as an HTML email via SMTP. Port 465 uses
// implicit TLS; any other port goes through smtp.SendMail's STARTTLS path.
type EmailPublisher struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	to          []string
	retryConfig retry.Config
}

func NewEmailPublisher(host string, port int, username, password, from string, to []string) *EmailPublisher {
	return &EmailPublisher{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		to:          to,
		retryConfig: retry.DefaultConfig(),
	}
}

func (p *EmailPublisher) Publish(ctx context.Context, digest *Digest) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		p.from,
		strings.Join(p.to, ","),
		emailSubject,
		buildHTMLBody(digest),
	)

	return retry.WithBackoff(ctx, p.retryConfig, func(ctx context.Context) error {
		return p.send([]byte(msg))
	})
}

func (p *EmailPublisher) send(msg []byte) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.username, p.password, p.host)

	if p.port == 465 {
		return p.sendImplicitTLS(addr, auth, msg)
	}
	if err := smtp.SendMail(addr, auth, p.from, p.to, msg); err != nil {
		return fmt.Errorf("email: failed to send: %w", err)
	}
	return nil
}

// sendImplicitTLS speaks SMTP over a TLS connection opened up front, as
// required on port 465 where the server never offers STARTTLS.
func (p *EmailPublisher) sendImplicitTLS(addr string, auth smtp.Auth, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: p.host})
	if err != nil {
		return fmt.Errorf("email: tls dial: %w", err)
	}

	c, err := smtp.NewClient(conn, p.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email: smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("email: auth: %w", err)
	}
	if err := c.Mail(p.from); err != nil {
		return fmt.Errorf("email: mail from: %w", err)
	}
	for _, rcpt := range p.to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("email: rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("email: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("email: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: close body: %w", err)
	}

	return c.Quit()
}

func buildHTMLBody(digest *Digest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<h2>ML×Chem Daily Digest – %s</h2>", digest.Date.Format("2006-01-02")))
	sb.WriteString("<ol>")

	for _, r := range digest.Records {
		sb.WriteString("<li>")
		sb.WriteString(fmt.Sprintf("<b>タイトル</b>: %s<br>", html.EscapeString(r.Title)))
		sb.WriteString(fmt.Sprintf("<b>出典</b>: %s / <span style='font-size:90%%'>%s</span><br>",
			r.Source, r.PublishedAt.Format(time.RFC3339)))
		if r.Summary != "" {
			sb.WriteString(fmt.Sprintf("<b>要約</b>: %s<br>", html.EscapeString(r.Summary)))
		}
		if r.DOI != "" {
			sb.WriteString(fmt.Sprintf("<b>DOI</b>: %s<br>", html.EscapeString(r.DOI)))
		}
		if r.URL != "" {
			sb.WriteString(fmt.Sprintf("<a href='%s'>リンク</a>", r.URL))
		}
		sb.WriteString("</li>")
	}

	sb.WriteString("</ol>")
	sb.WriteString(fmt.Sprintf("<p style=\"font-size:90%%;color:#666;\">キーワード: %s × %s</p>",
		strings.Join(digest.MLKeywords, ", "),
		strings.Join(digest.ChemKeywords, ", ")))

	return sb.String()
}
