package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// SMTPIngest is a mail-stream front end: it accepts messages over SMTP,
// analyzes them, tags them with verdict headers, and reinjects them into
// the downstream MTA. Messages whose verdict action is BLOCK can be
// rejected at the SMTP level instead.
type SMTPIngest struct {
	service       *core.AnalysisService
	logger        *zap.Logger
	listenAddr    string
	server        *smtp.Server
	rejectBlocked bool
	labelHeader   string
	scoreHeader   string
	actionHeader  string
	relayAddr     string
	relayPort     int
	relayEnabled  bool
	subjectPrefix string
	modifySubject bool
}

// NewSMTPIngest creates a new SMTP ingest front end.
func NewSMTPIngest(
	service *core.AnalysisService,
	logger *zap.Logger,
	listenAddr string,
	rejectBlocked bool,
	labelHeader string,
	scoreHeader string,
	actionHeader string,
	relayAddr string,
	relayPort int,
	relayEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *SMTPIngest {
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**SUSPECT**] "
	}

	return &SMTPIngest{
		service:       service,
		logger:        logger,
		listenAddr:    listenAddr,
		rejectBlocked: rejectBlocked,
		labelHeader:   labelHeader,
		scoreHeader:   scoreHeader,
		actionHeader:  actionHeader,
		relayAddr:     relayAddr,
		relayPort:     relayPort,
		relayEnabled:  relayEnabled,
		subjectPrefix: subjectPrefix,
		modifySubject: modifySubject,
	}
}

// Start starts the SMTP server.
func (f *SMTPIngest) Start() error {
	f.server = smtp.NewServer(&smtpBackend{ingest: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP ingest starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server.
func (f *SMTPIngest) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessMessage analyzes one raw message directly. Used for testing and
// direct API calls.
func (f *SMTPIngest) ProcessMessage(ctx context.Context, raw []byte, source string) (*core.AnalysisResult, error) {
	return f.service.AnalyzeMessageSafe(ctx, raw, source, "")
}

// relay sends the tagged message to the downstream MTA.
func (f *SMTPIngest) relay(sender string, recipients []string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", f.relayAddr, f.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *SMTPIngest
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		ingest:     b.ingest,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest     *SMTPIngest
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for the ingest)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message, tags it with verdict headers, and relays
// it downstream. Analysis failures never bounce mail: the message is
// tagged with the ERROR verdict and relayed.
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.ingest.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.ingest.service.AnalyzeMessageSafe(ctx, rawData, "smtp:"+s.sender, "")
	if err != nil {
		// Only hard parse failures reach here
		s.ingest.logger.Error("Failed to parse incoming message",
			zap.Error(err),
			zap.String("sender", s.sender))
		return fmt.Errorf("554 Message could not be parsed")
	}

	if result.Classification.Action == core.ActionBlock && s.ingest.rejectBlocked {
		s.ingest.logger.Info("Rejecting blocked message",
			zap.String("sender", s.sender),
			zap.String("label", string(result.Classification.Label)),
			zap.Float64("confidence", result.Confidence))
		return fmt.Errorf("550 Rejected: %s (confidence: %.2f)", result.Classification.Label, result.Confidence)
	}

	tagged, err := s.tagMessage(rawData, result)
	if err != nil {
		s.ingest.logger.Error("Failed to tag message", zap.Error(err))
		return err
	}

	if s.ingest.relayEnabled {
		if err := s.ingest.relay(s.sender, s.recipients, tagged); err != nil {
			s.ingest.logger.Error("Failed to relay message",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		s.ingest.logger.Warn("Relay disabled, message not forwarded")
	}

	s.ingest.logger.Info("Processed message",
		zap.String("sender", s.sender),
		zap.String("sender_domain", core.SenderDomain(s.sender)),
		zap.String("label", string(result.Classification.Label)),
		zap.String("action", string(result.Classification.Action)),
		zap.Float64("confidence", result.Confidence))

	return nil
}

// tagMessage prepends the verdict headers and optionally prefixes the
// subject, preserving the original body bytes (MIME parts included).
func (s *smtpSession) tagMessage(rawData []byte, result *core.AnalysisResult) ([]byte, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		return nil, fmt.Errorf("failed to re-read message headers: %w", err)
	}

	var tagged bytes.Buffer
	fmt.Fprintf(&tagged, "%s: %s\r\n", s.ingest.labelHeader, result.Classification.Label)
	fmt.Fprintf(&tagged, "%s: %.4f\r\n", s.ingest.scoreHeader, result.Confidence)
	fmt.Fprintf(&tagged, "%s: %s\r\n", s.ingest.actionHeader, result.Classification.Action)

	prefixSubject := s.ingest.modifySubject &&
		result.Classification.Action != core.ActionAllow &&
		result.Classification.Label != core.LabelError

	for key, values := range msg.Header {
		if prefixSubject && strings.EqualFold(key, "Subject") {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(&tagged, "%s: %s\r\n", key, value)
		}
	}
	if prefixSubject {
		subject := msg.Header.Get("Subject")
		if !strings.HasPrefix(subject, s.ingest.subjectPrefix) {
			subject = s.ingest.subjectPrefix + subject
		}
		fmt.Fprintf(&tagged, "Subject: %s\r\n", subject)
	}
	fmt.Fprintf(&tagged, "\r\n")

	// Copy the original body bytes untouched
	bodyStart := bytes.Index(rawData, []byte("\r\n\r\n"))
	if bodyStart >= 0 {
		tagged.Write(rawData[bodyStart+4:])
		return tagged.Bytes(), nil
	}
	bodyStart = bytes.Index(rawData, []byte("\n\n"))
	if bodyStart >= 0 {
		tagged.Write(rawData[bodyStart+2:])
		return tagged.Bytes(), nil
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	tagged.Write(body)
	return tagged.Bytes(), nil
}

// Logout handles SMTP logout (not needed for the ingest)
func (s *smtpSession) Logout() error {
	return nil
}
