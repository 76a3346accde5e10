package parser

import (
	"strings"
	"testing"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

func newTestParser() *Parser {
	return NewParser(zap.NewNop())
}

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestParsePlainMessage(t *testing.T) {
	p := newTestParser()

	raw := crlf(`From: Alice <alice@example.com>
To: bob@example.org
Subject: Quarterly report
Date: Mon, 02 Jan 2006 15:04:05 -0700
Message-Id: <abc123@example.com>
Reply-To: alice@example.com
Received-SPF: pass (example.com: domain designates sender)
DKIM-Signature: v=1; a=rsa-sha256; d=example.com

Hello Bob, the report is attached.
`)

	msg, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if msg.Sender != "Alice <alice@example.com>" {
		t.Errorf("Sender = %q", msg.Sender)
	}
	if msg.Recipient != "bob@example.org" {
		t.Errorf("Recipient = %q", msg.Recipient)
	}
	if msg.Subject != "Quarterly report" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.MessageID != "<abc123@example.com>" {
		t.Errorf("MessageID = %q", msg.MessageID)
	}
	if msg.ReplyTo != "alice@example.com" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}
	if !strings.Contains(msg.BodyText, "Hello Bob") {
		t.Errorf("BodyText = %q", msg.BodyText)
	}

	if _, ok := msg.SecurityHeaders[core.HeaderReceivedSPF]; !ok {
		t.Error("Received-SPF not recorded")
	}
	if _, ok := msg.SecurityHeaders[core.HeaderDKIMSignature]; !ok {
		t.Error("DKIM-Signature not recorded")
	}
	if _, ok := msg.SecurityHeaders[core.HeaderAuthResults]; ok {
		t.Error("Authentication-Results recorded despite being absent")
	}
}

func TestParseMissingHeadersAreEmpty(t *testing.T) {
	p := newTestParser()

	raw := crlf(`From: x@y.com

body
`)
	msg, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if msg.Subject != "" || msg.ReplyTo != "" || msg.MessageID != "" {
		t.Errorf("absent headers should be empty: %+v", msg)
	}
	if len(msg.SecurityHeaders) != 0 {
		t.Errorf("SecurityHeaders = %v, want empty", msg.SecurityHeaders)
	}
	if len(msg.Attachments) != 0 {
		t.Errorf("Attachments = %v, want empty", msg.Attachments)
	}
}

func TestParseEncodedSubject(t *testing.T) {
	p := newTestParser()

	// "Hello Bob" in RFC 2047 base64 form
	raw := crlf(`From: x@y.com
Subject: =?UTF-8?B?SGVsbG8gQm9i?=

body
`)
	msg, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if msg.Subject != "Hello Bob" {
		t.Errorf("Subject = %q, want decoded %q", msg.Subject, "Hello Bob")
	}
}

func TestParseMultipart(t *testing.T) {
	p := newTestParser()

	raw := crlf(`From: phisher@evil.example
To: victim@example.com
Subject: Invoice
Content-Type: multipart/mixed; boundary="BOUNDARY"

--BOUNDARY
Content-Type: text/plain; charset="utf-8"

Please see the attached invoice.
--BOUNDARY
Content-Type: text/html; charset="utf-8"

<html><body>Please see the <b>attached</b> invoice.</body></html>
--BOUNDARY
Content-Type: application/octet-stream
Content-Disposition: attachment; filename="invoice.exe"
Content-Transfer-Encoding: base64

aGVsbG8=
--BOUNDARY--
`)

	msg, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !strings.Contains(msg.BodyText, "attached invoice") {
		t.Errorf("BodyText = %q", msg.BodyText)
	}
	if !strings.Contains(msg.BodyHTML, "<b>attached</b>") {
		t.Errorf("BodyHTML = %q", msg.BodyHTML)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("Attachments = %v, want 1", msg.Attachments)
	}
	att := msg.Attachments[0]
	if att.Filename != "invoice.exe" {
		t.Errorf("attachment filename = %q", att.Filename)
	}
	if att.ContentType != "application/octet-stream" {
		t.Errorf("attachment content type = %q", att.ContentType)
	}
	if att.SizeBytes != len("hello") {
		t.Errorf("attachment size = %d, want %d", att.SizeBytes, len("hello"))
	}
}

func TestParseNestedMultipart(t *testing.T) {
	p := newTestParser()

	raw := crlf(`From: a@b.com
Content-Type: multipart/mixed; boundary="OUTER"

--OUTER
Content-Type: multipart/alternative; boundary="INNER"

--INNER
Content-Type: text/plain

inner plain part
--INNER
Content-Type: text/html

<p>inner html part</p>
--INNER--
--OUTER--
`)

	msg, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(msg.BodyText, "inner plain part") {
		t.Errorf("BodyText = %q", msg.BodyText)
	}
	if !strings.Contains(msg.BodyHTML, "inner html part") {
		t.Errorf("BodyHTML = %q", msg.BodyHTML)
	}
}

func TestParseQuotedPrintableBody(t *testing.T) {
	p := newTestParser()

	raw := crlf(`From: a@b.com
Content-Type: text/plain; charset="utf-8"
Content-Transfer-Encoding: quoted-printable

Caf=C3=A9 time
`)
	msg, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(msg.BodyText, "Café time") {
		t.Errorf("BodyText = %q, want decoded quoted-printable", msg.BodyText)
	}
}

func TestParseGarbageFails(t *testing.T) {
	p := newTestParser()

	inputs := [][]byte{
		nil,
		[]byte("no header colon here\r\n\r\nbody"),
	}
	for _, raw := range inputs {
		_, err := p.Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want ParseError", raw)
			continue
		}
		if _, ok := err.(*core.ParseError); !ok {
			t.Errorf("Parse(%q) error type = %T, want *core.ParseError", raw, err)
		}
	}
}
