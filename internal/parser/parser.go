package parser

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

// securityHeaders are the authentication-related headers recorded
// verbatim on the parsed message when present.
var securityHeaders = []string{
	core.HeaderReceivedSPF,
	core.HeaderDKIMSignature,
	core.HeaderAuthResults,
	core.HeaderARCSeal,
	core.HeaderARCMessageSig,
	core.HeaderARCAuthResults,
}

// Parser turns raw RFC-5322 message bytes into a ParsedMessage. Header
// values are extracted verbatim; absence of a header yields absence in
// the result, never a synthetic default.
type Parser struct {
	logger  *zap.Logger
	decoder *mime.WordDecoder
}

// NewParser creates a new message parser.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{
		logger:  logger,
		decoder: &mime.WordDecoder{},
	}
}

// Parse parses raw message bytes. It fails with a ParseError when the
// input yields no header structure at all; missing optional headers are
// never an error.
func (p *Parser) Parse(raw []byte) (*core.ParsedMessage, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, core.NewParseError(err)
	}

	parsed := &core.ParsedMessage{
		Sender:          msg.Header.Get("From"),
		Recipient:       msg.Header.Get("To"),
		Subject:         p.decodeHeader(msg.Header.Get("Subject")),
		Date:            msg.Header.Get("Date"),
		MessageID:       msg.Header.Get("Message-Id"),
		ReplyTo:         msg.Header.Get("Reply-To"),
		SecurityHeaders: map[string]string{},
		Attachments:     []core.Attachment{},
	}

	for _, name := range securityHeaders {
		key := textproto.CanonicalMIMEHeaderKey(name)
		if values, ok := msg.Header[key]; ok && len(values) > 0 {
			parsed.SecurityHeaders[name] = values[0]
		}
	}

	contentType := msg.Header.Get("Content-Type")
	mediaType, params, ctErr := mime.ParseMediaType(contentType)
	if ctErr == nil && strings.HasPrefix(mediaType, "multipart/") && params["boundary"] != "" {
		p.walkMultipart(msg.Body, params["boundary"], parsed)
	} else {
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			return nil, core.NewParseError(err)
		}
		encoding := msg.Header.Get("Content-Transfer-Encoding")
		parsed.BodyText = p.decodeBody(body, encoding, params["charset"])
	}

	return parsed, nil
}

// walkMultipart traverses every part of a multipart body in order. A
// part declared as an attachment becomes an attachment entry; text/plain
// and text/html parts contribute to the corresponding body, concatenated
// in traversal order. Nested multiparts are walked recursively.
func (p *Parser) walkMultipart(body io.Reader, boundary string, parsed *core.ParsedMessage) {
	reader := multipart.NewReader(body, boundary)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return
		}
		if err != nil {
			p.logger.Debug("Stopping multipart traversal", zap.Error(err))
			return
		}

		contentType := part.Header.Get("Content-Type")
		mediaType, params, ctErr := mime.ParseMediaType(contentType)
		if ctErr != nil {
			mediaType = "text/plain"
			params = map[string]string{}
		}

		disposition, _, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))

		if disposition == "attachment" {
			data, readErr := io.ReadAll(part)
			if readErr != nil {
				p.logger.Debug("Skipping unreadable attachment part", zap.Error(readErr))
				continue
			}
			parsed.Attachments = append(parsed.Attachments, core.Attachment{
				Filename:    part.FileName(),
				ContentType: mediaType,
				SizeBytes:   len(decodeTransferEncoding(data, part.Header.Get("Content-Transfer-Encoding"))),
			})
			continue
		}

		switch {
		case mediaType == "text/plain":
			data, readErr := io.ReadAll(part)
			if readErr != nil {
				continue
			}
			parsed.BodyText += p.decodeBody(data, part.Header.Get("Content-Transfer-Encoding"), params["charset"])
		case mediaType == "text/html":
			data, readErr := io.ReadAll(part)
			if readErr != nil {
				continue
			}
			parsed.BodyHTML += p.decodeBody(data, part.Header.Get("Content-Transfer-Encoding"), params["charset"])
		case strings.HasPrefix(mediaType, "multipart/") && params["boundary"] != "":
			p.walkMultipart(part, params["boundary"], parsed)
		}
	}
}

// decodeBody reverses the transfer encoding and converts the declared
// charset to UTF-8. Anything undecodable is kept as-is rather than
// dropped: downstream extraction tolerates raw bytes.
func (p *Parser) decodeBody(data []byte, transferEncoding, charset string) string {
	decoded := decodeTransferEncoding(data, transferEncoding)

	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return string(decoded)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		p.logger.Debug("Unknown charset, keeping raw bytes", zap.String("charset", charset))
		return string(decoded)
	}
	converted, err := enc.NewDecoder().Bytes(decoded)
	if err != nil {
		return string(decoded)
	}
	return string(converted)
}

// decodeHeader decodes RFC 2047 encoded words, falling back to the raw
// value when decoding fails.
func (p *Parser) decodeHeader(value string) string {
	decoded, err := p.decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func decodeTransferEncoding(data []byte, encoding string) []byte {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		compact := strings.Map(func(r rune) rune {
			if r == '\r' || r == '\n' || r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, string(data))
		decoded, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return data
		}
		return decoded
	case "quoted-printable":
		decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(data)))
		if err != nil {
			return data
		}
		return decoded
	default:
		return data
	}
}
