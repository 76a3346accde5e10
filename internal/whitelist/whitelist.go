package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender's domain is trusted. Trusted senders
// bypass model inference entirely.
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trusted-domain checker.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make([]string, len(domains))
	for i, domain := range domains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted-domain checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the sender's domain is in the trusted list. The
// sender may be a bare address or a display-name form like
// "Name <user@example.com>".
func (c *Checker) IsTrusted(sender string) bool {
	if len(c.domains) == 0 {
		return false
	}

	address := sender
	if start := strings.LastIndex(sender, "<"); start >= 0 {
		address = strings.TrimRight(sender[start+1:], ">")
	}

	parts := strings.Split(address, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(parts[1]))

	for _, trusted := range c.domains {
		if trusted == domain {
			if c.logger != nil {
				c.logger.Debug("Sender domain is trusted",
					zap.String("domain", domain),
					zap.String("sender", sender))
			}
			return true
		}
	}

	return false
}
