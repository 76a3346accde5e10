package factory

import (
	"github.com/mikey/phish-analyzer/internal/classify"
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// PolicyFactory creates decision policies based on configuration
type PolicyFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPolicyFactory creates a new policy factory
func NewPolicyFactory(cfg *config.Config, logger *zap.Logger) *PolicyFactory {
	return &PolicyFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePolicy creates a decision policy based on the configuration
func (f *PolicyFactory) CreatePolicy() (core.DecisionPolicy, error) {
	policy, err := classify.NewPolicy(f.cfg.GetAnalysis().Policy)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Using decision policy", zap.String("policy", policy.Name()))
	return policy, nil
}
