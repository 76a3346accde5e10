package factory

import (
	"github.com/mikey/phish-analyzer/internal/textproc"
	"go.uber.org/zap"
)

// TextProcessorFactory creates text processors
type TextProcessorFactory struct {
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new Processor
func (f *TextProcessorFactory) CreateTextProcessor() *textproc.Processor {
	return textproc.NewProcessor(f.logger)
}
