package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ModelEnsemble requests the weighted combination of all ensemble models.
const ModelEnsemble = "ensemble"

// AdvisorModelID is the prediction-map key used for the optional LLM
// advisor's second opinion.
const AdvisorModelID = "llm"

// AnalysisService runs the full analysis pipeline: parse, normalize,
// extract features, predict, detect risks, classify, and record the
// result. One call processes exactly one message end-to-end.
type AnalysisService struct {
	parser    MessageParser
	normalize TextNormalizer
	extractor FeatureExtractor
	detector  RiskDetector
	engine    PredictionEngine
	policy    DecisionPolicy
	history   HistorySink
	advisor   Advisor
	trust     TrustChecker
	logger    *zap.Logger
}

// NewAnalysisService creates a new analysis service. advisor and trust
// may be nil when the corresponding features are disabled.
func NewAnalysisService(
	parser MessageParser,
	normalizer TextNormalizer,
	extractor FeatureExtractor,
	detector RiskDetector,
	engine PredictionEngine,
	policy DecisionPolicy,
	history HistorySink,
	advisor Advisor,
	trust TrustChecker,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		parser:    parser,
		normalize: normalizer,
		extractor: extractor,
		detector:  detector,
		engine:    engine,
		policy:    policy,
		history:   history,
		advisor:   advisor,
		trust:     trust,
		logger:    logger,
	}
}

// AnalyzeMessage analyzes a raw RFC-5322 message. It fails with a
// ParseError when the input cannot be interpreted as a message; every
// later stage degrades per its own contract instead of failing.
func (s *AnalysisService) AnalyzeMessage(ctx context.Context, raw []byte, source string, modelID string) (*AnalysisResult, error) {
	msg, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	if s.trust != nil && s.trust.IsTrusted(msg.Sender) {
		s.logger.Info("Skipping analysis for trusted sender domain",
			zap.String("sender", msg.Sender),
			zap.String("source", source))
		result := s.trustedResult(msg, source)
		s.record(ctx, result)
		return result, nil
	}

	normalized := s.normalize.Normalize(msg.BodyText + " " + msg.BodyHTML)
	features := s.extractor.ExtractMessage(msg, normalized)
	findings := s.detector.DetectMessage(msg, features)

	return s.finish(ctx, msg, source, modelID, features, findings)
}

// AnalyzeText analyzes free text with no MIME structure, using the
// degraded extraction pipeline and the lightweight rule set.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string, modelID string) (*AnalysisResult, error) {
	msg := &ParsedMessage{
		SecurityHeaders: map[string]string{},
		BodyText:        text,
		Attachments:     []Attachment{},
	}

	features := s.extractor.ExtractText(text)
	findings := s.detector.DetectText(features)

	return s.finish(ctx, msg, "text", modelID, features, findings)
}

// AnalyzeMessageSafe behaves like AnalyzeMessage but converts failures
// downstream of parsing into a well-formed ERROR-labeled result for
// interactive callers. Parse failures still fail loudly.
func (s *AnalysisService) AnalyzeMessageSafe(ctx context.Context, raw []byte, source string, modelID string) (*AnalysisResult, error) {
	result, err := s.AnalyzeMessage(ctx, raw, source, modelID)
	if err == nil {
		return result, nil
	}
	if _, ok := err.(*ParseError); ok {
		return nil, err
	}

	s.logger.Error("Analysis failed, returning error verdict",
		zap.Error(err),
		zap.String("source", source))

	return &AnalysisResult{
		Source:     source,
		AnalyzedAt: time.Now(),
		Features:   FeatureVector{},
		Predictions: map[string]float64{},
		Confidence: 0.5,
		Classification: Classification{
			Label:          LabelError,
			Level:          LevelUnknown,
			Action:         ActionReview,
			Recommendation: "Analysis failed - review the message manually",
		},
		Findings:  []RiskFinding{},
		ModelUsed: "error",
	}, nil
}

// finish runs prediction, classification, and result assembly for a
// message whose features and findings are already computed.
func (s *AnalysisService) finish(ctx context.Context, msg *ParsedMessage, source, modelID string, features FeatureVector, findings []RiskFinding) (*AnalysisResult, error) {
	var confidence float64
	predictions := make(map[string]float64)

	if modelID == "" {
		modelID = ModelEnsemble
	}

	if modelID == ModelEnsemble {
		_, prob, perModel := s.engine.PredictEnsemble(features)
		confidence = prob
		for id, p := range perModel {
			predictions[id] = p
		}
	} else {
		_, prob, err := s.engine.PredictSingle(features, modelID)
		if err != nil {
			return nil, NewAnalysisError("prediction", err)
		}
		confidence = prob
		predictions[modelID] = prob
	}

	if s.advisor != nil {
		if prob, rationale, err := s.advisor.AssessMessage(ctx, msg); err != nil {
			s.logger.Warn("Advisor assessment failed", zap.Error(err))
		} else {
			predictions[AdvisorModelID] = prob
			s.logger.Debug("Advisor assessment",
				zap.Float64("probability", prob),
				zap.String("rationale", rationale))
		}
	}

	classification := s.policy.Classify(confidence, features, findings)

	result := &AnalysisResult{
		Source:         source,
		AnalyzedAt:     time.Now(),
		Message:        *msg,
		Features:       features.Clone(),
		Predictions:    predictions,
		Confidence:     confidence,
		Classification: classification,
		Findings:       findings,
		ModelUsed:      modelID,
	}

	s.record(ctx, result)

	s.logger.Info("Message analyzed",
		zap.String("source", source),
		zap.String("label", string(classification.Label)),
		zap.String("action", string(classification.Action)),
		zap.Float64("confidence", confidence),
		zap.Int("findings", len(findings)),
		zap.String("model", modelID))

	return result, nil
}

// trustedResult builds the short-circuit verdict for trusted senders.
func (s *AnalysisService) trustedResult(msg *ParsedMessage, source string) *AnalysisResult {
	return &AnalysisResult{
		Source:      source,
		AnalyzedAt:  time.Now(),
		Message:     *msg,
		Features:    FeatureVector{},
		Predictions: map[string]float64{},
		Confidence:  0.0,
		Classification: Classification{
			Label:          LabelLegitimate,
			Level:          LevelSafe,
			Action:         ActionAllow,
			Recommendation: "Sender domain is trusted",
		},
		Findings:  []RiskFinding{},
		ModelUsed: "trusted",
	}
}

// record appends a fully assembled result to the history sink. Failures
// are logged, not surfaced: history is a side channel of the analysis.
func (s *AnalysisService) record(ctx context.Context, result *AnalysisResult) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(ctx, result); err != nil {
		s.logger.Error("Failed to append analysis result to history", zap.Error(err))
	}
}

// SenderDomain extracts the domain part of an address for reporting.
func SenderDomain(sender string) string {
	parts := strings.Split(sender, "@")
	if len(parts) != 2 {
		return "unknown"
	}
	return strings.ToLower(strings.TrimRight(parts[1], ">"))
}
