// Package studio generates free-form text: video scripts about a region, English
// translations of regional-script text, and chat replies with an optional
// image or PDF attached.
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
)

const (
	kindVideoScript = "video_script"
	kindDecode      = "decode"
	kindChat        = "chat"

	// EmptyScriptText is returned when the model produces no script text.
	EmptyScriptText = "Failed to generate script"
	// EmptyDecodeText is returned when the model produces no translation.
	EmptyDecodeText = "Failed to decode text"
	// EmptyChatText is returned when the model produces no chat reply.
	EmptyChatText = "I'm sorry, I couldn't come up with a reply. Could you rephrase your question?"
)

var (
	videoScriptParams = domain.GenerationParams{Temperature: 0.7, MaxOutputTokens: 3000, Fallback: EmptyScriptText}
	decodeParams      = domain.GenerationParams{Temperature: 0.3, MaxOutputTokens: 4000, Fallback: EmptyDecodeText}
	chatParams        = domain.GenerationParams{Temperature: 0.7, MaxOutputTokens: 1024, Fallback: EmptyChatText}
)

// Service runs studio prompts against a Generator. Results are not cached.
type Service struct {
	generator domain.AttachmentGenerator
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a studio Service.
func NewService(generator domain.AttachmentGenerator, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{generator: generator, logger: logger, metrics: metrics}
}

// VideoScript writes a video script about region shaped by request.
func (s *Service) VideoScript(ctx context.Context, region, request string) (string, error) {
	if region == "" {
		return "", s.fail(kindVideoScript, domain.ErrEmptyRegion)
	}
	if strings.TrimSpace(request) == "" {
		return "", s.fail(kindVideoScript, domain.ErrEmptyRequest)
	}
	return s.run(ctx, kindVideoScript, domain.BuildVideoScriptPrompt(region, request), nil, videoScriptParams,
		slog.String("region", region))
}

// Decode identifies the language of text and translates it to English.
func (s *Service) Decode(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", s.fail(kindDecode, domain.ErrEmptyRequest)
	}
	return s.run(ctx, kindDecode, domain.BuildDecodePrompt(text), nil, decodeParams,
		slog.Int("input_len", len(text)))
}

// Chat answers a free-form message, optionally about an attached image or PDF.
// A message is required unless a file is attached.
func (s *Service) Chat(ctx context.Context, message string, attachment *domain.Attachment) (string, error) {
	if attachment != nil {
		if err := attachment.Validate(); err != nil {
			return "", s.fail(kindChat, err)
		}
	}
	if strings.TrimSpace(message) == "" {
		if attachment == nil {
			return "", s.fail(kindChat, domain.ErrEmptyRequest)
		}
		message = domain.DescribeAttachmentPrompt
	}
	attr := slog.Int("message_len", len(message))
	if attachment != nil {
		attr = slog.Group("chat", "message_len", len(message), "attachment_type", attachment.MIMEType)
	}
	return s.run(ctx, kindChat, message, attachment, chatParams, attr)
}

func (s *Service) run(
	ctx context.Context,
	kind, prompt string,
	attachment *domain.Attachment,
	params domain.GenerationParams,
	attr slog.Attr,
) (string, error) {
	out, err := s.generator.GenerateWithAttachment(ctx, prompt, attachment, params)
	if err != nil {
		if !domain.IsRetrievalFailure(err) {
			err = fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}
		s.logger.Warn("studio generation failed", "kind", kind, attr, "error", err)
		return "", s.fail(kind, err)
	}

	s.metrics.StudioRequests.WithLabelValues(kind, "success").Inc()
	s.logger.Info("studio generation complete", "kind", kind, attr, "output_len", len(out))
	return out, nil
}

func (s *Service) fail(kind string, err error) error {
	s.metrics.StudioRequests.WithLabelValues(kind, domain.FailureKind(err)).Inc()
	return err
}
