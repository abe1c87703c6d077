package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"vriksh/internal/apperrors"
	"vriksh/internal/metrics"
	"vriksh/internal/models"
	"vriksh/pkg/openai"

	"github.com/rs/zerolog"
)

// ErrRateLimited is returned when the model gateway throttles us.
var ErrRateLimited = apperrors.New(apperrors.KindRateLimited, "AI service is busy. Please try again in a moment.")

// Gateway sends a prompt, with an optional image, to a language model and
// returns its raw text answer. *openai.Client satisfies it.
type Gateway interface {
	Complete(ctx context.Context, system, user, image string) (string, error)
}

// IdentifyInput is the body of a Darshan request.
type IdentifyInput struct {
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64"`
}

// IdentificationService identifies plants from images (Darshan).
type IdentificationService struct {
	gateway       Gateway
	maxImageBytes int
	log           zerolog.Logger
}

// NewIdentificationService creates a new IdentificationService. Base64
// images that decode to more than maxImageBytes are rejected.
func NewIdentificationService(gateway Gateway, maxImageBytes int, log zerolog.Logger) *IdentificationService {
	return &IdentificationService{
		gateway:       gateway,
		maxImageBytes: maxImageBytes,
		log:           log.With().Str("component", "darshan").Logger(),
	}
}

// Identify checks the image input, asks the model and validates its answer.
func (s *IdentificationService) Identify(ctx context.Context, in IdentifyInput) (*models.DarshanResult, error) {
	image, err := s.imageReference(in)
	if err != nil {
		return nil, err
	}

	raw, err := callGateway(ctx, s.gateway, "darshan", darshanSystemPrompt, darshanUserPrompt, image)
	if err != nil {
		s.log.Error().Err(err).Msg("identification call failed")
		return nil, err
	}

	result, err := ParseIdentification(raw)
	if err != nil {
		metrics.RecordAICall("darshan", "invalid_output")
		s.log.Error().Err(err).Msg("identification output rejected")
		return nil, err
	}

	metrics.RecordAICall("darshan", "ok")
	s.log.Info().Str("common_name", result.CommonName).Float64("confidence", result.Confidence).Msg("plant identified")
	return result, nil
}

// imageReference returns the URL or data URL to send to the model.
func (s *IdentificationService) imageReference(in IdentifyInput) (string, error) {
	url := strings.TrimSpace(in.ImageURL)
	b64 := strings.TrimSpace(in.ImageBase64)

	switch {
	case url == "" && b64 == "":
		return "", apperrors.Validation("Either image_url or image_base64 is required")
	case url != "" && b64 != "":
		return "", apperrors.Validation("Provide only one of image_url or image_base64")
	case url != "":
		return url, nil
	}

	payload := b64
	if strings.HasPrefix(b64, "data:") {
		i := strings.Index(b64, ",")
		if i < 0 {
			return "", apperrors.Validation("image_base64 is not a valid data URL")
		}
		payload = b64[i+1:]
	}
	if s.maxImageBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > s.maxImageBytes+2 {
		return "", apperrors.Validation(fmt.Sprintf("Image is too large. Maximum size is %d bytes", s.maxImageBytes))
	}

	if strings.HasPrefix(b64, "data:") {
		return b64, nil
	}
	return "data:image/jpeg;base64," + b64, nil
}

// callGateway performs one model call and classifies gateway failures.
func callGateway(ctx context.Context, gw Gateway, op, system, user, image string) (string, error) {
	raw, err := gw.Complete(ctx, system, user, image)
	switch {
	case err == nil:
		return raw, nil
	case errors.Is(err, openai.ErrRateLimited):
		metrics.RecordAICall(op, "rate_limited")
		return "", ErrRateLimited
	default:
		metrics.RecordAICall(op, "upstream_error")
		return "", apperrors.Wrap(apperrors.KindUpstream, op+" call failed", err)
	}
}
