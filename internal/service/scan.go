package service

import (
	"context"
	"fmt"
	"strings"

	"drc-backend/internal/codec"
	"drc-backend/internal/domain"

	"golang.org/x/time/rate"
)

type scanService struct {
	limiter *rate.Limiter
}

// NewScanService builds the scan resolver. The limiter absorbs scanner
// hardware that fires duplicate reads in tight bursts.
func NewScanService(scansPerSecond float64, burst int) ScanService {
	return &scanService{
		limiter: rate.NewLimiter(rate.Limit(scansPerSecond), burst),
	}
}

func (s *scanService) Resolve(ctx context.Context, raw string, expected codec.PayloadKind) (*codec.Payload, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scan throttled: %w", err)
	}

	p := codec.DecodePayload(strings.TrimSpace(raw))
	if p == nil {
		return nil, fmt.Errorf("unrecognized scan data: %w", domain.ErrInvalidFormat)
	}
	if p.Kind != expected {
		return nil, fmt.Errorf("scanned a %s code, expected %s: %w", p.Kind, expected, domain.ErrTypeMismatch)
	}
	if p.Kind == codec.PayloadKindContainer {
		if _, err := codec.ParseContainerID(p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *scanService) ResolveManualContainer(ctx context.Context, input string) (string, error) {
	id, err := codec.ParseContainerID(strings.ToUpper(strings.TrimSpace(input)))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
