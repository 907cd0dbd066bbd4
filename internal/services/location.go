package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"crewclock-backend/internal/models"
)

// LocationProvider produces a single fix. Implementations must respect the
// context deadline; a fix that arrives late is a fix that never arrived.
type LocationProvider interface {
	CurrentFix(ctx context.Context) (*models.GeoPoint, error)
}

// LocationService is the capture policy: one bounded attempt at clock-in,
// never at clock-out, and never a reason to fail the clock-in.
type LocationService struct {
	provider LocationProvider
	timeout  time.Duration
}

func NewLocationService(provider LocationProvider, timeout time.Duration) *LocationService {
	return &LocationService{provider: provider, timeout: timeout}
}

// Capture returns a fix or nil. Provider errors and timeouts degrade to nil
// and are logged at most; the caller proceeds either way.
func (s *LocationService) Capture(ctx context.Context) *models.GeoPoint {
	if s.provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fix, err := s.provider.CurrentFix(ctx)
	if err != nil {
		log.Printf("location capture: no fix: %v", err)
		return nil
	}
	return fix
}

// HTTPLocationProvider queries a one-shot lookup endpoint (a site GPS
// gateway) that answers {"lat": ..., "lng": ...}.
type HTTPLocationProvider struct {
	url    string
	client *http.Client
}

func NewHTTPLocationProvider(url string) *HTTPLocationProvider {
	return &HTTPLocationProvider{
		url:    url,
		client: &http.Client{},
	}
}

func (p *HTTPLocationProvider) CurrentFix(ctx context.Context) (*models.GeoPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var fix models.GeoPoint
	if err := json.NewDecoder(resp.Body).Decode(&fix); err != nil {
		return nil, fmt.Errorf("failed to decode fix: %w", err)
	}
	return &fix, nil
}
