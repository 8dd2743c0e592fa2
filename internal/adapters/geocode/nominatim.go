package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var _ ports.Geocoder = (*NominatimGeocoder)(nil)

// Options configures a NominatimGeocoder. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// NominatimGeocoder resolves addresses through a Nominatim-compatible
// /search endpoint (OpenStreetMap Nominatim, LocationIQ and similar).
//
// Each Geocode call issues one lookup asking for a single best match.
// Nothing is cached. The geocoder is safe for concurrent use.
type NominatimGeocoder struct {
	session     *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	maxAttempts int
	log         *zap.Logger
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatimGeocoder(opts Options) (*NominatimGeocoder, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("nominatim geocoder: base url is empty")
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		return nil, errors.New("nominatim geocoder: user agent is empty")
	}

	session := opts.HTTPClient
	if session == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		session = &http.Client{Timeout: timeout}
	}

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &NominatimGeocoder{
		session:     session,
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(opts.APIKey),
		userAgent:   userAgent,
		maxAttempts: attempts,
		log:         log,
	}, nil
}

// normalize collapses whitespace so equivalent inputs produce the same query.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode returns the coordinates of the best match for address.
// An empty candidate list is reported as ports.ErrAddressNotFound.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Trace(ctx, g.log, "nominatim.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	endpoint := g.baseURL + "/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("format", "json")
		q.Set("q", norm)
		q.Set("limit", "1")
		if g.apiKey != "" {
			q.Set("key", g.apiKey)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: execute request: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}

	if len(decoded) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrAddressNotFound)
	}

	coords, err := decoded[0].coordinates()
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	g.log.Debug("geocoded address",
		zap.String("address", norm),
		zap.String("match", decoded[0].DisplayName),
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon),
	)

	return coords, nil
}

func (r searchResult) coordinates() (domain.Coordinates, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return domain.Coordinates{}, err
	}

	return c, nil
}
