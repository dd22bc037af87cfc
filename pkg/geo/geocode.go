package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tableflip.dev/journal/pkg/journal"
)

// UnknownLocation is what callers show when no address can be found.
const UnknownLocation = "Unknown Location"

var ErrNoAddress = errors.New("geo: no address for location")

// Geocoder turns a position into a human readable address.
type Geocoder interface {
	Reverse(ctx context.Context, c journal.Coordinates) (string, error)
}

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	userAgent           = "JournalApp/1.0"
)

// Nominatim reverse geocodes with the OpenStreetMap Nominatim API. The
// public server allows one request per second.
type Nominatim struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewNominatim returns a client limited to one request per second.
func NewNominatim(baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
		Limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type nominatimReply struct {
	Error   string `json:"error"`
	Address struct {
		Road       string `json:"road"`
		Pedestrian string `json:"pedestrian"`
		City       string `json:"city"`
		Town       string `json:"town"`
		Village    string `json:"village"`
		County     string `json:"county"`
		State      string `json:"state"`
		Country    string `json:"country"`
	} `json:"address"`
}

func (n *Nominatim) Reverse(ctx context.Context, c journal.Coordinates) (string, error) {
	if n.Limiter != nil {
		if err := n.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo: nominatim: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo: nominatim: unexpected status %s", resp.Status)
	}

	var reply nominatimReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("geo: nominatim: decode: %w", err)
	}
	if reply.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrNoAddress, reply.Error)
	}
	a := reply.Address
	addr := FormatAddress(
		first(a.Road, a.Pedestrian),
		first(a.City, a.Town, a.Village, a.County),
		first(a.State, a.Country),
	)
	if addr == "" {
		return "", ErrNoAddress
	}
	return addr, nil
}

// FormatAddress joins the non-empty parts with ", " in upper case.
func FormatAddress(parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.ToUpper(strings.Join(keep, ", "))
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Chain tries each geocoder in turn and returns the first address found.
type Chain []Geocoder

func (c Chain) Reverse(ctx context.Context, at journal.Coordinates) (string, error) {
	errs := make([]error, 0, len(c))
	for _, g := range c {
		addr, err := g.Reverse(ctx, at)
		if err == nil && addr != "" {
			return addr, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if err != nil {
			zap.S().Debugw("geocoder failed, trying next", "at", at.String(), "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return "", ErrNoAddress
	}
	return "", errors.Join(errs...)
}

// Fixed is a Geocoder that always answers with the same address. It stands
// in when geocoding is switched off.
type Fixed string

func (f Fixed) Reverse(context.Context, journal.Coordinates) (string, error) {
	if f == "" {
		return "", ErrNoAddress
	}
	return string(f), nil
}

// ReverseOr returns the address for c, or fallback if g is nil or fails.
func ReverseOr(ctx context.Context, g Geocoder, c journal.Coordinates, fallback string) string {
	if g == nil {
		return fallback
	}
	addr, err := g.Reverse(ctx, c)
	if err != nil || addr == "" {
		zap.S().Debugw("reverse geocode failed", "at", c.String(), "error", err)
		return fallback
	}
	return addr
}
