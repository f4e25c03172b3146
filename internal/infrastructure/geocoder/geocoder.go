// Package geocoder resolves addresses and postal codes to coordinates.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

var ErrNoMatch = errors.New("address could not be geocoded")

// Result is a resolved location.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// MapQuest implements Geocoder against the MapQuest geocoding API. Results
// are cached in Redis when a client is provided.
type MapQuest struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Cache   *redis.Client
	TTL     time.Duration
	Logger  logrus.FieldLogger
}

func NewMapQuest(baseURL, apiKey string, cache *redis.Client, logger logrus.FieldLogger) *MapQuest {
	return &MapQuest{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 5 * time.Second},
		Cache:   cache,
		TTL:     24 * time.Hour,
		Logger:  logger,
	}
}

type mqLocation struct {
	Street     string `json:"street"`
	AdminArea5 string `json:"adminArea5"` // city
	AdminArea3 string `json:"adminArea3"` // state
	AdminArea1 string `json:"adminArea1"` // country
	PostalCode string `json:"postalCode"`
	LatLng     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

type mqResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mqLocation `json:"locations"`
	} `json:"results"`
}

func (m *MapQuest) Geocode(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, ErrNoMatch
	}
	key := helpers.KeyGeocode(strings.ToLower(address))
	if m.Cache != nil {
		var cached Result
		if ok, err := helpers.RedisGetJSON(ctx, m.Cache, key, &cached); err == nil && ok {
			return cached, nil
		} else if err != nil && m.Logger != nil {
			m.Logger.WithError(err).Warn("geocode cache read failed")
		}
	}

	q := url.Values{}
	q.Set("key", m.APIKey)
	q.Set("location", address)
	q.Set("maxResults", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.BaseURL+"/geocoding/v1/address?"+q.Encode(), nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocoder: unexpected status %d", resp.StatusCode)
	}

	var body mqResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, err
	}
	if body.Info.StatusCode != 0 {
		return Result{}, fmt.Errorf("geocoder: status %d: %s", body.Info.StatusCode, strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return Result{}, ErrNoMatch
	}
	loc := body.Results[0].Locations[0]
	res := Result{
		Latitude:  loc.LatLng.Lat,
		Longitude: loc.LatLng.Lng,
		Street:    loc.Street,
		City:      loc.AdminArea5,
		State:     loc.AdminArea3,
		Zipcode:   loc.PostalCode,
		Country:   loc.AdminArea1,
	}
	res.FormattedAddress = formatAddress(res)

	if m.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, m.Cache, key, res, m.TTL); err != nil && m.Logger != nil {
			m.Logger.WithError(err).Warn("geocode cache write failed")
		}
	}
	return res, nil
}

func formatAddress(r Result) string {
	var parts []string
	for _, p := range []string{r.Street, r.City, strings.TrimSpace(r.State + " " + r.Zipcode), r.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
