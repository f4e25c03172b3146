package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/geocoder"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/search"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/storage"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// EarthRadiusMiles is used to turn a search distance into radians.
const EarthRadiusMiles = 3963.0

type BootcampService struct {
	Bootcamps repo.BootcampRepository
	Geocoder  geocoder.Geocoder // nil skips geocoding
	Blobs     storage.BlobStore
	Search    search.Index
	MaxUpload int64
	Logger    logrus.FieldLogger
}

func NewBootcampService(bootcamps repo.BootcampRepository, geo geocoder.Geocoder, blobs storage.BlobStore, idx search.Index, maxUpload int64, logger logrus.FieldLogger) *BootcampService {
	if idx == nil {
		idx = search.Noop{}
	}
	return &BootcampService{
		Bootcamps: bootcamps,
		Geocoder:  geo,
		Blobs:     blobs,
		Search:    idx,
		MaxUpload: maxUpload,
		Logger:    logger,
	}
}

func bootcampNotFound(id string) string { return fmt.Sprintf("No bootcamp with the id of %s", id) }

// BootcampInput is the full set of writable bootcamp fields.
type BootcampInput struct {
	Name          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Address       string
	Careers       []string
	Housing       bool
	JobAssistance bool
	JobGuarantee  bool
	AcceptGi      bool
}

// BootcampPatch carries only the fields present in an update request.
type BootcampPatch struct {
	Name          *string
	Description   *string
	Website       *string
	Phone         *string
	Email         *string
	Address       *string
	Careers       *[]string
	Housing       *bool
	JobAssistance *bool
	JobGuarantee  *bool
	AcceptGi      *bool
}

func (s *BootcampService) List(ctx context.Context, spec query.Spec) (query.Result[entity.Bootcamp], error) {
	res, err := s.Bootcamps.List(ctx, spec, true)
	if err != nil {
		return query.Result[entity.Bootcamp]{}, mapRepoErr(err, "No bootcamps found")
	}
	return res, nil
}

func (s *BootcampService) Get(ctx context.Context, id string) (*entity.Bootcamp, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	b, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, bootcampNotFound(id))
	}
	return b, nil
}

// Create publishes a bootcamp owned by actor. Publishers may own a single
// bootcamp; admins are unlimited.
func (s *BootcampService) Create(ctx context.Context, actor Actor, in BootcampInput) (*entity.Bootcamp, error) {
	if !actor.IsAdmin() {
		n, err := s.Bootcamps.CountByUser(ctx, actor.ID)
		if err != nil {
			return nil, mapRepoErr(err, bootcampNotFound(""))
		}
		if n > 0 {
			return nil, apperror.Validation(fmt.Sprintf("The user with ID %s has already published a bootcamp", actor.ID))
		}
	}

	b := &entity.Bootcamp{
		UserID:        actor.ID,
		Name:          strings.TrimSpace(in.Name),
		Slug:          slug.Make(in.Name),
		Description:   in.Description,
		Website:       in.Website,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		Careers:       in.Careers,
		Housing:       in.Housing,
		JobAssistance: in.JobAssistance,
		JobGuarantee:  in.JobGuarantee,
		AcceptGi:      in.AcceptGi,
	}
	if err := s.locate(ctx, b); err != nil {
		return nil, err
	}
	if err := s.Bootcamps.Create(ctx, b); err != nil {
		return nil, mapRepoErr(err, bootcampNotFound(b.ID))
	}
	s.index(ctx, b)
	return b, nil
}

func (s *BootcampService) Update(ctx context.Context, actor Actor, id string, p BootcampPatch) (*entity.Bootcamp, error) {
	b, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
		b.Slug = slug.Make(b.Name)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Website != nil {
		b.Website = *p.Website
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Careers != nil {
		b.Careers = *p.Careers
	}
	if p.Housing != nil {
		b.Housing = *p.Housing
	}
	if p.JobAssistance != nil {
		b.JobAssistance = *p.JobAssistance
	}
	if p.JobGuarantee != nil {
		b.JobGuarantee = *p.JobGuarantee
	}
	if p.AcceptGi != nil {
		b.AcceptGi = *p.AcceptGi
	}
	if p.Address != nil && *p.Address != b.Address {
		b.Address = *p.Address
		if err := s.locate(ctx, b); err != nil {
			return nil, err
		}
	}

	if err := s.Bootcamps.Update(ctx, b); err != nil {
		return nil, mapRepoErr(err, bootcampNotFound(id))
	}
	s.index(ctx, b)
	return b, nil
}

// Delete removes the bootcamp, its courses and its search document.
func (s *BootcampService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.Bootcamps.Delete(ctx, id); err != nil {
		return mapRepoErr(err, bootcampNotFound(id))
	}
	if err := s.Search.Delete(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("bootcamp_id", id).Warn("failed to remove bootcamp from search index")
	}
	return nil
}

// owned loads a bootcamp the actor may modify.
func (s *BootcampService) owned(ctx context.Context, actor Actor, id, action string) (*entity.Bootcamp, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apperror.Forbidden(fmt.Sprintf("User %s is not authorized to %s this bootcamp", actor.ID, action))
	}
	return b, nil
}

// locate fills the bootcamp location from its address.
func (s *BootcampService) locate(ctx context.Context, b *entity.Bootcamp) error {
	if s.Geocoder == nil || strings.TrimSpace(b.Address) == "" {
		return nil
	}
	loc, err := s.Geocoder.Geocode(ctx, b.Address)
	if errors.Is(err, geocoder.ErrNoMatch) {
		return apperror.ValidationDetails("Invalid input", map[string]string{"address": "could not be geocoded"})
	}
	if err != nil {
		return serverError("geocode address", err)
	}
	b.Location = entity.Location{
		Latitude:         loc.Latitude,
		Longitude:        loc.Longitude,
		FormattedAddress: loc.FormattedAddress,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.Zipcode,
		Country:          loc.Country,
	}
	return nil
}

func (s *BootcampService) index(ctx context.Context, b *entity.Bootcamp) {
	if err := s.Search.Index(ctx, b); err != nil {
		s.Logger.WithError(err).WithField("bootcamp_id", b.ID).Warn("failed to index bootcamp")
	}
}

// Radius returns bootcamps within distance miles of the zipcode, nearest first.
func (s *BootcampService) Radius(ctx context.Context, zipcode string, distance float64) ([]entity.Bootcamp, error) {
	if strings.TrimSpace(zipcode) == "" {
		return nil, apperror.Validation("Please provide a zipcode")
	}
	if math.IsNaN(distance) || distance <= 0 {
		return nil, apperror.Validation("Distance must be a positive number")
	}
	if s.Geocoder == nil {
		return nil, apperror.Server("Geocoder is not configured", errors.New("no geocoder"))
	}
	origin, err := s.Geocoder.Geocode(ctx, zipcode)
	if errors.Is(err, geocoder.ErrNoMatch) {
		return nil, apperror.NotFound(fmt.Sprintf("No location found for zipcode %s", zipcode))
	}
	if err != nil {
		return nil, serverError("geocode zipcode", err)
	}

	candidates, err := s.Bootcamps.WithinBox(ctx, BoundingBoxAround(origin.Latitude, origin.Longitude, distance))
	if err != nil {
		return nil, mapRepoErr(err, "No bootcamps found")
	}
	type hit struct {
		b entity.Bootcamp
		d float64
	}
	hits := make([]hit, 0, len(candidates))
	for _, b := range candidates {
		if d := Haversine(origin.Latitude, origin.Longitude, b.Location.Latitude, b.Location.Longitude); d <= distance {
			hits = append(hits, hit{b, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].d < hits[j].d })
	out := make([]entity.Bootcamp, len(hits))
	for i, h := range hits {
		out[i] = h.b
	}
	return out, nil
}

// BoundingBoxAround is the lat/lng rectangle enclosing a circle of miles
// around a point. It is a prefilter; Haversine decides membership.
func BoundingBoxAround(lat, lng, miles float64) repo.BoundingBox {
	dLat := miles / EarthRadiusMiles * 180 / math.Pi
	dLng := 180.0
	if c := math.Cos(lat * math.Pi / 180); c > 1e-9 {
		dLng = math.Min(dLat/c, 180)
	}
	return repo.BoundingBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLng: math.Max(lng-dLng, -180),
		MaxLng: math.Min(lng+dLng, 180),
	}
}

// Haversine is the great-circle distance in miles.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(a)))
}

// PhotoUpload is an uploaded file as received from the client.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadPhoto stores an image as photo_<id><ext> and records it on the bootcamp.
func (s *BootcampService) UploadPhoto(ctx context.Context, actor Actor, id string, f *PhotoUpload) (string, error) {
	b, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return "", err
	}
	if f == nil || f.Body == nil {
		return "", apperror.Validation("Please upload a file")
	}
	if !strings.HasPrefix(f.ContentType, "image") {
		return "", apperror.Validation("Please upload an image file")
	}
	if s.MaxUpload > 0 && f.Size > s.MaxUpload {
		return "", apperror.Validation(fmt.Sprintf("Please upload an image less than %d", s.MaxUpload))
	}

	name := "photo_" + b.ID + strings.ToLower(filepath.Ext(f.Filename))
	ref, err := s.Blobs.Put(ctx, name, f.ContentType, f.Size, f.Body)
	if err != nil {
		return "", apperror.Server("Problem with file upload", err)
	}
	if err := s.Bootcamps.UpdatePhoto(ctx, b.ID, ref); err != nil {
		return "", mapRepoErr(err, bootcampNotFound(id))
	}
	helpers.LogInfo(s.Logger, "bootcamp photo uploaded", logrus.Fields{"bootcamp_id": b.ID, "photo": ref})
	return ref, nil
}

// Find runs a full-text search; it is empty when search is not configured.
func (s *BootcampService) Find(ctx context.Context, q string, size int) ([]map[string]any, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.Validation("Please provide a search term")
	}
	hits, err := s.Search.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Server("Search is unavailable", err)
	}
	return hits, nil
}
