package form

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/aquaswift/aquaswift-api/types"
)

// Non-file fields of a submission are small,
// so this is the only slack allowed on top of the image limit
const fieldBytes = 1 << 20

var validate = validator.New()

// Submission is a parsed multipart form submission
type Submission struct {
	request *http.Request
	rules   *ImageRules
}

// Parse reads a multipart form, limiting the body size
// to the image limit plus room for the text fields
func Parse(w http.ResponseWriter, r *http.Request, rules *ImageRules) (*Submission, error) {
	limit := rules.MaxBytes + fieldBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, rules.tooLarge()
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, NewValidationError("", "Expected multipart form submission")
		default:
			return nil, errors.Wrap(err, "parse multipart form")
		}
	}

	return &Submission{
		request: r,
		rules:   rules,
	}, nil
}

// Value returns the trimmed text value of the field,
// or an empty string if it was not submitted
func (s *Submission) Value(key string) string {
	values := s.request.MultipartForm.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// Image returns the uploaded image, or nil if none was attached.
// An attached file that is not an acceptable image is an error
func (s *Submission) Image() (*Image, error) {
	files := s.request.MultipartForm.File[ImageKey]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}

	return s.rules.Load(files[0])
}

// RequireImage is like Image, but fails if no image was attached
func (s *Submission) RequireImage() (*Image, error) {
	image, err := s.Image()
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, NewValidationError(ImageKey, "Image is required")
	}
	return image, nil
}

// Close removes any temporary files created while parsing
func (s *Submission) Close() {
	if s.request.MultipartForm != nil {
		s.request.MultipartForm.RemoveAll()
	}
}

// ParseProduct reads the product fields of the admin form
func ParseProduct(s *Submission) (types.ProductCreate, error) {
	price, err := ParsePrice(s.Value("price"))
	if err != nil {
		return types.ProductCreate{}, err
	}

	create := types.ProductCreate{
		Name:        s.Value("name"),
		Description: s.Value("description"),
		Price:       price,
		Features:    ParseFeatures(s.Value("features")),
		AIHint:      s.Value("aiHint"),
	}
	if err := validateStruct(create); err != nil {
		return types.ProductCreate{}, err
	}

	return create, nil
}

// ParseTestimonial reads the testimonial fields of the admin form
func ParseTestimonial(s *Submission) (types.TestimonialCreate, error) {
	create := types.TestimonialCreate{
		Name:    s.Value("name"),
		Company: s.Value("company"),
		Quote:   s.Value("quote"),
		AIHint:  s.Value("aiHint"),
	}
	if err := validateStruct(create); err != nil {
		return types.TestimonialCreate{}, err
	}

	return create, nil
}

// ParseCompanyDetails reads the company details fields of the admin form
func ParseCompanyDetails(s *Submission) types.CompanyDetailsUpdate {
	return types.CompanyDetailsUpdate{
		Name:            s.Value("name"),
		ExistingLogoURL: s.Value("existingLogoUrl"),
	}
}

// ParsePrice parses a decimal price, which must be finite and non-negative
func ParsePrice(value string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, NewValidationError("price", "Invalid price")
	}
	return price, nil
}

// ParseFeatures splits a comma-separated feature list,
// trimming entries and dropping empty ones
func ParseFeatures(value string) []string {
	features := []string{}
	for _, feature := range strings.Split(value, ",") {
		feature = strings.TrimSpace(feature)
		if feature != "" {
			features = append(features, feature)
		}
	}
	return features
}

func validateStruct(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.Wrap(err, "validate form")
	}

	fieldError := validationErrors[0]
	field := strings.ToLower(fieldError.Field()[:1]) + fieldError.Field()[1:]
	if fieldError.Tag() == "required" {
		return NewValidationError(field, fmt.Sprintf("%s is required", fieldError.Field()))
	}
	return NewValidationError(field, fmt.Sprintf("Invalid %s", field))
}
