package types

// Testimonial is the document stored in MongoDB for a single customer quote
type Testimonial struct {
	ID       string `json:"_id" bson:"-"`
	Name     string `json:"name" bson:"name"`
	Company  string `json:"company" bson:"company"`
	Quote    string `json:"quote" bson:"quote"`
	ImageURL string `json:"imageUrl" bson:"imageUrl"`
	AIHint   string `json:"aiHint" bson:"aiHint"`
}

// TestimonialCreate is parsed from the admin form submission
// and converted into a Testimonial once the image has been uploaded
type TestimonialCreate struct {
	Name    string `validate:"required"`
	Company string
	Quote   string `validate:"required"`
	AIHint  string
}

// Testimonial builds the stored document from the parsed form
// and the hosted image URL
func (c TestimonialCreate) Testimonial(imageURL string) Testimonial {
	return Testimonial{
		Name:     c.Name,
		Company:  c.Company,
		Quote:    c.Quote,
		ImageURL: imageURL,
		AIHint:   c.AIHint,
	}
}
