package types

// Product is the document stored in MongoDB for a single purifier
// in the public catalog
type Product struct {
	ID          string   `json:"_id" bson:"-"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price"`
	ImageURL    string   `json:"imageUrl" bson:"imageUrl"`
	Features    []string `json:"features" bson:"features"`
	AIHint      string   `json:"aiHint" bson:"aiHint"`
}

// ProductCreate is parsed from the admin form submission
// and converted into a Product once the image has been uploaded
type ProductCreate struct {
	Name        string `validate:"required"`
	Description string
	Price       float64 `validate:"gte=0"`
	Features    []string
	AIHint      string
}

// Product builds the stored document from the parsed form
// and the hosted image URL
func (c ProductCreate) Product(imageURL string) Product {
	features := c.Features
	if features == nil {
		features = []string{}
	}

	return Product{
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    imageURL,
		Features:    features,
		AIHint:      c.AIHint,
	}
}
