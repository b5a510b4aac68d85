package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

const DefaultRating = 4.8

// Product is a catalog entry as stored in the "product" collection and returned
// by the listing endpoint. The store identifier is not part of this shape.
type Product struct {
	Title       string   `json:"title" bson:"title" binding:"required"`
	Description *string  `json:"description" bson:"description"`
	Price       *float64 `json:"price" bson:"price" binding:"required,gte=0"`
	Species     string   `json:"species" bson:"species" binding:"required"`
	Sizes       []string `json:"sizes" bson:"sizes"`
	ImageURL    *string  `json:"image_url" bson:"image_url"`
	Color       *string  `json:"color" bson:"color"`
	Rating      float64  `json:"rating" bson:"rating" binding:"gte=0,lte=5"`
	InStock     bool     `json:"in_stock" bson:"in_stock"`
}

type CreateProductResponse struct {
	ID string `json:"id"`
}

// NewProduct returns a Product with the defaults for every optional field.
func NewProduct() Product {
	return Product{
		Sizes:   []string{},
		Rating:  DefaultRating,
		InStock: true,
	}
}

type productFields Product

// nullProductField decides what an explicit null means for key. Fields with
// a default fall back to it; in_stock has no null form.
func nullProductField(key string) (skip bool, err error) {
	switch key {
	case "rating", "sizes":
		return true, nil
	case "in_stock":
		return false, nullFieldError(key)
	default:
		return false, nil
	}
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if string(value) != "null" {
			continue
		}
		if _, err := nullProductField(key); err != nil {
			return err
		}
	}

	// encoding/json leaves a field untouched on null, so defaults survive.
	fields := productFields(NewProduct())
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Product(fields)
	p.normalize()
	return nil
}

func (p *Product) UnmarshalBSON(data []byte) error {
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return err
	}

	// The bson decoder zeroes a field on null, so defaulted nulls are removed
	// before decoding.
	kept := make([][]byte, 0, len(elems))
	for _, elem := range elems {
		if elem.Value().Type == bson.TypeNull {
			skip, err := nullProductField(elem.Key())
			if err != nil {
				return err
			}
			if skip {
				continue
			}
		}
		kept = append(kept, []byte(elem))
	}

	fields := productFields(NewProduct())
	if err := bson.Unmarshal(bsoncore.BuildDocumentFromElements(nil, kept...), &fields); err != nil {
		return err
	}
	*p = Product(fields)
	p.normalize()
	return nil
}

// An explicit null for sizes still reads back as an empty list.
func (p *Product) normalize() {
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
}

// DecodeProduct builds a validated Product from a stored document. Unknown
// fields, including the store's "_id", are ignored.
func DecodeProduct(doc bson.M) (Product, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return Product{}, err
	}

	var p Product
	if err := bson.Unmarshal(raw, &p); err != nil {
		return Product{}, err
	}
	if err := Validate(&p); err != nil {
		return Product{}, err
	}
	return p, nil
}
