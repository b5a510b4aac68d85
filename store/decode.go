package store

import (
	"maps"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"pet-harness-store/models"
)

// DecodeProducts converts raw product documents into validated products.
// Documents that fail to decode or validate are skipped and counted, so one
// legacy or malformed record never breaks a listing.
func DecodeProducts(docs []bson.M) ([]models.Product, int) {
	products := make([]models.Product, 0, len(docs))
	dropped := 0

	for _, doc := range docs {
		p, err := models.DecodeProduct(withoutID(doc))
		if err != nil {
			dropped++
			log.WithFields(log.Fields{
				"id":  doc[idField],
				"err": err,
			}).Warn("skipping invalid product document")
			continue
		}
		products = append(products, p)
	}

	return products, dropped
}

func withoutID(doc bson.M) bson.M {
	clean := maps.Clone(doc)
	delete(clean, idField)
	return clean
}
