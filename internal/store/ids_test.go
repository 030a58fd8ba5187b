package store

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"boutique_back_end/internal/models"
)

func TestMalformedIDsAreNotFound(t *testing.T) {
	_, err := objectID("not-an-object-id")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = parseUUID("not-a-uuid")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWellFormedIDsParse(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, oid, got)

	uid := gocql.TimeUUID()
	parsed, err := parseUUID(uid.String())
	assert.NoError(t, err)
	assert.Equal(t, uid, parsed)
}

func TestProductDocumentConversion(t *testing.T) {
	doc := productDocument{
		ID:            primitive.NewObjectID(),
		ProductFields: models.ProductFields{Title: "Lamp", Tags: []models.Tag{models.TagNew}},
		ImageURL:      "http://blob/products/1.png",
	}

	p := doc.product()

	assert.Equal(t, doc.ID.Hex(), p.ID)
	assert.Equal(t, "Lamp", p.Title)
	assert.Equal(t, doc.ImageURL, p.ImageURL)
}

func TestTagStrings(t *testing.T) {
	assert.Equal(t, []string{"vegan", "new"}, tagStrings([]models.Tag{models.TagVegan, models.TagNew}))
}
