package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boutique_back_end/internal/models"
)

const productsCollection = "products"

type productDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	models.ProductFields `bson:",inline"`
	ImageURL             string    `bson:"imageUrl"`
	Images               []string  `bson:"images"`
	CreatedAt            time.Time `bson:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt"`
}

// productUpdate ne contient ni _id ni createdAt : un $set ne peut pas les toucher.
type productUpdate struct {
	models.ProductFields `bson:",inline"`
	ImageURL             string    `bson:"imageUrl"`
	Images               []string  `bson:"images"`
	UpdatedAt            time.Time `bson:"updatedAt"`
}

func (d productDocument) product() models.Product {
	return models.Product{
		ID:            d.ID.Hex(),
		ProductFields: d.ProductFields,
		ImageURL:      d.ImageURL,
		Images:        d.Images,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(ctx context.Context, client *mongo.Client, database string) (*MongoStore, error) {
	coll := client.Database(database).Collection(productsCollection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("création des index products: %w", err)
	}
	log.Printf("✅ Collection MongoDB prête : %s.%s", database, productsCollection)

	return &MongoStore{client: client, coll: coll}, nil
}

// Un identifiant mal formé ne peut désigner aucun document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrProductNotFound
	}
	return oid, nil
}

func (s *MongoStore) Create(ctx context.Context, p *models.Product) error {
	doc := productDocument{
		ProductFields: p.ProductFields,
		ImageURL:      p.ImageURL,
		Images:        p.Images,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insertion produit: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insertion produit: identifiant inattendu %v", res.InsertedID)
	}
	p.ID = oid.Hex()
	return nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture produit %s: %w", id, err)
	}
	p := doc.product()
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Product, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoStore) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	return s.find(ctx, bson.M{"category": category})
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("recherche produits: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("décodage produits: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}

func (s *MongoStore) Replace(ctx context.Context, p *models.Product) error {
	oid, err := objectID(p.ID)
	if err != nil {
		return err
	}

	update := productUpdate{
		ProductFields: p.ProductFields,
		ImageURL:      p.ImageURL,
		Images:        p.Images,
		UpdatedAt:     p.UpdatedAt,
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("mise à jour produit %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("suppression produit %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
