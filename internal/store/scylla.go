package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"boutique_back_end/internal/models"
)

// Tables Scylla : products porte le document, products_by_category sert
// d'index (catégorie → identifiants, du plus récent au plus ancien).
var scyllaSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		title text,
		description text,
		category text,
		availability_status text,
		return_policy text,
		price double,
		stock int,
		brand text,
		sku text,
		weight double,
		warranty_information text,
		shipping_information text,
		minimum_order_quantity int,
		tags list<text>,
		width double,
		height double,
		depth double,
		image_url text,
		images list<text>,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS products_by_category (
		category text,
		created_at timestamp,
		product_id uuid,
		PRIMARY KEY ((category), created_at, product_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, product_id ASC)`,
}

const productColumns = `product_id, title, description, category, availability_status, return_policy,
	price, stock, brand, sku, weight, warranty_information, shipping_information,
	minimum_order_quantity, tags, width, height, depth, image_url, images, created_at, updated_at`

type ScyllaStore struct {
	session *gocql.Session
}

func NewScyllaStore(session *gocql.Session) (*ScyllaStore, error) {
	for _, stmt := range scyllaSchema {
		if err := session.Query(stmt).Exec(); err != nil {
			return nil, fmt.Errorf("création du schéma Scylla: %w", err)
		}
	}
	log.Println("✅ Tables ScyllaDB products prêtes")
	return &ScyllaStore{session: session}, nil
}

func parseUUID(id string) (gocql.UUID, error) {
	uid, err := gocql.ParseUUID(id)
	if err != nil {
		return gocql.UUID{}, ErrProductNotFound
	}
	return uid, nil
}

func tagStrings(tags []models.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func (s *ScyllaStore) Create(ctx context.Context, p *models.Product) error {
	id := gocql.TimeUUID()

	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Title, p.Description, string(p.Category), string(p.AvailabilityStatus), string(p.ReturnPolicy),
		p.Price, p.Stock, p.Brand, p.SKU, p.Weight, p.WarrantyInformation, p.ShippingInformation,
		p.MinimumOrderQuantity, tagStrings(p.Tags), p.Dimensions.Width, p.Dimensions.Height, p.Dimensions.Depth,
		p.ImageURL, p.Images, p.CreatedAt, p.UpdatedAt)
	batch.Query(`INSERT INTO products_by_category (category, created_at, product_id) VALUES (?, ?, ?)`,
		string(p.Category), p.CreatedAt, id)

	if err := s.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("insertion produit: %w", err)
	}
	p.ID = id.String()
	return nil
}

func (s *ScyllaStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	row := s.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, uid).
		WithContext(ctx).Iter()
	p, ok := scanProduct(row)
	if err := row.Close(); err != nil {
		return nil, fmt.Errorf("lecture produit %s: %w", id, err)
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (s *ScyllaStore) List(ctx context.Context) ([]models.Product, error) {
	iter := s.session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	products := []models.Product{}
	for {
		p, ok := scanProduct(iter)
		if !ok {
			break
		}
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("liste produits: %w", err)
	}
	sortNewestFirst(products)
	return products, nil
}

func (s *ScyllaStore) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	iter := s.session.Query(`SELECT product_id FROM products_by_category WHERE category = ?`, string(category)).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("index catégorie %s: %w", category, err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetByID(ctx, id.String())
		if errors.Is(err, ErrProductNotFound) {
			log.Printf("⚠️ Entrée products_by_category orpheline : %s", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (s *ScyllaStore) Replace(ctx context.Context, p *models.Product) error {
	existing, err := s.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	uid, _ := parseUUID(p.ID)

	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`UPDATE products SET title = ?, description = ?, category = ?, availability_status = ?,
		return_policy = ?, price = ?, stock = ?, brand = ?, sku = ?, weight = ?, warranty_information = ?,
		shipping_information = ?, minimum_order_quantity = ?, tags = ?, width = ?, height = ?, depth = ?,
		image_url = ?, images = ?, updated_at = ? WHERE product_id = ?`,
		p.Title, p.Description, string(p.Category), string(p.AvailabilityStatus), string(p.ReturnPolicy),
		p.Price, p.Stock, p.Brand, p.SKU, p.Weight, p.WarrantyInformation, p.ShippingInformation,
		p.MinimumOrderQuantity, tagStrings(p.Tags), p.Dimensions.Width, p.Dimensions.Height, p.Dimensions.Depth,
		p.ImageURL, p.Images, p.UpdatedAt, uid)
	if existing.Category != p.Category {
		batch.Query(`DELETE FROM products_by_category WHERE category = ? AND created_at = ? AND product_id = ?`,
			string(existing.Category), existing.CreatedAt, uid)
		batch.Query(`INSERT INTO products_by_category (category, created_at, product_id) VALUES (?, ?, ?)`,
			string(p.Category), existing.CreatedAt, uid)
	}

	if err := s.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("mise à jour produit %s: %w", p.ID, err)
	}
	return nil
}

func (s *ScyllaStore) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	uid, _ := parseUUID(id)

	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM products WHERE product_id = ?`, uid)
	batch.Query(`DELETE FROM products_by_category WHERE category = ? AND created_at = ? AND product_id = ?`,
		string(existing.Category), existing.CreatedAt, uid)

	if err := s.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("suppression produit %s: %w", id, err)
	}
	return nil
}

func (s *ScyllaStore) Close(context.Context) error {
	s.session.Close()
	return nil
}

func scanProduct(iter *gocql.Iter) (models.Product, bool) {
	var (
		p                        models.Product
		id                       gocql.UUID
		category, status, policy string
		tags                     []string
		createdAt, updatedAt     time.Time
	)
	ok := iter.Scan(&id, &p.Title, &p.Description, &category, &status, &policy,
		&p.Price, &p.Stock, &p.Brand, &p.SKU, &p.Weight, &p.WarrantyInformation, &p.ShippingInformation,
		&p.MinimumOrderQuantity, &tags, &p.Dimensions.Width, &p.Dimensions.Height, &p.Dimensions.Depth,
		&p.ImageURL, &p.Images, &createdAt, &updatedAt)
	if !ok {
		return models.Product{}, false
	}

	p.ID = id.String()
	p.Category = models.Category(category)
	p.AvailabilityStatus = models.AvailabilityStatus(status)
	p.ReturnPolicy = models.ReturnPolicy(policy)
	p.Tags = make([]models.Tag, len(tags))
	for i, t := range tags {
		p.Tags[i] = models.Tag(t)
	}
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, true
}
