package services

import (
	"context"
	"errors"
	"log"
	"time"

	"boutique_back_end/internal/forms"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/store"
	"boutique_back_end/internal/validation"
)

const (
	MsgInvalidInput  = "Please correct the form input"
	MsgCreated       = "The product is created successfully"
	MsgUpdated       = "The product is updated successfully"
	MsgSaveFailed    = "Failed to save product to database."
	MsgUploadFailed  = "Failed to upload image."
	MsgNotFound      = "Product not found"
	MsgDeleted       = "The product is deleted successfully"
	MsgDeleteFailed  = "Failed to delete product"
	MsgImageType     = "Only .jpeg, .jpg, .webp and .png images are allowed"
	MsgImageTooLarge = "Image must be 4.5 MB or smaller"
)

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// FormState est la réponse uniforme des mutations admin.
type FormState struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Inputs    *forms.RawProduct      `json:"inputs,omitempty"`
	Errors    validation.FieldErrors `json:"errors,omitempty"`
	ProductID string                 `json:"productId,omitempty"`
	Outcome   Outcome                `json:"-"`
}

type ProductService struct {
	store     store.ProductStore
	validator *validation.ProductValidator
	images    *ImageManager
	now       func() time.Time
}

type Option func(*ProductService)

func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.now = now }
}

func NewProductService(products store.ProductStore, validator *validation.ProductValidator, images *ImageManager, opts ...Option) *ProductService {
	s := &ProductService{
		store:     products,
		validator: validator,
		images:    images,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Les timestamps sont tronqués à la milliseconde, précision commune à Mongo et Scylla.
func (s *ProductService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *ProductService) Create(ctx context.Context, raw forms.RawProduct, file *ImageFile) FormState {
	res := s.validator.Validate(raw)
	if !res.OK {
		return invalidState(res)
	}

	img, err := s.images.Resolve(ctx, file, "", false)
	if err != nil {
		return imageState(raw, err)
	}

	now := s.timestamp()
	p := &models.Product{
		ProductFields: res.Data,
		ImageURL:      img.URL,
		Images:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		// Un blob tout juste envoyé reste orphelin : pas de rollback.
		log.Printf("❌ Création produit échouée : %v", err)
		return failedState(raw, MsgSaveFailed)
	}

	log.Printf("✅ Produit créé : %s (%s)", p.ID, p.Title)
	return FormState{Success: true, Message: MsgCreated, ProductID: p.ID, Outcome: OutcomeOK}
}

func (s *ProductService) Update(ctx context.Context, id string, raw forms.RawProduct, file *ImageFile, clear bool) FormState {
	res := s.validator.Validate(raw)
	if !res.OK {
		return invalidState(res)
	}

	existing, err := store.GetFresh(ctx, s.store, id)
	if errors.Is(err, store.ErrProductNotFound) {
		return FormState{Message: MsgNotFound, Inputs: &raw, Outcome: OutcomeNotFound}
	}
	if err != nil {
		log.Printf("❌ Lecture produit %s échouée : %v", id, err)
		return failedState(raw, MsgSaveFailed)
	}

	img, err := s.images.Resolve(ctx, file, existing.ImageURL, clear)
	if err != nil {
		return imageState(raw, err)
	}
	if img.Cleared != nil {
		img.Cleared.Log("Retrait image produit " + id)
	}

	updatedAt := s.timestamp()
	if updatedAt.Before(existing.CreatedAt) {
		updatedAt = existing.CreatedAt
	}
	next := &models.Product{
		ID:            existing.ID,
		ProductFields: res.Data,
		ImageURL:      img.URL,
		Images:        existing.Images,
		CreatedAt:     existing.CreatedAt,
		UpdatedAt:     updatedAt,
	}
	if err := s.store.Replace(ctx, next); err != nil {
		if img.Cleared != nil && img.Cleared.Deleted() {
			// L'effacement a déjà supprimé le blob : le document garde une référence morte.
			log.Printf("⚠️ Produit %s : image %s supprimée mais document non mis à jour, référence orpheline", id, img.Cleared.Target)
		}
		if errors.Is(err, store.ErrProductNotFound) {
			return FormState{Message: MsgNotFound, Inputs: &raw, Outcome: OutcomeNotFound}
		}
		log.Printf("❌ Mise à jour produit %s échouée : %v", id, err)
		return failedState(raw, MsgSaveFailed)
	}

	if img.Superseded != "" {
		s.images.Release(ctx, img.Superseded).Log("Remplacement image produit " + id)
	}

	log.Printf("✅ Produit mis à jour : %s", id)
	return FormState{Success: true, Message: MsgUpdated, ProductID: id, Outcome: OutcomeOK}
}

func (s *ProductService) Delete(ctx context.Context, id string) FormState {
	existing, err := store.GetFresh(ctx, s.store, id)
	if errors.Is(err, store.ErrProductNotFound) {
		return FormState{Message: MsgNotFound, Outcome: OutcomeNotFound}
	}
	if err != nil {
		log.Printf("❌ Lecture produit %s échouée : %v", id, err)
		return FormState{Message: MsgDeleteFailed, Outcome: OutcomeFailed}
	}

	if existing.ImageURL != "" {
		s.images.Release(ctx, existing.ImageURL).Log("Suppression produit " + id)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return FormState{Message: MsgNotFound, Outcome: OutcomeNotFound}
		}
		log.Printf("❌ Suppression produit %s échouée : %v", id, err)
		return FormState{Message: MsgDeleteFailed, Outcome: OutcomeFailed}
	}

	log.Printf("🗑️ Produit supprimé : %s", id)
	return FormState{Success: true, Message: MsgDeleted, ProductID: id, Outcome: OutcomeOK}
}

func (s *ProductService) Get(ctx context.Context, id string) (models.ProductView, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.ProductView{}, err
	}
	return p.View(), nil
}

func (s *ProductService) List(ctx context.Context) ([]models.ProductView, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.Views(products), nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category models.Category) ([]models.ProductView, error) {
	products, err := s.store.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return models.Views(products), nil
}

func invalidState(res validation.Result) FormState {
	raw := res.Raw
	return FormState{
		Message: MsgInvalidInput,
		Inputs:  &raw,
		Errors:  res.Errors,
		Outcome: OutcomeInvalid,
	}
}

func imageState(raw forms.RawProduct, err error) FormState {
	switch {
	case errors.Is(err, ErrImageType):
		return FormState{
			Message: MsgInvalidInput,
			Inputs:  &raw,
			Errors:  validation.FieldErrors{forms.FieldImage: {MsgImageType}},
			Outcome: OutcomeInvalid,
		}
	case errors.Is(err, ErrImageTooLarge):
		return FormState{
			Message: MsgInvalidInput,
			Inputs:  &raw,
			Errors:  validation.FieldErrors{forms.FieldImage: {MsgImageTooLarge}},
			Outcome: OutcomeInvalid,
		}
	}
	log.Printf("❌ Upload image échoué : %v", err)
	return FormState{
		Message: MsgUploadFailed,
		Inputs:  &raw,
		Errors:  validation.FieldErrors{forms.FieldImage: {MsgUploadFailed}},
		Outcome: OutcomeFailed,
	}
}

func failedState(raw forms.RawProduct, message string) FormState {
	return FormState{Message: message, Inputs: &raw, Outcome: OutcomeFailed}
}
