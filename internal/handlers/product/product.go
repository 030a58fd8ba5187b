package product

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"boutique_back_end/internal/forms"
	"boutique_back_end/internal/middleware"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/services"
	"boutique_back_end/internal/store"
)

// maxFormBytes plafonne le corps d'un formulaire, image comprise.
const maxFormBytes = 2 * services.MaxImageSize

type Handler struct {
	products *services.ProductService
}

func NewHandler(products *services.ProductService) *Handler {
	return &Handler{products: products}
}

// =========================
// 🟢 ADMIN : MUTATIONS (formulaires)
// =========================

func (h *Handler) Create(c *gin.Context) {
	values, file, err := readForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable form: " + err.Error()})
		return
	}

	state := h.products.Create(c.Request.Context(), forms.ExtractProduct(values), file)
	if state.ProductID != "" {
		c.Set(middleware.AuditProductKey, state.ProductID)
	}
	c.JSON(statusFor(state, http.StatusCreated), state)
}

func (h *Handler) Update(c *gin.Context) {
	values, file, err := readForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable form: " + err.Error()})
		return
	}

	state := h.products.Update(c.Request.Context(), c.Param("id"), forms.ExtractProduct(values), file, forms.ClearRequested(values))
	c.JSON(statusFor(state, http.StatusOK), state)
}

func (h *Handler) Delete(c *gin.Context) {
	state := h.products.Delete(c.Request.Context(), c.Param("id"))
	c.JSON(statusFor(state, http.StatusOK), state)
}

// =========================
// 🔵 LECTURES
// =========================

func (h *Handler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ Liste produits : %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": services.MsgNotFound})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture produit %s : %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListByCategory(c *gin.Context) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid category. Expected one of: " + models.JoinValues(models.Categories),
		})
		return
	}

	products, err := h.products.ListByCategory(c.Request.Context(), category)
	if err != nil {
		log.Printf("❌ Liste catégorie %s : %v", category, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func statusFor(state services.FormState, okStatus int) int {
	switch state.Outcome {
	case services.OutcomeOK:
		return okStatus
	case services.OutcomeInvalid:
		return http.StatusBadRequest
	case services.OutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// readForm accepte multipart/form-data et application/x-www-form-urlencoded.
// Seul un nom de fichier vide (aucune image choisie) ne compte pas comme un fichier.
func readForm(c *gin.Context) (url.Values, *services.ImageFile, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseForm(); err != nil {
			return nil, nil, err
		}
		return c.Request.PostForm, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	values := url.Values(form.Value)

	headers := form.File[forms.FieldImage]
	if len(headers) == 0 || headers[0].Filename == "" {
		return values, nil, nil
	}
	header := headers[0]

	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	// Au-delà du plafond, inutile de tout lire : la taille annoncée suffit au refus.
	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read image: %w", err)
	}
	return values, &services.ImageFile{Filename: header.Filename, Size: header.Size, Data: data}, nil
}
