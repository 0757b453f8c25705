package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/internal/cache"
	"storefront/internal/images"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	listCacheTTL = 2 * time.Minute
	getCacheTTL  = 5 * time.Minute
)

// ProductStore is what the handler needs from the repository layer.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindPage(ctx context.Context, q repository.ListQuery) ([]models.Product, int64, error)
	Update(ctx context.Context, id string, update bson.M) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
}

type ProductHandler struct {
	store  ProductStore
	images *images.Ingestor
	cache  *cache.Cache
	logger *slog.Logger
}

func NewProductHandler(store ProductStore, ingestor *images.Ingestor, c *cache.Cache, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		store:  store,
		images: ingestor,
		cache:  c,
		logger: logger,
	}
}

// GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	q := repository.ListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 || q.Limit > maxLimit {
		q.Limit = defaultLimit
	}

	cacheKey := fmt.Sprintf("products:list:q:%s_cat:%s_sort:%s_p%d_l%d",
		q.Search, q.Category, q.Sort, q.Page, q.Limit)

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := h.store.FindPage(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("product listing failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "query failed"})
		return
	}

	meta := repository.NewPageMeta(total, q.Page, q.Limit)
	response := models.ProductList{
		Products:      products,
		TotalPages:    meta.TotalPages,
		CurrentPage:   meta.CurrentPage,
		TotalProducts: meta.TotalProducts,
		HasNext:       meta.HasNext,
		HasPrev:       meta.HasPrev,
	}

	h.cache.Set(cacheKey, response, listCacheTTL)
	c.JSON(http.StatusOK, response)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := "product:" + productID

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.store.FindByID(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err, "failed to get product")
		return
	}

	h.cache.Set(cacheKey, product, getCacheTTL)
	c.JSON(http.StatusOK, product)
}

type productForm struct {
	Name     string
	Price    *float64
	Category string
	ImageURL string
	File     *multipart.FileHeader
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	form, err := h.bindProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "product name is required"})
		return
	case len(name) > 100:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "product name cannot exceed 100 characters"})
		return
	case form.Price == nil:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "product price is required"})
		return
	case *form.Price < 0:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "price cannot be negative"})
		return
	case !models.ValidCategory(form.Category):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("%q is not a valid category", form.Category)})
		return
	}

	image, err := h.images.Resolve(c.Request.Context(), form.File, form.ImageURL)
	if err != nil {
		h.logger.Error("image upload failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store image"})
		return
	}

	product := models.Product{
		Name:     name,
		Price:    *form.Price,
		Category: form.Category,
		Image:    image,
	}

	if err := h.store.Create(c.Request.Context(), &product); err != nil {
		h.logger.Error("product create failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create product"})
		return
	}

	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusCreated, product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	previous, err := h.store.FindByID(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err, "failed to update product")
		return
	}

	form, err := h.bindProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	update := bson.M{}
	if form.Name != "" {
		name := strings.TrimSpace(form.Name)
		if name == "" || len(name) > 100 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "product name must be 1-100 characters"})
			return
		}
		update["name"] = name
	}
	if form.Price != nil {
		if *form.Price < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "price cannot be negative"})
			return
		}
		update["price"] = *form.Price
	}
	if form.Category != "" {
		if !models.ValidCategory(form.Category) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("%q is not a valid category", form.Category)})
			return
		}
		update["category"] = form.Category
	}

	if form.File != nil || form.ImageURL != "" {
		image, err := h.images.Resolve(c.Request.Context(), form.File, form.ImageURL)
		if err != nil {
			h.logger.Error("image upload failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store image"})
			return
		}
		update["image"] = image
	}

	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no valid fields to update"})
		return
	}

	product, err := h.store.Update(c.Request.Context(), productID, update)
	if err != nil {
		h.respondError(c, err, "failed to update product")
		return
	}

	// The replaced asset is orphaned now; removal is best-effort.
	if newImage, ok := update["image"].(string); ok && newImage != previous.Image {
		h.images.Cleanup(previous.Image)
	}

	h.cache.Delete("product:" + productID)
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.store.Delete(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err, "failed to delete product")
		return
	}

	h.images.Cleanup(product.Image)

	h.cache.Delete("product:" + productID)
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, models.MessageResponse{Message: "product deleted successfully"})
}

// bindProductForm accepts either a JSON body or a multipart form with
// an optional image file.
func (h *ProductHandler) bindProductForm(c *gin.Context) (*productForm, error) {
	form := &productForm{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form.Name = c.PostForm("name")
		form.Category = c.PostForm("category")
		form.ImageURL = c.PostForm("image")

		if raw := c.PostForm("price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.New("invalid price")
			}
			form.Price = &price
		}

		if file, err := c.FormFile("image_file"); err == nil {
			form.File = file
		}
		return form, nil
	}

	var body struct {
		Name     string   `json:"name"`
		Price    *float64 `json:"price"`
		Category string   `json:"category"`
		Image    string   `json:"image"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, errors.New("invalid request body")
	}
	form.Name = body.Name
	form.Price = body.Price
	form.Category = body.Category
	form.ImageURL = body.Image
	return form, nil
}

func (h *ProductHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product ID"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "product not found"})
	default:
		h.logger.Error(fallback, slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}
