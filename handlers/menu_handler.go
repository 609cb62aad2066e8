package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cafebackend/apperr"
	"cafebackend/models"
	"cafebackend/service"
	"cafebackend/storage"
	"cafebackend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const ImageField = "gambar"

type MenuUseCase interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Recent(ctx context.Context, limit int) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	Create(ctx context.Context, in service.MenuInput) (*models.MenuItem, error)
	Update(ctx context.Context, id uint, in service.MenuInput) (*models.MenuItem, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]models.MenuItem, error)
	ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	Stats(ctx context.Context) (*models.MenuStats, error)
}

// ImageResolver maps a stored image_ref to a loadable URL.
type ImageResolver interface {
	Resolve(ref *string) string
}

type MenuHandler struct {
	menus      MenuUseCase
	images     ImageResolver
	production bool
}

func NewMenuHandler(menus MenuUseCase, images ImageResolver, production bool) *MenuHandler {
	return &MenuHandler{menus: menus, images: images, production: production}
}

type menuResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageRef    *string         `json:"image_ref"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (h *MenuHandler) toResponse(m models.MenuItem) menuResponse {
	return menuResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		ImageRef:    m.ImageRef,
		ImageURL:    h.images.Resolve(m.ImageRef),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (h *MenuHandler) toResponses(items []models.MenuItem) []menuResponse {
	out := make([]menuResponse, 0, len(items))
	for _, m := range items {
		out = append(out, h.toResponse(m))
	}
	return out
}

func (h *MenuHandler) list(c *gin.Context, items []models.MenuItem, err error) {
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"data": h.toResponses(items)})
}

func (h *MenuHandler) GetMenu(c *gin.Context) {
	items, err := h.menus.List(c.Request.Context())
	h.list(c, items, err)
}

func (h *MenuHandler) GetRecent(c *gin.Context) {
	items, err := h.menus.Recent(c.Request.Context(), service.DefaultRecentLimit)
	h.list(c, items, err)
}

func (h *MenuHandler) Search(c *gin.Context) {
	items, err := h.menus.Search(c.Request.Context(), c.Query("q"))
	h.list(c, items, err)
}

func (h *MenuHandler) GetByCategory(c *gin.Context) {
	items, err := h.menus.ListByCategory(c.Request.Context(), c.Param("kategori"))
	h.list(c, items, err)
}

func (h *MenuHandler) GetStats(c *gin.Context) {
	stats, err := h.menus.Stats(c.Request.Context())
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"data": stats})
}

func (h *MenuHandler) GetMenuByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	item, err := h.menus.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"data": h.toResponse(*item)})
}

func (h *MenuHandler) CreateMenu(c *gin.Context) {
	in, closeFile, err := bindMenuInput(c)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	defer closeFile()

	item, err := h.menus.Create(c.Request.Context(), in)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{
		"id":      item.ID,
		"message": "menu item created",
		"data":    h.toResponse(*item),
	})
}

func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	in, closeFile, err := bindMenuInput(c)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	defer closeFile()

	item, err := h.menus.Update(c.Request.Context(), id, in)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"message": "menu item updated", "data": h.toResponse(*item)})
}

func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	if err := h.menus.Delete(c.Request.Context(), id); err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"message": "menu item deleted"})
}

type menuJSON struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
}

// bindMenuInput accepts either multipart/form-data (with an optional file in
// the gambar field) or a JSON body. The returned func closes the upload.
func bindMenuInput(c *gin.Context) (service.MenuInput, func(), error) {
	noop := func() {}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		var body menuJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			return service.MenuInput{}, noop, invalidBody(err)
		}
		return service.MenuInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			Category:    body.Category,
		}, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.MenuInput{}, noop, invalidBody(err)
	}
	in := service.MenuInput{
		Name:        formValue(form.Value, "name"),
		Description: formValue(form.Value, "description"),
		Category:    formValue(form.Value, "category"),
	}
	if raw := formValue(form.Value, "price"); raw != nil && strings.TrimSpace(*raw) != "" {
		price, err := decimal.NewFromString(strings.TrimSpace(*raw))
		if err != nil {
			return service.MenuInput{}, noop, fmt.Errorf("%w: price must be a number", apperr.ErrValidation)
		}
		in.Price = &price
	}

	files := form.File[ImageField]
	if len(files) == 0 {
		return in, noop, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, noop, nil
		}
		return service.MenuInput{}, noop, fmt.Errorf("open upload: %w", err)
	}
	in.Image = &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return in, func() { f.Close() }, nil
}

func formValue(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}
