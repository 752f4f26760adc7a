package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventportals/internal/delivery/http/helpers"
	"eventportals/internal/delivery/http/middleware"
	"eventportals/internal/domain"
)

// ClaimBoothRequest is the request body for POST /vendor/events/{eventID}/booth.
type ClaimBoothRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Validate implements Validator.
func (c ClaimBoothRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// AddProductRequest is the request body for POST /vendor/booths/{boothID}/products.
type AddProductRequest struct {
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	Stock      int    `json:"stock"`
}

// Validate implements Validator.
func (a AddProductRequest) Validate() []string {
	var errs []string
	if a.Name == "" {
		errs = append(errs, "name is required")
	}
	if a.PriceCents < 0 {
		errs = append(errs, "price_cents must not be negative")
	}
	if a.Stock < 0 {
		errs = append(errs, "stock must not be negative")
	}
	return errs
}

// RecordSaleRequest is the request body for POST /vendor/booths/{boothID}/sales.
type RecordSaleRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate implements Validator.
func (r RecordSaleRequest) Validate() []string {
	var errs []string
	if r.ProductID == "" {
		errs = append(errs, "product_id is required")
	}
	if r.Quantity <= 0 {
		errs = append(errs, "quantity must be a positive integer")
	}
	return errs
}

type VendorController struct {
	Logger  *slog.Logger
	Service domain.VendorService
}

func NewVendorController(logger *slog.Logger, svc domain.VendorService) *VendorController {
	return &VendorController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *VendorController) writeVendorError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInsufficientStock):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "insufficient stock")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ClaimBooth godoc
// @Summary Claim a booth at an event
// @Description Creates the vendor's booth at the event. A vendor can hold at most one booth per event.
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body ClaimBoothRequest true "Booth data"
// @Success 201 {object} helpers.APIResponse "data contains the booth"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (including duplicate booth)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/events/{eventID}/booth [post]
func (c *VendorController) ClaimBooth(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req ClaimBoothRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	booth, err := c.Service.ClaimBooth(r.Context(), eventID, vendorID, req.Name, req.Location)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booth)
}

// MyBooth godoc
// @Summary Get the vendor's booth at an event
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the booth"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/events/{eventID}/booth [get]
func (c *VendorController) MyBooth(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	booth, err := c.Service.MyBooth(r.Context(), eventID, vendorID)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booth)
}

// AddProduct godoc
// @Summary Add a product to the vendor's booth
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param boothID path string true "Booth ID"
// @Param body body AddProductRequest true "Product data"
// @Success 201 {object} helpers.APIResponse "data contains the product"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (booth belongs to another vendor)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/booths/{boothID}/products [post]
func (c *VendorController) AddProduct(w http.ResponseWriter, r *http.Request) {
	boothID := r.PathValue("boothID")
	if boothID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing boothID")
		return
	}
	var req AddProductRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	product, err := c.Service.AddProduct(r.Context(), boothID, vendorID, req.Name, req.PriceCents, req.Stock)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, product)
}

// ListProducts godoc
// @Summary List the booth's products
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param boothID path string true "Booth ID"
// @Success 200 {object} helpers.APIResponse "data contains the products"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/booths/{boothID}/products [get]
func (c *VendorController) ListProducts(w http.ResponseWriter, r *http.Request) {
	boothID := r.PathValue("boothID")
	if boothID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing boothID")
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	products, err := c.Service.ListProducts(r.Context(), boothID, vendorID)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, products)
}

// RecordSale godoc
// @Summary Record a sale at the vendor's booth
// @Description Records a sale of one of the booth's products, atomically decrementing stock. Overselling is refused.
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param boothID path string true "Booth ID"
// @Param body body RecordSaleRequest true "Sale data"
// @Success 201 {object} helpers.APIResponse "data contains the sale"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (insufficient stock)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/booths/{boothID}/sales [post]
func (c *VendorController) RecordSale(w http.ResponseWriter, r *http.Request) {
	boothID := r.PathValue("boothID")
	if boothID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing boothID")
		return
	}
	var req RecordSaleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sale, err := c.Service.RecordSale(r.Context(), boothID, vendorID, req.ProductID, req.Quantity)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sale)
}

// ListSales godoc
// @Summary List the booth's sales
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param boothID path string true "Booth ID"
// @Success 200 {object} helpers.APIResponse "data contains the sales"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/booths/{boothID}/sales [get]
func (c *VendorController) ListSales(w http.ResponseWriter, r *http.Request) {
	boothID := r.PathValue("boothID")
	if boothID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing boothID")
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sales, err := c.Service.ListSales(r.Context(), boothID, vendorID)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sales)
}

// SalesSummary godoc
// @Summary Get the booth's sales summary
// @Description Returns sale count, units sold, and gross total for the booth.
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Param boothID path string true "Booth ID"
// @Success 200 {object} helpers.APIResponse "data contains the summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /vendor/booths/{boothID}/summary [get]
func (c *VendorController) SalesSummary(w http.ResponseWriter, r *http.Request) {
	boothID := r.PathValue("boothID")
	if boothID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing boothID")
		return
	}
	vendorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	summary, err := c.Service.SalesSummary(r.Context(), boothID, vendorID)
	if err != nil {
		c.writeVendorError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
