package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventportals/internal/domain"
)

type vendorService struct {
	vendorRepo domain.VendorRepository
	eventRepo  domain.EventRepository
}

// NewVendorService creates the vendor-portal service.
func NewVendorService(vendorRepo domain.VendorRepository, eventRepo domain.EventRepository) domain.VendorService {
	return &vendorService{
		vendorRepo: vendorRepo,
		eventRepo:  eventRepo,
	}
}

func (s *vendorService) ClaimBooth(ctx context.Context, eventID, vendorID, name, location string) (*domain.Booth, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: booth name is required", domain.ErrInvalidInput)
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := time.Now()
	booth := &domain.Booth{
		EventID:   eventID,
		VendorID:  vendorID,
		Name:      name,
		Location:  strings.TrimSpace(location),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.vendorRepo.CreateBooth(ctx, booth); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: vendor already has a booth at this event", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("create booth: %w", err)
	}
	return booth, nil
}

func (s *vendorService) MyBooth(ctx context.Context, eventID, vendorID string) (*domain.Booth, error) {
	booth, err := s.vendorRepo.GetBoothByEventAndVendor(ctx, eventID, vendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booth: %w", err)
	}
	return booth, nil
}

// ownedBooth loads a booth and verifies the caller owns it.
func (s *vendorService) ownedBooth(ctx context.Context, boothID, vendorID string) (*domain.Booth, error) {
	booth, err := s.vendorRepo.GetBoothByID(ctx, boothID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booth: %w", err)
	}
	if booth.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	return booth, nil
}

func (s *vendorService) AddProduct(ctx context.Context, boothID, vendorID, name string, priceCents, stock int) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}

	if _, err := s.ownedBooth(ctx, boothID, vendorID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		BoothID:    boothID,
		Name:       name,
		PriceCents: priceCents,
		Stock:      stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.vendorRepo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *vendorService) ListProducts(ctx context.Context, boothID, vendorID string) ([]*domain.Product, error) {
	if _, err := s.ownedBooth(ctx, boothID, vendorID); err != nil {
		return nil, err
	}
	products, err := s.vendorRepo.ListProductsByBoothID(ctx, boothID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

func (s *vendorService) RecordSale(ctx context.Context, boothID, vendorID, productID string, quantity int) (*domain.Sale, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrInvalidInput)
	}

	if _, err := s.ownedBooth(ctx, boothID, vendorID); err != nil {
		return nil, err
	}

	product, err := s.vendorRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product.BoothID != boothID {
		return nil, fmt.Errorf("%w: product does not belong to booth", domain.ErrInvalidInput)
	}

	sale := &domain.Sale{
		BoothID:    boothID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalCents: product.PriceCents * quantity,
		CreatedAt:  time.Now(),
	}
	if err := s.vendorRepo.RecordSale(ctx, sale); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("record sale: %w", err)
	}
	return sale, nil
}

func (s *vendorService) ListSales(ctx context.Context, boothID, vendorID string) ([]*domain.Sale, error) {
	if _, err := s.ownedBooth(ctx, boothID, vendorID); err != nil {
		return nil, err
	}
	sales, err := s.vendorRepo.ListSalesByBoothID(ctx, boothID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	return sales, nil
}

func (s *vendorService) SalesSummary(ctx context.Context, boothID, vendorID string) (*domain.SalesSummary, error) {
	if _, err := s.ownedBooth(ctx, boothID, vendorID); err != nil {
		return nil, err
	}
	summary, err := s.vendorRepo.SalesSummaryByBoothID(ctx, boothID)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return summary, nil
}
