package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// CatalogUseCase tipos de carga, tipos de servicio y equipos del tenant.
type CatalogUseCase struct {
	items repository.CatalogRepository
	pages Pagination
	clock clock
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(items repository.CatalogRepository, pages Pagination) *CatalogUseCase {
	return &CatalogUseCase{items: items, pages: pages}
}

func catalogKind(kind string) (entity.CatalogKind, error) {
	k := entity.CatalogKind(strings.ToLower(kind))
	if !k.Valid() {
		return "", fmt.Errorf("catálogo %q: %w", kind, domain.ErrNotFound)
	}
	return k, nil
}

// Create agrega una entrada al catálogo. Código único por catálogo y tenant.
func (uc *CatalogUseCase) Create(ctx context.Context, tenantID, kind string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	k, err := catalogKind(kind)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if !entity.ValidCode(code) {
		return nil, invalid("code %q debe contener solo letras, números, guion o guion bajo", in.Code)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name es obligatorio")
	}
	now := uc.clock.now()
	it := &entity.CatalogItem{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Kind:      k,
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.items.Create(ctx, it); err != nil {
		return nil, fail(ctx, "crear "+string(k), err)
	}
	resp := toCatalogItemResponse(it)
	return &resp, nil
}

// List lista un catálogo del tenant.
func (uc *CatalogUseCase) List(ctx context.Context, tenantID, kind string, q dto.ListQuery) (*dto.ListResponse[dto.CatalogItemResponse], error) {
	k, err := catalogKind(kind)
	if err != nil {
		return nil, err
	}
	params, err := uc.pages.Params(q)
	if err != nil {
		return nil, err
	}
	page, err := uc.items.List(ctx, tenantID, k, repository.CatalogFilter{ListParams: params, Active: q.Activo})
	if err != nil {
		return nil, fail(ctx, "listar "+string(k), err)
	}
	return listResponse(page, params, toCatalogItemResponse), nil
}
