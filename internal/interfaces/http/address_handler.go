package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
)

// AddressHandler maneja direcciones del tenant y el catálogo global de comunas.
type AddressHandler struct {
	uc *usecase.AddressUseCase
}

// NewAddressHandler construye el handler.
func NewAddressHandler(uc *usecase.AddressUseCase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

// Create godoc
// @Summary      Crear dirección
// @Tags         addresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAddressRequest  true  "Datos de la dirección"
// @Success      201   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAddressRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar direcciones
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Param        page       query     int     false  "Página"  default(1)
// @Param        limit      query     int     false  "Límite"  default(10)
// @Param        search     query     string  false  "Texto de la dirección"
// @Param        activo     query     bool    false  "Filtrar por activo"
// @Param        comuna_id  query     int     false  "Comuna"
// @Param        origin     query     string  false  "MANUAL, GEOCODIFICADA o REUTILIZADA"
// @Success      200        {object}  dto.ListResponse[dto.AddressResponse]
// @Router       /api/addresses [get]
func (h *AddressHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	comunaID, err := queryInt(c, "comuna_id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), dto.AddressListQuery{
		ListQuery: lq,
		ComunaID:  comunaID,
		Origin:    c.Query("origin"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener dirección
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la dirección"
// @Success      200  {object}  dto.AddressResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/addresses/{id} [get]
func (h *AddressHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar dirección
// @Tags         addresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID de la dirección"
// @Param        body  body      dto.UpdateAddressRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.AddressResponse
// @Router       /api/addresses/{id} [put]
func (h *AddressHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAddressRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar dirección
// @Tags         addresses
// @Security     Bearer
// @Param        id   path  string  true  "ID de la dirección"
// @Success      204
// @Router       /api/addresses/{id} [delete]
func (h *AddressHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivar dirección
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la dirección"
// @Success      200  {object}  dto.AddressResponse
// @Router       /api/addresses/{id}/activate [post]
func (h *AddressHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListComunas godoc
// @Summary      Catálogo de comunas
// @Tags         comunas
// @Security     Bearer
// @Produce      json
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Nombre de la comuna"
// @Param        region  query     string  false  "Código de región"
// @Success      200     {object}  dto.ListResponse[dto.ComunaResponse]
// @Router       /api/comunas [get]
func (h *AddressHandler) ListComunas(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListComunas(c.UserContext(), dto.ComunaListQuery{ListQuery: lq, RegionCode: c.Query("region")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CatalogHandler maneja los catálogos del tenant (tipos de carga, de servicio, equipos).
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create godoc
// @Summary      Crear entrada de catálogo
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path      string                        true  "Catálogo"
// @Param        body  body      dto.CreateCatalogItemRequest  true  "Código y nombre"
// @Success      201   {object}  dto.CatalogItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalogs/{kind} [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), c.Params("kind"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar catálogo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        kind    path      string  true   "Catálogo"
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Código o nombre"
// @Param        activo  query     bool    false  "Filtrar por activo"
// @Success      200     {object}  dto.ListResponse[dto.CatalogItemResponse]
// @Router       /api/catalogs/{kind} [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), c.Params("kind"), lq)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
