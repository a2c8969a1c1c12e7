package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// PartyHandler maneja clientes, transportistas o embarcadores; una instancia por tipo.
type PartyHandler struct {
	uc   *usecase.PartyUseCase
	kind entity.EntityType
}

// NewPartyHandler construye el handler para kind (CLIENTE, TRANSPORTISTA o EMBARCADOR).
func NewPartyHandler(uc *usecase.PartyUseCase, kind entity.EntityType) *PartyHandler {
	return &PartyHandler{uc: uc, kind: kind}
}

// Create godoc
// @Summary      Crear cliente, transportista o embarcador
// @Description  Reutiliza la entidad existente con el mismo RUT; 409 si ya existe el registro especializado.
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePartyRequest  true  "Datos (exactamente uno de person u organization)"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
// @Router       /api/carriers [post]
// @Router       /api/shippers [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), h.kind, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes, transportistas o embarcadores
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Nombre, razón social, RUT, contacto o email"
// @Param        activo  query     bool    false  "Filtrar por activo"
// @Success      200     {object}  dto.ListResponse[dto.PartyResponse]
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/clients [get]
// @Router       /api/carriers [get]
// @Router       /api/shippers [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), h.kind, lq)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener por ID
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  dto.PartyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
// @Router       /api/carriers/{id} [get]
// @Router       /api/shippers/{id} [get]
func (h *PartyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetTenantID(c), h.kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByTaxID godoc
// @Summary      Obtener por RUT
// @Description  Acepta el RUT con o sin puntos.
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        rut  path      string  true  "RUT"
// @Success      200  {object}  dto.PartyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/tax-id/{rut} [get]
// @Router       /api/carriers/tax-id/{rut} [get]
// @Router       /api/shippers/tax-id/{rut} [get]
func (h *PartyHandler) GetByTaxID(c *fiber.Ctx) error {
	out, err := h.uc.GetByTaxID(c.UserContext(), GetTenantID(c), h.kind, c.Params("rut"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar
// @Description  Actualiza la entidad y el registro especializado en una transacción. El RUT no cambia.
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID"
// @Param        body  body      dto.UpdatePartyRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
// @Router       /api/carriers/{id} [put]
// @Router       /api/shippers/{id} [put]
func (h *PartyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), h.kind, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar
// @Tags         parties
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
// @Router       /api/carriers/{id} [delete]
// @Router       /api/shippers/{id} [delete]
func (h *PartyHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetTenantID(c), h.kind, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivar
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  dto.PartyResponse
// @Router       /api/clients/{id}/activate [post]
// @Router       /api/carriers/{id}/activate [post]
// @Router       /api/shippers/{id}/activate [post]
func (h *PartyHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.UserContext(), GetTenantID(c), h.kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EntityHandler maneja entidades sueltas (remitentes, destinatarios).
type EntityHandler struct {
	uc *usecase.PartyUseCase
}

// NewEntityHandler construye el handler.
func NewEntityHandler(uc *usecase.PartyUseCase) *EntityHandler {
	return &EntityHandler{uc: uc}
}

// Create godoc
// @Summary      Crear entidad
// @Description  Si ya existe una entidad con el RUT en el tenant, se reutiliza.
// @Tags         entities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateEntityRequest  true  "Datos de la entidad"
// @Success      201   {object}  dto.EntityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/entities [post]
func (h *EntityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEntityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateEntity(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar entidades
// @Tags         entities
// @Security     Bearer
// @Produce      json
// @Param        page    query     int     false  "Página"  default(1)
// @Param        limit   query     int     false  "Límite"  default(10)
// @Param        search  query     string  false  "Texto libre"
// @Param        activo  query     bool    false  "Filtrar por activo"
// @Param        type    query     string  false  "Tipo de entidad"
// @Success      200     {object}  dto.ListResponse[dto.EntityResponse]
// @Router       /api/entities [get]
func (h *EntityHandler) List(c *fiber.Ctx) error {
	lq, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListEntities(c.UserContext(), GetTenantID(c), dto.EntityListQuery{ListQuery: lq, Type: c.Query("type")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entidad
// @Tags         entities
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la entidad"
// @Success      200  {object}  dto.EntityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entities/{id} [get]
func (h *EntityHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetEntity(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
