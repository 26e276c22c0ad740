package controller

import (
	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/pkg/serverutils"
	"rag-filesearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	APIInfo(ctx *fiber.Ctx) error
	UpdateAPIKey(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
	authEnabled  bool
}

func NewAdminController(adminService service.IAdminService, authEnabled bool) IAdminController {
	return &adminController{
		adminService: adminService,
		authEnabled:  authEnabled,
	}
}

// RegisterRoutes wires the credential surface. The api-info and
// update-api-key routes expose and rewrite the raw API key, so they sit
// behind the JWT gate unless ADMIN_AUTH_ENABLED is switched off for local
// demos.
func (c *adminController) RegisterRoutes(r fiber.Router) {
	r.Post("/admin/login", c.Login)

	if c.authEnabled {
		r.Get("/api-info", serverutils.JwtMiddleware, c.APIInfo)
		r.Post("/update-api-key", serverutils.JwtMiddleware, c.UpdateAPIKey)
		return
	}
	r.Get("/api-info", c.APIInfo)
	r.Post("/update-api-key", c.UpdateAPIKey)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validationf("No password provided")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.Login(&req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *adminController) APIInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(c.adminService.APIInfo())
}

func (c *adminController) UpdateAPIKey(ctx *fiber.Ctx) error {
	var req dto.UpdateAPIKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validationf("API key cannot be empty")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.UpdateAPIKey(&req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("API key updated successfully. Please reload the page."))
}
