package controller

import (
	"encoding/json"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/serverutils"
	"rag-filesearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStoreController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Files(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
	StoreInfo(ctx *fiber.Ctx) error
	Stores(ctx *fiber.Ctx) error
	DeleteStore(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type storeController struct {
	uploadService service.IUploadService
	storeService  service.IStoreService
}

func NewStoreController(uploadService service.IUploadService, storeService service.IStoreService) IStoreController {
	return &storeController{
		uploadService: uploadService,
		storeService:  storeService,
	}
}

func (c *storeController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload", c.Upload)
	r.Get("/files", c.Files)
	r.Delete("/delete-file/:index", c.DeleteFile)
	r.Get("/store-info", c.StoreInfo)
	r.Get("/stores", c.Stores)
	r.Delete("/delete-store", c.DeleteStore)
	r.Get("/status", c.Status)
}

func (c *storeController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperr.Validationf("No file provided")
	}
	if fileHeader.Filename == "" {
		return apperr.Validationf("No file selected")
	}

	// Decide the string-vs-number tag of every metadata value here, at
	// parse time.
	metadata := entity.Metadata{}
	if raw := ctx.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			return apperr.Validationf("Invalid metadata: %v", err)
		}
	}

	var chunking *dto.ChunkingConfigRequest
	if raw := ctx.FormValue("chunking_config"); raw != "" {
		var parsed dto.ChunkingConfigRequest
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return apperr.Validationf("Invalid chunking_config: %v", err)
		}
		chunking = &parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.Validationf("No file provided")
	}
	defer file.Close()

	res, err := c.uploadService.Upload(ctx.Context(), &dto.UploadRequest{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
		Metadata: metadata,
		Chunking: chunking,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *storeController) Files(ctx *fiber.Ctx) error {
	return ctx.JSON(c.storeService.Files())
}

func (c *storeController) DeleteFile(ctx *fiber.Ctx) error {
	index, err := ctx.ParamsInt("index")
	if err != nil {
		return apperr.Validationf("Invalid file index")
	}

	res, err := c.storeService.DeleteFile(ctx.Context(), index)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *storeController) StoreInfo(ctx *fiber.Ctx) error {
	res, err := c.storeService.StoreInfo(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *storeController) Stores(ctx *fiber.Ctx) error {
	res, err := c.storeService.Stores(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *storeController) DeleteStore(ctx *fiber.Ctx) error {
	if err := c.storeService.DeleteStore(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("File search store deleted successfully"))
}

func (c *storeController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(c.storeService.Status())
}
