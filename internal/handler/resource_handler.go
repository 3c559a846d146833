package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/models"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/utils"
)

// ResourceHandler serves the small back-office reference resources used for
// queue assignment: printers, materials, and the active staff list.
type ResourceHandler struct {
	printerRepo  *repository.PrinterRepository
	materialRepo *repository.MaterialRepository
	adminRepo    *repository.AdminUserRepository
}

// NewResourceHandler constructs a ResourceHandler.
func NewResourceHandler(printerRepo *repository.PrinterRepository, materialRepo *repository.MaterialRepository, adminRepo *repository.AdminUserRepository) *ResourceHandler {
	return &ResourceHandler{printerRepo: printerRepo, materialRepo: materialRepo, adminRepo: adminRepo}
}

// GetPrinters returns all printers.
func (h *ResourceHandler) GetPrinters(c *gin.Context) {
	printers, err := h.printerRepo.List()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get printers")
		return
	}
	utils.Success(c, 200, "Printers retrieved successfully", gin.H{"printers": printers})
}

type printerRequest struct {
	Name        string `json:"name" binding:"required"`
	Model       string `json:"model" binding:"required"`
	BuildVolume string `json:"buildVolume"`
	IsActive    *bool  `json:"isActive"`
}

// CreatePrinter registers a printer.
func (h *ResourceHandler) CreatePrinter(c *gin.Context) {
	var req printerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	p := &models.Printer{Name: req.Name, Model: req.Model, BuildVolume: req.BuildVolume, IsActive: true}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.printerRepo.Create(p); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create printer")
		return
	}
	utils.Success(c, 201, "Printer created", p)
}

// UpdatePrinter updates a printer.
func (h *ResourceHandler) UpdatePrinter(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req printerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	p := &models.Printer{ID: id, Name: req.Name, Model: req.Model, BuildVolume: req.BuildVolume, IsActive: true}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.printerRepo.Update(p); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update printer")
		return
	}
	utils.Success(c, 200, "Printer updated", p)
}

// GetMaterials returns all materials.
func (h *ResourceHandler) GetMaterials(c *gin.Context) {
	materials, err := h.materialRepo.List()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get materials")
		return
	}
	utils.Success(c, 200, "Materials retrieved successfully", gin.H{"materials": materials})
}

type materialRequest struct {
	Name       string `json:"name" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
	Color      string `json:"color"`
	StockGrams int    `json:"stockGrams"`
	IsActive   *bool  `json:"isActive"`
}

// CreateMaterial registers a material.
func (h *ResourceHandler) CreateMaterial(c *gin.Context) {
	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	m := &models.Material{Name: req.Name, Kind: req.Kind, Color: req.Color, StockGrams: req.StockGrams, IsActive: true}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.materialRepo.Create(m); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create material")
		return
	}
	utils.Success(c, 201, "Material created", m)
}

// UpdateMaterial updates a material.
func (h *ResourceHandler) UpdateMaterial(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	m := &models.Material{ID: id, Name: req.Name, Kind: req.Kind, Color: req.Color, StockGrams: req.StockGrams, IsActive: true}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.materialRepo.Update(m); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update material")
		return
	}
	utils.Success(c, 200, "Material updated", m)
}

// GetStaff returns active admin users for queue assignment.
func (h *ResourceHandler) GetStaff(c *gin.Context) {
	staff, err := h.adminRepo.ListActive()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get staff")
		return
	}
	utils.Success(c, 200, "Staff retrieved successfully", gin.H{"staff": staff})
}
