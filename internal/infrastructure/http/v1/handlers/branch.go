package handlers

import (
	"github.com/gin-gonic/gin"

	"rxledger/internal/domain/catalogs/branch"
	"rxledger/internal/infrastructure/http/v1/dto"
)

// BranchHandler serves branch catalog endpoints.
type BranchHandler struct {
	*BaseHandler
	repo branch.Repository
}

// NewBranchHandler creates a branch handler.
func NewBranchHandler(base *BaseHandler, repo branch.Repository) *BranchHandler {
	return &BranchHandler{BaseHandler: base, repo: repo}
}

// Create registers a pharmacy location. Admin only.
// POST /branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	if err := b.Validate(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, dto.FromBranch(b))
}

// Get retrieves a branch.
// GET /branches/:branchId
func (h *BranchHandler) Get(c *gin.Context) {
	b, err := h.repo.GetByID(c.Request.Context(), h.BranchID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBranch(b))
}

// List retrieves all branches.
// GET /branches
func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		items = append(items, dto.FromBranch(b))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
	})
}
