package dto

import (
	"time"

	"rxledger/internal/domain/catalogs/branch"
)

// CreateBranchRequest for registering a pharmacy location.
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required"`
	GSTIN   string `json:"gstin"`
	State   string `json:"state"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// ToEntity converts the request to a branch.
func (r *CreateBranchRequest) ToEntity() *branch.Branch {
	b := branch.New(r.Name, r.Code)
	b.GSTIN = r.GSTIN
	b.State = r.State
	b.Address = r.Address
	b.Phone = r.Phone
	return b
}

// BranchResponse is a full branch representation.
type BranchResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	GSTIN    string `json:"gstin,omitempty"`
	State    string `json:"state,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromBranch maps a branch to its response.
func FromBranch(b *branch.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Code:      b.Code,
		GSTIN:     b.GSTIN,
		State:     b.State,
		Address:   b.Address,
		Phone:     b.Phone,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}
