package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/models"
	"github.com/umt-lostfound/api-go/services"
	"github.com/umt-lostfound/api-go/utils"
	"gorm.io/gorm"
)

type ClaimController struct {
	DB     *gorm.DB
	Claims *services.ClaimService
}

type CreateClaimRequest struct {
	ItemID   uint     `json:"item_id" binding:"required"`
	Message  string   `json:"message" binding:"required,min=10,max=1000"`
	Evidence []string `json:"evidence"`
}

type ResolveClaimRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Notes  string `json:"notes"`
}

func NewClaimController(db *gorm.DB) *ClaimController {
	return &ClaimController{DB: db, Claims: services.NewClaimService(db)}
}

// CreateClaim godoc
// @Summary File a claim against an item
// @Description Creates a pending claim; a second competing claim opens a dispute
// @Tags claims
// @Accept json
// @Produce json
// @Param claim body CreateClaimRequest true "Claim creation request"
// @Success 201 {object} models.Claim
// @Router /claims [post]
func (cc *ClaimController) CreateClaim(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := cc.Claims.SubmitClaim(req.ItemID, user.UserID, req.Message, req.Evidence)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// GetMyClaims godoc
// @Summary List the caller's claims
// @Tags claims
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /claims [get]
func (cc *ClaimController) GetMyClaims(c *gin.Context) {
	user := utils.GetUser(c)

	query := cc.DB.Where("claimer_id = ?", user.UserID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var claims []models.Claim
	if err := query.Preload("Item").Order("created_at DESC").Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// ResolveClaim godoc
// @Summary Approve or reject a claim
// @Description The item owner (or an admin) decides a pending claim; approval auto-rejects competitors
// @Tags claims
// @Accept json
// @Produce json
// @Param id path string true "Claim ID"
// @Param decision body ResolveClaimRequest true "Decision"
// @Success 200 {object} services.ClaimResolution
// @Router /claims/{id} [put]
func (cc *ClaimController) ResolveClaim(c *gin.Context) {
	user := utils.GetUser(c)
	claimID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	var req ResolveClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := cc.Claims.ResolveClaim(uint(claimID), req.Status, user.UserID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
