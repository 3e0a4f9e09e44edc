package controllers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/umt-lostfound/api-go/models"
	"github.com/umt-lostfound/api-go/services"
	"github.com/umt-lostfound/api-go/utils"
	"gorm.io/gorm"
)

type ItemController struct {
	DB     *gorm.DB
	Policy services.FlagPolicy
}

type CreateItemRequest struct {
	Type        string   `json:"type" binding:"required,oneof=lost found"`
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description string   `json:"description" binding:"required,min=10,max=2000"`
	Category    string   `json:"category" binding:"required,oneof=electronics bags jewelry clothing personal books sports other"`
	Location    string   `json:"location" binding:"required,min=2,max=100"`
	Images      []string `json:"images"`
	Reward      int      `json:"reward" binding:"gte=0"`
	Urgency     string   `json:"urgency" binding:"omitempty,oneof=low medium high"`
	DateLost    *string  `json:"date_lost"`
}

type UpdateItemRequest struct {
	Title       string   `json:"title" binding:"omitempty,min=3,max=200"`
	Description string   `json:"description" binding:"omitempty,min=10,max=2000"`
	Category    string   `json:"category" binding:"omitempty,oneof=electronics bags jewelry clothing personal books sports other"`
	Location    string   `json:"location" binding:"omitempty,min=2,max=100"`
	Images      []string `json:"images"`
	Reward      *int     `json:"reward" binding:"omitempty,gte=0"`
	Urgency     string   `json:"urgency" binding:"omitempty,oneof=low medium high"`
}

func NewItemController(db *gorm.DB, policy services.FlagPolicy) *ItemController {
	return &ItemController{DB: db, Policy: policy}
}

// CreateItem godoc
// @Summary Post a lost or found item
// @Description Creates an item, running the auto-flag rules against the submitter's recent history
// @Tags items
// @Accept json
// @Produce json
// @Param item body CreateItemRequest true "Item creation request"
// @Success 201 {object} models.Item
// @Router /items [post]
func (ic *ItemController) CreateItem(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	var dateLost *time.Time
	if req.DateLost != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateLost)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_lost must be YYYY-MM-DD"})
			return
		}
		dateLost = &parsed
	}

	now := time.Now()

	// Recent posting history feeds the repeat-submission rule.
	var history []services.Submission
	err := ic.DB.Model(&models.Item{}).
		Select("reward, created_at").
		Where("user_id = ? AND created_at > ?", user.UserID, now.Add(-ic.Policy.RepeatWindow)).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posting history"})
		return
	}

	decision := services.EvaluateNewItem(services.ItemDraft{
		Type:   req.Type,
		Title:  req.Title,
		Reward: req.Reward,
	}, history, now, ic.Policy)

	item := models.Item{
		UserID:             user.UserID,
		Type:               req.Type,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Location:           req.Location,
		Images:             req.Images,
		Reward:             req.Reward,
		Urgency:            urgency,
		DateLost:           dateLost,
		Status:             models.ItemStatusActive,
		ModerationStatus:   decision.ModerationStatus,
		Flagged:            decision.Flagged,
		FlagReason:         decision.Reason,
		VerificationStatus: models.VerificationUnverified,
	}

	if err := ic.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItems godoc
// @Summary Browse active items
// @Description Returns paginated active items with field filters
// @Tags items
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /items [get]
func (ic *ItemController) GetItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 12
	}

	query := ic.DB.Model(&models.Item{}).Where("status = ?", models.ItemStatusActive)

	if itemType := c.Query("type"); itemType != "" {
		query = query.Where("type = ?", itemType)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if urgency := c.Query("urgency"); urgency != "" {
		query = query.Where("urgency = ?", urgency)
	}
	if hasReward := c.Query("has_reward"); hasReward != "" {
		if hasReward == "true" {
			query = query.Where("reward > 0")
		} else {
			query = query.Where("reward = 0")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching items"})
		return
	}

	var items []models.Item
	offset := (page - 1) * perPage
	err := query.Preload("User").Order("created_at DESC").Offset(offset).Limit(perPage).Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"pagination": PaginationMeta{
			CurrentPage: page,
			PageSize:    perPage,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
		},
	})
}

// GetItem godoc
// @Summary Get a single item
// @Description Returns one item and increments its view counter
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} models.Item
// @Router /items/{id} [get]
func (ic *ItemController) GetItem(c *gin.Context) {
	itemID := c.Param("id")

	var item models.Item
	if err := ic.DB.Preload("User").First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	ic.DB.Model(&item).UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	item.ViewCount++

	c.JSON(http.StatusOK, item)
}

// UpdateItem godoc
// @Summary Update an item
// @Description Owners may edit content fields while moderation is still pending
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body UpdateItemRequest true "Item update request"
// @Success 200 {object} models.Item
// @Router /items/{id} [put]
func (ic *ItemController) UpdateItem(c *gin.Context) {
	user := utils.GetUser(c)
	itemID := c.Param("id")

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if item.UserID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own items"})
		return
	}
	if item.ModerationStatus != models.ModerationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Item can no longer be edited after moderation has started"})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if len(req.Images) > 0 {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Reward != nil {
		updates["reward"] = *req.Reward
	}
	if req.Urgency != "" {
		updates["urgency"] = req.Urgency
	}
	updates["updated_at"] = time.Now()

	if err := ic.DB.Model(&item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetDashboard godoc
// @Summary User dashboard
// @Description Returns the caller's posting stats, recent items and incoming claims
// @Tags items
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard [get]
func (ic *ItemController) GetDashboard(c *gin.Context) {
	user := utils.GetUser(c)

	var userItems []models.Item
	err := ic.DB.Where("user_id = ?", user.UserID).Order("created_at DESC").Find(&userItems).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard data"})
		return
	}

	totalItems := len(userItems)
	recovered := 0
	helpingOthers := 0
	for _, item := range userItems {
		if item.Status == models.ItemStatusResolved {
			recovered++
		}
		if item.Type == models.ItemTypeFound {
			helpingOthers++
		}
	}
	successRate := 0.0
	if totalItems > 0 {
		successRate = math.Round(float64(recovered)/float64(totalItems)*1000) / 10
	}

	recentItems := userItems
	if len(recentItems) > 5 {
		recentItems = recentItems[:5]
	}

	var incomingClaims []models.Claim
	err = ic.DB.
		Joins("JOIN items ON items.id = claims.item_id").
		Where("items.user_id = ?", user.UserID).
		Preload("Item").Preload("Claimer").
		Order("claims.created_at DESC").
		Find(&incomingClaims).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_items_posted": totalItems,
			"items_recovered":    recovered,
			"helping_others":     helpingOthers,
			"success_rate":       successRate,
		},
		"recent_items":   recentItems,
		"claim_requests": incomingClaims,
	})
}
