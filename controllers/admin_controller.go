package controllers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/models"
	"github.com/umt-lostfound/api-go/services"
	"github.com/umt-lostfound/api-go/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB         *gorm.DB
	Moderation *services.ModerationService
	Claims     *services.ClaimService
	Disputes   *services.DisputeService
	Users      *services.UserService
}

type ModerateItemRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject flag archive"`
	Notes  string `json:"notes"`
}

type UpdateClaimRequest struct {
	Status     string `json:"status" binding:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes"`
}

type UpdateDisputeRequest struct {
	Action     string `json:"action" binding:"required,oneof=resolve review escalate close"`
	Resolution string `json:"resolution"`
}

type OpenDisputeRequest struct {
	ItemID uint   `json:"item_id" binding:"required"`
	Type   string `json:"type" binding:"required,oneof=ownership_dispute false_claim multiple_claims verification_issue"`
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user moderator admin"`
}

type BulkActionRequest struct {
	ItemIDs []uint `json:"item_ids" binding:"required,min=1"`
	Action  string `json:"action" binding:"required,oneof=approve reject flag archive"`
	Notes   string `json:"notes"`
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		DB:         db,
		Moderation: services.NewModerationService(db),
		Claims:     services.NewClaimService(db),
		Disputes:   services.NewDisputeService(db),
		Users:      services.NewUserService(db),
	}
}

func listFilterFromQuery(c *gin.Context) services.ListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	filter := services.ListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		PerPage:  perPage,
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			end := parsed.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
	}
	return filter
}

func paginationMeta(filter services.ListFilter, total int64) PaginationMeta {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}
	return PaginationMeta{
		CurrentPage: page,
		PageSize:    perPage,
		TotalItems:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
	}
}

// GetStats godoc
// @Summary Admin dashboard statistics
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/stats [get]
func (ac *AdminController) GetStats(c *gin.Context) {
	var totalUsers, totalItems, activeItems, resolvedItems, pendingClaims, openDisputes int64

	ac.DB.Model(&models.User{}).Count(&totalUsers)
	ac.DB.Model(&models.Item{}).Count(&totalItems)
	ac.DB.Model(&models.Item{}).Where("status = ?", models.ItemStatusActive).Count(&activeItems)
	ac.DB.Model(&models.Item{}).Where("status = ?", models.ItemStatusResolved).Count(&resolvedItems)
	ac.DB.Model(&models.Claim{}).Where("status = ?", models.ClaimStatusPending).Count(&pendingClaims)
	ac.DB.Model(&models.Dispute{}).
		Where("status NOT IN ?", []string{models.DisputeStatusResolved, models.DisputeStatusClosed}).
		Count(&openDisputes)

	successRate := 0.0
	if totalItems > 0 {
		successRate = math.Round(float64(resolvedItems)/float64(totalItems)*1000) / 10
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":    totalUsers,
		"total_items":    totalItems,
		"active_items":   activeItems,
		"resolved_items": resolvedItems,
		"pending_claims": pendingClaims,
		"open_disputes":  openDisputes,
		"success_rate":   successRate,
	})
}

// GetAnalytics godoc
// @Summary Platform analytics over a trailing window
// @Tags admin
// @Produce json
// @Param timeframe query string false "1d, 7d, 30d or 90d"
// @Success 200 {object} map[string]interface{}
// @Router /admin/analytics [get]
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	days := map[string]int{"1d": 1, "7d": 7, "30d": 30, "90d": 90}
	timeframe := c.DefaultQuery("timeframe", "7d")
	n, ok := days[timeframe]
	if !ok {
		n = 7
	}
	since := time.Now().AddDate(0, 0, -n)

	var newUsers, newItems, lostItems, foundItems, newClaims, approvedClaims int64
	ac.DB.Model(&models.User{}).Where("created_at >= ?", since).Count(&newUsers)
	ac.DB.Model(&models.Item{}).Where("created_at >= ?", since).Count(&newItems)
	ac.DB.Model(&models.Item{}).Where("created_at >= ? AND type = ?", since, models.ItemTypeLost).Count(&lostItems)
	ac.DB.Model(&models.Item{}).Where("created_at >= ? AND type = ?", since, models.ItemTypeFound).Count(&foundItems)
	ac.DB.Model(&models.Claim{}).Where("created_at >= ?", since).Count(&newClaims)
	ac.DB.Model(&models.Claim{}).Where("created_at >= ? AND status = ?", since, models.ClaimStatusApproved).Count(&approvedClaims)

	var totalItems, activeItems, flaggedItems int64
	ac.DB.Model(&models.Item{}).Count(&totalItems)
	ac.DB.Model(&models.Item{}).Where("status = ?", models.ItemStatusActive).Count(&activeItems)
	ac.DB.Model(&models.Item{}).Where("flagged = ?", true).Count(&flaggedItems)

	healthScore := 100.0
	if totalItems > 0 {
		healthScore = math.Max(0, 100-float64(flaggedItems)/float64(totalItems)*100)
	}

	c.JSON(http.StatusOK, gin.H{
		"timeframe":       timeframe,
		"new_users":       newUsers,
		"new_items":       newItems,
		"lost_items":      lostItems,
		"found_items":     foundItems,
		"new_claims":      newClaims,
		"approved_claims": approvedClaims,
		"platform_health": gin.H{
			"total_items":   totalItems,
			"active_items":  activeItems,
			"flagged_items": flaggedItems,
			"health_score":  healthScore,
		},
	})
}

// GetItems godoc
// @Summary List items for admin review
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/items [get]
func (ac *AdminController) GetItems(c *gin.Context) {
	filter := listFilterFromQuery(c)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := ac.DB.Model(&models.Item{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if moderation := c.Query("moderation_status"); moderation != "" {
		query = query.Where("moderation_status = ?", moderation)
	}
	if c.Query("flagged_only") == "true" {
		query = query.Where("flagged = ?", true)
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

// GetFlagged godoc
// @Summary List flagged items awaiting review
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/flagged [get]
func (ac *AdminController) GetFlagged(c *gin.Context) {
	filter := listFilterFromQuery(c)
	items, total, err := ac.Moderation.ListFlaggedItems(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": paginationMeta(filter, total),
	})
}

// GetClaims godoc
// @Summary List claims for admin review
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/claims [get]
func (ac *AdminController) GetClaims(c *gin.Context) {
	filter := listFilterFromQuery(c)
	claims, total, err := ac.Claims.ListPendingClaims(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"claims":     claims,
		"pagination": paginationMeta(filter, total),
	})
}

// GetDisputes godoc
// @Summary List open disputes
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/disputes [get]
func (ac *AdminController) GetDisputes(c *gin.Context) {
	filter := listFilterFromQuery(c)
	disputes, total, err := ac.Disputes.ListOpenDisputes(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"disputes":   disputes,
		"pagination": paginationMeta(filter, total),
	})
}

// GetReports godoc
// @Summary List content reports
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/reports [get]
func (ac *AdminController) GetReports(c *gin.Context) {
	filter := listFilterFromQuery(c)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := ac.DB.Model(&models.ContentReport{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reports"})
		return
	}

	var reports []models.ContentReport
	offset := (page - 1) * perPage
	err := query.Preload("Item").Preload("Reporter").Order("created_at DESC").
		Offset(offset).Limit(perPage).Find(&reports).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"pagination": PaginationMeta{
			CurrentPage: page,
			PageSize:    perPage,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
		},
	})
}

// GetActions godoc
// @Summary Audit trail of admin actions
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/actions [get]
func (ac *AdminController) GetActions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := ac.DB.Model(&models.AdminAction{})
	if adminID := c.Query("admin_id"); adminID != "" {
		query = query.Where("admin_id = ?", adminID)
	}
	if contentType := c.Query("content_type"); contentType != "" {
		query = query.Where("content_type = ?", contentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching audit trail"})
		return
	}

	var actions []models.AdminAction
	offset := (page - 1) * perPage
	err := query.Preload("Admin").Order("created_at DESC").Offset(offset).Limit(perPage).Find(&actions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching audit trail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"actions": actions,
		"pagination": PaginationMeta{
			CurrentPage: page,
			PageSize:    perPage,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
		},
	})
}

// GetUsers godoc
// @Summary List users for admin management
// @Tags admin
// @Produce json
// @Param search query string false "Match against name or email"
// @Success 200 {object} map[string]interface{}
// @Router /admin/users [get]
func (ac *AdminController) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := ac.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}

	var users []models.User
	offset := (page - 1) * perPage
	err := query.Preload("Role").Order("created_at DESC").Offset(offset).Limit(perPage).Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": PaginationMeta{
			CurrentPage: page,
			PageSize:    perPage,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
		},
	})
}

// UpdateUserRole godoc
// @Summary Assign a role to a user
// @Description Moves the user onto the given role; the change is audited and takes effect immediately
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param role body UpdateUserRoleRequest true "Role assignment"
// @Success 200 {object} models.User
// @Router /admin/users/{id}/role [put]
func (ac *AdminController) UpdateUserRole(c *gin.Context) {
	actor := utils.GetUser(c)
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Users.AssignRole(uint(userID), req.Role, actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ModerateItem godoc
// @Summary Moderate an item
// @Description Applies approve, reject, flag or archive to an item
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param decision body ModerateItemRequest true "Moderation decision"
// @Success 200 {object} services.ModerationResult
// @Router /admin/items/{id}/moderate [post]
func (ac *AdminController) ModerateItem(c *gin.Context) {
	user := utils.GetUser(c)
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var req ModerateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.Moderation.ModerateItem(uint(itemID), req.Action, user.UserID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateClaim godoc
// @Summary Decide a claim as admin
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Claim ID"
// @Param decision body UpdateClaimRequest true "Decision"
// @Success 200 {object} services.ClaimResolution
// @Router /admin/claims/{id} [put]
func (ac *AdminController) UpdateClaim(c *gin.Context) {
	user := utils.GetUser(c)
	claimID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	var req UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.Claims.ResolveClaim(uint(claimID), req.Status, user.UserID, req.AdminNotes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OpenDispute godoc
// @Summary Open a dispute manually
// @Tags admin
// @Accept json
// @Produce json
// @Param dispute body OpenDisputeRequest true "Dispute"
// @Success 201 {object} models.Dispute
// @Router /admin/disputes [post]
func (ac *AdminController) OpenDispute(c *gin.Context) {
	user := utils.GetUser(c)
	var req OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dispute, err := ac.Disputes.OpenDispute(req.ItemID, user.UserID, req.Type, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

// UpdateDispute godoc
// @Summary Progress a dispute
// @Description Applies resolve, review, escalate or close to an open dispute
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Dispute ID"
// @Param action body UpdateDisputeRequest true "Action"
// @Success 200 {object} services.DisputeResult
// @Router /admin/disputes/{id} [put]
func (ac *AdminController) UpdateDispute(c *gin.Context) {
	user := utils.GetUser(c)
	disputeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dispute id"})
		return
	}

	var req UpdateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.Disputes.ResolveDispute(uint(disputeID), req.Action, user.UserID, req.Resolution)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkAction godoc
// @Summary Moderate multiple items at once
// @Description Applies one moderation action to every listed item; failures are reported per item
// @Tags admin
// @Accept json
// @Produce json
// @Param request body BulkActionRequest true "Bulk action"
// @Success 200 {object} map[string]interface{}
// @Router /admin/bulk-action [post]
func (ac *AdminController) BulkAction(c *gin.Context) {
	user := utils.GetUser(c)
	var req BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	type bulkResult struct {
		ItemID  uint   `json:"item_id"`
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}

	results := make([]bulkResult, 0, len(req.ItemIDs))
	successful := 0
	for _, itemID := range req.ItemIDs {
		_, err := ac.Moderation.ModerateItem(itemID, req.Action, user.UserID, req.Notes)
		if err != nil {
			results = append(results, bulkResult{ItemID: itemID, Success: false, Error: err.Error()})
			continue
		}
		successful++
		results = append(results, bulkResult{ItemID: itemID, Success: true})
	}

	c.JSON(http.StatusOK, gin.H{
		"processed":  len(req.ItemIDs),
		"successful": successful,
		"failed":     len(req.ItemIDs) - successful,
		"results":    results,
	})
}
