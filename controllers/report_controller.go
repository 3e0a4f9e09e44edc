package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/models"
	"github.com/umt-lostfound/api-go/utils"
	"gorm.io/gorm"
)

// reportsBeforeAutoFlag is how many open reports push an item into review.
const reportsBeforeAutoFlag = 3

type ReportController struct {
	DB *gorm.DB
}

type CreateReportRequest struct {
	Reason  string `json:"reason" binding:"required,min=3,max=200"`
	Details string `json:"details" binding:"max=2000"`
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// ReportItem godoc
// @Summary Report an item
// @Description Files a content report; repeated reports push the item into review
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param report body CreateReportRequest true "Report"
// @Success 201 {object} models.ContentReport
// @Router /items/{id}/report [post]
func (rc *ReportController) ReportItem(c *gin.Context) {
	user := utils.GetUser(c)
	itemID := c.Param("id")

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.Item
	if err := rc.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	report := models.ContentReport{
		ReporterID: user.UserID,
		ItemID:     item.ID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     models.ReportStatusOpen,
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}

		var open int64
		err := tx.Model(&models.ContentReport{}).
			Where("item_id = ? AND status = ?", item.ID, models.ReportStatusOpen).
			Count(&open).Error
		if err != nil {
			return err
		}

		// Enough independent reports put the item in front of an admin.
		// Items already decided (approved/rejected) stay where they are;
		// the reports remain visible on the admin report queue.
		if open >= reportsBeforeAutoFlag && !item.Flagged &&
			item.ModerationStatus == models.ModerationPending {
			return tx.Model(&item).Updates(map[string]interface{}{
				"flagged":           true,
				"moderation_status": models.ModerationUnderReview,
				"flag_reason":       "reported by multiple users",
			}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reported this item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}
