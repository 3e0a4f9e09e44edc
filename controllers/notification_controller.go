package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/models"
	"github.com/umt-lostfound/api-go/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param unread query boolean false "Only unread notifications"
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	user := utils.GetUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := nc.DB.Model(&models.Notification{}).Where("recipient_id = ?", user.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	var notifications []models.Notification
	offset := (page - 1) * perPage
	err := query.Order("created_at DESC").Offset(offset).Limit(perPage).Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination": PaginationMeta{
			CurrentPage: page,
			PageSize:    perPage,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
		},
	})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/{id}/read [put]
func (nc *NotificationController) MarkRead(c *gin.Context) {
	user := utils.GetUser(c)
	notificationID := c.Param("id")

	var notification models.Notification
	if err := nc.DB.First(&notification, notificationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if notification.RecipientID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only mark your own notifications"})
		return
	}

	if err := nc.DB.Model(&notification).Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}
