package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextforms/forms-server/config"
	"github.com/nextforms/forms-server/middleware"
	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/permissions"
	"github.com/nextforms/forms-server/utils"
)

/* ========== POST /api/v2/form/:id/share ========== */

type addShareReq struct {
	ShareType int    `json:"shareType"`
	ShareWith string `json:"shareWith"`
}

// AddShare grants access to a user, a group, or anyone holding a link
// token. Link shares get a generated token; shareWith in the request is
// ignored for them.
func AddShare(c *gin.Context) {
	form, _, ok := requireEdit(c)
	if !ok {
		return
	}

	var req addShareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	share := models.Share{FormID: form.ID, ShareType: req.ShareType}
	switch req.ShareType {
	case models.ShareTypeUser, models.ShareTypeGroup:
		if req.ShareWith == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "shareWith is required"})
			return
		}
		share.ShareWith = req.ShareWith
	case models.ShareTypeLink:
		hash, err := utils.RandomHash(utils.FormHashLength)
		if err != nil {
			config.Log.Error("link token generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create share"})
			return
		}
		share.ShareWith = hash
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown share type"})
		return
	}

	if err := config.DB.Create(&share).Error; err != nil {
		config.Log.Error("create share failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create share"})
		return
	}
	c.JSON(http.StatusCreated, shareShape(&share))
}

/* ========== DELETE /api/v2/share/:id ========== */

// DeleteShare revokes a share. Permission is checked on the owning form.
func DeleteShare(c *gin.Context) {
	sid, err := strconv.Atoi(c.Param("id"))
	if err != nil || sid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	var share models.Share
	if err := config.DB.First(&share, sid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			denyOpaque(c)
			return
		}
		config.Log.Error("load share failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load share"})
		return
	}

	form, err := loadForm(share.FormID)
	if err != nil {
		denyOpaque(c)
		return
	}
	userID := middleware.RequesterID(c)
	set := permissions.Resolve(permissions.Requester{UserID: userID}, form, form.Shares, Dir)
	if !set.Edit {
		denyOpaque(c)
		return
	}

	if err := config.DB.Delete(&share).Error; err != nil {
		config.Log.Error("delete share failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
