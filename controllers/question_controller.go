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
	"github.com/nextforms/forms-server/store"
)

/* ========== POST /api/v2/form/:id/question ========== */

type addQuestionReq struct {
	Type       string   `json:"type" binding:"required"`
	Text       string   `json:"text" binding:"required"`
	IsRequired bool     `json:"isRequired"`
	Options    []string `json:"options"`
}

// AddQuestion appends a question at the end of the form. Choice types take
// their option list in insertion order.
func AddQuestion(c *gin.Context) {
	form, _, ok := requireEdit(c)
	if !ok {
		return
	}

	var req addQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if !models.ValidQuestionType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown question type"})
		return
	}
	if len(req.Options) > 0 && !models.HasOptions(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Question type does not take options"})
		return
	}

	q := models.Question{
		FormID:     form.ID,
		Type:       req.Type,
		Text:       req.Text,
		IsRequired: req.IsRequired,
	}
	if err := store.CreateQuestion(config.DB, &q, req.Options); err != nil {
		config.Log.Error("create question failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not add question"})
		return
	}

	c.JSON(http.StatusCreated, questionShape(&q))
}

/* ========== DELETE /api/v2/question/:id ========== */

// DeleteQuestion removes a question plus its options and compacts the
// remaining order values. Permission is checked on the owning form.
func DeleteQuestion(c *gin.Context) {
	qid, err := strconv.Atoi(c.Param("id"))
	if err != nil || qid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	var q models.Question
	if err := config.DB.First(&q, qid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			denyOpaque(c)
			return
		}
		config.Log.Error("load question failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load question"})
		return
	}

	form, err := loadForm(q.FormID)
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

	if err := store.DeleteQuestion(config.DB, &q); err != nil {
		config.Log.Error("delete question failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
