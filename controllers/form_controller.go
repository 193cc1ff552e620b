package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextforms/forms-server/config"
	"github.com/nextforms/forms-server/middleware"
	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/permissions"
	"github.com/nextforms/forms-server/store"
	"github.com/nextforms/forms-server/utils"
)

// denyOpaque answers every access failure on a form the same way, whether
// the form is missing or merely not shared with the requester.
func denyOpaque(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": permissions.ErrNotAllowed.Error()})
}

// loadForm fetches a form with ordered questions, their options and shares.
func loadForm(id uint) (*models.Form, error) {
	var form models.Form
	err := config.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Shares").
		First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func resolveCanSubmit(form *models.Form, set permissions.Set, userID string) (bool, error) {
	hasPrior := false
	if form.SubmitOnce && !form.IsAnonymous && userID != "" {
		var err error
		hasPrior, err = store.HasSubmission(config.DB, form.ID, userID)
		if err != nil {
			return false, err
		}
	}
	return permissions.CanSubmit(form, set, hasPrior, time.Now().Unix()), nil
}

/* ========== GET /api/v2/forms ========== */

// GetForms lists the requester's own forms, newest first, in partial shape.
func GetForms(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var forms []models.Form
	if err := config.DB.
		Where("owner_id = ?", u.Username).
		Order("created DESC, id DESC").
		Find(&forms).Error; err != nil {
		config.Log.Error("list forms failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list forms"})
		return
	}

	ownerSet := permissions.Set{Edit: true, Results: true, Submit: true}
	out := []gin.H{}
	for i := range forms {
		out = append(out, partialShape(&forms[i], ownerSet))
	}
	c.JSON(http.StatusOK, out)
}

/* ========== GET /api/v2/shared_forms ========== */

// GetSharedForms lists forms shared with the requester: explicit user or
// group shares, plus forms shown to all users. Link shares never list.
func GetSharedForms(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var forms []models.Form
	if err := config.DB.
		Where("owner_id <> ?", u.Username).
		Preload("Shares").
		Order("created DESC, id DESC").
		Find(&forms).Error; err != nil {
		config.Log.Error("list shared forms failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list forms"})
		return
	}

	req := permissions.Requester{UserID: u.Username}
	out := []gin.H{}
	for i := range forms {
		f := &forms[i]
		if !f.Access().ShowToAllUsers && !permissions.SharedWith(u.Username, f.Shares, Dir) {
			continue
		}
		set := permissions.Resolve(req, f, f.Shares, Dir)
		if set.Empty() {
			continue
		}
		out = append(out, partialShape(f, set))
	}
	c.JSON(http.StatusOK, out)
}

/* ========== POST /api/v2/form ========== */

// CreateForm creates an empty form with defaults and returns it in full
// shape. The hash is retried on the off chance of a collision.
func CreateForm(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	form := models.Form{
		Title:       "",
		Description: "",
		OwnerID:     u.Username,
		Created:     time.Now().Unix(),
		Expires:     0,
		IsAnonymous: false,
		SubmitOnce:  true,
	}
	form.SetAccess(models.FormAccess{})

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		form.Hash, err = utils.RandomHash(utils.FormHashLength)
		if err != nil {
			break
		}
		err = config.DB.Create(&form).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		config.Log.Error("create form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create form"})
		return
	}

	ownerSet := permissions.Set{Edit: true, Results: true, Submit: true}
	c.JSON(http.StatusCreated, fullShape(&form, ownerSet, true))
}

/* ========== GET /api/v2/form/:id ========== */

// GetForm returns the full shape. Requesters without edit get the same
// opaque denial a nonexistent id gets.
func GetForm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	form, err := loadForm(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			denyOpaque(c)
			return
		}
		config.Log.Error("load form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load form"})
		return
	}

	userID := middleware.RequesterID(c)
	set := permissions.Resolve(permissions.Requester{UserID: userID}, form, form.Shares, Dir)
	if !set.Edit {
		denyOpaque(c)
		return
	}

	canSubmit, err := resolveCanSubmit(form, set, userID)
	if err != nil {
		config.Log.Error("submission lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load form"})
		return
	}
	c.JSON(http.StatusOK, fullShape(form, set, canSubmit))
}

/* ========== GET /api/v2/form/link/:hash ========== */

// GetLinkForm resolves a presented hash to a submittable form view. The
// hash may be the form's own public hash or a link share token; permission
// still comes from the resolver, so an unshared form hash alone opens
// nothing for strangers.
func GetLinkForm(c *gin.Context) {
	hash := c.Param("hash")

	var form models.Form
	err := config.DB.Where("hash = ?", hash).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var share models.Share
		err = config.DB.Where("share_type = ? AND share_with = ?", models.ShareTypeLink, hash).
			First(&share).Error
		if err == nil {
			err = config.DB.First(&form, share.FormID).Error
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			denyOpaque(c)
			return
		}
		config.Log.Error("resolve link failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load form"})
		return
	}

	loaded, err := loadForm(form.ID)
	if err != nil {
		config.Log.Error("load form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load form"})
		return
	}

	userID := middleware.RequesterID(c)
	req := permissions.Requester{UserID: userID, LinkHash: hash}
	set := permissions.Resolve(req, loaded, loaded.Shares, Dir)
	if set.Empty() {
		denyOpaque(c)
		return
	}

	canSubmit, err := resolveCanSubmit(loaded, set, userID)
	if err != nil {
		config.Log.Error("submission lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load form"})
		return
	}
	c.JSON(http.StatusOK, fullShape(loaded, set, canSubmit))
}

/* ========== PUT /api/v2/form/:id ========== */

type updateFormReq struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Expires     *int64             `json:"expires"`
	IsAnonymous *bool              `json:"isAnonymous"`
	SubmitOnce  *bool              `json:"submitOnce"`
	Access      *models.FormAccess `json:"access"`
}

// UpdateForm applies a partial update. Edit permission required.
func UpdateForm(c *gin.Context) {
	form, _, ok := requireEdit(c)
	if !ok {
		return
	}

	var req updateFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Expires != nil {
		updates["expires"] = *req.Expires
	}
	if req.IsAnonymous != nil {
		updates["is_anonymous"] = *req.IsAnonymous
	}
	if req.SubmitOnce != nil {
		updates["submit_once"] = *req.SubmitOnce
	}
	if req.Access != nil {
		f := models.Form{}
		f.SetAccess(*req.Access)
		updates["access_json"] = f.AccessJSON
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&models.Form{}).
		Where("id = ?", form.ID).
		Updates(updates).Error; err != nil {
		config.Log.Error("update form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

/* ========== DELETE /api/v2/form/:id ========== */

// DeleteForm removes the form and everything hanging off it in one
// transaction.
func DeleteForm(c *gin.Context) {
	form, _, ok := requireEdit(c)
	if !ok {
		return
	}

	if err := store.DeleteFormCascade(config.DB, form.ID); err != nil {
		config.Log.Error("cascade delete failed", zap.Error(err), zap.Uint("form", form.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// requireEdit loads the form addressed by :id and checks the requester
// holds edit. Failures are already written to the response.
func requireEdit(c *gin.Context) (*models.Form, permissions.Set, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return nil, permissions.Set{}, false
	}

	form, err := loadForm(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			denyOpaque(c)
			return nil, permissions.Set{}, false
		}
		config.Log.Error("load form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load form"})
		return nil, permissions.Set{}, false
	}

	userID := middleware.RequesterID(c)
	set := permissions.Resolve(permissions.Requester{UserID: userID}, form, form.Shares, Dir)
	if !set.Edit {
		denyOpaque(c)
		return nil, permissions.Set{}, false
	}
	return form, set, true
}
