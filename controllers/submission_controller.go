package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextforms/forms-server/config"
	"github.com/nextforms/forms-server/middleware"
	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/permissions"
	"github.com/nextforms/forms-server/store"
)

// HeaderFormLink carries the link-share token for anonymous submitters.
const HeaderFormLink = "X-Form-Link"

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04"
)

type answerReq struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Text       string `json:"text"`
	OptionIDs  []uint `json:"optionIds"`
}

type submitReq struct {
	Answers []answerReq `json:"answers" binding:"required"`
}

func rejectQuestion(c *gin.Context, q *models.Question, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message":    fmt.Sprintf("Question %d: %s", q.ID, msg),
		"questionId": q.ID,
	})
}

/* ========== POST /api/v2/form/:id/submission ========== */

// SubmitForm validates and records a submission. The submit permission and
// the submission window are checked first, then every answer against its
// question, then the submit-once constraint; the unique index on the
// submissions table settles concurrent duplicates.
func SubmitForm(c *gin.Context) {
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
	req := permissions.Requester{UserID: userID, LinkHash: c.GetHeader(HeaderFormLink)}
	set := permissions.Resolve(req, form, form.Shares, Dir)
	now := time.Now().Unix()
	if !set.Submit || permissions.Expired(form, now) {
		denyOpaque(c)
		return
	}

	var body submitReq
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	answers, ok := validateAnswers(c, form, body.Answers)
	if !ok {
		return
	}

	// Advisory pre-check; the (form_id, once_key) index is authoritative.
	identified := userID != "" && !form.IsAnonymous
	if form.SubmitOnce && identified {
		hasPrior, err := store.HasSubmission(config.DB, form.ID, userID)
		if err != nil {
			config.Log.Error("submission lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save submission"})
			return
		}
		if hasPrior {
			c.JSON(http.StatusConflict, gin.H{"message": "Already submitted"})
			return
		}
	}

	sub := models.Submission{
		FormID:    form.ID,
		Submitted: now,
	}
	if identified {
		sub.UserID = userID
	} else {
		sub.UserID = "anon-user-" + uuid.NewString()
	}
	if form.SubmitOnce && identified {
		sub.OnceKey = userID
	} else {
		sub.OnceKey = uuid.NewString()
	}

	if err := store.CreateSubmission(config.DB, &sub, answers); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Already submitted"})
			return
		}
		config.Log.Error("save submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.ID})
}

// validateAnswers checks every answer against its question and returns the
// answer rows to persist. On failure the response is already written.
func validateAnswers(c *gin.Context, form *models.Form, reqs []answerReq) ([]models.Answer, bool) {
	byQuestion := map[uint]answerReq{}
	for _, a := range reqs {
		byQuestion[a.QuestionID] = a
	}

	var answers []models.Answer
	for i := range form.Questions {
		q := &form.Questions[i]
		a, present := byQuestion[q.ID]
		delete(byQuestion, q.ID)

		if !present {
			if q.IsRequired {
				rejectQuestion(c, q, "an answer is required")
				return nil, false
			}
			continue
		}

		switch q.Type {
		case models.QuestionTypeMultipleChoice, models.QuestionTypeDropdown:
			if len(a.OptionIDs) > 1 {
				rejectQuestion(c, q, "only one option may be selected")
				return nil, false
			}
			fallthrough
		case models.QuestionTypeMultipleUnique:
			if q.IsRequired && len(a.OptionIDs) == 0 {
				rejectQuestion(c, q, "an answer is required")
				return nil, false
			}
			for _, optID := range a.OptionIDs {
				opt := findOption(q, optID)
				if opt == nil {
					rejectQuestion(c, q, fmt.Sprintf("option %d does not belong to this question", optID))
					return nil, false
				}
				answers = append(answers, models.Answer{QuestionID: q.ID, Text: opt.Text})
			}

		case models.QuestionTypeDate, models.QuestionTypeDatetime:
			text := strings.TrimSpace(a.Text)
			if text == "" {
				if q.IsRequired {
					rejectQuestion(c, q, "an answer is required")
					return nil, false
				}
				continue
			}
			layout := dateLayout
			if q.Type == models.QuestionTypeDatetime {
				layout = datetimeLayout
			}
			if _, err := time.Parse(layout, text); err != nil {
				rejectQuestion(c, q, "value does not match the expected format")
				return nil, false
			}
			answers = append(answers, models.Answer{QuestionID: q.ID, Text: text})

		default:
			text := strings.TrimSpace(a.Text)
			if text == "" {
				if q.IsRequired {
					rejectQuestion(c, q, "an answer is required")
					return nil, false
				}
				continue
			}
			answers = append(answers, models.Answer{QuestionID: q.ID, Text: a.Text})
		}
	}

	// Anything left answers a question that is not on this form.
	for qid := range byQuestion {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":    fmt.Sprintf("Question %d does not belong to this form", qid),
			"questionId": qid,
		})
		return nil, false
	}

	return answers, true
}

func findOption(q *models.Question, id uint) *models.Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

/* ========== GET /api/v2/form/:id/submissions ========== */

// GetSubmissions returns all submissions with their answers. Requires the
// results permission.
func GetSubmissions(c *gin.Context) {
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
	if !set.Results {
		denyOpaque(c)
		return
	}

	var subs []models.Submission
	if err := config.DB.
		Where("form_id = ?", form.ID).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("submitted DESC, id DESC").
		Find(&subs).Error; err != nil {
		config.Log.Error("list submissions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list submissions"})
		return
	}

	out := []gin.H{}
	for _, s := range subs {
		answers := []gin.H{}
		for _, a := range s.Answers {
			answers = append(answers, gin.H{
				"id":         a.ID,
				"questionId": a.QuestionID,
				"text":       a.Text,
			})
		}
		out = append(out, gin.H{
			"id":        s.ID,
			"userId":    s.UserID,
			"submitted": s.Submitted,
			"answers":   answers,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"formId":      form.ID,
		"submissions": out,
	})
}
