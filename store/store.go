// Package store holds the multi-table write operations. Anything touching
// more than one table runs inside a single transaction here, never as
// per-table deletes issued by handlers.
package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nextforms/forms-server/models"
)

// DeleteFormCascade removes a form and every dependent row (answers,
// submissions, options, questions, shares) atomically. Either everything
// goes or nothing does.
func DeleteFormCascade(db *gorm.DB, formID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&models.Submission{}).Select("id").Where("form_id = ?", formID)
		if err := tx.Where("submission_id IN (?)", subIDs).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		qIDs := tx.Model(&models.Question{}).Select("id").Where("form_id = ?", formID)
		if err := tx.Where("question_id IN (?)", qIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		if err := tx.Where("form_id = ?", formID).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Form{}, formID).Error
	})
}

// CreateSubmission persists a submission with its answers in one
// transaction. A submit-once collision surfaces as gorm.ErrDuplicatedKey
// from the (form_id, once_key) unique index.
func CreateSubmission(db *gorm.DB, sub *models.Submission, answers []models.Answer) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].SubmissionID = sub.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteQuestion removes a question with its options and closes the order
// gap left behind.
func DeleteQuestion(db *gorm.DB, q *models.Question) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", q.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(q).Error; err != nil {
			return err
		}

		// Shift rows one at a time, lowest order first, so each decrement
		// lands in a slot already vacated. A bulk UPDATE can collide with
		// the (form_id, sort_order) unique index mid-statement when the
		// engine visits rows out of order.
		var ids []uint
		if err := tx.Model(&models.Question{}).
			Where("form_id = ? AND sort_order > ?", q.FormID, q.Order).
			Order("sort_order ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.Model(&models.Question{}).Where("id = ?", id).
				Update("sort_order", gorm.Expr("sort_order - 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateQuestion appends a question at the next free order slot and creates
// its options, all in one transaction. The slot is claimed under the
// (form_id, sort_order) unique index, so a concurrent append on the same
// form loses the race cleanly and is retried with a fresh slot.
func CreateQuestion(db *gorm.DB, q *models.Question, optionTexts []string) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = db.Transaction(func(tx *gorm.DB) error {
			next, err := NextQuestionOrder(tx, q.FormID)
			if err != nil {
				return err
			}
			q.Order = next
			if err := tx.Create(q).Error; err != nil {
				return err
			}
			for _, text := range optionTexts {
				opt := models.Option{QuestionID: q.ID, Text: text}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
				q.Options = append(q.Options, opt)
			}
			return nil
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		q.ID = 0
		q.Options = nil
	}
	return err
}

// NextQuestionOrder returns MAX(order)+1 for the form, zero-based.
func NextQuestionOrder(db *gorm.DB, formID uint) (int, error) {
	type nextRes struct{ Next int }
	var r nextRes
	err := db.Model(&models.Question{}).
		Where("form_id = ?", formID).
		Select("COALESCE(MAX(sort_order), -1) + 1 AS next").
		Scan(&r).Error
	return r.Next, err
}

// HasSubmission reports whether the user already submitted to the form.
func HasSubmission(db *gorm.DB, formID uint, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := db.Model(&models.Submission{}).
		Where("form_id = ? AND user_id = ?", formID, userID).
		Count(&count).Error
	return count > 0, err
}
