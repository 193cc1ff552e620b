package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nextforms/forms-server/models"
	"github.com/nextforms/forms-server/store"
	"github.com/nextforms/forms-server/testutil"
)

func seedForm(t *testing.T, db *gorm.DB, hash, owner string) *models.Form {
	t.Helper()
	form := &models.Form{Hash: hash, Title: "Title of a Form", OwnerID: owner, Created: 12345, SubmitOnce: true}
	form.SetAccess(models.FormAccess{})
	require.NoError(t, db.Create(form).Error)

	q := models.Question{FormID: form.ID, Order: 0, Type: models.QuestionTypeDropdown, Text: "Pick one"}
	require.NoError(t, db.Create(&q).Error)
	require.NoError(t, db.Create(&models.Option{QuestionID: q.ID, Text: "A"}).Error)
	require.NoError(t, db.Create(&models.Option{QuestionID: q.ID, Text: "B"}).Error)

	require.NoError(t, db.Create(&models.Share{FormID: form.ID, ShareType: models.ShareTypeLink, ShareWith: "linkToken12345ab"}).Error)

	sub := &models.Submission{FormID: form.ID, UserID: "someone", OnceKey: "someone", Submitted: 12345}
	require.NoError(t, store.CreateSubmission(db, sub, []models.Answer{{QuestionID: q.ID, Text: "A"}}))
	return form
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestDeleteFormCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)

	doomed := seedForm(t, db, "abcdefgabcdefg11", "test")
	kept := seedForm(t, db, "abcdefgabcdefg22", "test")

	require.NoError(t, store.DeleteFormCascade(db, doomed.ID))

	assert.Zero(t, count(t, db, &models.Form{}, "id = ?", doomed.ID))
	assert.Zero(t, count(t, db, &models.Question{}, "form_id = ?", doomed.ID))
	assert.Zero(t, count(t, db, &models.Share{}, "form_id = ?", doomed.ID))
	assert.Zero(t, count(t, db, &models.Submission{}, "form_id = ?", doomed.ID))
	// Only the kept form's two options and one answer survive.
	assert.EqualValues(t, 2, count(t, db, &models.Option{}, "1 = 1"))
	assert.EqualValues(t, 1, count(t, db, &models.Answer{}, "1 = 1"))

	// The unrelated form keeps its rows.
	assert.EqualValues(t, 1, count(t, db, &models.Form{}, "id = ?", kept.ID))
	assert.EqualValues(t, 1, count(t, db, &models.Question{}, "form_id = ?", kept.ID))
	assert.EqualValues(t, 1, count(t, db, &models.Share{}, "form_id = ?", kept.ID))
	assert.EqualValues(t, 1, count(t, db, &models.Submission{}, "form_id = ?", kept.ID))
}

func TestCreateSubmissionDuplicateOnceKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	form := seedForm(t, db, "abcdefgabcdefg33", "test")

	dup := &models.Submission{FormID: form.ID, UserID: "someone", OnceKey: "someone", Submitted: 12346}
	err := store.CreateSubmission(db, dup, nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The failed transaction leaves no partial rows behind.
	assert.EqualValues(t, 1, count(t, db, &models.Submission{}, "form_id = ?", form.ID))
}

func TestCreateSubmissionDistinctOnceKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	form := seedForm(t, db, "abcdefgabcdefg44", "test")

	second := &models.Submission{FormID: form.ID, UserID: "someone", OnceKey: "key-two", Submitted: 12346}
	require.NoError(t, store.CreateSubmission(db, second, nil))
	assert.EqualValues(t, 2, count(t, db, &models.Submission{}, "form_id = ?", form.ID))
}

func TestNextQuestionOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	form := seedForm(t, db, "abcdefgabcdefg55", "test")

	next, err := store.NextQuestionOrder(db, form.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	empty := &models.Form{Hash: "abcdefgabcdefg66", OwnerID: "test", Created: 12345}
	empty.SetAccess(models.FormAccess{})
	require.NoError(t, db.Create(empty).Error)

	next, err = store.NextQuestionOrder(db, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestDeleteQuestionCompactsOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	form := seedForm(t, db, "abcdefgabcdefg77", "test")

	var q1 models.Question
	require.NoError(t, db.Where("form_id = ?", form.ID).First(&q1).Error)
	q2 := models.Question{FormID: form.ID, Order: 1, Type: models.QuestionTypeShort, Text: "Second"}
	q3 := models.Question{FormID: form.ID, Order: 2, Type: models.QuestionTypeShort, Text: "Third"}
	require.NoError(t, db.Create(&q2).Error)
	require.NoError(t, db.Create(&q3).Error)

	require.NoError(t, store.DeleteQuestion(db, &q2))

	var remaining []models.Question
	require.NoError(t, db.Where("form_id = ?", form.ID).Order("sort_order ASC").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].Order)
	assert.Equal(t, 1, remaining[1].Order)
	assert.Equal(t, "Third", remaining[1].Text)

	assert.Zero(t, count(t, db, &models.Option{}, "question_id = ?", q2.ID))
}

// Rows inserted newest-order-first sit in physical order opposite to their
// sort_order, which is exactly when a bulk decrement trips the unique index.
func TestDeleteQuestionCompactsDescendingInsertOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	form := &models.Form{Hash: "abcdefgabcdefg88", OwnerID: "test", Created: 12345}
	form.SetAccess(models.FormAccess{})
	require.NoError(t, db.Create(form).Error)

	qC := models.Question{FormID: form.ID, Order: 2, Type: models.QuestionTypeShort, Text: "Third"}
	qB := models.Question{FormID: form.ID, Order: 1, Type: models.QuestionTypeShort, Text: "Second"}
	qA := models.Question{FormID: form.ID, Order: 0, Type: models.QuestionTypeShort, Text: "First"}
	require.NoError(t, db.Create(&qC).Error)
	require.NoError(t, db.Create(&qB).Error)
	require.NoError(t, db.Create(&qA).Error)

	require.NoError(t, store.DeleteQuestion(db, &qA))

	var remaining []models.Question
	require.NoError(t, db.Where("form_id = ?", form.ID).Order("sort_order ASC").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].Order)
	assert.Equal(t, "Second", remaining[0].Text)
	assert.Equal(t, 1, remaining[1].Order)
	assert.Equal(t, "Third", remaining[1].Text)
}

func TestCreateQuestionClaimsNextSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	form := &models.Form{Hash: "abcdefgabcdefg99", OwnerID: "test", Created: 12345}
	form.SetAccess(models.FormAccess{})
	require.NoError(t, db.Create(form).Error)

	first := models.Question{FormID: form.ID, Type: models.QuestionTypeDropdown, Text: "Pick"}
	require.NoError(t, store.CreateQuestion(db, &first, []string{"A", "B"}))
	assert.Equal(t, 0, first.Order)
	require.Len(t, first.Options, 2)
	assert.EqualValues(t, 2, count(t, db, &models.Option{}, "question_id = ?", first.ID))

	second := models.Question{FormID: form.ID, Type: models.QuestionTypeShort, Text: "Say"}
	require.NoError(t, store.CreateQuestion(db, &second, nil))
	assert.Equal(t, 1, second.Order)
}
