package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkNewClearsUsedPayload(t *testing.T) {
	item := Item{}
	assert.NoError(t, item.MarkUsed(GradeGood, true))
	item.MarkNew(true)

	assert.Equal(t, ConditionNew, item.Condition)
	assert.NotNil(t, item.IsSealed)
	assert.True(t, *item.IsSealed)
	assert.Nil(t, item.UsedGrade)
	assert.Nil(t, item.HasAnnotations)

	condition, err := item.ClassifyCondition()
	assert.NoError(t, err)
	assert.Equal(t, ConditionNew, condition)
}

func TestMarkUsedValidatesGrade(t *testing.T) {
	item := Item{}
	assert.ErrorIs(t, item.MarkUsed("PRISTINE", false), ErrInvalidFacet)

	assert.NoError(t, item.MarkUsed(GradeMint, false))
	assert.Equal(t, ConditionUsed, item.Condition)
	assert.Nil(t, item.IsSealed)

	condition, err := item.ClassifyCondition()
	assert.NoError(t, err)
	assert.Equal(t, ConditionUsed, condition)
}

func TestAttachSecondContentFacetFails(t *testing.T) {
	item := Item{}
	item.MarkNew(false)
	assert.NoError(t, item.AttachMagazineFacet(true))
	assert.ErrorIs(t, item.AttachBookFacet(100, CoverHard, nil, nil), ErrFacetAlreadySet)
	assert.ErrorIs(t, item.AttachNewspaperFacet("Headline", []string{"sport"}), ErrFacetAlreadySet)
}

func TestAttachBookFacetValidation(t *testing.T) {
	item := Item{}
	assert.ErrorIs(t, item.AttachBookFacet(0, CoverHard, nil, nil), ErrInvalidFacet)
	assert.ErrorIs(t, item.AttachBookFacet(100, "LEATHER", nil, nil), ErrInvalidFacet)
	assert.NoError(t, item.AttachBookFacet(100, CoverSpiralBound, nil, nil))
	assert.Equal(t, ContentBook, item.ContentType)
}

func TestAttachNewspaperFacetTopicsBounds(t *testing.T) {
	item := Item{}
	assert.ErrorIs(t, item.AttachNewspaperFacet("Headline", []string{}), ErrInvalidFacet)

	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = "topic"
	}
	assert.ErrorIs(t, item.AttachNewspaperFacet("Headline", tooMany), ErrInvalidFacet)
	assert.ErrorIs(t, item.AttachNewspaperFacet("", []string{"sport"}), ErrInvalidFacet)

	assert.NoError(t, item.AttachNewspaperFacet("Elections", []string{"politics", "economy", "local"}))
	topics, err := item.NewspaperTopics()
	assert.NoError(t, err)
	assert.Equal(t, []string{"politics", "economy", "local"}, topics)
}

func TestClassifyConditionConflicts(t *testing.T) {
	sealed := true
	grade := GradeFair

	// no condition at all
	item := Item{}
	_, err := item.ClassifyCondition()
	assert.ErrorIs(t, err, ErrConflictingState)

	// both payloads present
	item = Item{Condition: ConditionNew, IsSealed: &sealed, UsedGrade: &grade}
	_, err = item.ClassifyCondition()
	assert.ErrorIs(t, err, ErrConflictingState)

	// tag without payload
	item = Item{Condition: ConditionUsed}
	_, err = item.ClassifyCondition()
	assert.ErrorIs(t, err, ErrConflictingState)
}

func TestClassifyContentTypeNone(t *testing.T) {
	item := Item{}
	item.MarkNew(false)
	contentType, err := item.ClassifyContentType()
	assert.NoError(t, err)
	assert.Equal(t, ContentNone, contentType)
}

func TestClassifyContentTypeConflict(t *testing.T) {
	pages := 100
	special := true
	item := Item{ContentType: ContentBook, Pages: &pages, IsSpecialEdition: &special}
	_, err := item.ClassifyContentType()
	assert.ErrorIs(t, err, ErrConflictingState)

	// tag says magazine, payload says nothing
	item = Item{ContentType: ContentMagazine}
	_, err = item.ClassifyContentType()
	assert.ErrorIs(t, err, ErrConflictingState)
}

func TestAverageRatingEmpty(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]Review{}))
}

func TestAverageRating(t *testing.T) {
	reviews := []Review{{Rating: 5}, {Rating: 3}, {Rating: 4}}
	assert.Equal(t, 4.0, AverageRating(reviews))
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
}

func TestValidMinimumAge(t *testing.T) {
	assert.False(t, ValidMinimumAge(-1))
	assert.True(t, ValidMinimumAge(0))
	assert.True(t, ValidMinimumAge(100))
	assert.False(t, ValidMinimumAge(101))
}
