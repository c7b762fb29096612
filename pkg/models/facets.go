package models

import (
	"encoding/json"
	"errors"
)

const (
	ConditionNew  = "NEW"
	ConditionUsed = "USED"
)

const (
	GradeMint = "MINT"
	GradeGood = "GOOD"
	GradeFair = "FAIR"
	GradePoor = "POOR"
)

const (
	ContentNone      = "NONE"
	ContentBook      = "BOOK"
	ContentMagazine  = "MAGAZINE"
	ContentNewspaper = "NEWSPAPER"
)

const (
	CoverHard        = "HARD"
	CoverSoft        = "SOFT"
	CoverSpiralBound = "SPIRAL_BOUND"
)

const (
	PaymentCard      = "CARD"
	PaymentApplePay  = "APPLE_PAY"
	PaymentGooglePay = "GOOGLE_PAY"
	PaymentBlik      = "BLIK"
)

const (
	MinRating = 1
	MaxRating = 5

	MinTopics = 1
	MaxTopics = 10

	MaxMinimumAge = 100
)

var (
	ErrConflictingState = errors.New("item has a conflicting facet combination")
	ErrInvalidFacet     = errors.New("invalid facet payload")
	ErrFacetAlreadySet  = errors.New("item already has a content facet")
)

// MarkNew sets the NEW condition variant and clears any USED payload.
func (i *Item) MarkNew(isSealed bool) {
	i.Condition = ConditionNew
	i.IsSealed = &isSealed
	i.UsedGrade = nil
	i.HasAnnotations = nil
}

// MarkUsed sets the USED condition variant and clears any NEW payload.
func (i *Item) MarkUsed(grade string, hasAnnotations bool) error {
	if !ValidUsedGrade(grade) {
		return ErrInvalidFacet
	}
	i.Condition = ConditionUsed
	i.UsedGrade = &grade
	i.HasAnnotations = &hasAnnotations
	i.IsSealed = nil
	return nil
}

func (i *Item) AttachBookFacet(pages int, cover string, authors []Author, genres []Genre) error {
	if i.ContentType != "" && i.ContentType != ContentNone {
		return ErrFacetAlreadySet
	}
	if pages <= 0 || !ValidCoverType(cover) {
		return ErrInvalidFacet
	}
	i.ContentType = ContentBook
	i.Pages = &pages
	i.CoverType = &cover
	i.Authors = authors
	i.Genres = genres
	return nil
}

func (i *Item) AttachMagazineFacet(isSpecialEdition bool) error {
	if i.ContentType != "" && i.ContentType != ContentNone {
		return ErrFacetAlreadySet
	}
	i.ContentType = ContentMagazine
	i.IsSpecialEdition = &isSpecialEdition
	return nil
}

func (i *Item) AttachNewspaperFacet(headline string, topics []string) error {
	if i.ContentType != "" && i.ContentType != ContentNone {
		return ErrFacetAlreadySet
	}
	if headline == "" || len(topics) < MinTopics || len(topics) > MaxTopics {
		return ErrInvalidFacet
	}
	encoded, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	raw := string(encoded)
	i.ContentType = ContentNewspaper
	i.Headline = &headline
	i.Topics = &raw
	return nil
}

// ClassifyCondition reports which condition variant an item carries. A row
// whose tag and payload columns disagree is corrupted data and is surfaced
// as ErrConflictingState, never patched.
func (i *Item) ClassifyCondition() (string, error) {
	hasNew := i.IsSealed != nil
	hasUsed := i.UsedGrade != nil || i.HasAnnotations != nil

	switch i.Condition {
	case ConditionNew:
		if !hasNew || hasUsed {
			return "", ErrConflictingState
		}
		return ConditionNew, nil
	case ConditionUsed:
		if !hasUsed || hasNew {
			return "", ErrConflictingState
		}
		if i.UsedGrade == nil || !ValidUsedGrade(*i.UsedGrade) {
			return "", ErrConflictingState
		}
		return ConditionUsed, nil
	default:
		return "", ErrConflictingState
	}
}

// ClassifyContentType reports which content facet is attached, if any.
func (i *Item) ClassifyContentType() (string, error) {
	present := 0
	if i.Pages != nil || i.CoverType != nil {
		present++
	}
	if i.IsSpecialEdition != nil {
		present++
	}
	if i.Headline != nil || i.Topics != nil {
		present++
	}
	if present > 1 {
		return "", ErrConflictingState
	}

	switch i.ContentType {
	case ContentBook:
		if i.Pages == nil || i.CoverType == nil {
			return "", ErrConflictingState
		}
		return ContentBook, nil
	case ContentMagazine:
		if i.IsSpecialEdition == nil {
			return "", ErrConflictingState
		}
		return ContentMagazine, nil
	case ContentNewspaper:
		if i.Headline == nil || i.Topics == nil {
			return "", ErrConflictingState
		}
		return ContentNewspaper, nil
	case ContentNone, "":
		if present != 0 {
			return "", ErrConflictingState
		}
		return ContentNone, nil
	default:
		return "", ErrConflictingState
	}
}

// NewspaperTopics decodes the ordered topic list of a newspaper item.
func (i *Item) NewspaperTopics() ([]string, error) {
	if i.Topics == nil {
		return nil, nil
	}
	var topics []string
	if err := json.Unmarshal([]byte(*i.Topics), &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

func ValidUsedGrade(grade string) bool {
	switch grade {
	case GradeMint, GradeGood, GradeFair, GradePoor:
		return true
	}
	return false
}

func ValidCoverType(cover string) bool {
	switch cover {
	case CoverHard, CoverSoft, CoverSpiralBound:
		return true
	}
	return false
}

func ValidPaymentType(paymentType string) bool {
	switch paymentType {
	case PaymentCard, PaymentApplePay, PaymentGooglePay, PaymentBlik:
		return true
	}
	return false
}

func ValidMinimumAge(age int) bool {
	return age >= 0 && age <= MaxMinimumAge
}
