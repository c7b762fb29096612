package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dennissavchenko/Bookshop-sub001/pkg/database"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/inventory"
	"github.com/dennissavchenko/Bookshop-sub001/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var db *gorm.DB

const (
	timestampLayout = "2006-01-02T15:04:05"
	dateLayout      = "2006-01-02"
)

func main() {
	log.Println("Starting catalog service...")

	db = database.InitBookshopDB()

	seedTestData()

	server := gin.Default()
	server.POST("/api/v1/publishers", createPublisher)
	server.GET("/api/v1/publishers", getPublishers)
	server.GET("/api/v1/publishers/:publisherUid/items", getPublisherItems)
	server.POST("/api/v1/age-categories", createAgeCategory)
	server.GET("/api/v1/age-categories", getAgeCategories)
	server.GET("/api/v1/age-categories/:categoryUid/items", getAgeCategoryItems)
	server.POST("/api/v1/authors", createAuthor)
	server.GET("/api/v1/authors", getAuthors)
	server.POST("/api/v1/genres", createGenre)
	server.GET("/api/v1/genres", getGenres)
	server.POST("/api/v1/items", createItem)
	server.GET("/api/v1/items", getItems)
	server.GET("/api/v1/items/appropriate", getAppropriateItems)
	server.GET("/api/v1/items/:itemUid", getItem)
	server.DELETE("/api/v1/items/:itemUid", deleteItem)
	server.GET("/api/v1/items/:itemUid/stock", getStock)
	server.POST("/api/v1/items/:itemUid/stock/increase", increaseStock)
	server.POST("/api/v1/items/:itemUid/stock/decrease", decreaseStock)
	server.POST("/api/v1/items/:itemUid/reviews", createReview)
	server.PUT("/api/v1/reviews/:reviewUid", updateReview)
	server.GET("/manage/health", healthCheck)

	log.Println("Catalog service starting on :8060")
	if err := server.Run(":8060"); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func createPublisher(c *gin.Context) {
	var request struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	publisher := models.Publisher{
		PublisherUid: uuid.New().String(),
		Name:         request.Name,
		Address:      request.Address,
		Email:        request.Email,
		Phone:        request.Phone,
	}
	if err := db.Create(&publisher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create publisher"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"publisherUid": publisher.PublisherUid,
		"name":         publisher.Name,
		"address":      publisher.Address,
		"email":        publisher.Email,
		"phone":        publisher.Phone,
	})
}

func getPublishers(c *gin.Context) {
	var publishers []models.Publisher
	if err := db.Find(&publishers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(publishers))
	for i, publisher := range publishers {
		items[i] = gin.H{
			"publisherUid": publisher.PublisherUid,
			"name":         publisher.Name,
			"address":      publisher.Address,
			"email":        publisher.Email,
			"phone":        publisher.Phone,
		}
	}
	c.JSON(http.StatusOK, items)
}

func createAgeCategory(c *gin.Context) {
	var request struct {
		Tag         string `json:"tag" binding:"required"`
		Description string `json:"description"`
		MinimumAge  *int   `json:"minimumAge" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if !models.ValidMinimumAge(*request.MinimumAge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minimumAge must be between 0 and 100"})
		return
	}
	category := models.AgeCategory{
		AgeCategoryUid: uuid.New().String(),
		Tag:            request.Tag,
		Description:    request.Description,
		MinimumAge:     *request.MinimumAge,
	}
	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create age category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ageCategoryUid": category.AgeCategoryUid,
		"tag":            category.Tag,
		"description":    category.Description,
		"minimumAge":     category.MinimumAge,
	})
}

func getAgeCategories(c *gin.Context) {
	var categories []models.AgeCategory
	if err := db.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(categories))
	for i, category := range categories {
		items[i] = gin.H{
			"ageCategoryUid": category.AgeCategoryUid,
			"tag":            category.Tag,
			"description":    category.Description,
			"minimumAge":     category.MinimumAge,
		}
	}
	c.JSON(http.StatusOK, items)
}

func createAuthor(c *gin.Context) {
	var request struct {
		Name        string  `json:"name" binding:"required"`
		Surname     string  `json:"surname" binding:"required"`
		DateOfBirth string  `json:"dateOfBirth"`
		Pseudonym   *string `json:"pseudonym"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	author := models.Author{
		AuthorUid: uuid.New().String(),
		Name:      request.Name,
		Surname:   request.Surname,
		Pseudonym: request.Pseudonym,
	}
	if request.DateOfBirth != "" {
		dateOfBirth, err := time.Parse(dateLayout, request.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		author.DateOfBirth = dateOfBirth
	}
	if err := db.Create(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create author"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authorUid": author.AuthorUid,
		"name":      author.Name,
		"surname":   author.Surname,
		"pseudonym": author.Pseudonym,
	})
}

func getAuthors(c *gin.Context) {
	var authors []models.Author
	if err := db.Find(&authors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(authors))
	for i, author := range authors {
		items[i] = gin.H{
			"authorUid": author.AuthorUid,
			"name":      author.Name,
			"surname":   author.Surname,
			"pseudonym": author.Pseudonym,
		}
	}
	c.JSON(http.StatusOK, items)
}

func createGenre(c *gin.Context) {
	var request struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	genre := models.Genre{
		GenreUid:    uuid.New().String(),
		Name:        request.Name,
		Description: request.Description,
	}
	if err := db.Create(&genre).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create genre"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"genreUid":    genre.GenreUid,
		"name":        genre.Name,
		"description": genre.Description,
	})
}

func getGenres(c *gin.Context) {
	var genres []models.Genre
	if err := db.Find(&genres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(genres))
	for i, genre := range genres {
		items[i] = gin.H{
			"genreUid":    genre.GenreUid,
			"name":        genre.Name,
			"description": genre.Description,
		}
	}
	c.JSON(http.StatusOK, items)
}

func createItem(c *gin.Context) {
	var request struct {
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		Image          string  `json:"image"`
		PublishingDate string  `json:"publishingDate"`
		Language       string  `json:"language"`
		Price          float64 `json:"price" binding:"required"`
		StockQuantity  int     `json:"stockQuantity"`
		PublisherUid   string  `json:"publisherUid" binding:"required"`
		AgeCategoryUid string  `json:"ageCategoryUid" binding:"required"`
		Condition      struct {
			Type           string `json:"type" binding:"required"`
			IsSealed       bool   `json:"isSealed"`
			Grade          string `json:"grade"`
			HasAnnotations bool   `json:"hasAnnotations"`
		} `json:"condition" binding:"required"`
		Book *struct {
			Pages      int      `json:"pages"`
			Cover      string   `json:"cover"`
			AuthorUids []string `json:"authorUids"`
			GenreUids  []string `json:"genreUids"`
		} `json:"book"`
		Magazine *struct {
			IsSpecialEdition bool `json:"isSpecialEdition"`
		} `json:"magazine"`
		Newspaper *struct {
			Headline string   `json:"headline"`
			Topics   []string `json:"topics"`
		} `json:"newspaper"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if request.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	if request.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity must not be negative"})
		return
	}
	facets := 0
	if request.Book != nil {
		facets++
	}
	if request.Magazine != nil {
		facets++
	}
	if request.Newspaper != nil {
		facets++
	}
	if facets > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most one content facet is allowed"})
		return
	}

	var publisher models.Publisher
	if err := db.Where("publisher_uid = ?", request.PublisherUid).First(&publisher).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publisher not found"})
		return
	}
	var category models.AgeCategory
	if err := db.Where("age_category_uid = ?", request.AgeCategoryUid).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Age category not found"})
		return
	}

	item := models.Item{
		ItemUid:       uuid.New().String(),
		Name:          request.Name,
		Description:   request.Description,
		ImageURL:      request.Image,
		Language:      request.Language,
		Price:         request.Price,
		StockQuantity: request.StockQuantity,
		PublisherID:   publisher.ID,
		AgeCategoryID: category.ID,
	}
	if request.PublishingDate != "" {
		publishingDate, err := time.Parse(dateLayout, request.PublishingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		item.PublishingDate = publishingDate
	}

	switch request.Condition.Type {
	case models.ConditionNew:
		item.MarkNew(request.Condition.IsSealed)
	case models.ConditionUsed:
		if err := item.MarkUsed(request.Condition.Grade, request.Condition.HasAnnotations); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grade must be MINT, GOOD, FAIR, or POOR"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition type must be NEW or USED"})
		return
	}

	if request.Book != nil {
		authors, err := findAuthors(request.Book.AuthorUids)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		genres, err := findGenres(request.Book.GenreUids)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
			return
		}
		if err := item.AttachBookFacet(request.Book.Pages, request.Book.Cover, authors, genres); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book facet: pages must be positive, cover must be HARD, SOFT, or SPIRAL_BOUND"})
			return
		}
	}
	if request.Magazine != nil {
		if err := item.AttachMagazineFacet(request.Magazine.IsSpecialEdition); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid magazine facet"})
			return
		}
	}
	if request.Newspaper != nil {
		if err := item.AttachNewspaperFacet(request.Newspaper.Headline, request.Newspaper.Topics); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid newspaper facet: headline is required and topics must have 1 to 10 entries"})
			return
		}
	}

	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"itemUid":       item.ItemUid,
		"name":          item.Name,
		"price":         formatPrice(item.Price),
		"stockQuantity": item.StockQuantity,
		"condition":     item.Condition,
		"contentType":   item.ContentType,
	})
}

func getItems(c *gin.Context) {
	var items []models.Item
	err := db.Preload("Publisher").Preload("Reviews").Preload("Authors").Preload("Genres").Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, itemSummaries(items))
}

func getItem(c *gin.Context) {
	itemUid := c.Param("itemUid")

	var item models.Item
	err := db.Where("item_uid = ?", itemUid).
		Preload("Publisher").Preload("AgeCategory").
		Preload("Authors").Preload("Genres").
		Preload("Reviews").Preload("Reviews.Customer").
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	view, err := itemView(item)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "item has conflicting facet data"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func deleteItem(c *gin.Context) {
	itemUid := c.Param("itemUid")

	var item models.Item
	if err := db.Where("item_uid = ?", itemUid).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	// Hard delete: reviews and author/genre join rows go with the item.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&item).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
		return
	}
	c.Status(http.StatusNoContent)
}

func getPublisherItems(c *gin.Context) {
	publisherUid := c.Param("publisherUid")

	var publisher models.Publisher
	if err := db.Where("publisher_uid = ?", publisherUid).First(&publisher).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publisher not found"})
		return
	}

	var items []models.Item
	err := db.Where("publisher_id = ?", publisher.ID).
		Preload("Publisher").Preload("Reviews").Preload("Authors").Preload("Genres").
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, itemSummaries(items))
}

func getAgeCategoryItems(c *gin.Context) {
	categoryUid := c.Param("categoryUid")

	var category models.AgeCategory
	if err := db.Where("age_category_uid = ?", categoryUid).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Age category not found"})
		return
	}

	var items []models.Item
	err := db.Where("age_category_id = ?", category.ID).
		Preload("Publisher").Preload("Reviews").Preload("Authors").Preload("Genres").
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, itemSummaries(items))
}

func getAppropriateItems(c *gin.Context) {
	ageStr := c.Query("age")
	age, err := strconv.Atoi(ageStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age is required and must be an integer"})
		return
	}
	if age < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age must not be negative"})
		return
	}

	var items []models.Item
	err = db.Joins("JOIN age_categories ON age_categories.id = items.age_category_id").
		Where("age_categories.minimum_age <= ?", age).
		Preload("Publisher").Preload("Reviews").Preload("Authors").Preload("Genres").
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, itemSummaries(items))
}

func getStock(c *gin.Context) {
	itemUid := c.Param("itemUid")
	level, err := inventory.StockLevel(db, itemUid)
	if err != nil {
		if errors.Is(err, inventory.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemUid": itemUid, "stockQuantity": level})
}

func increaseStock(c *gin.Context) {
	itemUid := c.Param("itemUid")
	var request struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	level, err := inventory.IncreaseStock(db, itemUid, request.Amount)
	if err != nil {
		respondStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemUid": itemUid, "stockQuantity": level})
}

func decreaseStock(c *gin.Context) {
	itemUid := c.Param("itemUid")
	var request struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	level, err := inventory.DecreaseStock(db, itemUid, request.Amount)
	if err != nil {
		respondStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemUid": itemUid, "stockQuantity": level})
}

func respondStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive integer"})
	case errors.Is(err, inventory.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, inventory.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func createReview(c *gin.Context) {
	username := c.GetHeader("X-User-Name")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return
	}
	itemUid := c.Param("itemUid")

	var request struct {
		Rating int    `json:"rating" binding:"required"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if !models.ValidRating(request.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	var item models.Item
	if err := db.Where("item_uid = ?", itemUid).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	customer, err := findOrCreateCustomer(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve customer"})
		return
	}

	review := models.Review{
		ReviewUid:  uuid.New().String(),
		Rating:     request.Rating,
		Text:       request.Text,
		CustomerID: customer.ID,
		ItemID:     item.ID,
	}
	if err := db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviewUid": review.ReviewUid,
		"rating":    review.Rating,
		"text":      review.Text,
		"createdAt": review.CreatedAt.Format(timestampLayout),
	})
}

func updateReview(c *gin.Context) {
	username := c.GetHeader("X-User-Name")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Name header is required"})
		return
	}
	reviewUid := c.Param("reviewUid")

	var request struct {
		Rating int    `json:"rating" binding:"required"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if !models.ValidRating(request.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	var review models.Review
	if err := db.Where("review_uid = ?", reviewUid).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	var customer models.Customer
	if err := db.Where("username = ?", username).First(&customer).Error; err != nil || review.CustomerID != customer.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "review belongs to another customer"})
		return
	}

	review.Rating = request.Rating
	review.Text = request.Text
	if err := db.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviewUid": review.ReviewUid,
		"rating":    review.Rating,
		"text":      review.Text,
	})
}

func findOrCreateCustomer(username string) (models.Customer, error) {
	var customer models.Customer
	if err := db.Where("username = ?", username).First(&customer).Error; err == nil {
		return customer, nil
	}
	customer = models.Customer{
		CustomerUid: uuid.New().String(),
		Username:    username,
	}
	if err := db.Create(&customer).Error; err != nil {
		return customer, err
	}
	return customer, nil
}

func findAuthors(uids []string) ([]models.Author, error) {
	authors := make([]models.Author, 0, len(uids))
	for _, uid := range uids {
		var author models.Author
		if err := db.Where("author_uid = ?", uid).First(&author).Error; err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, nil
}

func findGenres(uids []string) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(uids))
	for _, uid := range uids {
		var genre models.Genre
		if err := db.Where("genre_uid = ?", uid).First(&genre).Error; err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

func itemSummaries(items []models.Item) []gin.H {
	summaries := make([]gin.H, len(items))
	for i, item := range items {
		summaries[i] = itemSummary(item)
	}
	return summaries
}

func itemSummary(item models.Item) gin.H {
	summary := gin.H{
		"itemUid":       item.ItemUid,
		"name":          item.Name,
		"image":         item.ImageURL,
		"price":         formatPrice(item.Price),
		"publisherName": item.Publisher.Name,
		"averageRating": models.AverageRating(item.Reviews),
	}
	if contentType, err := item.ClassifyContentType(); err == nil && contentType == models.ContentBook {
		authors := make([]string, len(item.Authors))
		for i, author := range item.Authors {
			authors[i] = author.Name + " " + author.Surname
		}
		genres := make([]string, len(item.Genres))
		for i, genre := range item.Genres {
			genres[i] = genre.Name
		}
		summary["authors"] = authors
		summary["genres"] = genres
	}
	return summary
}

func itemView(item models.Item) (gin.H, error) {
	condition, err := item.ClassifyCondition()
	if err != nil {
		return nil, err
	}
	contentType, err := item.ClassifyContentType()
	if err != nil {
		return nil, err
	}

	view := gin.H{
		"itemUid":        item.ItemUid,
		"name":           item.Name,
		"description":    item.Description,
		"image":          item.ImageURL,
		"publishingDate": item.PublishingDate.Format(dateLayout),
		"language":       item.Language,
		"price":          formatPrice(item.Price),
		"stockQuantity":  item.StockQuantity,
		"publisherName":  item.Publisher.Name,
		"ageCategory": gin.H{
			"tag":        item.AgeCategory.Tag,
			"minimumAge": item.AgeCategory.MinimumAge,
		},
		"averageRating": models.AverageRating(item.Reviews),
	}

	switch condition {
	case models.ConditionNew:
		view["condition"] = gin.H{"type": condition, "isSealed": *item.IsSealed}
	case models.ConditionUsed:
		view["condition"] = gin.H{
			"type":           condition,
			"grade":          *item.UsedGrade,
			"hasAnnotations": *item.HasAnnotations,
		}
	}

	view["contentType"] = contentType
	switch contentType {
	case models.ContentBook:
		authors := make([]gin.H, len(item.Authors))
		for i, author := range item.Authors {
			authors[i] = gin.H{
				"authorUid": author.AuthorUid,
				"name":      author.Name,
				"surname":   author.Surname,
				"pseudonym": author.Pseudonym,
			}
		}
		genres := make([]gin.H, len(item.Genres))
		for i, genre := range item.Genres {
			genres[i] = gin.H{"genreUid": genre.GenreUid, "name": genre.Name}
		}
		view["book"] = gin.H{
			"pages":   *item.Pages,
			"cover":   *item.CoverType,
			"authors": authors,
			"genres":  genres,
		}
	case models.ContentMagazine:
		view["magazine"] = gin.H{"isSpecialEdition": *item.IsSpecialEdition}
	case models.ContentNewspaper:
		topics, err := item.NewspaperTopics()
		if err != nil {
			return nil, err
		}
		view["newspaper"] = gin.H{"headline": *item.Headline, "topics": topics}
	}

	reviews := make([]gin.H, len(item.Reviews))
	for i, review := range item.Reviews {
		reviews[i] = gin.H{
			"reviewUid": review.ReviewUid,
			"rating":    review.Rating,
			"text":      review.Text,
			"username":  review.Customer.Username,
			"createdAt": review.CreatedAt.Format(timestampLayout),
		}
	}
	view["reviews"] = reviews

	return view, nil
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

func seedTestData() {
	testPublisherUid := "0a8db20f-6263-4a3e-9a57-2f1a4c03b2a1"
	testCategoryUid := "4f4be6cb-59da-41b7-9a1e-6a93a5fd2f35"
	testItemUid := "b6d1cf0d-8f3c-4e48-b6a4-1ec9a2cf1f60"

	var publisher models.Publisher
	if err := db.Where("publisher_uid = ?", testPublisherUid).First(&publisher).Error; err != nil {
		publisher = models.Publisher{
			PublisherUid: testPublisherUid,
			Name:         "Helion",
			Address:      "Kosciuszki 1c, Gliwice",
			Email:        "contact@helion.pl",
			Phone:        "+48 32 230 98 63",
		}
		if err := db.Create(&publisher).Error; err != nil {
			log.Printf("Failed to create test publisher: %v", err)
		}
	}

	var category models.AgeCategory
	if err := db.Where("age_category_uid = ?", testCategoryUid).First(&category).Error; err != nil {
		category = models.AgeCategory{
			AgeCategoryUid: testCategoryUid,
			Tag:            "TEEN",
			Description:    "Suitable for readers of 13 and older",
			MinimumAge:     13,
		}
		if err := db.Create(&category).Error; err != nil {
			log.Printf("Failed to create test age category: %v", err)
		}
	}

	var author models.Author
	if err := db.Where("name = ? AND surname = ?", "Alan", "Donovan").First(&author).Error; err != nil {
		author = models.Author{
			AuthorUid: uuid.New().String(),
			Name:      "Alan",
			Surname:   "Donovan",
		}
		if err := db.Create(&author).Error; err != nil {
			log.Printf("Failed to create test author: %v", err)
		}
	}

	var genre models.Genre
	if err := db.Where("name = ?", "Programming").First(&genre).Error; err != nil {
		genre = models.Genre{
			GenreUid:    uuid.New().String(),
			Name:        "Programming",
			Description: "Software development and languages",
		}
		if err := db.Create(&genre).Error; err != nil {
			log.Printf("Failed to create test genre: %v", err)
		}
	}

	var item models.Item
	if err := db.Where("item_uid = ?", testItemUid).First(&item).Error; err != nil {
		item = models.Item{
			ItemUid:       testItemUid,
			Name:          "The Go Programming Language",
			Description:   "The authoritative resource for writing Go",
			Language:      "English",
			Price:         39.99,
			StockQuantity: 10,
			PublisherID:   publisher.ID,
			AgeCategoryID: category.ID,
		}
		item.MarkNew(true)
		if err := item.AttachBookFacet(380, models.CoverSoft, []models.Author{author}, []models.Genre{genre}); err != nil {
			log.Printf("Failed to attach book facet to test item: %v", err)
		}
		if err := db.Create(&item).Error; err != nil {
			log.Printf("Failed to create test item: %v", err)
		}
	}
	log.Println("Catalog test data seeded")
}

func healthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "Host localhost:8060 is active",
	})
}
