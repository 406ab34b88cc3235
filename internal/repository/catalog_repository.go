package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/importer"
	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	CategoryCacheTTL = 30 * time.Minute // Categories rarely change
)

const categoryListCacheKey = "catalog:categories:all"

// CatalogRepository owns all database access for products and categories.
// The Redis client is optional; a nil client disables caching.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// The repository is the persistence collaborator of the import pipeline.
var _ importer.Store = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, redis: redisClient}
}

// invalidateCategoryCache drops the cached category list after any category write.
func (r *CatalogRepository) invalidateCategoryCache(ctx context.Context) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, categoryListCacheKey).Err()
}

// Category operations

// ListCategories returns all categories ordered by name. This is the
// snapshot read the import pipeline takes once per import.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]importer.Category, error) {
	var categories []models.Category
	cached := false

	if r.redis != nil {
		if val, err := r.redis.Get(ctx, categoryListCacheKey).Result(); err == nil {
			if json.Unmarshal([]byte(val), &categories) == nil {
				cached = true
			}
		}
	}

	if !cached {
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
			return nil, err
		}
		if r.redis != nil {
			if data, err := json.Marshal(categories); err == nil {
				_ = r.redis.Set(ctx, categoryListCacheKey, data, CategoryCacheTTL).Err()
			}
		}
	}

	snapshot := make([]importer.Category, 0, len(categories))
	for _, c := range categories {
		snapshot = append(snapshot, importer.Category{ID: c.ID, Name: c.Name})
	}
	return snapshot, nil
}

// GetCategories returns the full category models for the CRUD API.
func (r *CatalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CatalogRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Create(category).Error
	if err == nil {
		r.invalidateCategoryCache(ctx)
	}
	return err
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, id uuid.UUID, updates *models.Category) error {
	updates.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCache(ctx)
	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCache(ctx)
	return nil
}

// Product operations

func (r *CatalogRepository) GetProducts(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *CatalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, id uuid.UUID, updates *models.Product) error {
	updates.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Import transaction support

// importTx adapts a GORM transaction to the importer.Tx contract.
type importTx struct {
	tx  *gorm.DB
	seq int
}

// Begin opens the single transaction an import runs under.
func (r *CatalogRepository) Begin(ctx context.Context) (importer.Tx, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &importTx{tx: tx}, nil
}

// InsertProduct inserts one validated row. Each insert runs under a
// savepoint: a failed statement rolls back to the savepoint instead of
// aborting the whole transaction, so later rows and the final commit still
// succeed on the partial-commit path.
func (t *importTx) InsertProduct(ctx context.Context, rec importer.ValidatedRecord) error {
	t.seq++
	savepoint := fmt.Sprintf("import_row_%d", t.seq)
	if err := t.tx.SavePoint(savepoint).Error; err != nil {
		return err
	}

	product := &models.Product{
		ID:         uuid.New(),
		Name:       rec.Name,
		CategoryID: rec.CategoryID,
		Price:      rec.Price,
		Stock:      rec.Stock,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := t.tx.Create(product).Error; err != nil {
		_ = t.tx.RollbackTo(savepoint).Error
		return err
	}
	return nil
}

func (t *importTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *importTx) Rollback() error {
	return t.tx.Rollback().Error
}
