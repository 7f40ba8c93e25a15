package models

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound is returned when a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	ErrProductAlreadyReserved = errors.New("product is already reserved")
	ErrProductNotReserved     = errors.New("product is not reserved")
	ErrProductAlreadySold     = errors.New("product has already been sold")
	ErrProductOutOfStock      = errors.New("product is out of stock")
)

const fkViolation = "23503"

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) Create(product *Product) error {
	if err := r.db.Create(product).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductsRepository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetAvailable returns products with stock remaining, in insertion order.
func (r *ProductsRepository) GetAvailable() ([]Product, error) {
	var products []Product
	if err := r.db.Where("amount > 0").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetAvailableByCategory(categoryID uint) ([]Product, error) {
	var products []Product
	if err := r.db.
		Where("amount > 0 AND category_id = ?", categoryID).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetSold returns sold products regardless of remaining stock.
// A zero categoryID means no category filter.
func (r *ProductsRepository) GetSold(categoryID uint) ([]Product, error) {
	query := r.db.Where("sold")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) UpdatePrice(id uint, price decimal.Decimal) error {
	res := r.db.Model(&Product{}).Where("id = ?", id).Update("price", price)
	if res.Error != nil {
		return fmt.Errorf("update price: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) SetDiscount(id uint, discount decimal.Decimal) (*Product, error) {
	var product Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Product{}).Where("id = ?", id).Update("discount", discount)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductsRepository) Delete(id uint) error {
	res := r.db.Delete(&Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Reserve holds one unit of stock. The guard and the decrement execute as a
// single conditional UPDATE so concurrent calls cannot drive amount negative;
// a zero row count is disambiguated by re-reading the row in the same
// transaction.
func (r *ProductsRepository) Reserve(id uint) (*Product, error) {
	return r.transition(id, map[string]any{
		"reserved": true,
		"amount":   gorm.Expr("amount - 1"),
	}, "NOT reserved AND amount > 0", func(p *Product) error {
		if p.Reserved {
			return ErrProductAlreadyReserved
		}
		return ErrProductOutOfStock
	})
}

// Unreserve is the inverse of Reserve: the unit goes back into stock.
func (r *ProductsRepository) Unreserve(id uint) (*Product, error) {
	return r.transition(id, map[string]any{
		"reserved": false,
		"amount":   gorm.Expr("amount + 1"),
	}, "reserved", func(p *Product) error {
		return ErrProductNotReserved
	})
}

// Sell finalizes one unit. A prior reservation is not required, but a sold
// product cannot be sold again.
func (r *ProductsRepository) Sell(id uint) (*Product, error) {
	return r.transition(id, map[string]any{
		"reserved": false,
		"sold":     true,
		"amount":   gorm.Expr("amount - 1"),
	}, "NOT sold AND amount > 0", func(p *Product) error {
		if p.Sold {
			return ErrProductAlreadySold
		}
		return ErrProductOutOfStock
	})
}

// transition applies updates to the row only when guard holds, then returns
// the fresh row. reject maps a guard failure to its domain error.
func (r *ProductsRepository) transition(id uint, updates map[string]any, guard string, reject func(*Product) error) (*Product, error) {
	var product Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Product{}).
			Where("id = ?", id).
			Where(guard).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if res.RowsAffected == 0 {
			return reject(&product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
