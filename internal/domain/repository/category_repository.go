package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	Update(category *entity.Category) error
	List(search string, limit, offset int) ([]*entity.Category, error)
	Delete(id string) error
}
