package repositories

import (
	"context"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/store"
)

var accountsKey = store.GlobalKey("accounts")

type accountBook struct {
	Users map[string]*models.UserAccount `json:"users"`
}

// AccountRepository stores user accounts keyed by role and lowercased email.
type AccountRepository struct {
	backend store.Backend
}

func NewAccountRepository(backend store.Backend) *AccountRepository {
	return &AccountRepository{backend: backend}
}

// Create stores the account unless one already exists for the same role and email.
// Existing accounts are never overwritten.
func (r *AccountRepository) Create(ctx context.Context, account *models.UserAccount) error {
	key := models.AccountKey(account.Role, account.Email)
	return store.Update(ctx, r.backend, accountsKey, func(book *accountBook) error {
		if book.Users == nil {
			book.Users = make(map[string]*models.UserAccount)
		}
		if _, exists := book.Users[key]; exists {
			return ErrAccountExists
		}
		stored := *account
		book.Users[key] = &stored
		return nil
	})
}

func (r *AccountRepository) Find(ctx context.Context, role, email string) (*models.UserAccount, error) {
	book, err := store.View[accountBook](ctx, r.backend, accountsKey)
	if err != nil {
		return nil, err
	}
	account, ok := book.Users[models.AccountKey(role, email)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	book, err := store.View[accountBook](ctx, r.backend, accountsKey)
	if err != nil {
		return nil, err
	}
	for _, account := range book.Users {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, ErrAccountNotFound
}
