package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

// AccountRepository persists the accounts behind request identities.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	Resolve(ctx context.Context, email, role string) (models.Account, error)
	ListPendingLeaders(ctx context.Context) ([]models.Account, error)
	ApproveLeader(ctx context.Context, email string) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs a GORM-backed repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	if err := conn(ctx, r.db).Where("email = ?", email).First(&account).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// Resolve returns the account for email, creating it on first sight. An empty
// role keeps the stored one (student for new accounts). A claimed role that
// differs from the stored one replaces it; moving into the leader role is
// approved only if an admin approved this account as a leader before.
func (r *accountRepository) Resolve(ctx context.Context, email, role string) (models.Account, error) {
	var account models.Account
	err := conn(ctx, r.db).Where("email = ?", email).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if role == "" {
			role = models.AccountRoleStudent
		}
		account = models.Account{
			Email:          email,
			Role:           role,
			LeaderApproved: role != models.AccountRoleLeader,
		}
		if err := conn(ctx, r.db).Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return r.FindByEmail(ctx, email)
			}
			return models.Account{}, err
		}
		return account, nil
	case err != nil:
		return models.Account{}, err
	}

	if role == "" || account.Role == role {
		return account, nil
	}

	account.Role = role
	account.LeaderApproved = role != models.AccountRoleLeader || account.LeaderApprovedAt != nil
	account.UpdatedAt = time.Now().UTC()
	err = conn(ctx, r.db).Model(&models.Account{}).Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"role":            account.Role,
			"leader_approved": account.LeaderApproved,
			"updated_at":      account.UpdatedAt,
		}).Error
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) ListPendingLeaders(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := conn(ctx, r.db).
		Where("role = ? AND leader_approved = ?", models.AccountRoleLeader, false).
		Order("created_at ASC").Order("id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// ApproveLeader flips leader_approved for a pending leader and reports whether this call did it.
func (r *accountRepository) ApproveLeader(ctx context.Context, email string) (bool, error) {
	now := time.Now().UTC()
	result := conn(ctx, r.db).Model(&models.Account{}).
		Where("email = ? AND role = ? AND leader_approved = ?", email, models.AccountRoleLeader, false).
		Updates(map[string]interface{}{"leader_approved": true, "leader_approved_at": now, "updated_at": now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
