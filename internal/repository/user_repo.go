package repository

import (
	"strconv"
	"time"

	"emergency-center-scheduler/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindUserByID finds a user by primary key
func (r *UserRepository) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByEmail finds a user by email
func (r *UserRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUsersByIDs returns the users among ids that exist, ordered by id
func (r *UserRepository) FindUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&users).Error
	return users, err
}

// ListUsers lists users, optionally restricted to one status
func (r *UserRepository) ListUsers(status string) ([]models.User, error) {
	var users []models.User
	query := r.db.Order("created_at ASC, id ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&users).Error
	return users, err
}

// CreateUser creates a new user; a taken email yields ConstraintUserEmail
func (r *UserRepository) CreateUser(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicate(err) {
			return conflict(ConstraintUserEmail)
		}
		return err
	}
	return nil
}

// UpdateProfile writes the editable profile columns
func (r *UserRepository) UpdateProfile(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus sets the review status of a user
func (r *UserRepository) SetStatus(id uint, status string) error {
	return r.updateColumn(id, "status", status)
}

// SetEmail changes a user's email; a taken email yields ConstraintUserEmail
func (r *UserRepository) SetEmail(id uint, email string) error {
	err := r.updateColumn(id, "email", email)
	if isDuplicate(err) {
		return conflict(ConstraintUserEmail)
	}
	return err
}

// SetPasswordHash replaces a user's password digest
func (r *UserRepository) SetPasswordHash(id uint, hash string) error {
	return r.updateColumn(id, "password_hash", hash)
}

// updateColumn distinguishes a missing row from an unchanged value, since
// some drivers report zero affected rows when the value is already set.
func (r *UserRepository) updateColumn(id uint, column string, value interface{}) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		found, err := exists(r.db.Model(&models.User{}).Where("id = ?", id))
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteUser removes a user together with everything keyed by their id:
// memberships, busy days, shifts, messages and refresh tokens.
func (r *UserRepository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx.Model(&models.User{}).Where("id = ?", id))
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		steps := []struct {
			model interface{}
			query string
			args  []interface{}
		}{
			{&models.Membership{}, "user_id = ?", []interface{}{id}},
			{&models.BusyDay{}, "medic_id = ?", []interface{}{id}},
			{&models.Shift{}, "medic_id = ?", []interface{}{id}},
			{&models.Message{}, "to_id = ? OR from_id = ?", []interface{}{id, strconv.FormatUint(uint64(id), 10)}},
			{&models.RefreshToken{}, "user_id = ?", []interface{}{id}},
		}
		for _, step := range steps {
			if err := tx.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// CreateRefreshToken creates a new refresh token
func (r *UserRepository) CreateRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindRefreshTokenByHash finds a refresh token by its hash
func (r *UserRepository) FindRefreshTokenByHash(hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.Where("token_hash = ? AND revoked = ?", hash, false).
		Preload("User").
		First(&token).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

// RevokeRefreshTokenByHash marks a refresh token as revoked by its hash
func (r *UserRepository) RevokeRefreshTokenByHash(hash string) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
}

// PurgeRefreshTokens deletes tokens that are revoked or expired before now
func (r *UserRepository) PurgeRefreshTokens(now time.Time) (int64, error) {
	res := r.db.Where("revoked = ? OR expires_at < ?", true, now).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
