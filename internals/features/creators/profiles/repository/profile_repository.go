package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sprout_backend/internals/apperrors"
	"sprout_backend/internals/features/creators/profiles/model"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// WithTx returns a repository bound to tx.
func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: tx}
}

func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*model.CreatorProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}
	var p model.CreatorProfile
	err := r.DB.WithContext(ctx).Where("username = ?", username).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Creator not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CreatorProfile, error) {
	var p model.CreatorProfile
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Creator not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Identity is what the auth provider tells us about a signed-in user.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	AvatarURL   string
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// EnsureExists creates the row for an authenticated user on first sight and
// returns the stored profile. An existing row is never modified.
func (r *ProfileRepository) EnsureExists(ctx context.Context, id Identity) (*model.CreatorProfile, error) {
	p := model.CreatorProfile{
		ID:          id.ID,
		Email:       optional(id.Email),
		DisplayName: optional(id.DisplayName),
		AvatarURL:   optional(id.AvatarURL),
	}
	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&p).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id.ID)
}

// ClaimUsername sets the username of a creator that has none yet.
// Usernames are immutable once claimed.
func (r *ProfileRepository) ClaimUsername(ctx context.Context, creatorID uuid.UUID, raw string) (*model.CreatorProfile, error) {
	clean, ok := model.NormalizeUsername(raw)
	if !ok {
		return nil, apperrors.Validation("Use 3-20 chars: letters, numbers, hyphen or underscore")
	}

	current, err := r.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if current.HasUsername() {
		if model.Str(current.Username) == clean {
			return current, nil
		}
		return nil, apperrors.Conflict("Username already claimed")
	}

	var taken int64
	if err := r.DB.WithContext(ctx).Model(&model.CreatorProfile{}).
		Where("username = ?", clean).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, apperrors.Conflict("That username is taken")
	}

	res := r.DB.WithContext(ctx).
		Model(&model.CreatorProfile{}).
		Where("id = ? AND username IS NULL", creatorID).
		Update("username", clean)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, apperrors.Conflict("That username is taken")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.Conflict("Username already claimed")
	}
	return r.FindByID(ctx, creatorID)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate key") || strings.Contains(lc, "unique constraint")
}

// PayoutAddress returns the creator's UPI id, or "" when none is on file.
func (r *ProfileRepository) PayoutAddress(ctx context.Context, creatorID uuid.UUID) (string, error) {
	var row struct {
		UPIID *string `gorm:"column:upi_id"`
	}
	err := r.DB.WithContext(ctx).
		Model(&model.CreatorProfile{}).
		Select("upi_id").
		Where("id = ?", creatorID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return model.Str(row.UPIID), nil
}

func (r *ProfileRepository) SetStripeAccount(ctx context.Context, creatorID uuid.UUID, accountID string) error {
	return r.setAccount(ctx, creatorID, map[string]any{
		"stripe_account_id": accountID,
		"payment_gateway":   model.GatewayStripe,
	})
}

func (r *ProfileRepository) SetRazorpayAccount(ctx context.Context, creatorID uuid.UUID, accountID string) error {
	return r.setAccount(ctx, creatorID, map[string]any{
		"razorpay_account_id": accountID,
		"payment_gateway":     model.GatewayRazorpay,
	})
}

func (r *ProfileRepository) setAccount(ctx context.Context, creatorID uuid.UUID, cols map[string]any) error {
	res := r.DB.WithContext(ctx).
		Model(&model.CreatorProfile{}).
		Where("id = ?", creatorID).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Creator not found")
	}
	return nil
}
