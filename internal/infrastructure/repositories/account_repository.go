package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/you/allospace/domain"
	"gorm.io/gorm"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID                  string           `gorm:"primaryKey;size:36"`
	Email               string           `gorm:"uniqueIndex;size:255;not null"`
	GoogleID            *string          `gorm:"column:google_id;uniqueIndex;size:255"`
	PasswordHash        string           `gorm:"column:password"`
	Name                string           `gorm:"size:255"`
	Phone               string           `gorm:"column:phone_number;size:32"`
	CompanyName         string           `gorm:"size:255"`
	Address             string           `gorm:"index"`
	Country             string           `gorm:"size:128"`
	City                string           `gorm:"size:128"`
	Avatar              string
	Role                string           `gorm:"index;size:32"`
	Payment             DBPaymentProfile `gorm:"embedded;embeddedPrefix:payment_"`
	ResetPasswordToken  *string          `gorm:"index;size:64"`
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time
}

// DBPaymentProfile is embedded into DBAccount; empty SubaccountID means not onboarded
type DBPaymentProfile struct {
	BusinessName  string
	BankName      string
	AccountNumber string `gorm:"size:32"`
	SubaccountID  string `gorm:"size:64"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "users"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Email = domain.NormalizeEmail(account.Email)

	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountExists
		}
		return err
	}
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)))
}

// FindByGoogleID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByGoogleID(ctx context.Context, subject string) (*domain.Account, error) {
	if subject == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.first(ctx, r.db.WithContext(ctx).Where("google_id = ?", subject))
}

// FindByResetToken implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	if tokenHash == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.first(ctx, r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now.UTC()))
}

// UpdateProfile implements domain.AccountRepository
func (r *AccountRepositoryImpl) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{}
	setIf := func(column string, v *string) {
		if v != nil {
			columns[column] = *v
		}
	}
	setIf("name", update.Name)
	setIf("phone_number", update.Phone)
	setIf("company_name", update.CompanyName)
	setIf("address", update.Address)
	setIf("country", update.Country)
	setIf("city", update.City)
	setIf("avatar", update.Avatar)

	return r.updateAndReload(ctx, id, columns)
}

// LinkGoogleID implements domain.AccountRepository.
// The avatar is only written when non-empty.
func (r *AccountRepositoryImpl) LinkGoogleID(ctx context.Context, id, subject, avatar string) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	columns := map[string]interface{}{"google_id": subject}
	if avatar != "" {
		columns["avatar"] = avatar
	}

	account, err := r.updateAndReload(ctx, id, columns)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateField
	}
	return account, err
}

// SetPaymentProfile implements domain.AccountRepository
func (r *AccountRepositoryImpl) SetPaymentProfile(ctx context.Context, id string, profile domain.PaymentProfile) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.updateAndReload(ctx, id, map[string]interface{}{
		"payment_business_name":  profile.BusinessName,
		"payment_bank_name":      profile.BankName,
		"payment_account_number": profile.AccountNumber,
		"payment_subaccount_id":  profile.SubaccountID,
	})
}

// SetResetCredential implements domain.AccountRepository
func (r *AccountRepositoryImpl) SetResetCredential(ctx context.Context, id string, cred *domain.ResetCredential) error {
	if err := checkID(id); err != nil {
		return err
	}
	columns := map[string]interface{}{
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}
	if cred != nil {
		columns["reset_password_token"] = cred.TokenHash
		columns["reset_password_expire"] = cred.ExpiresAt.UTC()
	}

	result := r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ConsumeResetToken implements domain.AccountRepository
func (r *AccountRepositoryImpl) ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string) error {
	if err := checkID(id); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&DBAccount{}).
		Where("id = ? AND reset_password_token = ?", id, tokenHash).
		Updates(map[string]interface{}{
			"password":              passwordHash,
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidResetToken
	}
	return nil
}

// updateAndReload applies columns to one row and returns the stored result in one transaction
func (r *AccountRepositoryImpl) updateAndReload(ctx context.Context, id string, columns map[string]interface{}) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			result := tx.Model(&DBAccount{}).Where("id = ?", id).Updates(columns)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.ErrAccountNotFound
			}
		}
		if err := tx.Where("id = ?", id).First(&dbAccount).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

func (r *AccountRepositoryImpl) first(ctx context.Context, query *gorm.DB) (*domain.Account, error) {
	var dbAccount DBAccount
	if err := query.First(&dbAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// checkID rejects identifiers that cannot name any account
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.MalformedIDError{Value: id}
	}
	return nil
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	dbAccount := &DBAccount{
		ID:           account.ID,
		Email:        account.Email,
		GoogleID:     account.GoogleID,
		PasswordHash: account.PasswordHash,
		Name:         account.Name,
		Phone:        account.Phone,
		CompanyName:  account.CompanyName,
		Address:      account.Address,
		Country:      account.Country,
		City:         account.City,
		Avatar:       account.Avatar,
		Role:         string(account.Role),
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if account.Payment != nil {
		dbAccount.Payment = DBPaymentProfile(*account.Payment)
	}
	if account.Reset != nil {
		token := account.Reset.TokenHash
		expire := account.Reset.ExpiresAt.UTC()
		dbAccount.ResetPasswordToken = &token
		dbAccount.ResetPasswordExpire = &expire
	}
	return dbAccount
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	account := &domain.Account{
		ID:           dbAccount.ID,
		Email:        dbAccount.Email,
		GoogleID:     dbAccount.GoogleID,
		PasswordHash: dbAccount.PasswordHash,
		Name:         dbAccount.Name,
		Phone:        dbAccount.Phone,
		CompanyName:  dbAccount.CompanyName,
		Address:      dbAccount.Address,
		Country:      dbAccount.Country,
		City:         dbAccount.City,
		Avatar:       dbAccount.Avatar,
		Role:         domain.Role(dbAccount.Role),
		CreatedAt:    dbAccount.CreatedAt,
		UpdatedAt:    dbAccount.UpdatedAt,
	}
	if dbAccount.Payment.SubaccountID != "" {
		p := domain.PaymentProfile(dbAccount.Payment)
		account.Payment = &p
	}
	if dbAccount.ResetPasswordToken != nil && dbAccount.ResetPasswordExpire != nil {
		account.Reset = &domain.ResetCredential{
			TokenHash: *dbAccount.ResetPasswordToken,
			ExpiresAt: *dbAccount.ResetPasswordExpire,
		}
	}
	return account
}
