package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/you/allospace/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepository implements domain.AccountRepository on a MongoDB collection
type MongoAccountRepository struct {
	coll *mongo.Collection
}

type mongoAccount struct {
	ID                  string        `bson:"_id"`
	Email               string        `bson:"email"`
	GoogleID            *string       `bson:"googleId,omitempty"`
	PasswordHash        string        `bson:"password,omitempty"`
	Name                string        `bson:"name"`
	Phone               string        `bson:"phoneNumber"`
	CompanyName         string        `bson:"companyName"`
	Address             string        `bson:"address"`
	Country             string        `bson:"country"`
	City                string        `bson:"city"`
	Avatar              string        `bson:"avatar"`
	Role                string        `bson:"role"`
	Payment             *mongoPayment `bson:"paymentDetails,omitempty"`
	ResetPasswordToken  string        `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time    `bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time     `bson:"createdAt"`
	UpdatedAt           time.Time     `bson:"updatedAt"`
}

type mongoPayment struct {
	BusinessName  string `bson:"businessName"`
	BankName      string `bson:"bankName"`
	AccountNumber string `bson:"accountNumber"`
	SubaccountID  string `bson:"subaccountId"`
}

func NewMongoAccountRepository(db *mongo.Database, collection string) domain.AccountRepository {
	return &MongoAccountRepository{coll: db.Collection(collection)}
}

// Create implements domain.AccountRepository
func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Email = domain.NormalizeEmail(account.Email)
	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, toMongoAccount(account)); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountExists
		}
		return err
	}
	return nil
}

// FindByID implements domain.AccountRepository
func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail implements domain.AccountRepository
func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

// FindByGoogleID implements domain.AccountRepository
func (r *MongoAccountRepository) FindByGoogleID(ctx context.Context, subject string) (*domain.Account, error) {
	if subject == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"googleId": subject})
}

// FindByResetToken implements domain.AccountRepository
func (r *MongoAccountRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	if tokenHash == "" {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now.UTC()},
	})
}

// UpdateProfile implements domain.AccountRepository
func (r *MongoAccountRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf := func(field string, v *string) {
		if v != nil {
			set[field] = *v
		}
	}
	setIf("name", update.Name)
	setIf("phoneNumber", update.Phone)
	setIf("companyName", update.CompanyName)
	setIf("address", update.Address)
	setIf("country", update.Country)
	setIf("city", update.City)
	setIf("avatar", update.Avatar)

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// LinkGoogleID implements domain.AccountRepository
func (r *MongoAccountRepository) LinkGoogleID(ctx context.Context, id, subject, avatar string) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	set := bson.M{"googleId": subject}
	if avatar != "" {
		set["avatar"] = avatar
	}
	account, err := r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateField
	}
	return account, err
}

// SetPaymentProfile implements domain.AccountRepository
func (r *MongoAccountRepository) SetPaymentProfile(ctx context.Context, id string, profile domain.PaymentProfile) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"paymentDetails": mongoPayment(profile),
	}})
}

// SetResetCredential implements domain.AccountRepository
func (r *MongoAccountRepository) SetResetCredential(ctx context.Context, id string, cred *domain.ResetCredential) error {
	if err := checkID(id); err != nil {
		return err
	}
	update := bson.M{
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}
	if cred != nil {
		update = bson.M{"$set": bson.M{
			"resetPasswordToken":  cred.TokenHash,
			"resetPasswordExpire": cred.ExpiresAt.UTC(),
			"updatedAt":           time.Now().UTC(),
		}}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ConsumeResetToken implements domain.AccountRepository
func (r *MongoAccountRepository) ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string) error {
	if err := checkID(id); err != nil {
		return err
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "resetPasswordToken": tokenHash},
		bson.M{
			"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrInvalidResetToken
	}
	return nil
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *MongoAccountRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Account, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now().UTC()
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoAccount
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func toMongoAccount(a *domain.Account) *mongoAccount {
	doc := &mongoAccount{
		ID:           a.ID,
		Email:        a.Email,
		GoogleID:     a.GoogleID,
		PasswordHash: a.PasswordHash,
		Name:         a.Name,
		Phone:        a.Phone,
		CompanyName:  a.CompanyName,
		Address:      a.Address,
		Country:      a.Country,
		City:         a.City,
		Avatar:       a.Avatar,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Payment != nil {
		p := mongoPayment(*a.Payment)
		doc.Payment = &p
	}
	if a.Reset != nil {
		exp := a.Reset.ExpiresAt.UTC()
		doc.ResetPasswordToken = a.Reset.TokenHash
		doc.ResetPasswordExpire = &exp
	}
	return doc
}

func (d *mongoAccount) toDomain() *domain.Account {
	a := &domain.Account{
		ID:           d.ID,
		Email:        d.Email,
		GoogleID:     d.GoogleID,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Phone:        d.Phone,
		CompanyName:  d.CompanyName,
		Address:      d.Address,
		Country:      d.Country,
		City:         d.City,
		Avatar:       d.Avatar,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Payment != nil && d.Payment.SubaccountID != "" {
		p := domain.PaymentProfile(*d.Payment)
		a.Payment = &p
	}
	if d.ResetPasswordToken != "" && d.ResetPasswordExpire != nil {
		a.Reset = &domain.ResetCredential{TokenHash: d.ResetPasswordToken, ExpiresAt: *d.ResetPasswordExpire}
	}
	return a
}
