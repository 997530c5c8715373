package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
	"chungtay/pkg/auth"
)

// UserStore is the slice of the user repository the user service needs.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Profile returns the full user record for the authenticated caller.
func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// PublicProfile returns the public projection of any user.
func (s *UserService) PublicProfile(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error) {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfileInput carries the mutable profile fields. Role, email, and the
// running totals are not updatable through this path.
type UpdateProfileInput struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Avatar      string `json:"avatar,omitempty" validate:"omitempty,url"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=255"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Facebook    string `json:"facebook,omitempty" validate:"omitempty,url"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	BankName    string `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	BankAccount string `json:"bank_account,omitempty" validate:"omitempty,max=50"`
}

// UpdateProfile applies the non-empty fields of in to the caller's record and
// returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in UpdateProfileInput) (*models.User, error) {
	set := bson.M{}
	fields := map[string]string{
		"name":         in.Name,
		"avatar":       in.Avatar,
		"phone":        in.Phone,
		"address":      in.Address,
		"gender":       in.Gender,
		"bio":          in.Bio,
		"facebook":     in.Facebook,
		"website":      in.Website,
		"bank_name":    in.BankName,
		"bank_account": in.BankAccount,
	}
	for key, val := range fields {
		if val != "" {
			set[key] = val
		}
	}

	if len(set) > 0 {
		if err := s.users.Update(ctx, id, set); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.Profile(ctx, id)
}

// ChangePasswordInput carries the current and replacement passwords.
type ChangePasswordInput struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, in ChangePasswordInput) error {
	user, err := s.Profile(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, in.Current) {
		return Validation("current password is incorrect")
	}

	hash, err := auth.HashPassword(in.New)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.Update(ctx, id, bson.M{"password": hash})
}
