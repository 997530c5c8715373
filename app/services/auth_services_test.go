package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
	"chungtay/pkg/auth"
)

type fakeAuthUsers struct {
	byEmail map[string]*models.User
}

func newFakeAuthUsers() *fakeAuthUsers {
	return &fakeAuthUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeAuthUsers) Create(ctx context.Context, user *models.User) error {
	if _, taken := f.byEmail[user.Email]; taken {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	user.ID = primitive.NewObjectID()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeAuthUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeAuthUsers())

	user, tokens, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Người dùng mới",
		Email:    "new@example.com",
		Password: "secret-pass-1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "secret-pass-1" {
		t.Fatal("password stored in plain text")
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q", user.Role)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("tokens not issued")
	}

	claims, err := auth.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("token subject = %q", claims.UserID)
	}

	if _, _, err := svc.Login(context.Background(), LoginInput{
		Email: "new@example.com", Password: "secret-pass-1",
	}); err != nil {
		t.Errorf("login: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeAuthUsers())

	in := RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret-pass-1"}
	if _, _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejections(t *testing.T) {
	svc := NewAuthService(newFakeAuthUsers())
	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "B", Email: "b@example.com", Password: "secret-pass-1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// A wrong email and a wrong password fail identically.
	_, _, wrongEmail := svc.Login(context.Background(), LoginInput{
		Email: "nobody@example.com", Password: "secret-pass-1"})
	_, _, wrongPass := svc.Login(context.Background(), LoginInput{
		Email: "b@example.com", Password: "wrong"})

	if !errors.Is(wrongEmail, ErrInvalidCredentials) {
		t.Errorf("wrong email err = %v", wrongEmail)
	}
	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", wrongPass)
	}
	if wrongEmail.Error() != wrongPass.Error() {
		t.Error("rejection messages differ between wrong email and wrong password")
	}
}
