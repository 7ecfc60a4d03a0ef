package accounts

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sportsgear/internal/models"
	"sportsgear/internal/notify"
	"sportsgear/internal/repository"
)

type fakeUsers struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUsers) FindByResetToken(_ context.Context, hash string, now time.Time) (models.User, error) {
	for _, u := range f.users {
		if u.ResetPasswordToken == hash && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUsers) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range f.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	if f.emailTaken(u.Email, primitive.NilObjectID) {
		return repository.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) Replace(_ context.Context, u models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if f.emailTaken(u.Email, u.ID) {
		return repository.ErrDuplicate
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeSender struct {
	sent []notify.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg notify.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) lastOTP() string {
	if len(s.sent) == 0 {
		return ""
	}
	otp, _ := s.sent[len(s.sent)-1].Data["otp"].(string)
	return otp
}
