package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidContact = errors.New("invalid contact")

// ContactInput is a new notification contact.
type ContactInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type ContactService struct {
	repo     repository.ContactRepo
	validate *validator.Validate
}

func NewContactService(repo repository.ContactRepo) *ContactService {
	return &ContactService{repo: repo, validate: validator.New()}
}

func (s *ContactService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return s.repo.List(ctx)
}

// AddContact validates in and stores it as an active contact.
func (s *ContactService) AddContact(ctx context.Context, in ContactInput) (models.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validate.Struct(in); err != nil {
		return models.Contact{}, errors.Join(ErrInvalidContact, err)
	}

	c := models.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return models.Contact{}, err
	}
	c.ID = id
	return c, nil
}

// DeactivateContact stops notifications to the contact; the row is kept.
func (s *ContactService) DeactivateContact(ctx context.Context, id int) error {
	if id <= 0 {
		return repository.ErrContactNotFound
	}
	return s.repo.Deactivate(ctx, id)
}
