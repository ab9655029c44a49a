package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstructorService struct {
	db *gorm.DB
}

func NewInstructorService(db *gorm.DB) *InstructorService {
	return &InstructorService{db: db}
}

func (s *InstructorService) Create(ctx context.Context, req *dto.InstructorRequest) (*models.Instructor, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	instructor := &models.Instructor{
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      strings.TrimSpace(req.Phone),
		Specialty:  strings.TrimSpace(req.Specialty),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unique := [][2]string{{"national_id", instructor.NationalID}, {"email", instructor.Email}}
		for _, u := range unique {
			var count int64
			if err := tx.Model(&models.Instructor{}).Where(u[0]+" = ?", u[1]).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return duplicate(u[0])
			}
		}
		if err := tx.Create(instructor).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicate("national_id")
			}
			return fmt.Errorf("failed to create instructor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "instructor created", "instructor_id", instructor.ID.String())
	return instructor, nil
}

func (s *InstructorService) List(ctx context.Context) ([]models.Instructor, error) {
	var instructors []models.Instructor
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&instructors).Error; err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	return instructors, nil
}

func (s *InstructorService) Get(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	var instructor models.Instructor
	if err := s.db.WithContext(ctx).First(&instructor, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrInstructorNotFound)
	}
	return &instructor, nil
}
