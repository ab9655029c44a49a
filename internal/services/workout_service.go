package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkoutDetail is a workout together with the members assigned to it.
type WorkoutDetail struct {
	Workout models.Workout
	Members []models.Member
}

type WorkoutService struct {
	db    *gorm.DB
	clock *clock.Clock
}

func NewWorkoutService(db *gorm.DB, clk *clock.Clock) *WorkoutService {
	return &WorkoutService{db: db, clock: clk}
}

func (s *WorkoutService) Create(ctx context.Context, req *dto.WorkoutRequest) (*models.Workout, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	instructorID, _ := uuid.Parse(req.InstructorID)

	var workout models.Workout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instructor models.Instructor
		if err := tx.First(&instructor, "id = ?", instructorID).Error; err != nil {
			return notFound(err, ErrInstructorNotFound)
		}
		workout = models.Workout{
			Name:         req.Name,
			Description:  strings.TrimSpace(req.Description),
			InstructorID: instructor.ID,
		}
		if err := tx.Create(&workout).Error; err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}
		workout.Instructor = &instructor
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "workout created", "workout_id", workout.ID.String(), "instructor_id", instructorID.String())
	return &workout, nil
}

func (s *WorkoutService) List(ctx context.Context) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := s.db.WithContext(ctx).Preload("Instructor").Order("name ASC").Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

func (s *WorkoutService) Get(ctx context.Context, id uuid.UUID) (*WorkoutDetail, error) {
	var detail WorkoutDetail
	if err := s.db.WithContext(ctx).Preload("Instructor").First(&detail.Workout, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	err := s.db.WithContext(ctx).
		Joins("JOIN workout_members ON workout_members.member_id = members.id").
		Where("workout_members.workout_id = ?", id).
		Order("members.name ASC").
		Find(&detail.Members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load workout members: %w", err)
	}
	return &detail, nil
}

// Assign links a member to a workout. Assigning twice is a no-op.
func (s *WorkoutService) Assign(ctx context.Context, workoutID, memberID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Workout{}, "id = ?", workoutID).Error; err != nil {
			return notFound(err, ErrWorkoutNotFound)
		}
		if err := tx.Select("id").First(&models.Member{}, "id = ?", memberID).Error; err != nil {
			return notFound(err, ErrMemberNotFound)
		}
		link := models.WorkoutMember{WorkoutID: workoutID, MemberID: memberID, AssignedAt: s.clock.Now()}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "member assigned to workout", "workout_id", workoutID.String(), "member_id", memberID.String())
	return nil
}

// Unassign removes a member from a workout. Removing a member that was not
// assigned is a no-op.
func (s *WorkoutService) Unassign(ctx context.Context, workoutID, memberID uuid.UUID) error {
	var workout models.Workout
	if err := s.db.WithContext(ctx).Select("id").First(&workout, "id = ?", workoutID).Error; err != nil {
		return notFound(err, ErrWorkoutNotFound)
	}
	err := s.db.WithContext(ctx).
		Where("workout_id = ? AND member_id = ?", workoutID, memberID).
		Delete(&models.WorkoutMember{}).Error
	if err != nil {
		return fmt.Errorf("failed to unassign member: %w", err)
	}
	return nil
}
