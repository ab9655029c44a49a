package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MembersPerPage = 10

type MemberService struct {
	db    *gorm.DB
	clock *clock.Clock
}

func NewMemberService(db *gorm.DB, clk *clock.Clock) *MemberService {
	return &MemberService{db: db, clock: clk}
}

func (s *MemberService) Create(ctx context.Context, req *dto.MemberRequest) (*models.Member, error) {
	member, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	member.RegisteredAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkMemberUnique(tx, member, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(member).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicate("national_id")
			}
			return fmt.Errorf("failed to create member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "member registered", "member_id", member.ID.String())
	return member, nil
}

func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req *dto.MemberRequest) (*models.Member, error) {
	changes, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	var member models.Member
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, "id = ?", id).Error; err != nil {
			return notFound(err, ErrMemberNotFound)
		}
		if err := checkMemberUnique(tx, changes, id); err != nil {
			return err
		}

		member.Name = changes.Name
		member.NationalID = changes.NationalID
		member.BirthDate = changes.BirthDate
		member.Address = changes.Address
		member.Phone = changes.Phone
		member.Email = changes.Email
		member.PIN = changes.PIN

		if err := tx.Save(&member).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicate("national_id")
			}
			return fmt.Errorf("failed to update member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Get loads a member with its enrollment history, newest first.
func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date DESC, created_at DESC")
		}).
		Preload("Enrollments.Plan").
		Preload("Enrollments.Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at DESC")
		}).
		First(&member, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return &member, nil
}

// List returns one page of members ordered by name. A non-empty search term
// matches a case-insensitive name substring or an exact national ID.
func (s *MemberService) List(ctx context.Context, search string, page int) ([]models.Member, int64, error) {
	if page < 1 {
		page = 1
	}

	filter := func(db *gorm.DB) *gorm.DB { return db }
	if term := strings.TrimSpace(search); term != "" {
		filter = matchMember(term)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Member{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	var members []models.Member
	err := s.db.WithContext(ctx).Scopes(filter).
		Order("name ASC").
		Limit(MembersPerPage).
		Offset((page - 1) * MembersPerPage).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// Delete removes a member and everything the member owns in one transaction:
// enrollments, attendance events and workout assignments. A member whose
// enrollments carry any payment is refused with ErrMemberHasPayments.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.First(&member, "id = ?", id).Error; err != nil {
			return notFound(err, ErrMemberNotFound)
		}

		var enrollmentIDs []uuid.UUID
		if err := tx.Model(&models.Enrollment{}).Where("member_id = ?", id).Pluck("id", &enrollmentIDs).Error; err != nil {
			return err
		}
		if len(enrollmentIDs) > 0 {
			var payments int64
			if err := tx.Model(&models.Payment{}).Where("enrollment_id IN ?", enrollmentIDs).Count(&payments).Error; err != nil {
				return err
			}
			if payments > 0 {
				return ErrMemberHasPayments
			}
			if err := tx.Where("id IN ?", enrollmentIDs).Delete(&models.Enrollment{}).Error; err != nil {
				return fmt.Errorf("failed to delete enrollments: %w", err)
			}
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return fmt.Errorf("failed to delete attendance: %w", err)
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.WorkoutMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete workout assignments: %w", err)
		}
		return tx.Delete(&member).Error
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "member deleted", "member_id", id.String())
	return nil
}

func (s *MemberService) fromRequest(req *dto.MemberRequest) (*models.Member, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PIN = strings.TrimSpace(req.PIN)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	birth, err := clock.ParseDate(req.BirthDate)
	if err != nil {
		return nil, invalid("birth_date", "must be a date in YYYY-MM-DD format")
	}
	if birth.After(s.clock.Today()) {
		return nil, invalid("birth_date", "cannot be in the future")
	}

	member := &models.Member{
		Name:       req.Name,
		NationalID: req.NationalID,
		BirthDate:  datatypes.Date(birth),
		Address:    strings.TrimSpace(req.Address),
		Phone:      strings.TrimSpace(req.Phone),
		Email:      req.Email,
	}
	if req.PIN != "" {
		pin := req.PIN
		member.PIN = &pin
	}
	return member, nil
}

// checkMemberUnique rejects a national ID, email or PIN already used by a
// member other than self.
func checkMemberUnique(tx *gorm.DB, m *models.Member, self uuid.UUID) error {
	checks := []struct {
		field string
		value interface{}
		skip  bool
	}{
		{"national_id", m.NationalID, false},
		{"email", m.Email, false},
		{"pin", m.PIN, !m.HasPIN()},
	}
	for _, c := range checks {
		if c.skip {
			continue
		}
		var existing models.Member
		q := tx.Select("id").Where(c.field+" = ?", c.value)
		if self != uuid.Nil {
			q = q.Where("id <> ?", self)
		}
		err := q.First(&existing).Error
		if err == nil {
			return duplicate(c.field)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

// matchMember matches an exact national ID or a case-insensitive name
// substring.
func matchMember(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("national_id = ? OR "+nameContains, term, containsPattern(term))
	}
}

const nameContains = "LOWER(name) LIKE ? ESCAPE '\\'"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-case LIKE pattern matching term literally
// anywhere in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
