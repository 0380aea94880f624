package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/email"
	"github.com/stillpoint/studio/internal/models"
	"github.com/stillpoint/studio/internal/schedule"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyRegistered = errors.New("already registered for this class")
	ErrClassCancelled    = errors.New("class has been cancelled")
)

// PartialBatchError reports a weekly-creation loop that stopped partway.
// Created lists the instances persisted before the failure; they are not
// rolled back, the admin decides what to do with them.
type PartialBatchError struct {
	Created []models.Class
	Err     error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("weekly batch stopped after %d classes: %v", len(e.Created), e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }

// Service performs registration and class mutations against the injected
// database handle. Emails are best-effort: a delivery failure is logged
// and never fails the triggering operation.
type Service struct {
	db   *gorm.DB
	mail email.Sender
	loc  *time.Location
}

func NewService(db *gorm.DB, mail email.Sender, loc *time.Location) *Service {
	return &Service{db: db, mail: mail, loc: loc}
}

// Register creates a registration for (userID, classID). The existence
// check up front is a fast path over possibly-stale state; the unique
// (class_id, user_id) index is the authoritative guard, and a duplicate
// key on insert surfaces as ErrAlreadyRegistered too.
func (s *Service) Register(ctx context.Context, userID, classID uint, amount float64) (models.Registration, error) {
	var class models.Class
	if err := s.db.WithContext(ctx).First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Registration{}, ErrNotFound
		}
		return models.Registration{}, err
	}
	if class.IsCancelled {
		return models.Registration{}, ErrClassCancelled
	}

	var count int64
	s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("class_id = ? AND user_id = ?", classID, userID).
		Count(&count)
	if count > 0 {
		return models.Registration{}, ErrAlreadyRegistered
	}

	// No payment gateway is wired in; payment is an informal donation
	// link, so the status starts out completed.
	reg := models.Registration{
		ClassID:       classID,
		UserID:        userID,
		PaymentAmount: amount,
		PaymentStatus: "completed",
	}
	if err := s.db.WithContext(ctx).Create(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Registration{}, ErrAlreadyRegistered
		}
		return models.Registration{}, err
	}

	s.sendConfirmation(ctx, reg, class)
	return reg, nil
}

// Unregister deletes a registration. Deleting an id that no longer
// exists already achieved the desired end state, so it is not an error.
func (s *Service) Unregister(ctx context.Context, regID uint) error {
	return s.db.WithContext(ctx).Delete(&models.Registration{}, regID).Error
}

// CancelClass flips is_cancelled (one-way; there is no un-cancel) and
// emails every registrant. Registrations are kept so refund and contact
// workflows can still enumerate them.
func (s *Service) CancelClass(ctx context.Context, classID uint) (models.Class, error) {
	var class models.Class
	if err := s.db.WithContext(ctx).First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrNotFound
		}
		return models.Class{}, err
	}
	if class.IsCancelled {
		return class, nil
	}

	class.IsCancelled = true
	if err := s.db.WithContext(ctx).Save(&class).Error; err != nil {
		return models.Class{}, err
	}

	var regs []models.Registration
	if err := s.db.WithContext(ctx).Preload("User").
		Where("class_id = ?", classID).Find(&regs).Error; err != nil {
		log.Printf("booking: cancel notify: list registrants for class %d: %v", classID, err)
		return class, nil
	}

	var reqs []email.SendRequest
	for _, reg := range regs {
		if reg.User.Email == "" {
			continue
		}
		msg := email.ClassCancellation{
			UserName:      displayName(reg.User),
			ClassName:     class.Name,
			ClassDate:     class.StartTime.In(s.loc).Format("Monday, January 2, 2006"),
			ClassTime:     class.StartTime.In(s.loc).Format("3:04 PM"),
			Instructor:    class.Instructor,
			PaymentAmount: reg.PaymentAmount,
		}
		reqs = append(reqs, email.SendRequest{
			To:      []string{reg.User.Email},
			Subject: msg.Subject(),
			HTML:    msg.HTML(),
		})
	}
	if len(reqs) > 0 {
		if _, err := s.mail.SendBatch(ctx, reqs); err != nil {
			log.Printf("booking: cancel notify for class %d: %v", classID, err)
		}
	}
	return class, nil
}

// MarkPaymentClicked records which informal payment link the user
// followed. Last click wins; no history is kept, and payment_status is
// untouched because a click proves nothing about money moving.
func (s *Service) MarkPaymentClicked(ctx context.Context, regID uint, method string) error {
	var reg models.Registration
	if err := s.db.WithContext(ctx).First(&reg, regID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	reg.PaymentMethod = method
	reg.PaymentLinkClicked = true
	return s.db.WithContext(ctx).Save(&reg).Error
}

// CreateWeekly expands the template into weekly instances and persists
// them one by one. There is no multi-row transaction: on failure the
// classes created so far stay put and are reported via PartialBatchError.
func (s *Service) CreateWeekly(ctx context.Context, tpl schedule.Template, opts schedule.Options) ([]models.Class, error) {
	drafts, err := schedule.Generate(tpl, opts)
	if err != nil {
		return nil, err
	}

	created := make([]models.Class, 0, len(drafts))
	for _, d := range drafts {
		class := ClassFromDraft(d)
		if err := s.db.WithContext(ctx).Create(&class).Error; err != nil {
			return created, &PartialBatchError{Created: created, Err: err}
		}
		created = append(created, class)
	}
	return created, nil
}

// ClassFromDraft converts a generated draft into a persistable class,
// deriving the end time.
func ClassFromDraft(d schedule.Draft) models.Class {
	return models.Class{
		Name:             d.Name,
		BriefDescription: d.BriefDescription,
		FullDescription:  d.FullDescription,
		Instructor:       d.Instructor,
		Price:            d.Price,
		StartTime:        d.StartTime,
		EndTime:          d.StartTime.Add(schedule.Duration),
		WeeklyRepeat:     d.WeeklyRepeat,
	}
}

func (s *Service) sendConfirmation(ctx context.Context, reg models.Registration, class models.Class) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, reg.UserID).Error; err != nil {
		log.Printf("booking: confirmation email: load user %d: %v", reg.UserID, err)
		return
	}
	msg := email.RegistrationConfirmation{
		UserName:      displayName(user),
		ClassName:     class.Name,
		ClassDate:     class.StartTime.In(s.loc).Format("Monday, January 2, 2006"),
		ClassTime:     class.StartTime.In(s.loc).Format("3:04 PM"),
		Instructor:    class.Instructor,
		ClassLocation: "Main Studio",
		PaymentAmount: reg.PaymentAmount,
	}
	if _, err := s.mail.Send(ctx, email.SendRequest{
		To:      []string{user.Email},
		Subject: msg.Subject(),
		HTML:    msg.HTML(),
	}); err != nil {
		log.Printf("booking: confirmation email to %s: %v", user.Email, err)
	}
}

func displayName(u models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return "Valued Customer"
}
