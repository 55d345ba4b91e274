package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository"
	"codetrek/internal/platform/logger"
)

const maxTopicsLength = 255

type ProfileService struct {
	profiles repository.ProfileRepository
	log      *logger.Logger
}

func NewProfileService(profiles repository.ProfileRepository, log *logger.Logger) *ProfileService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileService{profiles: profiles, log: log.With("service", "ProfileService")}
}

// UpdateProfileRequest carries the editable fields. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Bio               *string `json:"bio"`
	PreferredLanguage *string `json:"preferred_language"`
	PreferredTopics   *string `json:"preferred_topics"`
}

func (r UpdateProfileRequest) Validate() error {
	v := &common.ValidationError{}
	if r.PreferredLanguage != nil {
		lang := strings.TrimSpace(*r.PreferredLanguage)
		switch {
		case lang == "":
			v.Add("preferred_language", "This field may not be blank.")
		case utf8.RuneCountInString(lang) > model.MaxLanguageLength:
			v.Add("preferred_language", fmt.Sprintf("Ensure this field has no more than %d characters.", model.MaxLanguageLength))
		}
	}
	if r.PreferredTopics != nil && utf8.RuneCountInString(*r.PreferredTopics) > maxTopicsLength {
		v.Add("preferred_topics", fmt.Sprintf("Ensure this field has no more than %d characters.", maxTopicsLength))
	}
	return v.OrNil()
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile for user %s: %w", userID, err)
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*model.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile for user %s: %w", userID, err)
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.PreferredLanguage != nil {
		p.PreferredLanguage = strings.TrimSpace(*req.PreferredLanguage)
	}
	if req.PreferredTopics != nil {
		p.PreferredTopics = req.PreferredTopics
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.log.Debug("Profile updated", "user_id", userID)
	return p, nil
}
