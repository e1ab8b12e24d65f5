package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/sequence"
	"plantPactAPI/internal/types/user"
	"plantPactAPI/utils"
)

const seqKeyUser = "userNo"

// tokenTTL is long on purpose; social-login apps re-auth through the
// provider, not through short-lived refresh cycles.
const tokenTTL = 90 * 24 * time.Hour

type UserService struct {
	users      UserStore
	challenges *ChallengeService
	seq        *sequence.Allocator
	jwtSecret  []byte
	now        func() time.Time
}

func NewUserService(users UserStore, challenges *ChallengeService, seq *sequence.Allocator, jwtSecret string) *UserService {
	return &UserService{
		users:      users,
		challenges: challenges,
		seq:        seq,
		jwtSecret:  []byte(jwtSecret),
		now:        time.Now,
	}
}

// SignUp registers a social identity and returns a signed token. Signing up
// twice with the same identity is a conflict; clients should call SignIn.
func (s *UserService) SignUp(ctx context.Context, req user.SignUpRequest) (*user.AuthResponse, error) {
	if !req.LoginType.IsValid() {
		return nil, apperr.BadRequest("INVALID_LOGIN_TYPE", "unsupported login type")
	}

	existing, err := s.users.FindBySocial(ctx, req.SocialID, req.LoginType)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if existing != nil {
		return nil, apperr.ErrSocialIDDuplicated
	}

	userNo, err := s.seq.Next(ctx, seqKeyUser)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &user.User{
		UserNo:      userNo,
		SocialID:    req.SocialID,
		LoginType:   req.LoginType,
		DeviceToken: req.DeviceToken,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, apperr.Fatal("USER_CREATE_FAILED", "failed to create user", err)
	}

	utils.Log.Infow("signed up user", "userNo", userNo, "loginType", req.LoginType)
	return s.authResponse(u)
}

// SignIn authenticates an existing social identity and refreshes the device
// token when the client sends a new one.
func (s *UserService) SignIn(ctx context.Context, req user.SignUpRequest) (*user.AuthResponse, error) {
	u, err := s.users.FindBySocial(ctx, req.SocialID, req.LoginType)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if u == nil {
		return nil, apperr.ErrUserNotFound
	}

	if req.DeviceToken != "" && req.DeviceToken != u.DeviceToken {
		if u, err = s.users.SetDeviceToken(ctx, u.UserNo, req.DeviceToken); err != nil {
			return nil, apperr.Fatal("USER_UPDATE_FAILED", "failed to update device token", err)
		}
	}

	return s.authResponse(u)
}

func (s *UserService) authResponse(u *user.User) (*user.AuthResponse, error) {
	token, err := s.issueToken(u.UserNo)
	if err != nil {
		return nil, apperr.Fatal("TOKEN_SIGN_FAILED", "failed to sign token", err)
	}
	return &user.AuthResponse{
		UserNo:      u.UserNo,
		Nickname:    u.Nickname,
		PartnerNo:   u.PartnerNo,
		AccessToken: token,
		State:       loginState(u),
	}, nil
}

func (s *UserService) issueToken(userNo int64) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"userNo": userNo,
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// loginState picks the onboarding screen: nickname first, then matching,
// then home.
func loginState(u *user.User) user.LoginState {
	switch {
	case u.Nickname == nil:
		return user.StateNeedNickname
	case u.PartnerNo == nil:
		return user.StateNeedMatching
	default:
		return user.StateHome
	}
}

func (s *UserService) Find(ctx context.Context, userNo int64) (*user.User, error) {
	u, err := s.users.FindByNo(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up user", err)
	}
	if u == nil {
		return nil, apperr.ErrUserNotFound
	}
	return u, nil
}

// CheckPartner reports whether someone has matched against userNo, and who.
func (s *UserService) CheckPartner(ctx context.Context, userNo int64) (*user.User, error) {
	u, err := s.Find(ctx, userNo)
	if err != nil {
		return nil, err
	}
	if u.PartnerNo != nil {
		return s.Find(ctx, *u.PartnerNo)
	}

	partner, err := s.users.FindByPartnerNo(ctx, userNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up partner", err)
	}
	if partner == nil {
		return nil, apperr.ErrPartnerNotMatched
	}
	return partner, nil
}

// SetNickname handles both onboarding shapes. Without a partnerNo it only
// names the caller; with one it also forms the partnership, linking both
// sides in a single pass.
func (s *UserService) SetNickname(ctx context.Context, userNo int64, req user.SetNicknameRequest) (*user.User, error) {
	if req.Nickname == "" {
		return nil, apperr.ErrNicknameRequired
	}

	u, err := s.Find(ctx, userNo)
	if err != nil {
		return nil, err
	}
	if u.PartnerNo != nil {
		return nil, apperr.ErrAlreadyMatched
	}

	if req.PartnerNo == nil {
		updated, err := s.users.SetNickname(ctx, userNo, req.Nickname)
		if err != nil {
			return nil, apperr.Fatal("USER_UPDATE_FAILED", "failed to set nickname", err)
		}
		if updated == nil {
			return nil, apperr.ErrUserNotFound
		}
		return updated, nil
	}

	if *req.PartnerNo == userNo {
		return nil, apperr.ErrSelfMatch
	}
	partner, err := s.users.FindByNo(ctx, *req.PartnerNo)
	if err != nil {
		return nil, apperr.Fatal("USER_LOOKUP_FAILED", "failed to look up partner", err)
	}
	if partner == nil {
		return nil, apperr.ErrUserNotFound
	}
	if partner.Nickname == nil {
		return nil, apperr.ErrPartnerNotReady
	}
	if partner.PartnerNo != nil && *partner.PartnerNo != userNo {
		return nil, apperr.ErrPartnerTaken
	}

	updated, err := s.users.SetNicknameAndPartner(ctx, userNo, req.Nickname, partner.UserNo)
	if err != nil {
		return nil, apperr.Fatal("USER_UPDATE_FAILED", "failed to set nickname", err)
	}
	if updated == nil {
		return nil, apperr.ErrUserNotFound
	}
	if _, err := s.users.SetPartner(ctx, partner.UserNo, userNo); err != nil {
		return nil, apperr.Fatal("USER_UPDATE_FAILED", "failed to link partner", err)
	}

	utils.Log.Infow("matched partners", "userNo", userNo, "partnerNo", partner.UserNo)
	return updated, nil
}

// ChangeNickname renames the user and rewrites the denormalized participant
// snapshots on their challenges.
func (s *UserService) ChangeNickname(ctx context.Context, userNo int64, nickname string) (*user.User, error) {
	if nickname == "" {
		return nil, apperr.ErrNicknameRequired
	}

	updated, err := s.users.SetNickname(ctx, userNo, nickname)
	if err != nil {
		return nil, apperr.Fatal("USER_UPDATE_FAILED", "failed to set nickname", err)
	}
	if updated == nil {
		return nil, apperr.ErrUserNotFound
	}

	if err := s.challenges.challenges.PropagateNickname(ctx, userNo, nickname); err != nil {
		return nil, apperr.Fatal("CHALLENGE_UPDATE_FAILED", "failed to propagate nickname", err)
	}
	return updated, nil
}

func (s *UserService) UpdateDeviceToken(ctx context.Context, userNo int64, deviceToken string) (*user.User, error) {
	updated, err := s.users.SetDeviceToken(ctx, userNo, deviceToken)
	if err != nil {
		return nil, apperr.Fatal("USER_UPDATE_FAILED", "failed to update device token", err)
	}
	if updated == nil {
		return nil, apperr.ErrUserNotFound
	}
	return updated, nil
}

// PartnerDeviceToken resolves the push target for the caller's partner.
func (s *UserService) PartnerDeviceToken(ctx context.Context, userNo int64) (string, error) {
	u, err := s.Find(ctx, userNo)
	if err != nil {
		return "", err
	}
	if u.PartnerNo == nil {
		return "", apperr.ErrPartnerNotMatched
	}
	partner, err := s.Find(ctx, *u.PartnerNo)
	if err != nil {
		return "", err
	}
	if partner.DeviceToken == "" {
		return "", apperr.ErrDeviceTokenMissing
	}
	return partner.DeviceToken, nil
}

// DeletePartner dissolves the partnership: both users lose their nickname
// and link, and every shared challenge is soft-deleted.
func (s *UserService) DeletePartner(ctx context.Context, userNo int64) error {
	u, err := s.Find(ctx, userNo)
	if err != nil {
		return err
	}
	if u.PartnerNo == nil {
		return apperr.ErrPartnerNotMatched
	}

	if err := s.users.ClearPartnership(ctx, userNo, *u.PartnerNo); err != nil {
		return apperr.Fatal("USER_UPDATE_FAILED", "failed to clear partnership", err)
	}
	if err := s.challenges.DeleteAllForUser(ctx, userNo); err != nil {
		return err
	}

	utils.Log.Infow("dissolved partnership", "userNo", userNo, "partnerNo", *u.PartnerNo)
	return nil
}

// Delete removes the account. An existing partnership is dissolved first so
// the other side is never left pointing at a dead userNo.
func (s *UserService) Delete(ctx context.Context, userNo int64) error {
	u, err := s.Find(ctx, userNo)
	if err != nil {
		return err
	}
	if u.PartnerNo != nil {
		if err := s.DeletePartner(ctx, userNo); err != nil {
			return err
		}
	}
	if err := s.users.Delete(ctx, userNo); err != nil {
		return apperr.Fatal("USER_DELETE_FAILED", "failed to delete user", err)
	}

	utils.Log.Infow("deleted user", "userNo", userNo)
	return nil
}
