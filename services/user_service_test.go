package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"plantPactAPI/internal/apperr"
	"plantPactAPI/internal/types/user"
)

func TestSignUpIssuesToken(t *testing.T) {
	e := newEnv(t)

	auth, err := e.userSvc.SignUp(context.Background(), user.SignUpRequest{
		SocialID:  "kakao-123",
		LoginType: user.LoginKakao,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if auth.State != user.StateNeedNickname {
		t.Errorf("state = %s, want NEED_NICKNAME", auth.State)
	}
	if auth.UserNo != 1 {
		t.Errorf("userNo = %d, want 1", auth.UserNo)
	}

	token, err := jwt.Parse(auth.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return e.now }))
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if userNo, _ := claims["userNo"].(float64); int64(userNo) != auth.UserNo {
		t.Errorf("token userNo = %v, want %d", claims["userNo"], auth.UserNo)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("exp claim: %v", err)
	}
	if want := e.now.Add(90 * 24 * time.Hour); !exp.Time.Equal(want) {
		t.Errorf("exp = %v, want %v", exp.Time, want)
	}
}

func TestSignUpDuplicateSocialID(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := user.SignUpRequest{SocialID: "apple-9", LoginType: user.LoginApple}
	if _, err := e.userSvc.SignUp(ctx, req); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := e.userSvc.SignUp(ctx, req); !errors.Is(err, apperr.ErrSocialIDDuplicated) {
		t.Errorf("err = %v, want ErrSocialIDDuplicated", err)
	}

	// Same social id under a different provider is a distinct identity.
	if _, err := e.userSvc.SignUp(ctx, user.SignUpRequest{SocialID: "apple-9", LoginType: user.LoginGoogle}); err != nil {
		t.Errorf("other provider signup: %v", err)
	}
}

func TestSignInStateProgression(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := user.SignUpRequest{SocialID: "g-1", LoginType: user.LoginGoogle}
	signedUp, err := e.userSvc.SignUp(ctx, req)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	auth, err := e.userSvc.SignIn(ctx, req)
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if auth.State != user.StateNeedNickname {
		t.Errorf("state = %s, want NEED_NICKNAME", auth.State)
	}

	if _, err := e.userSvc.SetNickname(ctx, signedUp.UserNo, user.SetNicknameRequest{Nickname: "fern"}); err != nil {
		t.Fatalf("set nickname: %v", err)
	}
	auth, err = e.userSvc.SignIn(ctx, req)
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if auth.State != user.StateNeedMatching {
		t.Errorf("state = %s, want NEED_MATCHING", auth.State)
	}
}

func TestSetNicknameMatching(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	inviter, err := e.userSvc.SignUp(ctx, user.SignUpRequest{SocialID: "a", LoginType: user.LoginKakao})
	if err != nil {
		t.Fatalf("signup inviter: %v", err)
	}
	invitee, err := e.userSvc.SignUp(ctx, user.SignUpRequest{SocialID: "b", LoginType: user.LoginKakao})
	if err != nil {
		t.Fatalf("signup invitee: %v", err)
	}

	// The invitee cannot match an inviter who has no nickname yet.
	_, err = e.userSvc.SetNickname(ctx, invitee.UserNo, user.SetNicknameRequest{Nickname: "ivy", PartnerNo: &inviter.UserNo})
	if !errors.Is(err, apperr.ErrPartnerNotReady) {
		t.Fatalf("err = %v, want ErrPartnerNotReady", err)
	}

	if _, err := e.userSvc.SetNickname(ctx, inviter.UserNo, user.SetNicknameRequest{Nickname: "moss"}); err != nil {
		t.Fatalf("inviter nickname: %v", err)
	}
	matched, err := e.userSvc.SetNickname(ctx, invitee.UserNo, user.SetNicknameRequest{Nickname: "ivy", PartnerNo: &inviter.UserNo})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if matched.PartnerNo == nil || *matched.PartnerNo != inviter.UserNo {
		t.Errorf("invitee partnerNo = %v, want %d", matched.PartnerNo, inviter.UserNo)
	}

	// Both sides are linked.
	inviterUser, err := e.userSvc.Find(ctx, inviter.UserNo)
	if err != nil {
		t.Fatalf("find inviter: %v", err)
	}
	if inviterUser.PartnerNo == nil || *inviterUser.PartnerNo != invitee.UserNo {
		t.Errorf("inviter partnerNo = %v, want %d", inviterUser.PartnerNo, invitee.UserNo)
	}
}

func TestSetNicknameConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.userSvc.SetNickname(ctx, 1, user.SetNicknameRequest{Nickname: ""}); !errors.Is(err, apperr.ErrNicknameRequired) {
		t.Errorf("empty nickname err = %v, want ErrNicknameRequired", err)
	}

	e.addPair(t, 1, 2)
	e.addUser(t, 3, "third", nil)

	// Already matched users cannot re-run onboarding.
	if _, err := e.userSvc.SetNickname(ctx, 1, user.SetNicknameRequest{Nickname: "again"}); !errors.Is(err, apperr.ErrAlreadyMatched) {
		t.Errorf("matched err = %v, want ErrAlreadyMatched", err)
	}

	// Self-match and taken partners are rejected.
	self := int64(3)
	if _, err := e.userSvc.SetNickname(ctx, 3, user.SetNicknameRequest{Nickname: "me", PartnerNo: &self}); !errors.Is(err, apperr.ErrSelfMatch) {
		t.Errorf("self err = %v, want ErrSelfMatch", err)
	}
	taken := int64(2)
	if _, err := e.userSvc.SetNickname(ctx, 3, user.SetNicknameRequest{Nickname: "me", PartnerNo: &taken}); !errors.Is(err, apperr.ErrPartnerTaken) {
		t.Errorf("taken err = %v, want ErrPartnerTaken", err)
	}
}

func TestChangeNicknamePropagates(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	if _, err := e.userSvc.ChangeNickname(ctx, 1, "sprout"); err != nil {
		t.Fatalf("change nickname: %v", err)
	}

	got, err := e.challengeSvc.Find(ctx, ch.ChallengeNo)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.User1.Nickname != "sprout" {
		t.Errorf("snapshot nickname = %q, want sprout", got.User1.Nickname)
	}
}

func TestDeletePartnerDissolvesEverything(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ch := e.createApproved(t, 1, e.now)
	ctx := context.Background()

	if err := e.userSvc.DeletePartner(ctx, 1); err != nil {
		t.Fatalf("delete partner: %v", err)
	}

	u1, _ := e.userSvc.Find(ctx, 1)
	u2, _ := e.userSvc.Find(ctx, 2)
	if u1.PartnerNo != nil || u2.PartnerNo != nil {
		t.Error("both partner links should be cleared")
	}
	if u1.Nickname != nil || u2.Nickname != nil {
		t.Error("both nicknames should be cleared")
	}
	if _, err := e.challengeSvc.Find(ctx, ch.ChallengeNo); !errors.Is(err, apperr.ErrChallengeNotFound) {
		t.Errorf("challenge err = %v, want ErrChallengeNotFound", err)
	}
}

func TestDeleteAccountClearsPartnerSide(t *testing.T) {
	e := newEnv(t)
	e.addPair(t, 1, 2)
	ctx := context.Background()

	if err := e.userSvc.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := e.userSvc.Find(ctx, 1); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("deleted user err = %v, want ErrUserNotFound", err)
	}
	u2, err := e.userSvc.Find(ctx, 2)
	if err != nil {
		t.Fatalf("find survivor: %v", err)
	}
	if u2.PartnerNo != nil {
		t.Errorf("survivor partnerNo = %v, want nil", u2.PartnerNo)
	}
}
