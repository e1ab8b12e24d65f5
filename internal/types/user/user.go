package user

import "time"

type LoginType string

const (
	LoginKakao  LoginType = "KAKAO"
	LoginApple  LoginType = "APPLE"
	LoginGoogle LoginType = "GOOGLE"
)

func (t LoginType) IsValid() bool {
	switch t {
	case LoginKakao, LoginApple, LoginGoogle:
		return true
	}
	return false
}

// LoginState tells the client which onboarding screen to show.
type LoginState string

const (
	StateNeedNickname LoginState = "NEED_NICKNAME"
	StateNeedMatching LoginState = "NEED_MATCHING"
	StateHome         LoginState = "HOME"
)

type User struct {
	UserNo      int64     `json:"userNo" db:"user_no"`
	SocialID    string    `json:"-" db:"social_id"`
	LoginType   LoginType `json:"-" db:"login_type"`
	Nickname    *string   `json:"nickname" db:"nickname"`
	PartnerNo   *int64    `json:"partnerNo" db:"partner_no"`
	DeviceToken string    `json:"-" db:"device_token"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Profile is the non-sensitive slice of a user handed to other surfaces.
type Profile struct {
	UserNo    int64   `json:"userNo"`
	Nickname  *string `json:"nickname"`
	PartnerNo *int64  `json:"partnerNo"`
}

func (u *User) Profile() Profile {
	return Profile{UserNo: u.UserNo, Nickname: u.Nickname, PartnerNo: u.PartnerNo}
}

// NicknameOrEmpty avoids nil checks at call sites that only render text.
func (u *User) NicknameOrEmpty() string {
	if u.Nickname == nil {
		return ""
	}
	return *u.Nickname
}
