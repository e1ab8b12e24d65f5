package user

type SignUpRequest struct {
	SocialID    string    `json:"socialId"`
	LoginType   LoginType `json:"loginType"`
	DeviceToken string    `json:"deviceToken"`
}

type AuthResponse struct {
	UserNo      int64      `json:"userNo"`
	Nickname    *string    `json:"nickname"`
	PartnerNo   *int64     `json:"partnerNo"`
	AccessToken string     `json:"accessToken"`
	State       LoginState `json:"state"`
}

// SetNicknameRequest covers both onboarding shapes: the inviter sets only a
// nickname, the invitee sets a nickname plus the inviter's userNo to match.
type SetNicknameRequest struct {
	Nickname  string `json:"nickname"`
	PartnerNo *int64 `json:"partnerNo,omitempty"`
}

type ChangeNicknameRequest struct {
	Nickname string `json:"nickname"`
}

type UpdateDeviceTokenRequest struct {
	DeviceToken string `json:"deviceToken"`
}
