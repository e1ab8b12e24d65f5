package memory

import (
	"context"
	"time"

	"plantPactAPI/internal/types/user"
	"plantPactAPI/services"
)

type UserStore struct{ s *Store }

var _ services.UserStore = (*UserStore)(nil)

func cloneUser(u *user.User) *user.User {
	cp := *u
	if u.Nickname != nil {
		n := *u.Nickname
		cp.Nickname = &n
	}
	if u.PartnerNo != nil {
		p := *u.PartnerNo
		cp.PartnerNo = &p
	}
	return &cp
}

func (r *UserStore) Insert(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.UserNo] = cloneUser(u)
	return nil
}

func (r *UserStore) FindByNo(_ context.Context, userNo int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userNo]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserStore) FindBySocial(_ context.Context, socialID string, loginType user.LoginType) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.SocialID == socialID && u.LoginType == loginType {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserStore) FindByPartnerNo(_ context.Context, userNo int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.PartnerNo != nil && *u.PartnerNo == userNo {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserStore) update(userNo int64, apply func(*user.User)) *user.User {
	u, ok := r.s.users[userNo]
	if !ok {
		return nil
	}
	apply(u)
	u.UpdatedAt = time.Now()
	return cloneUser(u)
}

func (r *UserStore) SetNickname(_ context.Context, userNo int64, nickname string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.update(userNo, func(u *user.User) { u.Nickname = &nickname }), nil
}

func (r *UserStore) SetNicknameAndPartner(_ context.Context, userNo int64, nickname string, partnerNo int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.update(userNo, func(u *user.User) {
		u.Nickname = &nickname
		u.PartnerNo = &partnerNo
	}), nil
}

func (r *UserStore) SetPartner(_ context.Context, userNo, partnerNo int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.update(userNo, func(u *user.User) { u.PartnerNo = &partnerNo }), nil
}

func (r *UserStore) SetDeviceToken(_ context.Context, userNo int64, deviceToken string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.update(userNo, func(u *user.User) { u.DeviceToken = deviceToken }), nil
}

func (r *UserStore) ClearPartnership(_ context.Context, userNos ...int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, no := range userNos {
		r.update(no, func(u *user.User) {
			u.Nickname = nil
			u.PartnerNo = nil
		})
	}
	return nil
}

func (r *UserStore) Delete(_ context.Context, userNo int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, userNo)
	return nil
}
