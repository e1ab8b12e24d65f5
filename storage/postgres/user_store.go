package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantPactAPI/internal/types/user"
	"plantPactAPI/services"
)

type UserStore struct {
	pool *pgxpool.Pool
}

var _ services.UserStore = (*UserStore)(nil)

const userColumns = `user_no, social_id, login_type, nickname, partner_no,
	device_token, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.UserNo, &u.SocialID, &u.LoginType, &u.Nickname, &u.PartnerNo,
		&u.DeviceToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserStore) Insert(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.UserNo, u.SocialID, u.LoginType, u.Nickname, u.PartnerNo,
		u.DeviceToken, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *UserStore) FindByNo(ctx context.Context, userNo int64) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE user_no = $1`, userNo))
}

func (r *UserStore) FindBySocial(ctx context.Context, socialID string, loginType user.LoginType) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE social_id = $1 AND login_type = $2`, socialID, loginType))
}

func (r *UserStore) FindByPartnerNo(ctx context.Context, userNo int64) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE partner_no = $1
		LIMIT 1`, userNo))
}

func (r *UserStore) SetNickname(ctx context.Context, userNo int64, nickname string) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET nickname = $2, updated_at = now()
		WHERE user_no = $1
		RETURNING `+userColumns, userNo, nickname))
}

func (r *UserStore) SetNicknameAndPartner(ctx context.Context, userNo int64, nickname string, partnerNo int64) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET nickname = $2, partner_no = $3, updated_at = now()
		WHERE user_no = $1
		RETURNING `+userColumns, userNo, nickname, partnerNo))
}

func (r *UserStore) SetPartner(ctx context.Context, userNo, partnerNo int64) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET partner_no = $2, updated_at = now()
		WHERE user_no = $1
		RETURNING `+userColumns, userNo, partnerNo))
}

func (r *UserStore) SetDeviceToken(ctx context.Context, userNo int64, deviceToken string) (*user.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET device_token = $2, updated_at = now()
		WHERE user_no = $1
		RETURNING `+userColumns, userNo, deviceToken))
}

func (r *UserStore) ClearPartnership(ctx context.Context, userNos ...int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET nickname = NULL, partner_no = NULL, updated_at = now()
		WHERE user_no = ANY($1)`, userNos)
	return err
}

func (r *UserStore) Delete(ctx context.Context, userNo int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_no = $1`, userNo)
	return err
}
