package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"opphub/internal/authz"
	"opphub/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindCommunityAdmins(ctx context.Context, communityID int64) ([]models.User, error)
	FindGlobalAdmins(ctx context.Context) ([]models.User, error)
	SetTelegramChatID(ctx context.Context, userID, chatID int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role_id, bounced, disabled,
       agency, telegram_chat_id, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	agency, err := marshalAgency(user.Agency)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role_id, bounced, disabled, agency, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.RoleID, user.Bounced, user.Disabled, agency,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// FindCommunityAdmins returns the managers of a community, for the
// submitted-for-review notification fan-out.
func (r *userRepository) FindCommunityAdmins(ctx context.Context, communityID int64) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role_id, u.bounced, u.disabled,
		       u.agency, u.telegram_chat_id, u.created_at, u.updated_at
		FROM users u
		JOIN community_users cu ON cu.user_id = u.id
		WHERE cu.community_id = $1 AND cu.is_manager = true AND u.disabled = false
		ORDER BY u.id`, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) FindGlobalAdmins(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role_id = $1 AND disabled = false
		ORDER BY id`, authz.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) SetTelegramChatID(ctx context.Context, userID, chatID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_chat_id=$1, updated_at=NOW() WHERE id=$2`, chatID, userID)
	return err
}

func marshalAgency(agency *models.Agency) ([]byte, error) {
	if agency == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(agency)
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var agency []byte
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Bounced, &u.Disabled,
		&agency, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalAgency(agency, u); err != nil {
		return nil, err
	}
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var u models.User
		var agency []byte
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Bounced, &u.Disabled,
			&agency, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalAgency(agency, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func unmarshalAgency(raw []byte, u *models.User) error {
	if len(raw) == 0 || string(raw) == "{}" {
		return nil
	}
	var a models.Agency
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	u.Agency = &a
	return nil
}
