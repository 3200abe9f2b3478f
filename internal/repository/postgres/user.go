package postgres

import (
	"context"

	"github.com/conduit-go/userstore/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository issues SQL against the accounts and followings tables. It is
// the only component allowed to do so, and it never lets a raw driver error
// past its boundary: every storage failure leaves as a model.AppError tagged
// with the use case that was being attempted.
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Save inserts a new account row and returns the generated id. The password
// and salt are stored as given; hashing happened upstream. Any failure,
// including a unique violation on email or username, is tagged with the
// registration use case.
func (r *UserRepository) Save(ctx context.Context, user model.User, password, salt string) (model.UserID, error) {
	query := `INSERT INTO accounts (email, username, password, salt)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query, user.Email, user.Username, password, salt).Scan(&id)
	if err != nil {
		return 0, model.NewAppError(model.UseCaseUserRegister, err)
	}

	return model.UserIDFrom(id), nil
}

// GetByEmail fetches the full account row by exact email match. The lookup is
// shared by several flows (login, registration conflict check), so the use
// case tag comes from the caller.
func (r *UserRepository) GetByEmail(ctx context.Context, email string, uc model.UseCase) (model.UserEntry, error) {
	var entry model.UserEntry
	var id int64
	query := `SELECT id, email, username, password, salt, bio, image
			  FROM accounts WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&id, &entry.Email, &entry.Username, &entry.Password, &entry.Salt,
		&entry.Bio, &entry.Image,
	)
	if err != nil {
		return model.UserEntry{}, model.NewAppError(uc, err)
	}
	entry.ID = model.UserIDFrom(id)

	return entry, nil
}

// GetByID fetches the account row by primary key. The select list omits the
// id column, so the returned entry's ID field stays zero.
func (r *UserRepository) GetByID(ctx context.Context, id model.UserID, uc model.UseCase) (model.UserEntry, error) {
	var entry model.UserEntry
	query := `SELECT email, username, password, salt, bio, image
			  FROM accounts WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id.Value()).Scan(
		&entry.Email, &entry.Username, &entry.Password, &entry.Salt,
		&entry.Bio, &entry.Image,
	)
	if err != nil {
		return model.UserEntry{}, model.NewAppError(uc, err)
	}

	return entry, nil
}

// GetProfileByUsername fetches the public profile for a username and enriches
// it with the ids that user follows. A failure of the followings lookup is
// not a failure of the profile lookup: the Following slice is simply left
// nil.
func (r *UserRepository) GetProfileByUsername(ctx context.Context, username string, uc model.UseCase) (model.ProfileDTO, error) {
	query := `SELECT id, bio, image FROM accounts WHERE username = $1`

	var userID int64
	dto := model.ProfileDTO{Username: username}
	err := r.db.QueryRow(ctx, query, username).Scan(&userID, &dto.Bio, &dto.Image)
	if err != nil {
		return model.ProfileDTO{}, model.NewAppError(uc, err)
	}

	if followings, err := r.getFollowings(ctx, userID); err == nil {
		dto.Following = followings
	}

	return dto, nil
}

func (r *UserRepository) getFollowings(ctx context.Context, userID int64) ([]model.UserID, error) {
	query := `SELECT followed_user_id FROM followings WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followings := make([]model.UserID, 0)
	for rows.Next() {
		var followedID int64
		if err := rows.Scan(&followedID); err != nil {
			return nil, err
		}
		followings = append(followings, model.UserIDFrom(followedID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return followings, nil
}

// UpdateByID overwrites the mutable account fields for the given id and
// returns the updated in-memory entry without re-fetching it. Fields left nil
// keep their stored value; at least one must be provided. The read and the
// write are two plain statements with no transaction around them, so
// concurrent updates to the same id race at the statement level.
func (r *UserRepository) UpdateByID(ctx context.Context, id model.UserID, email, bio, image *string) (model.UserEntry, error) {
	if email == nil && bio == nil && image == nil {
		return model.UserEntry{}, model.ErrInvalidInput
	}

	entry, err := r.GetByID(ctx, id, model.UseCaseUpdateUser)
	if err != nil {
		return model.UserEntry{}, err
	}

	if email != nil {
		entry.Email = *email
	}
	if bio != nil {
		entry.Bio = *bio
	}
	if image != nil {
		entry.Image = image
	}

	query := `UPDATE accounts SET email = $1, bio = $2, image = $3 WHERE id = $4`

	_, err = r.db.Exec(ctx, query, entry.Email, entry.Bio, entry.Image, id.Value())
	if err != nil {
		return model.UserEntry{}, model.NewAppError(model.UseCaseUpdateUser, err)
	}

	return entry, nil
}
