// Package repository implements the database access layer for the messenger
// backend. This file handles groups and the user-group membership relation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/jonesmarquelle/messenger/internal/database"
	"github.com/jonesmarquelle/messenger/internal/models"
)

// GroupRepository handles group-related database operations: group lookup,
// creation, and membership mutation.
//
// Membership mutations are single atomic statements rather than
// read-modify-write cycles, so two concurrent add/remove requests on the
// same group cannot lose each other's update.
type GroupRepository struct {
	db database.DBInterface
}

// NewGroupRepository creates a new GroupRepository backed by the given pool.
func NewGroupRepository(db database.DBInterface) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByID retrieves a group with its member set populated.
//
// Returns ErrGroupNotFound if no group matches.
func (r *GroupRepository) FindByID(ctx context.Context, groupID int) (*models.GroupWithMembers, error) {
	query := `SELECT id, name, icon_url, created_at FROM groups WHERE id = $1`

	var group models.GroupWithMembers
	err := r.db.QueryRow(ctx, query, groupID).Scan(
		&group.ID, &group.Name, &group.IconURL, &group.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	members, err := r.members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return &group, nil
}

// GetMembers retrieves all users belonging to a group. A group with no
// members yields an empty slice; a missing group yields ErrGroupNotFound.
func (r *GroupRepository) GetMembers(ctx context.Context, groupID int) ([]models.User, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	return r.members(ctx, groupID)
}

// members fetches the member rows without the existence check.
func (r *GroupRepository) members(ctx context.Context, groupID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.avatar_url, u.created_at
		FROM users u
		JOIN group_members gm ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.username
	`

	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, u)
	}

	return members, rows.Err()
}

// Create inserts a new group whose sole initial member is the creator.
// Both writes happen in one transaction, so a failed membership insert
// (e.g. unknown creator id) leaves no orphan group behind.
//
// Side Effects: populates group.ID and group.CreatedAt.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group, creatorID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO groups (name, icon_url)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, group.Name, group.IconURL).Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
	`, group.ID, creatorID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AddMember adds a user to a group as a single atomic insert.
// Duplicate additions are deduplicated by the composite primary key and
// ignored via ON CONFLICT, so the operation is idempotent.
func (r *GroupRepository) AddMember(ctx context.Context, groupID int, userID string) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, groupID, userID)
	return err
}

// RemoveMember removes a user from a group. Removing a user who is not a
// member is a no-op, not an error.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID int, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, groupID, userID)
	return err
}

// SetMembers replaces a group's entire member set with the given ids.
// The group row is locked for the duration of the transaction, so concurrent
// replacements serialize instead of clobbering each other. Input ids are
// deduplicated before insertion.
//
// Returns ErrGroupNotFound if the group does not exist.
func (r *GroupRepository) SetMembers(ctx context.Context, groupID int, userIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `SELECT id FROM groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrGroupNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1`, groupID); err != nil {
		return err
	}

	unique := lo.Uniq(userIDs)
	if len(unique) > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id)
			SELECT $1, unnest($2::text[])
		`, groupID, unique)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByUser retrieves every group the user belongs to, each paired with its
// single most recent message (highest per-group sequence number). Groups with
// no history have a nil LatestMessage. The single-message preview keeps the
// sidebar query from dragging full histories across the wire.
//
// Returns ErrUserNotFound if the user does not exist.
func (r *GroupRepository) ListByUser(ctx context.Context, userID string) ([]models.GroupWithLatest, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	query := `
		SELECT g.id, g.name, g.icon_url, g.created_at,
		       m.message_id, m.user_id, m.sender_name, m.message, m.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		LEFT JOIN LATERAL (
			SELECT message_id, user_id, sender_name, message, created_at
			FROM messages
			WHERE group_id = g.id
			ORDER BY message_id DESC
			LIMIT 1
		) m ON true
		WHERE gm.user_id = $1
		ORDER BY g.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []models.GroupWithLatest{}
	for rows.Next() {
		var g models.GroupWithLatest
		var (
			messageID  *int
			senderID   *string
			senderName *string
			body       *string
			sentAt     *time.Time
		)

		err := rows.Scan(
			&g.ID, &g.Name, &g.IconURL, &g.CreatedAt,
			&messageID, &senderID, &senderName, &body, &sentAt,
		)
		if err != nil {
			return nil, err
		}

		if messageID != nil {
			g.LatestMessage = &models.Message{
				MessageID:  *messageID,
				GroupID:    g.ID,
				UserID:     *senderID,
				SenderName: *senderName,
				Body:       *body,
				CreatedAt:  *sentAt,
			}
		}

		groups = append(groups, g)
	}

	return groups, rows.Err()
}
